// Package metrics holds the Prometheus collectors shared by the publisher,
// the dispatcher and the tweet mutator.
package metrics

import (
    "time"

    "github.com/prometheus/client_golang/prometheus"
)

const (
    OutcomeSuccess   = "success"
    OutcomeFailure   = "failure"
    OutcomeDiscarded = "discarded"
    OutcomeConflict  = "conflict"
)

var defaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

type Metrics struct {
    eventsPublished *prometheus.CounterVec
    recordsHandled  *prometheus.CounterVec
    handleDuration  *prometheus.HistogramVec
    mutations       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
    m := &Metrics{
        eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
            Name: "tweetapp_events_published_total",
            Help: "Events handed to the bus, by delivery outcome",
        }, []string{"topic", "outcome"}),

        recordsHandled: prometheus.NewCounterVec(prometheus.CounterOpts{
            Name: "tweetapp_records_processed_total",
            Help: "Records consumed from the bus, by processing outcome",
        }, []string{"topic", "outcome"}),

        handleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
            Name:    "tweetapp_record_handle_duration_seconds",
            Help:    "Time spent applying a consumed record",
            Buckets: defaultBuckets,
        }, []string{"topic"}),

        mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
            Name: "tweetapp_mutations_total",
            Help: "Tweet aggregate mutations, by kind and outcome",
        }, []string{"kind", "outcome"}),
    }

    reg.MustRegister(
        m.eventsPublished,
        m.recordsHandled,
        m.handleDuration,
        m.mutations,
    )

    return m
}

// NewNop returns metrics registered on a private registry nobody scrapes.
func NewNop() *Metrics {
    return New(prometheus.NewRegistry())
}

func (m *Metrics) EventPublished(topic string, outcome string) {
    m.eventsPublished.WithLabelValues(topic, outcome).Inc()
}

func (m *Metrics) RecordProcessed(topic string, outcome string) {
    m.recordsHandled.WithLabelValues(topic, outcome).Inc()
}

func (m *Metrics) ObserveHandleDuration(topic string, elapsed time.Duration) {
    m.handleDuration.WithLabelValues(topic).Observe(elapsed.Seconds())
}

func (m *Metrics) MutationApplied(kind string, outcome string) {
    m.mutations.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) EventsPublished() *prometheus.CounterVec {
    return m.eventsPublished
}

func (m *Metrics) RecordsProcessed() *prometheus.CounterVec {
    return m.recordsHandled
}

func (m *Metrics) Mutations() *prometheus.CounterVec {
    return m.mutations
}
