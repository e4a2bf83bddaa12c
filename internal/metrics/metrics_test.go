package metrics

import (
    "testing"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/testutil"
    "github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
    reg := prometheus.NewRegistry()
    m := New(reg)

    m.EventPublished("tweet-event", OutcomeSuccess)
    m.EventPublished("tweet-event", OutcomeSuccess)
    m.EventPublished("reply-event", OutcomeFailure)
    m.RecordProcessed("reply-event", OutcomeDiscarded)
    m.MutationApplied("like", OutcomeConflict)
    m.ObserveHandleDuration("tweet-event", 20*time.Millisecond)

    require.Equal(t, 2.0, testutil.ToFloat64(m.EventsPublished().WithLabelValues("tweet-event", OutcomeSuccess)))
    require.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished().WithLabelValues("reply-event", OutcomeFailure)))
    require.Equal(t, 1.0, testutil.ToFloat64(m.RecordsProcessed().WithLabelValues("reply-event", OutcomeDiscarded)))
    require.Equal(t, 1.0, testutil.ToFloat64(m.Mutations().WithLabelValues("like", OutcomeConflict)))

    count, err := testutil.GatherAndCount(reg, "tweetapp_record_handle_duration_seconds")
    require.NoError(t, err)
    require.Equal(t, 1, count)
}

func TestNewNop_DoesNotTouchDefaultRegistry(t *testing.T) {
    require.NotPanics(t, func() {
        NewNop()
        NewNop()
    })
}
