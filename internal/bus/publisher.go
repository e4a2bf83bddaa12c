package bus

import (
    "context"
    "fmt"
    "log/slog"
    "time"

    "github.com/walletera/tweet-app/internal/metrics"
    "github.com/walletera/tweet-app/pkg/logattr"
    "github.com/walletera/tweet-app/pkg/tweetevents"

    "github.com/walletera/eventskit/events"
)

const defaultConfirmTimeout = 30 * time.Second

type Publisher struct {
    transport      Transport
    partitioner    *Partitioner
    logger         *slog.Logger
    metrics        *metrics.Metrics
    confirmTimeout time.Duration
    eventSource    string
}

type PublisherOpt func(p *Publisher)

func WithConfirmTimeout(timeout time.Duration) PublisherOpt {
    return func(p *Publisher) {
        if timeout > 0 {
            p.confirmTimeout = timeout
        }
    }
}

func WithPublisherMetrics(metrics *metrics.Metrics) PublisherOpt {
    return func(p *Publisher) { p.metrics = metrics }
}

func NewPublisher(transport Transport, logger *slog.Logger, opts ...PublisherOpt) *Publisher {
    p := &Publisher{
        transport:      transport,
        partitioner:    NewPartitioner(),
        logger:         logger,
        metrics:        metrics.NewNop(),
        confirmTimeout: defaultConfirmTimeout,
        eventSource:    tweetevents.EventSource,
    }
    for _, opt := range opts {
        opt(p)
    }
    return p
}

func (p *Publisher) PublishTweetEvent(ctx context.Context, event tweetevents.TweetEvent) *PendingResult {
    return p.Publish(ctx, tweetevents.TweetEventTopic, event.Id, event)
}

func (p *Publisher) PublishReplyEvent(ctx context.Context, event tweetevents.ReplyEvent) *PendingResult {
    return p.Publish(ctx, tweetevents.ReplyEventTopic, event.Id, event)
}

// Publish serializes data and hands it to the transport. It returns as soon as the
// record is written; the broker confirmation is awaited on a separate goroutine.
// Failures are logged and reported through the returned PendingResult only.
func (p *Publisher) Publish(ctx context.Context, topic string, key string, data events.EventData) *PendingResult {
    pending := newPendingResult()

    partitions, ok := p.transport.Topology().PartitionCount(topic)
    if !ok {
        p.handleFailure(pending, &TransportError{Topic: topic, Key: key, Cause: fmt.Errorf("unknown topic %s", topic)})
        return pending
    }

    value, err := data.Serialize()
    if err != nil {
        p.handleFailure(pending, &SerializationError{Topic: topic, Cause: err})
        return pending
    }

    record := Record{
        Topic:     topic,
        Partition: p.partitioner.Partition(topic, key, partitions),
        Key:       key,
        Headers:   map[string]string{tweetevents.EventSourceHeader: p.eventSource},
        Value:     value,
    }

    p.logger.Debug(
        "sending event",
        logattr.Topic(topic),
        logattr.Key(key),
        logattr.EventType(data.Type()),
        logattr.CorrelationId(data.CorrelationID()),
    )

    confirmation, err := p.transport.Send(ctx, record)
    if err != nil {
        p.handleFailure(pending, p.transportError(record, err))
        return pending
    }

    go p.awaitConfirmation(pending, record, confirmation)

    return pending
}

func (p *Publisher) awaitConfirmation(pending *PendingResult, record Record, confirmation Confirmation) {
    ctx, cancel := context.WithTimeout(context.Background(), p.confirmTimeout)
    defer cancel()

    err := confirmation.Wait(ctx)
    if err != nil {
        p.handleFailure(pending, p.transportError(record, err))
        return
    }
    p.handleSuccess(pending, record)
}

func (p *Publisher) handleSuccess(pending *PendingResult, record Record) {
    p.logger.Info(
        "event sent successfully",
        logattr.Topic(record.Topic),
        logattr.Partition(record.Partition),
        logattr.Key(record.Key),
    )
    p.metrics.EventPublished(record.Topic, metrics.OutcomeSuccess)
    pending.complete(SendResult{Topic: record.Topic, Partition: record.Partition, Key: record.Key}, nil)
}

func (p *Publisher) handleFailure(pending *PendingResult, err error) {
    var topic string
    switch e := err.(type) {
    case *TransportError:
        topic = e.Topic
    case *SerializationError:
        topic = e.Topic
    }
    p.logger.Error(
        "failed sending event",
        logattr.Topic(topic),
        logattr.Error(err.Error()),
    )
    p.metrics.EventPublished(topic, metrics.OutcomeFailure)
    pending.complete(SendResult{}, err)
}

func (p *Publisher) transportError(record Record, cause error) *TransportError {
    return &TransportError{
        Topic:     record.Topic,
        Partition: record.Partition,
        Key:       record.Key,
        Cause:     cause,
    }
}

func (p *Publisher) Close() error {
    return p.transport.Close()
}
