package dispatcher

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/walletera/tweet-app/internal/metrics"

    "github.com/walletera/eventskit/events"
    "github.com/walletera/eventskit/messages"
    "github.com/walletera/werrors"
)

// Dispatcher consumes the partitions of one topic. Each partition gets its own
// worker loop which handles records one at a time, in delivery order; different
// partitions are processed concurrently. A record is acked only after its handler
// returned successfully.
type Dispatcher[Handler any] struct {
    topic              string
    consumers          []messages.Consumer
    eventsDeserializer events.Deserializer[Handler]
    eventsHandler      Handler
    opts               Opts
    workers            sync.WaitGroup
    stopped            chan struct{}
}

func New[Handler any](
    topic string,
    consumers []messages.Consumer,
    eventsDeserializer events.Deserializer[Handler],
    eventsHandler Handler,
    customOpts ...Opt,
) *Dispatcher[Handler] {

    opts := defaultOpts
    applyCustomOpts(&opts, customOpts)

    return &Dispatcher[Handler]{
        topic:              topic,
        consumers:          consumers,
        eventsDeserializer: eventsDeserializer,
        eventsHandler:      eventsHandler,
        opts:               opts,
        stopped:            make(chan struct{}),
    }
}

func (d *Dispatcher[Handler]) Topic() string {
    return d.topic
}

func (d *Dispatcher[Handler]) Consumers() []messages.Consumer {
    return d.consumers
}

// Start begins consuming every partition. When ctx is done the workers stop taking
// records, finish the one in hand, and only then are the consumers closed, so the
// last acknowledgments reach the broker.
func (d *Dispatcher[Handler]) Start(ctx context.Context) error {
    channels := make([]<-chan messages.Message, 0, len(d.consumers))
    for partition, consumer := range d.consumers {
        msgCh, err := consumer.Consume()
        if err != nil {
            d.closeConsumers()
            close(d.stopped)
            return fmt.Errorf("failed consuming partition %d of %s: %w", partition, d.topic, err)
        }
        channels = append(channels, msgCh)
    }
    for _, msgCh := range channels {
        d.workers.Add(1)
        go d.processMsgs(ctx, msgCh)
    }
    go func() {
        d.workers.Wait()
        d.closeConsumers()
        close(d.stopped)
    }()
    return nil
}

// Wait blocks until every worker loop has settled its current record and the
// consumers are closed. It must be called after Start.
func (d *Dispatcher[Handler]) Wait() {
    <-d.stopped
}

func (d *Dispatcher[Handler]) closeConsumers() {
    for _, consumer := range d.consumers {
        err := consumer.Close()
        if err != nil {
            d.opts.errorCallback(werrors.NewRetryableInternalError("failed closing message consumer: " + err.Error()))
        }
    }
}

func (d *Dispatcher[Handler]) processMsgs(ctx context.Context, ch <-chan messages.Message) {
    defer d.workers.Done()
    for {
        select {
        case <-ctx.Done():
            return
        case msg, ok := <-ch:
            if !ok {
                return
            }
            // left unsettled, the broker redelivers it once the consumer closes
            if ctx.Err() != nil {
                return
            }
            d.processMsg(ctx, msg)
        }
    }
}

func (d *Dispatcher[Handler]) processMsg(ctx context.Context, message messages.Message) {
    start := time.Now()
    defer func() {
        d.opts.metrics.ObserveHandleDuration(d.topic, time.Since(start))
    }()

    event, err := d.eventsDeserializer.Deserialize(message.Payload())
    if err != nil {
        d.handleError(message, werrors.NewUnprocessableMessageError(err.Error()))
        return
    }
    if event == nil {
        d.ack(message, metrics.OutcomeDiscarded)
        return
    }

    // The handler runs detached from ctx cancellation: a record that started
    // is applied or fails on its own, only the processing timeout bounds it.
    handlerCtx := context.WithoutCancel(ctx)
    if d.opts.processingTimeout > 0 {
        var cancel context.CancelFunc
        handlerCtx, cancel = context.WithTimeout(handlerCtx, d.opts.processingTimeout)
        defer cancel()
    }

    processingErr := event.Accept(handlerCtx, d.eventsHandler)
    if processingErr != nil {
        if errors.Is(handlerCtx.Err(), context.DeadlineExceeded) {
            processingErr = werrors.NewTimeoutError(fmt.Sprintf("processing %s record timed out: %s", d.topic, processingErr.Message()))
        }
        d.handleError(message, processingErr)
        return
    }
    d.ack(message, metrics.OutcomeSuccess)
}

func (d *Dispatcher[Handler]) ack(message messages.Message, outcome string) {
    err := message.Acknowledger().Ack()
    if err != nil {
        d.opts.errorCallback(werrors.NewRetryableInternalError("failed acking message: " + err.Error()))
    }
    d.opts.metrics.RecordProcessed(d.topic, outcome)
}

func (d *Dispatcher[Handler]) handleError(message messages.Message, err werrors.WError) {
    d.opts.errorCallback(err)
    // Failed records are dropped, retryable or not. RabbitMQ does not keep the
    // delivery count header across a requeue, so a bounded retry cannot be enforced.
    nackOpts := messages.NackOpts{
        Requeue:      false,
        ErrorCode:    err.Code(),
        ErrorMessage: err.Message(),
    }
    nackErr := message.Acknowledger().Nack(nackOpts)
    if nackErr != nil {
        d.opts.errorCallback(werrors.NewRetryableInternalError("failed nacking message: " + nackErr.Error()))
    }
    d.opts.metrics.RecordProcessed(d.topic, metrics.OutcomeFailure)
}
