package membus

import (
    "errors"
    "slices"
    "sync"

    "github.com/walletera/eventskit/messages"
)

var _ messages.Consumer = (*Consumer)(nil)

// ErrConsumerClosed is returned when a delivery is settled after its consumer was
// closed. Close already put the delivery back on its partition.
var ErrConsumerClosed = errors.New("consumer closed")

// Consumer delivers the records of one partition. Like an amqp channel, closing it
// returns every unsettled delivery to the head of the partition.
type Consumer struct {
    broker    *Broker
    queue     *partitionQueue
    closed    chan struct{}
    closeOnce sync.Once

    mu        sync.Mutex
    isClosed  bool
    unsettled []*acknowledger
}

func (c *Consumer) Consume() (<-chan messages.Message, error) {
    out := make(chan messages.Message)
    go func() {
        defer close(out)
        for {
            select {
            case <-c.closed:
                return
            default:
            }
            d, ok := c.broker.next(c.queue)
            if !ok {
                select {
                case <-c.closed:
                    return
                case <-c.queue.ready:
                    continue
                }
            }
            ack := &acknowledger{consumer: c, delivery: d}
            if !c.track(ack) {
                c.broker.redeliver(d)
                return
            }
            select {
            case out <- messages.NewMessage(d.record.Value, ack):
            case <-c.closed:
                return
            }
        }
    }()
    return out, nil
}

func (c *Consumer) Close() error {
    c.closeOnce.Do(func() {
        c.mu.Lock()
        c.isClosed = true
        unsettled := c.unsettled
        c.unsettled = nil
        c.mu.Unlock()

        close(c.closed)
        for _, ack := range slices.Backward(unsettled) {
            c.broker.redeliver(ack.delivery)
        }
    })
    return nil
}

func (c *Consumer) track(ack *acknowledger) bool {
    c.mu.Lock()
    defer c.mu.Unlock()
    if c.isClosed {
        return false
    }
    c.unsettled = append(c.unsettled, ack)
    return true
}

func (c *Consumer) settle(ack *acknowledger) bool {
    c.mu.Lock()
    defer c.mu.Unlock()
    i := slices.Index(c.unsettled, ack)
    if i < 0 {
        return false
    }
    c.unsettled = slices.Delete(c.unsettled, i, i+1)
    return true
}

type acknowledger struct {
    consumer *Consumer
    delivery delivery
}

func (a *acknowledger) Ack() error {
    if !a.consumer.settle(a) {
        return ErrConsumerClosed
    }
    a.consumer.broker.ack()
    return nil
}

func (a *acknowledger) Nack(opts messages.NackOpts) error {
    if !a.consumer.settle(a) {
        return ErrConsumerClosed
    }
    a.consumer.broker.nack(a.delivery, opts)
    return nil
}
