// Package membus is an in-process bus.Transport whose partitions are consumed
// through eventskit message consumers. It keeps the ordering and acknowledgment
// semantics of the RabbitMQ setup and is used to run the pipeline without a broker.
package membus

import (
    "context"
    "fmt"
    "sync"

    "github.com/walletera/tweet-app/internal/bus"

    "github.com/walletera/eventskit/messages"
)

var _ bus.Transport = (*Broker)(nil)

type Broker struct {
    topology bus.Topology

    mu          sync.Mutex
    queues      map[string]*partitionQueue
    records     []bus.Record
    acked       int
    nacked      []messages.NackOpts
    redelivered int
    sendErr     error
    confirmErr  error
    closed      bool
}

type delivery struct {
    record bus.Record
    count  int
}

// partitionQueue is unbounded, so Send never waits for a consumer. ready holds at
// most one pending wake-up for the partition's single consumer.
type partitionQueue struct {
    pending []delivery
    ready   chan struct{}
}

func (q *partitionQueue) notify() {
    select {
    case q.ready <- struct{}{}:
    default:
    }
}

func New(topology bus.Topology) *Broker {
    queues := make(map[string]*partitionQueue)
    for _, binding := range topology.Queues() {
        queues[binding.QueueName] = &partitionQueue{ready: make(chan struct{}, 1)}
    }
    return &Broker{
        topology: topology,
        queues:   queues,
    }
}

func (b *Broker) Topology() bus.Topology {
    return b.topology
}

func (b *Broker) Send(_ context.Context, record bus.Record) (bus.Confirmation, error) {
    b.mu.Lock()
    defer b.mu.Unlock()
    if b.closed {
        return nil, fmt.Errorf("broker closed")
    }
    if b.sendErr != nil {
        return nil, b.sendErr
    }
    queue, ok := b.queues[b.topology.QueueName(record.Topic, record.Partition)]
    if !ok {
        return nil, fmt.Errorf("no queue for %s partition %d", record.Topic, record.Partition)
    }
    b.records = append(b.records, record)
    if b.confirmErr != nil {
        return confirmation{err: b.confirmErr}, nil
    }
    queue.pending = append(queue.pending, delivery{record: record})
    queue.notify()
    return confirmation{}, nil
}

func (b *Broker) Close() error {
    b.mu.Lock()
    defer b.mu.Unlock()
    b.closed = true
    return nil
}

// FailSends makes every following Send fail with err. A nil err restores normal behavior.
func (b *Broker) FailSends(err error) {
    b.mu.Lock()
    defer b.mu.Unlock()
    b.sendErr = err
}

// RejectConfirms makes the broker accept records but fail their confirmation with err.
// Rejected records are not delivered.
func (b *Broker) RejectConfirms(err error) {
    b.mu.Lock()
    defer b.mu.Unlock()
    b.confirmErr = err
}

func (b *Broker) Records() []bus.Record {
    b.mu.Lock()
    defer b.mu.Unlock()
    return append([]bus.Record(nil), b.records...)
}

func (b *Broker) Acked() int {
    b.mu.Lock()
    defer b.mu.Unlock()
    return b.acked
}

func (b *Broker) Nacked() []messages.NackOpts {
    b.mu.Lock()
    defer b.mu.Unlock()
    return append([]messages.NackOpts(nil), b.nacked...)
}

// Settled is the number of deliveries that were either acked or nacked.
func (b *Broker) Settled() int {
    b.mu.Lock()
    defer b.mu.Unlock()
    return b.acked + len(b.nacked)
}

// Redelivered counts deliveries put back on their partition because the consumer
// holding them was closed before they were settled.
func (b *Broker) Redelivered() int {
    b.mu.Lock()
    defer b.mu.Unlock()
    return b.redelivered
}

// Pending is the number of records waiting on the partition queues.
func (b *Broker) Pending() int {
    b.mu.Lock()
    defer b.mu.Unlock()
    var pending int
    for _, queue := range b.queues {
        pending += len(queue.pending)
    }
    return pending
}

// Consumers returns one consumer per partition of topic, indexed by partition.
func (b *Broker) Consumers(topic string) ([]messages.Consumer, error) {
    count, ok := b.topology.PartitionCount(topic)
    if !ok {
        return nil, fmt.Errorf("unknown topic %s", topic)
    }
    consumers := make([]messages.Consumer, 0, count)
    for partition := range count {
        consumers = append(consumers, &Consumer{
            broker: b,
            queue:  b.queues[b.topology.QueueName(topic, partition)],
            closed: make(chan struct{}),
        })
    }
    return consumers, nil
}

func (b *Broker) next(queue *partitionQueue) (delivery, bool) {
    b.mu.Lock()
    defer b.mu.Unlock()
    if len(queue.pending) == 0 {
        return delivery{}, false
    }
    d := queue.pending[0]
    queue.pending = queue.pending[1:]
    return d, true
}

// putBack returns d to the head of its partition, where the broker redelivers it next.
func (b *Broker) putBack(d delivery) {
    queue := b.queues[b.topology.QueueName(d.record.Topic, d.record.Partition)]
    queue.pending = append([]delivery{d}, queue.pending...)
    queue.notify()
}

func (b *Broker) redeliver(d delivery) {
    b.mu.Lock()
    defer b.mu.Unlock()
    b.redelivered++
    b.putBack(d)
}

func (b *Broker) ack() {
    b.mu.Lock()
    defer b.mu.Unlock()
    b.acked++
}

func (b *Broker) nack(d delivery, opts messages.NackOpts) {
    b.mu.Lock()
    defer b.mu.Unlock()
    b.nacked = append(b.nacked, opts)
    if opts.Requeue && d.count < opts.MaxRetries {
        d.count++
        b.putBack(d)
    }
}

type confirmation struct {
    err error
}

func (c confirmation) Wait(ctx context.Context) error {
    if c.err != nil {
        return c.err
    }
    return ctx.Err()
}
