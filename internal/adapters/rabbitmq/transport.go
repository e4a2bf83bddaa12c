package rabbitmq

import (
    "context"
    "fmt"
    "sync"

    "github.com/walletera/tweet-app/internal/bus"

    "github.com/google/uuid"
    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/walletera/eventskit/rabbitmq"
)

const jsonContentType = "application/json"

var _ bus.Transport = (*Transport)(nil)

type Config struct {
    Host     string
    Port     uint
    User     string
    Password string
}

func DefaultConfig() Config {
    return Config{
        Host:     rabbitmq.DefaultHost,
        Port:     rabbitmq.DefaultPort,
        User:     rabbitmq.DefaultUser,
        Password: rabbitmq.DefaultPassword,
    }
}

func (c Config) url() string {
    return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.User, c.Password, c.Host, c.Port)
}

// Transport publishes records to a topic exchange with publisher confirms enabled.
// Every partition of every topic is a queue bound with its own routing key, so a
// single consumer per queue sees the records of a partition in publish order.
type Transport struct {
    topology bus.Topology
    conn     *amqp.Connection

    // amqp channels are not safe for concurrent publishing
    mu      sync.Mutex
    channel *amqp.Channel
}

func NewTransport(config Config, topology bus.Topology) (*Transport, error) {
    conn, err := amqp.Dial(config.url())
    if err != nil {
        return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
    }
    channel, err := conn.Channel()
    if err != nil {
        conn.Close()
        return nil, fmt.Errorf("failed to open a channel: %w", err)
    }
    err = channel.Confirm(false)
    if err != nil {
        conn.Close()
        return nil, fmt.Errorf("failed to put channel in confirm mode: %w", err)
    }
    err = declareTopology(channel, topology)
    if err != nil {
        conn.Close()
        return nil, err
    }
    return &Transport{
        topology: topology,
        conn:     conn,
        channel:  channel,
    }, nil
}

func declareTopology(channel *amqp.Channel, topology bus.Topology) error {
    err := channel.ExchangeDeclare(
        topology.ExchangeName,
        rabbitmq.ExchangeTypeTopic,
        true,  // durable
        false, // auto-deleted
        false, // internal
        false, // no-wait
        nil,
    )
    if err != nil {
        return fmt.Errorf("failed to declare exchange %s: %w", topology.ExchangeName, err)
    }
    for _, binding := range topology.Queues() {
        // same queue arguments the eventskit consumer declares with
        _, err = channel.QueueDeclare(
            binding.QueueName,
            false, // durable
            false, // delete when unused
            false, // exclusive
            false, // no-wait
            nil,
        )
        if err != nil {
            return fmt.Errorf("failed to declare queue %s: %w", binding.QueueName, err)
        }
        err = channel.QueueBind(binding.QueueName, binding.RoutingKey, topology.ExchangeName, false, nil)
        if err != nil {
            return fmt.Errorf("failed to bind queue %s with routing key %s: %w", binding.QueueName, binding.RoutingKey, err)
        }
    }
    return nil
}

func (t *Transport) Topology() bus.Topology {
    return t.topology
}

func (t *Transport) Send(ctx context.Context, record bus.Record) (bus.Confirmation, error) {
    headers := make(amqp.Table, len(record.Headers))
    for name, value := range record.Headers {
        headers[name] = value
    }
    publishing := amqp.Publishing{
        Headers:       headers,
        ContentType:   jsonContentType,
        DeliveryMode:  amqp.Persistent,
        MessageId:     uuid.NewString(),
        CorrelationId: record.Key,
        Body:          record.Value,
    }

    t.mu.Lock()
    defer t.mu.Unlock()
    deferred, err := t.channel.PublishWithDeferredConfirmWithContext(
        ctx,
        t.topology.ExchangeName,
        t.topology.RoutingKey(record.Topic, record.Partition),
        false, // mandatory
        false, // immediate
        publishing,
    )
    if err != nil {
        return nil, err
    }
    return confirmation{deferred: deferred}, nil
}

func (t *Transport) Close() error {
    t.mu.Lock()
    defer t.mu.Unlock()
    err := t.channel.Close()
    if err != nil {
        return fmt.Errorf("failed to close rabbitmq connection channel: %w", err)
    }
    err = t.conn.Close()
    if err != nil {
        return fmt.Errorf("failed to close rabbitmq connection: %w", err)
    }
    return nil
}

type confirmation struct {
    deferred *amqp.DeferredConfirmation
}

func (c confirmation) Wait(ctx context.Context) error {
    acked, err := c.deferred.WaitContext(ctx)
    if err != nil {
        return err
    }
    if !acked {
        return fmt.Errorf("broker rejected delivery %d", c.deferred.DeliveryTag)
    }
    return nil
}
