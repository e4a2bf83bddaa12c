package rabbitmq

import (
    "fmt"

    "github.com/walletera/tweet-app/internal/bus"

    "github.com/walletera/eventskit/messages"
    "github.com/walletera/eventskit/rabbitmq"
)

// NewPartitionConsumers opens one eventskit client per partition of topic.
// The returned slice is indexed by partition.
func NewPartitionConsumers(config Config, topology bus.Topology, topic string) ([]messages.Consumer, error) {
    count, ok := topology.PartitionCount(topic)
    if !ok {
        return nil, fmt.Errorf("unknown topic %s", topic)
    }
    consumers := make([]messages.Consumer, 0, count)
    for partition := range count {
        client, err := rabbitmq.NewClient(
            rabbitmq.WithHost(config.Host),
            rabbitmq.WithPort(config.Port),
            rabbitmq.WithUser(config.User),
            rabbitmq.WithPassword(config.Password),
            rabbitmq.WithExchangeName(topology.ExchangeName),
            rabbitmq.WithExchangeType(rabbitmq.ExchangeTypeTopic),
            rabbitmq.WithConsumerRoutingKeys(topology.RoutingKey(topic, partition)),
            rabbitmq.WithQueueName(topology.QueueName(topic, partition)),
        )
        if err != nil {
            closeAll(consumers)
            return nil, fmt.Errorf("failed creating consumer for partition %d of %s: %w", partition, topic, err)
        }
        consumers = append(consumers, client)
    }
    return consumers, nil
}

func closeAll(consumers []messages.Consumer) {
    for _, consumer := range consumers {
        _ = consumer.Close()
    }
}
