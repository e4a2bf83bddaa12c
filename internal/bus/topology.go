package bus

import (
    "fmt"
    "slices"
    "sort"
)

const DefaultExchangeName = "tweet-app.events"

// Topology describes the exchange and the partitioned topics behind it.
// Every partition of a topic is a queue bound to the exchange with the routing
// key "<topic>.<partition>".
type Topology struct {
    ExchangeName string
    Partitions   map[string]int
}

func NewTopology(exchangeName string, partitions map[string]int) (Topology, error) {
    if exchangeName == "" {
        return Topology{}, fmt.Errorf("exchange name can't be empty")
    }
    if len(partitions) == 0 {
        return Topology{}, fmt.Errorf("at least one topic is required")
    }
    copied := make(map[string]int, len(partitions))
    for topic, count := range partitions {
        if count < 1 {
            return Topology{}, fmt.Errorf("topic %s must have at least one partition, got %d", topic, count)
        }
        copied[topic] = count
    }
    return Topology{ExchangeName: exchangeName, Partitions: copied}, nil
}

func (t Topology) PartitionCount(topic string) (int, bool) {
    count, ok := t.Partitions[topic]
    return count, ok
}

func (t Topology) Topics() []string {
    topics := make([]string, 0, len(t.Partitions))
    for topic := range t.Partitions {
        topics = append(topics, topic)
    }
    sort.Strings(topics)
    return topics
}

func (t Topology) RoutingKey(topic string, partition int) string {
    return fmt.Sprintf("%s.%d", topic, partition)
}

func (t Topology) QueueName(topic string, partition int) string {
    return fmt.Sprintf("%s.%d", topic, partition)
}

// Queues lists every queue of every topic, ordered by topic then partition.
func (t Topology) Queues() []QueueBinding {
    var bindings []QueueBinding
    for _, topic := range t.Topics() {
        for partition := range t.Partitions[topic] {
            bindings = append(bindings, QueueBinding{
                Topic:      topic,
                Partition:  partition,
                QueueName:  t.QueueName(topic, partition),
                RoutingKey: t.RoutingKey(topic, partition),
            })
        }
    }
    return slices.Clip(bindings)
}

type QueueBinding struct {
    Topic      string
    Partition  int
    QueueName  string
    RoutingKey string
}
