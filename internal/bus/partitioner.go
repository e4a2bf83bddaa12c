package bus

import (
    "hash/fnv"
    "sync"
)

// Partitioner assigns a record to a partition. Records with the same non-empty key
// always land on the same partition; records without a key are spread round robin.
type Partitioner struct {
    mu      sync.Mutex
    counter map[string]int
}

func NewPartitioner() *Partitioner {
    return &Partitioner{counter: make(map[string]int)}
}

func (p *Partitioner) Partition(topic string, key string, partitions int) int {
    if partitions <= 1 {
        return 0
    }
    if key != "" {
        return ForKey(key, partitions)
    }
    p.mu.Lock()
    defer p.mu.Unlock()
    partition := p.counter[topic] % partitions
    p.counter[topic] = partition + 1
    return partition
}

func ForKey(key string, partitions int) int {
    h := fnv.New32a()
    _, _ = h.Write([]byte(key))
    return int(h.Sum32() % uint32(partitions))
}
