package bus

import "context"

type Record struct {
    Topic     string
    Partition int
    Key       string
    Headers   map[string]string
    Value     []byte
}

// Transport hands records to the broker. Send returns once the record is written
// to the broker connection; the broker's acknowledgment arrives through the
// returned Confirmation.
type Transport interface {
    Send(ctx context.Context, record Record) (Confirmation, error)
    Topology() Topology
    Close() error
}

type Confirmation interface {
    // Wait blocks until the broker acknowledged the record, rejected it or ctx is done.
    Wait(ctx context.Context) error
}
