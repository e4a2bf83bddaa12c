package bus

import (
    "context"
    "sync"
)

// SendResult tells where a confirmed record was written.
type SendResult struct {
    Topic     string
    Partition int
    Key       string
}

// PendingResult completes when the broker confirmed or rejected a record.
// Callers that publish fire-and-forget can ignore it.
type PendingResult struct {
    done   chan struct{}
    once   sync.Once
    result SendResult
    err    error
}

func newPendingResult() *PendingResult {
    return &PendingResult{done: make(chan struct{})}
}

func (p *PendingResult) complete(result SendResult, err error) {
    p.once.Do(func() {
        p.result = result
        p.err = err
        close(p.done)
    })
}

func (p *PendingResult) Done() <-chan struct{} {
    return p.done
}

// Result must only be called after Done is closed.
func (p *PendingResult) Result() (SendResult, error) {
    return p.result, p.err
}

func (p *PendingResult) Wait(ctx context.Context) (SendResult, error) {
    select {
    case <-p.done:
        return p.result, p.err
    case <-ctx.Done():
        return SendResult{}, ctx.Err()
    }
}
