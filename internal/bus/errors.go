package bus

import "fmt"

// TransportError reports that a record could not be handed to the bus or was not
// confirmed by it.
type TransportError struct {
    Topic     string
    Partition int
    Key       string
    Cause     error
}

func (e *TransportError) Error() string {
    return fmt.Sprintf("failed publishing to %s[%d] (key %q): %s", e.Topic, e.Partition, e.Key, e.Cause)
}

func (e *TransportError) Unwrap() error {
    return e.Cause
}

type SerializationError struct {
    Topic string
    Cause error
}

func (e *SerializationError) Error() string {
    return fmt.Sprintf("failed serializing event for %s: %s", e.Topic, e.Cause)
}

func (e *SerializationError) Unwrap() error {
    return e.Cause
}
