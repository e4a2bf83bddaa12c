package app

type Optional[T any] struct {
    Set   bool
    Value T
}

func NewOptional[T any](value T) Optional[T] {
    return Optional[T]{Set: true, Value: value}
}
