package internal

// ConstBehaviour is an immutable Behaviour: its value never changes, so its
// Change Event is permanently false and carries no correlation links.
type ConstBehaviour[T any] struct {
	value T
}

// NewConstBehaviour wraps a fixed value as a Behaviour.
func NewConstBehaviour[T any](value T) *ConstBehaviour[T] {
	return &ConstBehaviour[T]{value: value}
}

func (c *ConstBehaviour[T]) Value() T      { return c.value }
func (c *ConstBehaviour[T]) Change() Event { return ConstFalseEvent() }
