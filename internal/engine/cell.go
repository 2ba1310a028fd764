package engine

import "sync"

// cell guards one independent piece of engine state. Callers never hold two
// cells at once and never hold one across a yield or a sink call.
type cell[T any] struct {
	mu sync.Mutex
	v  T
}

func (c *cell[T]) Load() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *cell[T]) Store(v T) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

// With runs fn with exclusive access to the value.
func (c *cell[T]) With(fn func(v *T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.v)
}
