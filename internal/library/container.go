package library

import "sync"

// Container guards a value of type T that can be reset to its initial state.
type Container[T any] struct {
	mu      sync.RWMutex
	value   T
	initial func() T
	resets  int
}

// NewContainer creates a container holding initial().
func NewContainer[T any](initial func() T) *Container[T] {
	return &Container[T]{value: initial(), initial: initial}
}

// Get returns the current value. Callers must not mutate reference fields of
// the result; use Update for that.
func (c *Container[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Update applies fn to the value under the write lock.
func (c *Container[T]) Update(fn func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.value)
}

// Reset replaces the value with a fresh initial value.
func (c *Container[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = c.initial()
	c.resets++
}

// Resets returns how many times Reset was called.
func (c *Container[T]) Resets() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resets
}
