package core

import "sync/atomic"

// Mailbox holds at most one pending value. A new Put overwrites the previous
// one; Take consumes it exactly once. Every operation is a single atomic step.
type Mailbox[T any] struct {
	v atomic.Pointer[T]
}

// Put records v as the pending value.
func (m *Mailbox[T]) Put(v T) {
	m.v.Store(&v)
}

// Take returns and clears the pending value.
func (m *Mailbox[T]) Take() (T, bool) {
	p := m.v.Swap(nil)
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Pending returns true if a value is waiting to be taken.
func (m *Mailbox[T]) Pending() bool {
	return m.v.Load() != nil
}
