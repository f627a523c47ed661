package renderstate

import (
	"github.com/vango-dev/renderstate/pkg/store"
)

// Manipulator writes adapter state directly, bypassing the state machine.
// It exists for integrations that need to drive the adapter themselves;
// nothing keeps the result consistent (e.g. Success without data), and
// inconsistent states render nothing.
type Manipulator[T any] struct {
	a      *Adapter[T]
	silent bool
}

// Manipulate returns a manipulator whose writes notify subscribers.
func (a *Adapter[T]) Manipulate() *Manipulator[T] {
	return &Manipulator[T]{a: a}
}

// Silent returns a manipulator whose writes notify nobody: neither the
// adapter's subscribers nor, when shared, the store's listeners.
func (m *Manipulator[T]) Silent() *Manipulator[T] {
	return &Manipulator[T]{a: m.a, silent: true}
}

// SetStatus sets only the status.
func (m *Manipulator[T]) SetStatus(status store.Status) {
	m.a.transition(func(s State[T]) State[T] {
		s.Status = status
		return s
	}, store.FieldStatus, m.silent)
}

// SetCurrentData sets only the current data. nil clears it.
func (m *Manipulator[T]) SetCurrentData(data *T) {
	data = clone(data)
	m.a.transition(func(s State[T]) State[T] {
		s.CurrentData = data
		return s
	}, store.FieldCurrentData, m.silent)
}

// SetPreviousData sets only the previous data. nil clears it.
func (m *Manipulator[T]) SetPreviousData(data *T) {
	data = clone(data)
	m.a.transition(func(s State[T]) State[T] {
		s.PreviousData = data
		return s
	}, store.FieldPreviousData, m.silent)
}

// SetCurrentError sets only the current error. nil clears it.
func (m *Manipulator[T]) SetCurrentError(err error) {
	m.a.transition(func(s State[T]) State[T] {
		s.CurrentError = err
		return s
	}, store.FieldCurrentError, m.silent)
}

// SetPreviousError sets only the previous error. nil clears it.
func (m *Manipulator[T]) SetPreviousError(err error) {
	m.a.transition(func(s State[T]) State[T] {
		s.PreviousError = err
		return s
	}, store.FieldPreviousError, m.silent)
}

// Replace sets the status and all four values in one write.
func (m *Manipulator[T]) Replace(next State[T]) {
	next.CurrentData = clone(next.CurrentData)
	next.PreviousData = clone(next.PreviousData)
	m.a.transition(func(State[T]) State[T] {
		return next
	}, observableFields, m.silent)
}

// Update computes the next state from the current one and applies it in one
// write. fn receives a copy and runs without holding the adapter's state
// lock, so it may read the adapter or write through other adapters. It must
// not write through this adapter: writes from one adapter are serialized.
func (m *Manipulator[T]) Update(fn func(State[T]) State[T]) {
	m.a.transition(func(s State[T]) State[T] {
		s.CurrentData = clone(s.CurrentData)
		s.PreviousData = clone(s.PreviousData)
		next := fn(s)
		next.CurrentData = clone(next.CurrentData)
		next.PreviousData = clone(next.PreviousData)
		return next
	}, observableFields, m.silent)
}
