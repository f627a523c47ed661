package renderstate

import (
	"github.com/vango-dev/renderstate/pkg/store"
)

// State is the observable state of an adapter. A nil pointer or error means
// the value is absent.
type State[T any] struct {
	Status        store.Status
	CurrentData   *T
	PreviousData  *T
	CurrentError  error
	PreviousError error
}

// observableFields are the record fields an adapter's State maps onto.
const observableFields = store.FieldStatus | store.FieldCurrentData | store.FieldPreviousData |
	store.FieldCurrentError | store.FieldPreviousError

// initialState derives the starting state from the initial values.
func initialState[T any](data *T, err error) State[T] {
	switch {
	case data != nil:
		return State[T]{Status: store.Success, CurrentData: data}
	case err != nil:
		return State[T]{Status: store.Error, CurrentError: err}
	default:
		return State[T]{Status: store.Idle}
	}
}

// capture moves the current values into the previous slots and clears them.
// An empty current leaves the previous values untouched.
func capture[T any](s State[T]) State[T] {
	if s.CurrentData != nil || s.CurrentError != nil {
		s.PreviousData = s.CurrentData
		s.PreviousError = s.CurrentError
	}
	s.CurrentData = nil
	s.CurrentError = nil
	return s
}

func beginWork[T any](s State[T]) State[T] {
	s = capture(s)
	s.Status = store.Loading
	return s
}

func completeWork[T any](data T) func(State[T]) State[T] {
	return func(s State[T]) State[T] {
		s.Status = store.Success
		s.CurrentData = &data
		s.CurrentError = nil
		return s
	}
}

func failWork[T any](err error) func(State[T]) State[T] {
	return func(s State[T]) State[T] {
		s.Status = store.Error
		s.CurrentData = nil
		s.CurrentError = err
		return s
	}
}

func resetWork[T any](s State[T]) State[T] {
	s = capture(s)
	s.Status = store.Idle
	return s
}

// clone returns a fresh pointer to a copy of *p.
func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func boxed[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// patch converts the fields of s selected by fields into a store patch.
func (s State[T]) patch(fields store.Field) store.Patch {
	var p store.Patch
	if fields&store.FieldStatus != 0 {
		p = p.WithStatus(s.Status)
	}
	if fields&store.FieldCurrentData != 0 {
		p = p.WithCurrentData(boxed(s.CurrentData))
	}
	if fields&store.FieldPreviousData != 0 {
		p = p.WithPreviousData(boxed(s.PreviousData))
	}
	if fields&store.FieldCurrentError != 0 {
		p = p.WithCurrentError(s.CurrentError)
	}
	if fields&store.FieldPreviousError != 0 {
		p = p.WithPreviousError(s.PreviousError)
	}
	return p
}
