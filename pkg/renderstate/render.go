package renderstate

import (
	"log/slog"

	"github.com/vango-dev/renderstate/pkg/store"
)

// IdleFunc renders the Idle status.
type IdleFunc[T any] func(previousData *T, previousErr error) any

// LoadingFunc renders the Loading status.
type LoadingFunc[T any] func(previousData *T, previousErr error) any

// SuccessFunc renders the Success status with the current data.
type SuccessFunc[T any] func(data T, previousData *T, previousErr error) any

// ErrorFunc renders the Error status with the current error.
type ErrorFunc[T any] func(err error, previousData *T, previousErr error) any

// Handlers holds one optional callback per status. A nil callback renders
// nothing for its status.
type Handlers[T any] struct {
	OnIdle    IdleFunc[T]
	OnLoading LoadingFunc[T]
	OnSuccess SuccessFunc[T]
	OnError   ErrorFunc[T]
}

// Render invokes the callback for the current status. Callbacks are given in
// the order onSuccess, onIdle, onLoading, onError; any of them may be nil.
func (a *Adapter[T]) Render(onSuccess SuccessFunc[T], onIdle IdleFunc[T], onLoading LoadingFunc[T], onError ErrorFunc[T]) any {
	return a.dispatch(Handlers[T]{
		OnIdle:    onIdle,
		OnLoading: onLoading,
		OnSuccess: onSuccess,
		OnError:   onError,
	})
}

// RenderSuccess renders only the Success status.
func (a *Adapter[T]) RenderSuccess(onSuccess SuccessFunc[T]) any {
	return a.dispatch(Handlers[T]{OnSuccess: onSuccess})
}

// Match invokes the handler for the current status.
func (a *Adapter[T]) Match(h Handlers[T]) any {
	return a.dispatch(h)
}

func (a *Adapter[T]) dispatch(h Handlers[T]) any {
	s := a.State()

	switch s.Status {
	case store.Idle:
		if h.OnIdle == nil {
			return nil
		}
		return h.OnIdle(s.PreviousData, s.PreviousError)

	case store.Loading:
		if h.OnLoading == nil {
			return nil
		}
		return h.OnLoading(s.PreviousData, s.PreviousError)

	case store.Success:
		if s.CurrentData == nil {
			a.diagnose("R001")
			return nil
		}
		if h.OnSuccess == nil {
			return nil
		}
		return h.OnSuccess(*s.CurrentData, s.PreviousData, s.PreviousError)

	case store.Error:
		if s.CurrentError == nil {
			a.diagnose("R002")
			return nil
		}
		if h.OnError == nil {
			return nil
		}
		return h.OnError(s.CurrentError, s.PreviousData, s.PreviousError)

	default:
		a.diagnose("R003", slog.String("status", s.Status.String()))
		return nil
	}
}
