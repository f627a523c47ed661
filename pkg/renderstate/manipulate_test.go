package renderstate

import (
	"context"
	"errors"
	"testing"

	"github.com/vango-dev/renderstate/pkg/rstest"
	"github.com/vango-dev/renderstate/pkg/store"
)

func ptr[T any](v T) *T { return &v }

func TestManipulateNotifies(t *testing.T) {
	a := New[string]()
	calls := 0
	a.Subscribe(func() { calls++ })

	m := a.Manipulate()
	m.SetCurrentData(ptr("x"))
	m.SetStatus(store.Success)

	if calls != 2 {
		t.Errorf("Expected 2 notifications, got %d", calls)
	}
	if got := renderAll(a); got != "x" {
		t.Errorf("Expected x, got %q", got)
	}
}

func TestManipulateSilent(t *testing.T) {
	s := store.New()
	rec := rstest.NewRecorder(s)
	defer rec.Close()

	a := New[string](WithStore(s), WithKey("k"))
	b := New[string](WithStore(s), WithKey("k"))
	defer a.Close()
	defer b.Close()

	calls := 0
	a.Subscribe(func() { calls++ })

	a.Manipulate().Silent().Replace(State[string]{Status: store.Success, CurrentData: ptr("quiet")})

	if calls != 0 {
		t.Errorf("Expected no owner notifications, got %d", calls)
	}
	rstest.ExpectCount(t, rec, 0)
	if b.Status() != store.Idle {
		t.Errorf("Expected B to miss the silent write, got %v", b.Status())
	}
	stored, _ := s.Get("k")
	if stored.CurrentData != "quiet" {
		t.Errorf("Expected the store to hold the silent write, got %v", stored.CurrentData)
	}

	// The next notifying write carries the silent state along.
	a.Manipulate().SetPreviousError(errors.New("late"))
	if got := renderAll(b); got != "quiet" {
		t.Errorf("Expected B to catch up, got %q", got)
	}
}

func TestManipulateSingleFieldWrites(t *testing.T) {
	s := store.New()
	a := New[string](WithStore(s), WithKey("k"))
	defer a.Close()

	// A write from elsewhere that a single-field write must not clobber.
	s.Set("k", store.Patch{}.WithPreviousData("kept"), store.Silent())

	a.Manipulate().SetCurrentError(errors.New("e"))
	rec, _ := s.Get("k")
	if rec.PreviousData != "kept" {
		t.Errorf("Expected other fields untouched, got %v", rec.PreviousData)
	}
	if rec.CurrentError == nil || rec.CurrentError.Error() != "e" {
		t.Errorf("Expected the current error to be written, got %v", rec.CurrentError)
	}
	if rec.LatestUpdatedID != a.ID() {
		t.Errorf("Expected the write to be tagged, got %q", rec.LatestUpdatedID)
	}
}

func TestManipulateSetters(t *testing.T) {
	a := New[string]()
	m := a.Manipulate()
	prevErr := errors.New("prev")

	m.SetStatus(store.Error)
	m.SetCurrentError(errors.New("cur"))
	m.SetPreviousData(ptr("p"))
	m.SetPreviousError(prevErr)

	st := a.State()
	if st.Status != store.Error || st.CurrentError.Error() != "cur" || *st.PreviousData != "p" || st.PreviousError != prevErr {
		t.Errorf("Unexpected state %+v", st)
	}

	m.SetCurrentError(nil)
	m.SetPreviousData(nil)
	st = a.State()
	if st.CurrentError != nil || st.PreviousData != nil {
		t.Errorf("Expected nil to clear, got %+v", st)
	}
}

func TestManipulateUpdate(t *testing.T) {
	a := New[string](WithInitialData("a"))

	a.Manipulate().Update(func(s State[string]) State[string] {
		s.PreviousData = s.CurrentData
		s.CurrentData = ptr(*s.CurrentData + "b")
		return s
	})

	st := a.State()
	if *st.CurrentData != "ab" || *st.PreviousData != "a" {
		t.Errorf("Unexpected state %+v", st)
	}
}

func TestManipulateDoesNotAlias(t *testing.T) {
	a := New[string]()
	data := "x"
	a.Manipulate().SetCurrentData(&data)
	data = "mutated"

	a.Manipulate().SetStatus(store.Success)
	if got := renderAll(a); got != "x" {
		t.Errorf("Expected the adapter to hold its own copy, got %q", got)
	}
}

func TestManipulateThenHandleData(t *testing.T) {
	a := New[string]()
	a.Manipulate().Replace(State[string]{Status: store.Success, CurrentData: ptr("seeded")})

	var seen *string
	a.HandleData(context.Background(), func(_ context.Context, previous *string, _ error) (string, error) {
		seen = previous
		return "next", nil
	})
	if seen == nil || *seen != "seeded" {
		t.Errorf("Expected the manipulated data as previous, got %v", seen)
	}
}
