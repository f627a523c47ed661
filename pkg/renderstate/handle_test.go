package renderstate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/codes"

	rserrors "github.com/vango-dev/renderstate/internal/errors"
	"github.com/vango-dev/renderstate/pkg/rstest"
	"github.com/vango-dev/renderstate/pkg/store"
)

func TestHandleDataOrdering(t *testing.T) {
	a := New[string]()
	tl := rstest.NewTimeline(a, func() string { return renderAll(a) })
	defer tl.Close()

	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.HandleData(context.Background(), func(context.Context, *string, error) (string, error) {
			<-release
			return "Aaa", nil
		})
	}()

	// Wait for the Loading transition before letting the producer finish.
	for a.Status() != store.Loading {
		select {
		case <-done:
			t.Fatal("HandleData finished before the producer was released")
		default:
		}
	}
	if got := renderAll(a); got != "Loading" {
		t.Errorf("Expected Loading while the producer runs, got %q", got)
	}
	close(release)
	<-done

	rstest.ExpectSequence(t, tl.Statuses(), store.Idle, store.Loading, store.Success)
	rstest.ExpectSequence(t, tl.Renders(), "Idle", "Loading", "Aaa")
}

func TestHandleDataErrorOrdering(t *testing.T) {
	a := New[string]()
	tl := rstest.NewTimeline(a, nil)
	defer tl.Close()

	boom := errors.New("boom")
	_, err := a.HandleData(context.Background(), func(context.Context, *string, error) (string, error) {
		return "", boom
	})

	if err != boom {
		t.Errorf("Expected the producer error unchanged, got %v", err)
	}
	rstest.ExpectSequence(t, tl.Statuses(), store.Idle, store.Loading, store.Error)
	if got := renderAll(a); got != "Error(boom)" {
		t.Errorf("Expected Error(boom), got %q", got)
	}
}

func TestHandleDataReturnsData(t *testing.T) {
	a := New[int]()
	got, err := a.HandleData(context.Background(), func(context.Context, *int, error) (int, error) {
		return 7, nil
	})
	if err != nil || got != 7 {
		t.Errorf("HandleData = %d, %v; want 7, nil", got, err)
	}
	if data, ok := a.Data(); !ok || data != 7 {
		t.Errorf("Data() = %d, %v", data, ok)
	}
	if a.Err() != nil {
		t.Errorf("Err() = %v, want nil", a.Err())
	}
}

func TestHandleDataCarryover(t *testing.T) {
	a := New[string]()
	ctx := context.Background()
	a.HandleData(ctx, produce("Aaa"))

	var seen *string
	a.HandleData(ctx, func(_ context.Context, previous *string, _ error) (string, error) {
		seen = previous
		return "Bbb", nil
	})

	if seen == nil || *seen != "Aaa" {
		t.Errorf("Expected the producer to receive Aaa, got %v", seen)
	}

	out := rstest.Text(a.RenderSuccess(func(data string, previous *string, _ error) any {
		return data + " after " + *previous
	}))
	if out != "Bbb after Aaa" {
		t.Errorf("Expected 'Bbb after Aaa', got %q", out)
	}

	// The previous slot holds Aaa now; the producer still gets the current data.
	a.HandleData(ctx, func(_ context.Context, previous *string, _ error) (string, error) {
		seen = previous
		return "Ccc", nil
	})
	if seen == nil || *seen != "Bbb" {
		t.Errorf("Expected the producer to receive Bbb, got %v", seen)
	}
}

func TestHandleDataCarriesErrorForward(t *testing.T) {
	a := New[string]()
	ctx := context.Background()
	boom := errors.New("boom")
	a.HandleData(ctx, func(context.Context, *string, error) (string, error) {
		return "", boom
	})

	var seenErr error
	a.HandleData(ctx, func(_ context.Context, _ *string, previousErr error) (string, error) {
		seenErr = previousErr
		return "ok", nil
	})

	if seenErr != boom {
		t.Errorf("Expected previous error boom, got %v", seenErr)
	}
	st := a.State()
	if st.PreviousError != boom || st.PreviousData != nil {
		t.Errorf("Unexpected previous values %v %v", st.PreviousData, st.PreviousError)
	}
}

func TestHandleDataProducerCannotMutateState(t *testing.T) {
	a := New[[]int]()
	ctx := context.Background()
	a.HandleData(ctx, func(context.Context, *[]int, error) ([]int, error) {
		return []int{1}, nil
	})
	a.HandleData(ctx, func(_ context.Context, previous *[]int, _ error) ([]int, error) {
		*previous = nil
		return []int{2}, nil
	})

	st := a.State()
	if st.PreviousData == nil || len(*st.PreviousData) != 1 {
		t.Errorf("Expected previous data to survive the producer, got %v", st.PreviousData)
	}
}

func TestOverlappingHandleDataLastFinishWins(t *testing.T) {
	s := store.New()
	a := New[string](WithStore(s), WithKey("k"))
	defer a.Close()

	gated := func(v string, started, release chan struct{}) Producer[string] {
		return func(context.Context, *string, error) (string, error) {
			close(started)
			<-release
			return v, nil
		}
	}

	var wg sync.WaitGroup
	run := func(p Producer[string]) chan struct{} {
		done := make(chan struct{})
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(done)
			a.HandleData(context.Background(), p)
		}()
		return done
	}

	started1, release1 := make(chan struct{}), make(chan struct{})
	started2, release2 := make(chan struct{}), make(chan struct{})
	done1 := run(gated("first", started1, release1))
	<-started1
	done2 := run(gated("second", started2, release2))
	<-started2

	close(release2)
	<-done2
	if got, _ := a.Data(); got != "second" {
		t.Errorf("Expected second after it finished, got %q", got)
	}

	close(release1)
	<-done1
	wg.Wait()

	if got, _ := a.Data(); got != "first" {
		t.Errorf("Expected the call that finished last to win, got %q", got)
	}
	rec, _ := s.Get("k")
	if rec.Status != store.Success || rec.CurrentData != "first" {
		t.Errorf("Expected the store to hold Success(first), got %v %v", rec.Status, rec.CurrentData)
	}
	if a.Status() != store.Success {
		t.Errorf("Expected Success, got %v", a.Status())
	}
}

func TestHandleDataPanic(t *testing.T) {
	a := New[string]()

	func() {
		defer func() {
			if r := recover(); r != "kaboom" {
				t.Errorf("Expected the panic to propagate, got %v", r)
			}
		}()
		a.HandleData(context.Background(), func(context.Context, *string, error) (string, error) {
			panic("kaboom")
		})
	}()

	if a.Status() != store.Error {
		t.Fatalf("Expected Error after a panic, got %v", a.Status())
	}
	if rserrors.Code(a.Err()) != "R011" {
		t.Errorf("Expected an R011 error, got %v", a.Err())
	}
}

func TestHandleDataNilProducer(t *testing.T) {
	a := New[string]()
	_, err := a.HandleData(context.Background(), nil)
	if err == nil {
		t.Fatal("Expected an error for a nil producer")
	}
	if a.Status() != store.Idle {
		t.Errorf("Expected no transition, got %v", a.Status())
	}
}

func TestHandleDataContext(t *testing.T) {
	type ctxKey struct{}
	a := New[string]()
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")

	var got any
	a.HandleData(ctx, func(ctx context.Context, _ *string, _ error) (string, error) {
		got = ctx.Value(ctxKey{})
		return "", ctx.Err()
	})
	if got != "v" {
		t.Errorf("Expected the caller's context values, got %v", got)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.HandleData(cancelled, func(ctx context.Context, _ *string, _ error) (string, error) {
		return "", ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestHandleDataSpan(t *testing.T) {
	tracer := rstest.NewTracer()
	s := store.New()
	a := New[string](WithTracer(tracer), WithStore(s), WithKey("user"))
	defer a.Close()

	a.HandleData(context.Background(), produce("x"))
	boom := errors.New("boom")
	a.HandleData(context.Background(), func(context.Context, *string, error) (string, error) {
		return "", boom
	})

	spans := tracer.Spans()
	if len(spans) != 2 {
		t.Fatalf("Expected 2 spans, got %d", len(spans))
	}
	ok, failed := spans[0], spans[1]
	if ok.Name() != "renderstate.HandleData" || !ok.Ended() || ok.Code() != codes.Ok {
		t.Errorf("Unexpected success span %q ended=%v code=%v", ok.Name(), ok.Ended(), ok.Code())
	}
	if v := ok.Attr("renderstate.key"); v != "user" {
		t.Errorf("Expected key attribute, got %q", v)
	}
	if failed.Code() != codes.Error || len(failed.Errors()) != 1 || failed.Errors()[0] != boom {
		t.Errorf("Expected the failure to be recorded, got code=%v errors=%v", failed.Code(), failed.Errors())
	}
}

func TestReset(t *testing.T) {
	a := New[string]()
	a.HandleData(context.Background(), produce("Aaa"))

	a.Reset()
	st := a.State()
	if st.Status != store.Idle || st.CurrentData != nil || *st.PreviousData != "Aaa" {
		t.Errorf("Unexpected state after reset: %+v", st)
	}

	// A second reset must not lose the previous data.
	a.Reset()
	st = a.State()
	if st.PreviousData == nil || *st.PreviousData != "Aaa" {
		t.Errorf("Expected previous data to survive a second reset, got %v", st.PreviousData)
	}

	out := rstest.Text(a.Render(nil, func(previous *string, _ error) any {
		return "idle after " + *previous
	}, nil, nil))
	if out != "idle after Aaa" {
		t.Errorf("Expected 'idle after Aaa', got %q", out)
	}
}

func TestResetFromInitialError(t *testing.T) {
	initial := errors.New("initial")
	a := New[string](WithInitialError(initial))
	a.Reset()

	st := a.State()
	if st.Status != store.Idle || st.CurrentError != nil || st.PreviousError != initial {
		t.Errorf("Unexpected state after reset: %+v", st)
	}
}
