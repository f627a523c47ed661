package renderstate

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	rserrors "github.com/vango-dev/renderstate/internal/errors"
	"github.com/vango-dev/renderstate/pkg/metrics"
	"github.com/vango-dev/renderstate/pkg/store"
)

const tracerName = "github.com/vango-dev/renderstate"

// Adapter manages the state machine of one resource.
//
// Shared adapters (created WithKey) read and write a record in a store and
// adopt writes made by other adapters on the same key. Unshared adapters keep
// their state in the adapter.
type Adapter[T any] struct {
	id      string
	key     string
	store   *store.Store // nil when unshared
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics

	initialData  *T
	initialError error

	mu         sync.RWMutex
	state      State[T]
	appliedRev uint64 // revision of the record state reflects

	// writeMu serializes this adapter's writes, from computing the next
	// state to syncing after the store write.
	writeMu sync.Mutex

	owners      notifier
	unsubscribe func()
	closeOnce   sync.Once
}

// New creates an adapter.
//
// The initial status is Success if initial data is set, else Error if an
// initial error is set, else Idle. A shared adapter registering a key that
// already has a record adopts that record instead.
func New[T any](opts ...Option) *Adapter[T] {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Adapter[T]{
		id:           cfg.id,
		key:          cfg.key,
		logger:       cfg.logger,
		tracer:       cfg.tracer,
		metrics:      cfg.metrics,
		initialError: cfg.initialError,
	}
	if a.id == "" {
		a.id = uuid.NewString()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.tracer == nil {
		a.tracer = otel.Tracer(tracerName)
	}
	if cfg.hasInitialData {
		a.initialData = a.payload(cfg.initialData)
	}
	a.state = initialState(clone(a.initialData), a.initialError)

	if a.key != "" {
		provider := cfg.provider
		if provider == nil {
			provider = store.ProviderFunc(store.Default)
		}
		a.store = provider.Store()
		a.register()
	}
	return a
}

// register subscribes to the store and seeds or adopts the key's record.
func (a *Adapter[T]) register() {
	a.unsubscribe = a.store.Subscribe(a.onStoreChange)

	a.store.Seed(a.key, store.Record{
		Status:          a.state.Status,
		CurrentData:     boxed(a.state.CurrentData),
		CurrentError:    a.state.CurrentError,
		InitialData:     boxed(a.initialData),
		InitialError:    a.initialError,
		LatestUpdatedID: a.id,
	})

	a.mu.Lock()
	a.syncLocked()
	a.mu.Unlock()

	a.logger.Debug("renderstate registered",
		slog.String("adapter", a.id),
		slog.String("key", a.key),
		slog.String("store", a.store.Name()),
		slog.String("status", a.Status().String()))
}

// syncLocked adopts the key's record if it is newer than the revision the
// local state reflects. Revisions only grow, so a late notification can never
// roll the state back. a.mu must be held for writing.
func (a *Adapter[T]) syncLocked() (store.Record, bool) {
	rec, rev, ok := a.store.Load(a.key)
	if !ok || rev <= a.appliedRev {
		return rec, false
	}
	a.appliedRev = rev
	a.state = a.fromRecord(rec)
	return rec, true
}

// onStoreChange adopts newer writes to the bound key. It never writes back
// to the store. Records this adapter wrote are adopted without notifying;
// the writing transition notifies.
func (a *Adapter[T]) onStoreChange() {
	a.mu.Lock()
	rec, adopted := a.syncLocked()
	a.mu.Unlock()

	if !adopted || rec.LatestUpdatedID == a.id {
		return
	}
	a.metrics.RecordReconcile()
	a.logger.Debug("renderstate adopted",
		slog.String("adapter", a.id),
		slog.String("key", a.key),
		slog.String("origin", rec.LatestUpdatedID),
		slog.String("status", rec.Status.String()))
	a.owners.notify()
}

// fromRecord converts the observable fields of a shared record.
func (a *Adapter[T]) fromRecord(rec store.Record) State[T] {
	return State[T]{
		Status:        rec.Status,
		CurrentData:   a.payload(rec.CurrentData),
		PreviousData:  a.payload(rec.PreviousData),
		CurrentError:  rec.CurrentError,
		PreviousError: rec.PreviousError,
	}
}

// payload converts an opaque payload to *T. Payloads of another type are
// reported and treated as absent.
func (a *Adapter[T]) payload(v any) *T {
	if v == nil {
		return nil
	}
	data, ok := v.(T)
	if !ok {
		var zero T
		a.diagnose("R004",
			slog.String("got", fmt.Sprintf("%T", v)),
			slog.String("want", fmt.Sprintf("%T", zero)))
		return nil
	}
	return &data
}

// transition applies fn to the state, writes the selected fields to the
// store when shared and notifies owners unless silent. It returns the state
// fn produced.
//
// fn runs without holding a.mu. After a shared write the adapter syncs with
// the record, so a write from another adapter that landed meanwhile is
// adopted rather than hidden by the origin tag.
func (a *Adapter[T]) transition(fn func(State[T]) State[T], fields store.Field, silent bool) State[T] {
	a.writeMu.Lock()
	a.mu.RLock()
	current := a.state
	a.mu.RUnlock()

	next := fn(current)

	a.mu.Lock()
	a.state = next
	a.mu.Unlock()

	if a.store != nil {
		opts := []store.SetOption{}
		if silent {
			opts = append(opts, store.Silent())
		}
		rev := a.store.Set(a.key, next.patch(fields).WithOrigin(a.id), opts...)

		a.mu.Lock()
		if rev > a.appliedRev {
			a.syncLocked()
		}
		a.mu.Unlock()
	}
	a.writeMu.Unlock()

	if fields&store.FieldStatus != 0 {
		a.metrics.RecordTransition(next.Status.String())
	}
	if !silent {
		a.owners.notify()
	}
	return next
}

// diagnose logs an inconsistent-state warning. It never fails the caller.
func (a *Adapter[T]) diagnose(code string, attrs ...any) {
	e := rserrors.New(code)
	a.metrics.RecordDiagnostic(code)
	args := append([]any{
		e.Attr(),
		slog.String("adapter", a.id),
		slog.String("key", a.key),
	}, attrs...)
	a.logger.Warn(e.Message, args...)
}

// ID returns the instance id used to tag this adapter's writes.
func (a *Adapter[T]) ID() string {
	return a.id
}

// Key returns the shared key, or "" for unshared adapters.
func (a *Adapter[T]) Key() string {
	return a.key
}

// Shared reports whether the adapter is bound to a store key.
func (a *Adapter[T]) Shared() bool {
	return a.store != nil
}

// Store returns the store a shared adapter is bound to, or nil.
func (a *Adapter[T]) Store() *store.Store {
	return a.store
}

// State returns a copy of the current observable state.
func (a *Adapter[T]) State() State[T] {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.state
	s.CurrentData = clone(s.CurrentData)
	s.PreviousData = clone(s.PreviousData)
	return s
}

// Status returns the current status.
func (a *Adapter[T]) Status() store.Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.Status
}

// Data returns the current data and whether it is present.
func (a *Adapter[T]) Data() (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.state.CurrentData == nil {
		var zero T
		return zero, false
	}
	return *a.state.CurrentData, true
}

// Err returns the current error, or nil.
func (a *Adapter[T]) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.CurrentError
}

// Subscribe registers fn to run after every notifying transition of this
// adapter, including writes adopted from other adapters on the same key.
// The returned function removes the registration; calling it twice is a no-op.
//
// Adopted writes notify in the writing goroutine while the writer is still
// inside its store write, so fn must not synchronously write through another
// adapter bound to the same key; start such writes in a goroutine.
func (a *Adapter[T]) Subscribe(fn func()) (unsubscribe func()) {
	return a.owners.subscribe(fn)
}

// Close detaches a shared adapter from its store. The record stays in the
// store. Close is idempotent.
func (a *Adapter[T]) Close() {
	a.closeOnce.Do(func() {
		if a.unsubscribe != nil {
			a.unsubscribe()
		}
	})
}
