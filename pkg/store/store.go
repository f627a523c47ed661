package store

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/vango-dev/renderstate/pkg/metrics"
)

// Listener is called after every notifying write. It takes no arguments:
// listeners read whatever they need back from the store.
type Listener func()

type subscription struct {
	id uint64
	fn Listener
}

// Store is a keyed registry of Records with change notification.
//
// The record map is copy-on-write: every write installs a new map, so a map
// returned by Snapshot is never mutated afterwards. Listeners run after the
// write lock is released, synchronously in the writer's goroutine and in
// subscription order. A panicking listener aborts the remaining listeners of
// that notification.
type Store struct {
	name    string
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu        sync.RWMutex
	records   map[string]Record
	revisions map[string]uint64
	seq       uint64

	subMu  sync.RWMutex
	subs   []subscription
	nextID uint64
}

// New creates an isolated store.
func New(opts ...Option) *Store {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store{
		name:      cfg.name,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
		records:   make(map[string]Record, len(cfg.initial)),
		revisions: make(map[string]uint64, len(cfg.initial)),
	}
	for key, rec := range cfg.initial {
		s.seq++
		s.records[key] = rec
		s.revisions[key] = s.seq
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Name returns the store name used in logs.
func (s *Store) Name() string {
	return s.name
}

// Get returns the record for key.
func (s *Store) Get(key string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	return rec, ok
}

// Has reports whether key has a record.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[key]
	return ok
}

// Load returns the record for key together with its revision.
// The revision changes on every write to key and is never reused, even after
// the key is removed and recreated.
func (s *Store) Load(key string) (Record, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	return rec, s.revisions[key], ok
}

// Set writes p into the record at key, creating it if needed, and returns
// the revision it installed. By default the selected fields are merged over
// the existing record and listeners are notified; see Replace and Silent.
func (s *Store) Set(key string, p Patch, opts ...SetOption) uint64 {
	cfg := setConfig{merge: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	s.mu.Lock()
	base := Record{}
	if cfg.merge {
		base = s.records[key]
	}
	n := s.installLocked(key, p.applyTo(base))
	rev := s.seq
	s.mu.Unlock()

	s.metrics.RecordWrite(cfg.merge, cfg.silent, n)
	s.logger.Debug("store write",
		slog.String("store", s.name),
		slog.String("key", key),
		slog.Bool("merge", cfg.merge),
		slog.Bool("silent", cfg.silent))

	if !cfg.silent {
		s.emit()
	}
	return rev
}

// Seed stores rec under key only if key has no record yet, without
// notifying. It returns the record in effect and whether rec was stored.
// The first caller for a key wins; later callers get the existing record.
func (s *Store) Seed(key string, rec Record) (Record, bool) {
	s.mu.Lock()
	if existing, ok := s.records[key]; ok {
		s.mu.Unlock()
		return existing, false
	}
	n := s.installLocked(key, rec)
	s.mu.Unlock()

	s.metrics.RecordWrite(false, true, n)
	s.logger.Debug("store seed",
		slog.String("store", s.name),
		slog.String("key", key),
		slog.String("status", rec.Status.String()))
	return rec, true
}

// installLocked swaps in a copy of the record map with key set to rec.
// s.mu must be held for writing. It returns the new record count.
func (s *Store) installLocked(key string, rec Record) int {
	next := make(map[string]Record, len(s.records)+1)
	for k, v := range s.records {
		next[k] = v
	}
	next[key] = rec
	s.records = next
	s.seq++
	s.revisions[key] = s.seq
	return len(next)
}

// Remove deletes the record at key and notifies listeners.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	next := make(map[string]Record, len(s.records))
	for k, v := range s.records {
		if k != key {
			next[k] = v
		}
	}
	s.records = next
	delete(s.revisions, key)
	n := len(next)
	s.mu.Unlock()

	s.metrics.RecordRemove(n)
	s.emit()
}

// Reset removes every record and notifies listeners.
func (s *Store) Reset() {
	s.mu.Lock()
	s.records = make(map[string]Record)
	s.revisions = make(map[string]uint64)
	s.mu.Unlock()

	s.metrics.RecordReset()
	s.emit()
}

// Snapshot returns the current key to record mapping by reference.
// Callers must not mutate it.
func (s *Store) Snapshot() map[string]Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Keys returns the record keys in sorted order.
func (s *Store) Keys() []string {
	snap := s.Snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Subscribe registers fn to run after every notifying write and returns a
// function that removes exactly this registration. Calling the returned
// function more than once is a no-op.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()
	s.metrics.ListenerAdded()

	var once sync.Once
	return func() {
		once.Do(func() {
			if s.unsubscribe(id) {
				s.metrics.ListenerRemoved()
			}
		})
	}
}

func (s *Store) unsubscribe(id uint64) bool {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			// Keep order: notification order is subscription order.
			next := make([]subscription, 0, len(s.subs)-1)
			next = append(next, s.subs[:i]...)
			s.subs = append(next, s.subs[i+1:]...)
			return true
		}
	}
	return false
}

// emit notifies all listeners. Uses copy-before-notify so listeners may
// subscribe, unsubscribe or write without deadlocking.
func (s *Store) emit() {
	s.subMu.RLock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	s.metrics.RecordNotify()
	for _, sub := range subs {
		sub.fn()
	}
}
