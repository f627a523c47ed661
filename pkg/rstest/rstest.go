package rstest

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/renderstate/pkg/store"
)

// Recorder counts store notifications.
type Recorder struct {
	mu          sync.Mutex
	count       int
	unsubscribe func()
}

// NewRecorder subscribes a counter to s.
func NewRecorder(s *store.Store) *Recorder {
	r := &Recorder{}
	r.unsubscribe = s.Subscribe(func() {
		r.mu.Lock()
		r.count++
		r.mu.Unlock()
	})
	return r
}

// Count returns the number of notifications seen so far.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Close unsubscribes the recorder.
func (r *Recorder) Close() {
	r.unsubscribe()
}

// Observable is anything that reports its status and notifies on change,
// such as a *renderstate.Adapter.
type Observable interface {
	Subscribe(fn func()) (unsubscribe func())
	Status() store.Status
}

// Timeline records the status, and optionally a rendered string, of an
// Observable at creation and after every notification.
type Timeline struct {
	mu          sync.Mutex
	source      Observable
	render      func() string
	statuses    []store.Status
	renders     []string
	unsubscribe func()
}

// NewTimeline starts recording o. render may be nil.
func NewTimeline(o Observable, render func() string) *Timeline {
	tl := &Timeline{source: o, render: render}
	tl.capture()
	tl.unsubscribe = o.Subscribe(tl.capture)
	return tl
}

func (tl *Timeline) capture() {
	status := tl.source.Status()
	var out string
	if tl.render != nil {
		out = tl.render()
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.statuses = append(tl.statuses, status)
	if tl.render != nil {
		tl.renders = append(tl.renders, out)
	}
}

// Statuses returns the recorded statuses.
func (tl *Timeline) Statuses() []store.Status {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]store.Status(nil), tl.statuses...)
}

// Renders returns the recorded render output.
func (tl *Timeline) Renders() []string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]string(nil), tl.renders...)
}

// Close stops recording.
func (tl *Timeline) Close() {
	tl.unsubscribe()
}

// LogBuffer collects log output written by a logger from NewLogger.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Contains reports whether the log output contains s.
func (b *LogBuffer) Contains(s string) bool {
	return strings.Contains(b.String(), s)
}

// Lines returns the logged lines.
func (b *LogBuffer) Lines() []string {
	out := strings.TrimSpace(b.String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// NewLogger returns a debug-level text logger writing into a LogBuffer.
func NewLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, buf
}

// ExpectSequence asserts that got equals want element by element.
func ExpectSequence[E comparable](t testing.TB, got []E, want ...E) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("expected sequence %v, got %v", want, got)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected sequence %v, got %v (first difference at %d)", want, got, i)
			return
		}
	}
}

// ExpectCount asserts that r has seen exactly n notifications.
func ExpectCount(t testing.TB, r *Recorder, n int) {
	t.Helper()
	if got := r.Count(); got != n {
		t.Errorf("expected %d notifications, got %d", n, got)
	}
}

// ExpectStatus asserts the current status of o.
func ExpectStatus(t testing.TB, o Observable, want store.Status) {
	t.Helper()
	if got := o.Status(); got != want {
		t.Errorf("expected status %v, got %v", want, got)
	}
}

// Text converts a render result to a string for assertions. nil becomes "".
func Text(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
