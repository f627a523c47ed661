package rstest

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Tracer is a trace.Tracer that records the spans it starts.
type Tracer struct {
	noop.Tracer

	mu    sync.Mutex
	spans []*Span
}

// NewTracer creates a recording tracer.
func NewTracer() *Tracer {
	return &Tracer{}
}

// Start implements trace.Tracer.
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &Span{name: name, attrs: map[string]string{}}
	for _, kv := range cfg.Attributes() {
		span.attrs[string(kv.Key)] = kv.Value.Emit()
	}

	t.mu.Lock()
	t.spans = append(t.spans, span)
	t.mu.Unlock()

	return trace.ContextWithSpan(ctx, span), span
}

// Spans returns the spans started so far.
func (t *Tracer) Spans() []*Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Span(nil), t.spans...)
}

// Span records what was done to a span.
type Span struct {
	noop.Span

	mu    sync.Mutex
	name  string
	attrs map[string]string
	errs  []error
	code  codes.Code
	ended bool
}

// Name returns the span name.
func (s *Span) Name() string {
	return s.name
}

// Attr returns the emitted value of a start attribute.
func (s *Span) Attr(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attrs[key]
}

// Errors returns the recorded errors.
func (s *Span) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errs...)
}

// Code returns the last status code set.
func (s *Span) Code() codes.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

// Ended reports whether End was called.
func (s *Span) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// End implements trace.Span.
func (s *Span) End(...trace.SpanEndOption) {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
}

// RecordError implements trace.Span.
func (s *Span) RecordError(err error, _ ...trace.EventOption) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

// SetStatus implements trace.Span.
func (s *Span) SetStatus(code codes.Code, _ string) {
	s.mu.Lock()
	s.code = code
	s.mu.Unlock()
}

// IsRecording implements trace.Span.
func (s *Span) IsRecording() bool {
	return true
}
