package renderstate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	rserrors "github.com/vango-dev/renderstate/internal/errors"
)

// Producer computes the next data. It receives the data and error that were
// current when HandleData was called, which the Loading transition moves into
// the previous slots. It does not receive whatever the previous slots held
// before the call.
type Producer[T any] func(ctx context.Context, previousData *T, previousErr error) (T, error)

// HandleData moves the adapter to Loading, runs produce and moves to Success
// with its result or to Error with its error.
//
// A producer error is returned to the caller unchanged after it has been
// recorded. A producer panic is recorded as an R011 error and re-panicked.
// HandleData blocks for as long as produce does; run it in a goroutine to
// keep rendering meanwhile. Overlapping calls are not serialized: the last
// one to finish wins.
func (a *Adapter[T]) HandleData(ctx context.Context, produce Producer[T]) (T, error) {
	var zero T
	if produce == nil {
		return zero, rserrors.Newf(rserrors.CategoryProducer, "renderstate: nil producer")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := a.tracer.Start(ctx, "renderstate.HandleData",
		trace.WithAttributes(
			attribute.String("renderstate.adapter", a.id),
			attribute.String("renderstate.key", a.key),
			attribute.Bool("renderstate.shared", a.store != nil),
		))
	defer span.End()

	started := a.transition(beginWork[T], observableFields, false)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := rserrors.New("R011").WithDetail(fmt.Sprint(r))
			a.metrics.ObserveProducer(time.Since(start), err)
			a.transition(failWork[T](err), observableFields, false)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			panic(r)
		}
	}()

	data, err := produce(ctx, clone(started.PreviousData), started.PreviousError)
	a.metrics.ObserveProducer(time.Since(start), err)

	if err != nil {
		a.transition(failWork[T](err), observableFields, false)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.logger.Debug("renderstate producer failed",
			rserrors.New("R010").Attr(),
			slog.String("adapter", a.id),
			slog.String("key", a.key),
			slog.String("error", err.Error()))
		return zero, err
	}

	a.transition(completeWork(data), observableFields, false)
	span.SetStatus(codes.Ok, "")
	return data, nil
}

// Reset moves the current values into the previous slots and returns to Idle.
func (a *Adapter[T]) Reset() {
	a.transition(resetWork[T], observableFields, false)
}
