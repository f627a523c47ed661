// Package rstest provides testing helpers for stores and adapters.
//
// # Counting store notifications
//
//	rec := rstest.NewRecorder(s)
//	defer rec.Close()
//	a.HandleData(ctx, produce)
//	rstest.ExpectCount(t, rec, 2)
//
// # Recording what an adapter rendered over time
//
//	tl := rstest.NewTimeline(a, func() string {
//	    out, _ := a.Render(onSuccess, onIdle, onLoading, onError).(string)
//	    return out
//	})
//	defer tl.Close()
//	a.HandleData(ctx, produce)
//	rstest.ExpectSequence(t, tl.Renders(), "Idle", "Loading", "Aaa")
//
// # Capturing diagnostics and spans
//
//	logger, logs := rstest.NewLogger()
//	tracer := rstest.NewTracer()
//	a := renderstate.New[string](renderstate.WithLogger(logger), renderstate.WithTracer(tracer))
//	...
//	if !logs.Contains("R001") { ... }
//	tracer.Spans()[0].Name // "renderstate.HandleData"
package rstest
