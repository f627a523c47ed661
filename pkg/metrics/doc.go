// Package metrics provides Prometheus collectors for renderstate stores and
// adapters.
//
// A *Metrics value is created once and handed to every store and adapter that
// should report into it:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("myapp"))
//	s := store.New(store.WithMetrics(m))
//	a := renderstate.New[User](renderstate.WithStore(s), renderstate.WithMetrics(m))
//
// All recording methods are safe on a nil *Metrics, so instrumentation is
// optional everywhere.
package metrics
