package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	// None of these should panic.
	m.RecordWrite(true, false, 1)
	m.RecordNotify()
	m.RecordRemove(0)
	m.RecordReset()
	m.ListenerAdded()
	m.ListenerRemoved()
	m.RecordTransition("Loading")
	m.RecordReconcile()
	m.ObserveProducer(time.Millisecond, nil)
	m.RecordDiagnostic("R001")
}

func TestStoreCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg), WithNamespace("test"))

	m.RecordWrite(true, false, 1)
	m.RecordWrite(true, false, 2)
	m.RecordWrite(false, true, 2)
	m.RecordNotify()
	m.RecordNotify()

	if got := testutil.ToFloat64(m.writesTotal.WithLabelValues("merge", "false")); got != 2 {
		t.Errorf("merge writes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.writesTotal.WithLabelValues("replace", "true")); got != 1 {
		t.Errorf("silent replace writes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.notificationsTotal); got != 2 {
		t.Errorf("notifications = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.records); got != 2 {
		t.Errorf("records = %v, want 2", got)
	}

	m.RecordRemove(1)
	if got := testutil.ToFloat64(m.records); got != 1 {
		t.Errorf("records after remove = %v, want 1", got)
	}
	m.RecordReset()
	if got := testutil.ToFloat64(m.records); got != 0 {
		t.Errorf("records after reset = %v, want 0", got)
	}
}

func TestListenerGauge(t *testing.T) {
	m := New(WithRegistry(prometheus.NewRegistry()))

	m.ListenerAdded()
	m.ListenerAdded()
	m.ListenerRemoved()

	if got := testutil.ToFloat64(m.listeners); got != 1 {
		t.Errorf("listeners = %v, want 1", got)
	}
}

func TestAdapterCounters(t *testing.T) {
	m := New(WithRegistry(prometheus.NewRegistry()), WithBuckets([]float64{0.1, 1}))

	m.RecordTransition("Loading")
	m.RecordTransition("Success")
	m.RecordTransition("Loading")
	m.RecordReconcile()
	m.ObserveProducer(10*time.Millisecond, nil)
	m.ObserveProducer(10*time.Millisecond, errors.New("boom"))
	m.RecordDiagnostic("R002")

	if got := testutil.ToFloat64(m.transitionsTotal.WithLabelValues("Loading")); got != 2 {
		t.Errorf("Loading transitions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.reconciledTotal); got != 1 {
		t.Errorf("reconciled = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.producerErrors); got != 1 {
		t.Errorf("producer errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.diagnosticsTotal.WithLabelValues("R002")); got != 1 {
		t.Errorf("diagnostics = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.producerDuration); got != 1 {
		t.Errorf("producer histogram series = %d, want 1", got)
	}
}

func TestConstLabelsAndSubsystem(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(
		WithRegistry(reg),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"app": "demo"}),
	)
	m.RecordNotify()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "renderstate_ui_store_notifications_total" {
			found = true
			labels := mf.GetMetric()[0].GetLabel()
			if len(labels) != 1 || labels[0].GetName() != "app" || labels[0].GetValue() != "demo" {
				t.Errorf("unexpected labels: %v", labels)
			}
		}
	}
	if !found {
		t.Error("renderstate_ui_store_notifications_total not gathered")
	}
}
