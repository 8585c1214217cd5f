package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewOrderMetrics(t *testing.T) {
	metrics := newOrderMetricsWithRegisterer(prometheus.NewRegistry())

	if metrics == nil {
		t.Fatal("newOrderMetricsWithRegisterer should not return nil")
	}

	if metrics.ordersPlaced == nil {
		t.Error("ordersPlaced counter should not be nil")
	}

	if metrics.directBuys == nil {
		t.Error("directBuys counter should not be nil")
	}

	if metrics.ordersCanceled == nil {
		t.Error("ordersCanceled counter should not be nil")
	}

	if metrics.paymentsAccepted == nil {
		t.Error("paymentsAccepted counter should not be nil")
	}

	if metrics.paymentsRejected == nil {
		t.Error("paymentsRejected counter should not be nil")
	}

	if metrics.stockConflicts == nil {
		t.Error("stockConflicts counter should not be nil")
	}

	if metrics.statusTransitions == nil {
		t.Error("statusTransitions counter vec should not be nil")
	}

	if metrics.placeDuration == nil {
		t.Error("placeDuration histogram should not be nil")
	}
}

func TestNewOrderMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := newOrderMetricsWithRegisterer(reg)
	second := newOrderMetricsWithRegisterer(reg)

	if first.ordersPlaced != second.ordersPlaced {
		t.Error("expected ordersPlaced collector to be reused on re-registration")
	}
	if first.statusTransitions != second.statusTransitions {
		t.Error("expected statusTransitions collector to be reused on re-registration")
	}
}

func TestRecordOrderPlaced(t *testing.T) {
	// Create isolated metrics with a custom registry
	reg := prometheus.NewRegistry()

	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_orders_placed_total",
		Help: "Test counter",
	})

	reg.MustRegister(ordersPlaced)

	metrics := &OrderMetrics{
		ordersPlaced: ordersPlaced,
	}

	metrics.RecordOrderPlaced()
	metrics.RecordOrderPlaced()

	metric := &dto.Metric{}
	if err := ordersPlaced.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected counter value 2.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordPaymentOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()

	accepted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_payments_accepted_total",
		Help: "Test counter",
	})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_payments_rejected_total",
		Help: "Test counter",
	})

	reg.MustRegister(accepted, rejected)

	metrics := &OrderMetrics{
		paymentsAccepted: accepted,
		paymentsRejected: rejected,
	}

	metrics.RecordPaymentAccepted()
	metrics.RecordPaymentRejected()
	metrics.RecordPaymentRejected()

	acceptedMetric := &dto.Metric{}
	if err := accepted.Write(acceptedMetric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if acceptedMetric.Counter.GetValue() != 1.0 {
		t.Errorf("expected accepted counter 1.0, got %f", acceptedMetric.Counter.GetValue())
	}

	rejectedMetric := &dto.Metric{}
	if err := rejected.Write(rejectedMetric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if rejectedMetric.Counter.GetValue() != 2.0 {
		t.Errorf("expected rejected counter 2.0, got %f", rejectedMetric.Counter.GetValue())
	}
}

func TestRecordStatusTransition(t *testing.T) {
	reg := prometheus.NewRegistry()

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_status_transitions_total",
		Help: "Test counter vec",
	}, []string{"to"})

	reg.MustRegister(transitions)

	metrics := &OrderMetrics{
		statusTransitions: transitions,
	}

	metrics.RecordStatusTransition("shipped")
	metrics.RecordStatusTransition("shipped")
	metrics.RecordStatusTransition("canceled")

	shipped := &dto.Metric{}
	if err := transitions.WithLabelValues("shipped").Write(shipped); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if shipped.Counter.GetValue() != 2.0 {
		t.Errorf("expected shipped transitions 2.0, got %f", shipped.Counter.GetValue())
	}

	canceled := &dto.Metric{}
	if err := transitions.WithLabelValues("canceled").Write(canceled); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if canceled.Counter.GetValue() != 1.0 {
		t.Errorf("expected canceled transitions 1.0, got %f", canceled.Counter.GetValue())
	}
}

func TestRecordStockConflict(t *testing.T) {
	reg := prometheus.NewRegistry()

	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_stock_conflicts_total",
		Help: "Test counter",
	})

	reg.MustRegister(conflicts)

	metrics := &OrderMetrics{
		stockConflicts: conflicts,
	}

	metrics.RecordStockConflict()

	metric := &dto.Metric{}
	if err := conflicts.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected counter value 1.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordPlaceDuration(t *testing.T) {
	reg := prometheus.NewRegistry()

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_place_duration_seconds",
		Help:    "Test histogram",
		Buckets: prometheus.DefBuckets,
	})

	reg.MustRegister(duration)

	metrics := &OrderMetrics{
		placeDuration: duration,
	}

	metrics.RecordPlaceDuration(150 * time.Millisecond)
	metrics.RecordPlaceDuration(2 * time.Second)

	metric := &dto.Metric{}
	if err := duration.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("expected 2 samples, got %d", metric.Histogram.GetSampleCount())
	}

	expectedSum := 0.15 + 2.0
	if metric.Histogram.GetSampleSum() != expectedSum {
		t.Errorf("expected sample sum %f, got %f", expectedSum, metric.Histogram.GetSampleSum())
	}
}
