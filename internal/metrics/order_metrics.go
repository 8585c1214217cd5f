package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики движка заказов.
type OrderMetrics struct {
	// Счётчики операций
	ordersPlaced     prometheus.Counter
	directBuys       prometheus.Counter
	ordersCanceled   prometheus.Counter
	paymentsAccepted prometheus.Counter
	paymentsRejected prometheus.Counter
	stockConflicts   prometheus.Counter

	// Переходы статусов по целевому статусу
	statusTransitions *prometheus.CounterVec

	// Гистограмма времени оформления заказа
	placeDuration prometheus.Histogram
}

// NewOrderMetrics создаёт и регистрирует метрики в глобальном реестре.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Total number of orders placed from carts",
		}),
		directBuys: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_direct_buys_total",
			Help: "Total number of direct buy orders created",
		}),
		ordersCanceled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_canceled_total",
			Help: "Total number of orders canceled",
		}),
		paymentsAccepted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_payments_accepted_total",
			Help: "Total number of payment confirmations accepted",
		}),
		paymentsRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_payments_rejected_total",
			Help: "Total number of payment confirmations rejected or ignored",
		}),
		stockConflicts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_stock_conflicts_total",
			Help: "Total number of operations failed on insufficient stock",
		}),
		statusTransitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_order_status_transitions_total",
			Help: "Total number of order status transitions by target status",
		}, []string{"to"}),
		placeDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_order_place_duration_seconds",
			Help:    "Duration of order placement in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderPlaced увеличивает счётчик оформленных заказов.
func (m *OrderMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}

// RecordDirectBuy увеличивает счётчик direct buy заказов.
func (m *OrderMetrics) RecordDirectBuy() {
	m.directBuys.Inc()
}

// RecordOrderCanceled увеличивает счётчик отменённых заказов.
func (m *OrderMetrics) RecordOrderCanceled() {
	m.ordersCanceled.Inc()
}

// RecordPaymentAccepted увеличивает счётчик принятых подтверждений оплаты.
func (m *OrderMetrics) RecordPaymentAccepted() {
	m.paymentsAccepted.Inc()
}

// RecordPaymentRejected увеличивает счётчик отклонённых подтверждений оплаты.
func (m *OrderMetrics) RecordPaymentRejected() {
	m.paymentsRejected.Inc()
}

// RecordStockConflict увеличивает счётчик отказов из-за нехватки остатков.
func (m *OrderMetrics) RecordStockConflict() {
	m.stockConflicts.Inc()
}

// RecordStatusTransition фиксирует переход заказа в статус to.
func (m *OrderMetrics) RecordStatusTransition(to string) {
	m.statusTransitions.WithLabelValues(to).Inc()
}

// RecordPlaceDuration записывает время оформления заказа.
func (m *OrderMetrics) RecordPlaceDuration(duration time.Duration) {
	m.placeDuration.Observe(duration.Seconds())
}
