package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты операций в метках.
const (
	ResultOK = "ok"
)

// OrderMetrics содержит метрики жизненного цикла заказов.
// Все методы безопасны для nil-получателя: без метрик сервис работает так же.
type OrderMetrics struct {
	ordersCreated     *prometheus.CounterVec
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	payments          *prometheus.CounterVec
	paymentDuration   prometheus.Histogram
	stockMovements    *prometheus.CounterVec
	stockDeferred     prometheus.Counter
	timelineEvents    prometheus.Counter
	outboxEvents      prometheus.Counter
	outboxPublished   *prometheus.CounterVec
	outboxBacklog     prometheus.Gauge
	outboxOldestAge   prometheus.Gauge
}

// NewOrderMetrics регистрирует метрики в глобальном реестре.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer регистрирует метрики в переданном реестре.
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pharmacy_orders_created_total",
			Help: "Total number of orders created, by prescription requirement",
		}, []string{"prescription"})),
		operations: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pharmacy_order_operations_total",
			Help: "Order lifecycle operations by outcome",
		}, []string{"operation", "result"})),
		operationDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pharmacy_order_operation_duration_seconds",
			Help:    "Duration of order lifecycle operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"})),
		payments: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pharmacy_payments_total",
			Help: "Payment attempts by method and resulting status",
		}, []string{"method", "status"})),
		paymentDuration: register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pharmacy_payment_gateway_duration_seconds",
			Help:    "Latency of payment gateway calls in seconds",
			Buckets: prometheus.DefBuckets,
		})),
		stockMovements: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pharmacy_stock_movements_total",
			Help: "Stock deductions and restorations applied by orders",
		}, []string{"direction", "point"})),
		stockDeferred: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pharmacy_stock_deferred_total",
			Help: "Deductions at creation deferred to confirmation because stock ran out",
		})),
		timelineEvents: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pharmacy_timeline_events_total",
			Help: "Total number of timeline events recorded",
		})),
		outboxEvents: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pharmacy_outbox_events_total",
			Help: "Total number of outbox events enqueued",
		})),
		outboxPublished: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pharmacy_outbox_published_total",
			Help: "Outbox publish attempts by result",
		}, []string{"result"})),
		outboxBacklog: register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pharmacy_outbox_backlog",
			Help: "Number of pending outbox events",
		})),
		outboxOldestAge: register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pharmacy_outbox_oldest_pending_age_seconds",
			Help: "Age of the oldest pending outbox event",
		})),
	}
}

// register регистрирует коллектор или возвращает уже зарегистрированный с тем же именем.
func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(T)
			if !ok {
				panic(fmt.Sprintf("collector already registered with unexpected type %T", alreadyRegistered.ExistingCollector))
			}
			return existing
		}
		panic(fmt.Sprintf("register collector: %v", err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *OrderMetrics) RecordOrderCreated(prescription bool) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(strconv.FormatBool(prescription)).Inc()
}

// RecordOperation фиксирует исход и длительность операции.
// result: ResultOK или вид ошибки.
func (m *OrderMetrics) RecordOperation(operation, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, result).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPayment фиксирует результат вызова платёжного шлюза.
func (m *OrderMetrics) RecordPayment(method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(method, status).Inc()
	m.paymentDuration.Observe(duration.Seconds())
}

// RecordStockDeducted фиксирует списание склада.
func (m *OrderMetrics) RecordStockDeducted(point string) {
	if m == nil {
		return
	}
	m.stockMovements.WithLabelValues("deducted", point).Inc()
}

// RecordStockRestored фиксирует возврат склада.
func (m *OrderMetrics) RecordStockRestored(point string) {
	if m == nil {
		return
	}
	m.stockMovements.WithLabelValues("restored", point).Inc()
}

// RecordStockDeferred фиксирует перенос списания на подтверждение.
func (m *OrderMetrics) RecordStockDeferred() {
	if m == nil {
		return
	}
	m.stockDeferred.Inc()
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *OrderMetrics) RecordTimelineEvent() {
	if m == nil {
		return
	}
	m.timelineEvents.Inc()
}

// RecordOutboxEvent увеличивает счётчик поставленных в outbox событий.
func (m *OrderMetrics) RecordOutboxEvent() {
	if m == nil {
		return
	}
	m.outboxEvents.Inc()
}

// RecordOutboxPublish фиксирует попытку публикации из outbox.
func (m *OrderMetrics) RecordOutboxPublish(result string) {
	if m == nil {
		return
	}
	m.outboxPublished.WithLabelValues(result).Inc()
}

// SetOutboxBacklog обновляет размер backlog и возраст самого старого события.
func (m *OrderMetrics) SetOutboxBacklog(pending int, oldest time.Time) {
	if m == nil {
		return
	}
	m.outboxBacklog.Set(float64(pending))
	if pending == 0 || oldest.IsZero() {
		m.outboxOldestAge.Set(0)
		return
	}
	m.outboxOldestAge.Set(time.Since(oldest).Seconds())
}
