package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OrdersPlaced         *prometheus.CounterVec
	OrdersDegraded       prometheus.Counter
	StatusTransitions    *prometheus.CounterVec
	CustomerUpsertFailed prometheus.Counter
	OrderItemFailed      prometheus.Counter
	NotificationsFailed  prometheus.Counter
	OrderNumberFallbacks prometheus.Counter

	once sync.Once
)

func init() {
	Init()
}

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	once.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		OrdersPlaced = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_placed_total",
				Help: "Orders accepted, by payment method and persistence mode",
			},
			[]string{"payment_method", "persistence"},
		)

		OrdersDegraded = promauto.NewCounter(prometheus.CounterOpts{
			Name: "orders_degraded_total",
			Help: "Orders held only in process memory after the durable store failed",
		})

		StatusTransitions = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_status_transitions_total",
				Help: "Order status changes",
			},
			[]string{"from", "to"},
		)

		CustomerUpsertFailed = promauto.NewCounter(prometheus.CounterOpts{
			Name: "customer_upsert_failures_total",
			Help: "Customer bookkeeping failures swallowed during order placement",
		})

		OrderItemFailed = promauto.NewCounter(prometheus.CounterOpts{
			Name: "order_item_failures_total",
			Help: "Order item rows that could not be written",
		})

		NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Customer notifications that could not be delivered",
		})

		OrderNumberFallbacks = promauto.NewCounter(prometheus.CounterOpts{
			Name: "order_number_counter_fallbacks_total",
			Help: "Order numbers derived from the last order because the counter was unavailable",
		})
	})
}

func RecordOrderPlaced(method string, ephemeral bool) {
	persistence := "durable"
	if ephemeral {
		persistence = "ephemeral"
		OrdersDegraded.Inc()
	}
	OrdersPlaced.WithLabelValues(method, persistence).Inc()
}

func RecordTransition(from, to string) {
	StatusTransitions.WithLabelValues(from, to).Inc()
}
