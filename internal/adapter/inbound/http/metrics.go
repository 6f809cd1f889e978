package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
// Pass to components that need to record metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CartItems       prometheus.Gauge
	CheckoutsTotal  prometheus.Counter
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopfront",
				Name:      "requests_total",
				Help:      "Total number of API requests processed",
			},
			[]string{"method", "status"}, // status=ok/error
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shopfront",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets, // 5ms to 10s
			},
			[]string{"method"},
		),
		CartItems: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "shopfront",
				Name:      "cart_items",
				Help:      "Number of items currently in the cart",
			},
		),
		CheckoutsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "shopfront",
				Name:      "checkouts_total",
				Help:      "Total orders successfully placed",
			},
		),
	}
}
