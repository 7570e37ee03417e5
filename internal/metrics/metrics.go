// Package metrics holds the Prometheus collectors of the ordering service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pokehouse"

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	ordersPlaced    prometheus.Counter
	bowlsSold       *prometheus.CounterVec
	quotaRejections *prometheus.CounterVec
	revenue         prometheus.Counter
	remainingBowls  *prometheus.GaugeVec
	ledgerResets    prometheus.Counter
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"method", "path"},
		),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Total number of orders placed.",
		}),
		bowlsSold: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orders",
				Name:      "bowls_total",
				Help:      "Total number of bowls sold, by size.",
			},
			[]string{"size"},
		),
		quotaRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orders",
				Name:      "quota_rejections_total",
				Help:      "Orders rejected because a size's daily quota was reached.",
			},
			[]string{"size"},
		),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "revenue_total",
			Help:      "Sum of order totals after discounts.",
		}),
		remainingBowls: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "remaining_bowls",
				Help:      "Bowls that can still be sold today, by size.",
			},
			[]string{"size"},
		),
		ledgerResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "resets_total",
			Help:      "Number of daily ledger resets.",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.ordersPlaced,
		m.bowlsSold,
		m.quotaRejections,
		m.revenue,
		m.remainingBowls,
		m.ledgerResets,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOrder records a placed order.
func (m *Metrics) RecordOrder(bowlsBySize map[string]int, total float64) {
	m.ordersPlaced.Inc()
	for size, n := range bowlsBySize {
		m.bowlsSold.WithLabelValues(size).Add(float64(n))
	}
	m.revenue.Add(total)
}

// RecordQuotaRejection records an order refused for lack of quota.
func (m *Metrics) RecordQuotaRejection(size string) {
	m.quotaRejections.WithLabelValues(size).Inc()
}

// SetRemaining publishes the remaining quota of a size.
func (m *Metrics) SetRemaining(size string, remaining int) {
	m.remainingBowls.WithLabelValues(size).Set(float64(remaining))
}

// RecordReset records a daily ledger reset.
func (m *Metrics) RecordReset() {
	m.ledgerResets.Inc()
}
