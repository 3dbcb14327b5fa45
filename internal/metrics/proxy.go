package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream proxy metrics.
var (
	ProxyRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proxy_requests_total",
			Help:      "Total number of requests forwarded to upstream services",
		},
		[]string{"service", "method", "outcome"},
	)

	ProxyRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "proxy_request_duration_seconds",
			Help:      "Upstream round-trip duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"service", "outcome"},
	)
)

// Store query metrics.
var (
	StoreQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_query_duration_seconds",
			Help:      "Record store query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"driver", "op", "status"},
	)
)

// ObserveStore records the duration of a store operation that began at start.
func ObserveStore(driver, op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreQueryDuration.WithLabelValues(driver, op, status).Observe(time.Since(start).Seconds())
}

var proxyMetricsRegistered bool

// RegisterGatewayMetrics registers proxy and store metrics. Must be called once from main.
func RegisterGatewayMetrics() {
	if proxyMetricsRegistered {
		return
	}
	prometheus.MustRegister(ProxyRequestsTotal)
	prometheus.MustRegister(ProxyRequestDuration)
	prometheus.MustRegister(StoreQueryDuration)
	proxyMetricsRegistered = true
}
