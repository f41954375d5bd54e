package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "transit", Name: "payments_total", Help: "Payment resolutions by outcome"},
		[]string{"outcome"},
	)
	TripTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "transit", Name: "trip_transitions_total", Help: "Trip status transitions by target status"},
		[]string{"status"},
	)
	WithdrawalsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "transit", Name: "withdrawals_processed_total", Help: "Withdrawals processed by final status"},
		[]string{"status"},
	)
	LocationUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "transit", Name: "location_updates_total", Help: "Driver location reports accepted"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "transit", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "transit",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
