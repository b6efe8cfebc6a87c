package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fleetrent", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fleetrent",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fleetrent", Name: "booking_transitions_total", Help: "Booking state transitions committed"},
		[]string{"transition"},
	)
	BookingsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "fleetrent", Name: "bookings_expired_total", Help: "Pending bookings expired by the cron job"},
	)
)
