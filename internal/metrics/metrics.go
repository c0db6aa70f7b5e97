// Package metrics defines the prometheus collectors for the HTTP
// surface and the seat inventory engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	ClaimsTotal    *prometheus.CounterVec
	ClaimsExpired  prometheus.Counter
	BookingsTotal  *prometheus.CounterVec
	SeatsAvailable *prometheus.GaugeVec
}

// New registers all collectors against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marquee_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marquee_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		ClaimsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marquee_seat_claims_total",
			Help: "Seat claim attempts by result.",
		}, []string{"result"}),
		ClaimsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "marquee_seat_claims_expired_total",
			Help: "Seat claims released by TTL expiry.",
		}),
		BookingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marquee_bookings_total",
			Help: "Booking attempts by outcome.",
		}, []string{"status"}),
		SeatsAvailable: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marquee_seats_available",
			Help: "Currently available seats per show.",
		}, []string{"theatre", "movie"}),
	}
}
