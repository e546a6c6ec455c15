package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the booking funnel and engine behavior.
type Metrics struct {
	BookingsCreated      prometheus.Counter
	BookingsEdited       prometheus.Counter
	BookingsCancelled    prometheus.Counter
	AvailabilityErrors   *prometheus.CounterVec // expected no-table outcomes, by reason
	ReservationRetries   prometheus.Counter     // lost the commit race, retried with fresh data
	AvailabilityRequests prometheus.Counter
	AvailabilityDuration prometheus.Histogram
	WaitlistTransitions  *prometheus.CounterVec
}

// New registers the metric set on the provided registerer. Tests pass a fresh
// prometheus.NewRegistry to keep registrations isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tablebook_bookings_created_total",
			Help: "Total number of bookings committed",
		}),
		BookingsEdited: factory.NewCounter(prometheus.CounterOpts{
			Name: "tablebook_bookings_edited_total",
			Help: "Total number of booking edits committed",
		}),
		BookingsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "tablebook_bookings_cancelled_total",
			Help: "Total number of bookings cancelled",
		}),
		AvailabilityErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tablebook_availability_rejections_total",
			Help: "Booking requests rejected for lack of a table, by reason",
		}, []string{"reason"}),
		ReservationRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "tablebook_reservation_retries_total",
			Help: "Commits retried after losing the reservation race",
		}),
		AvailabilityRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "tablebook_availability_requests_total",
			Help: "Total availability listings served",
		}),
		AvailabilityDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tablebook_availability_duration_seconds",
			Help:    "Time spent computing a day's slot list",
			Buckets: prometheus.DefBuckets,
		}),
		WaitlistTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tablebook_waitlist_transitions_total",
			Help: "Waitlist state transitions, by target state",
		}, []string{"to"}),
	}
}
