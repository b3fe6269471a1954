package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/labstack/echo/v4"
)

var (
	bookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_bookings_created_total",
		Help: "Total court bookings successfully created",
	})
	bookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_booking_conflicts_total",
		Help: "Total booking attempts rejected because the slot was taken",
	})
	bookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_bookings_cancelled_total",
		Help: "Total court bookings cancelled",
	})
	playSignUps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_play_signups_total",
		Help: "Total play session sign-ups successfully created",
	})
	playSlotFull = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_play_slot_full_total",
		Help: "Total sign-up attempts rejected because the session was full",
	})
	composerFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_composer_fallbacks_total",
		Help: "Total confirmation messages built from the deterministic fallback",
	})
)

func RecordBookingCreated()   { bookingsCreated.Inc() }
func RecordBookingConflict()  { bookingConflicts.Inc() }
func RecordBookingCancelled() { bookingsCancelled.Inc() }
func RecordPlaySignUp()       { playSignUps.Inc() }
func RecordPlaySlotFull()     { playSlotFull.Inc() }
func RecordComposerFallback() { composerFallbacks.Inc() }

// Handler exposes the Prometheus scrape endpoint as an echo handler.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
