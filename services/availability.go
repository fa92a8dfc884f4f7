package services

import (
	"time"

	"adventure-backend/models"
)

// Overlaps reports whether two closed date intervals collide. Touching
// endpoints do not collide: a trip ending on day N and one starting on day N
// can share the guide (handover happens the same day).
func Overlaps(existingStart, existingEnd, candidateStart, candidateEnd time.Time) bool {
	return existingStart.Before(candidateEnd) && existingEnd.After(candidateStart)
}

// IsGuideAvailable decides whether a guide is free for the candidate interval
// given that guide's existing bookings. Only CONFIRMED bookings block a new
// reservation; an unpaid or abandoned reservation must not squat on a guide's
// calendar. Pure function, no I/O.
func IsGuideAvailable(candidateStart, candidateEnd time.Time, existing []models.Booking) bool {
	for _, b := range existing {
		if b.Status != models.BookingStatusConfirmed {
			continue
		}
		if Overlaps(b.StartDate, b.EndDate, candidateStart, candidateEnd) {
			return false
		}
	}
	return true
}
