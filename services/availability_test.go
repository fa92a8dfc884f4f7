package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"adventure-backend/models"
)

func day(d int) time.Time {
	return time.Date(2030, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		existingStart, existingEnd int
		candStart, candEnd         int
		want                       bool
	}{
		{"identical intervals", 10, 15, 10, 15, true},
		{"candidate inside existing", 10, 20, 12, 14, true},
		{"existing inside candidate", 12, 14, 10, 20, true},
		{"partial overlap left", 10, 15, 8, 12, true},
		{"partial overlap right", 10, 15, 13, 18, true},
		{"candidate before", 10, 15, 1, 5, false},
		{"candidate after", 10, 15, 20, 25, false},
		{"candidate ends on existing start", 10, 15, 5, 10, false},
		{"candidate starts on existing end", 10, 15, 15, 20, false},
		{"one day apart", 10, 15, 16, 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(day(tt.existingStart), day(tt.existingEnd), day(tt.candStart), day(tt.candEnd))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsGuideAvailable(t *testing.T) {
	confirmed := models.Booking{
		StartDate: day(10), EndDate: day(15),
		Status: models.BookingStatusConfirmed,
	}

	t.Run("free calendar", func(t *testing.T) {
		assert.True(t, IsGuideAvailable(day(1), day(5), nil))
	})

	t.Run("confirmed booking blocks", func(t *testing.T) {
		assert.False(t, IsGuideAvailable(day(12), day(17), []models.Booking{confirmed}))
	})

	t.Run("only confirmed bookings block", func(t *testing.T) {
		for _, status := range []string{
			models.BookingStatusNew,
			models.BookingStatusPending,
			models.BookingStatusCancelled,
		} {
			b := confirmed
			b.Status = status
			assert.True(t, IsGuideAvailable(day(12), day(17), []models.Booking{b}), status)
		}
	})

	t.Run("back to back trips share the handover day", func(t *testing.T) {
		assert.True(t, IsGuideAvailable(day(15), day(20), []models.Booking{confirmed}))
		assert.True(t, IsGuideAvailable(day(5), day(10), []models.Booking{confirmed}))
	})
}
