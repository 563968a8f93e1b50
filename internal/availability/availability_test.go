package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel-pms-backend/internal/model"
)

func booking(id string, status model.BookingStatus, in, out model.Date) model.Booking {
	return model.Booking{ID: id, Status: status, CheckInDate: in, CheckOutDate: out}
}

func TestOverlaps(t *testing.T) {
	testCases := []struct {
		name                   string
		aIn, aOut, bIn, bOut   model.Date
		expected               bool
	}{
		{"identical ranges", "2024-06-01", "2024-06-03", "2024-06-01", "2024-06-03", true},
		{"partial overlap", "2024-06-02", "2024-06-04", "2024-06-01", "2024-06-03", true},
		{"containment", "2024-06-02", "2024-06-03", "2024-06-01", "2024-06-05", true},
		{"touching at boundary", "2024-01-03", "2024-01-05", "2024-01-01", "2024-01-03", false},
		{"touching at boundary reversed", "2024-01-01", "2024-01-03", "2024-01-03", "2024-01-05", false},
		{"fully disjoint", "2024-06-10", "2024-06-12", "2024-06-01", "2024-06-03", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Overlaps(tc.aIn, tc.aOut, tc.bIn, tc.bOut))
			// Overlap is symmetric.
			assert.Equal(t, tc.expected, Overlaps(tc.bIn, tc.bOut, tc.aIn, tc.aOut))
		})
	}
}

func TestIsAvailable(t *testing.T) {
	existing := []model.Booking{
		booking("b1", model.BookingConfirmed, "2024-06-01", "2024-06-03"),
	}

	t.Run("conflicting range is rejected", func(t *testing.T) {
		assert.False(t, IsAvailable(existing, "2024-06-02", "2024-06-04", ""))
	})

	t.Run("adjacent range is accepted", func(t *testing.T) {
		assert.True(t, IsAvailable(existing, "2024-06-03", "2024-06-05", ""))
	})

	t.Run("excluded booking does not conflict with itself", func(t *testing.T) {
		assert.True(t, IsAvailable(existing, "2024-06-02", "2024-06-04", "b1"))
	})

	t.Run("cancelled and checked-out bookings never conflict", func(t *testing.T) {
		inactive := []model.Booking{
			booking("b2", model.BookingCancelled, "2024-06-01", "2024-06-03"),
			booking("b3", model.BookingCheckedOut, "2024-06-01", "2024-06-03"),
		}
		assert.True(t, IsAvailable(inactive, "2024-06-01", "2024-06-03", ""))
	})

	t.Run("pending and checked-in bookings block", func(t *testing.T) {
		blocking := []model.Booking{
			booking("b4", model.BookingPending, "2024-06-01", "2024-06-03"),
		}
		assert.False(t, IsAvailable(blocking, "2024-06-01", "2024-06-02", ""))

		blocking[0].Status = model.BookingCheckedIn
		assert.False(t, IsAvailable(blocking, "2024-06-01", "2024-06-02", ""))
	})

	t.Run("no bookings means available", func(t *testing.T) {
		assert.True(t, IsAvailable(nil, "2024-06-01", "2024-06-03", ""))
	})
}
