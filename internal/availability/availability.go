// Package availability decides whether a room can be assigned to a date range
// without overlapping an existing active booking. It is the single authority
// for conflict detection: every booking-creating or date-changing operation
// runs through it before committing.
package availability

import "hotel-pms-backend/internal/model"

// Overlaps reports whether the half-open ranges [aIn, aOut) and [bIn, bOut)
// share at least one night. Ranges touching at the boundary do not conflict.
func Overlaps(aIn, aOut, bIn, bOut model.Date) bool {
	return !(!aOut.After(bIn) || !aIn.Before(bOut))
}

// IsAvailable reports whether the range [checkIn, checkOut) is free given all
// bookings fetched for the room. The booking with id excludeBookingID is
// ignored (the edit-in-place case), as is any booking that is no longer
// active.
func IsAvailable(bookings []model.Booking, checkIn, checkOut model.Date, excludeBookingID string) bool {
	for i := range bookings {
		b := &bookings[i]
		if b.ID == excludeBookingID {
			continue
		}
		if !b.Active() {
			continue
		}
		if Overlaps(checkIn, checkOut, b.CheckInDate, b.CheckOutDate) {
			return false
		}
	}
	return true
}
