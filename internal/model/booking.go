package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle state of a booking.
//
// pending -> confirmed | cancelled | checkedIn
// confirmed -> checkedIn | cancelled
// checkedIn -> checkedOut
//
// cancelled and checkedOut are terminal.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checkedIn"
	BookingCheckedOut BookingStatus = "checkedOut"
	BookingCancelled  BookingStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed out of s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCheckedOut
}

// Booking is a guest reservation for one room over a half-open date range
// [CheckInDate, CheckOutDate).
type Booking struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	GuestName  string `gorm:"size:256;not null" json:"guestName"`
	GuestEmail string `gorm:"size:256" json:"guestEmail"`

	// Room number and type are denormalized snapshots taken at assignment time.
	RoomID     string   `gorm:"size:36;index;not null" json:"roomId"`
	RoomNumber string   `gorm:"size:32" json:"roomNumber"`
	RoomType   RoomType `gorm:"size:16" json:"roomType"`

	CheckInDate  Date `gorm:"size:10;not null" json:"checkInDate"`
	CheckOutDate Date `gorm:"size:10;not null" json:"checkOutDate"`
	PaxCount     int  `gorm:"not null" json:"paxCount"`

	NightlyPrice decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"nightlyPrice"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"totalPrice"`
	// BalanceDue = TotalPrice + sum(charges) - sum(payments). Negative means
	// the guest holds a credit.
	BalanceDue decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"balanceDue"`

	Status          BookingStatus `gorm:"size:16;not null;index" json:"status"`
	SpecialRequests string        `json:"specialRequests"`

	ProcessedFromWebsiteBookingID string `gorm:"size:36" json:"processedFromWebsiteBookingId,omitempty"`

	CheckedInAt  *time.Time `json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time `json:"checkedOutAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Transactions []Transaction `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}

// Active reports whether the booking blocks its room's dates. Cancelled and
// checked-out bookings never conflict with new reservations.
func (b *Booking) Active() bool {
	switch b.Status {
	case BookingPending, BookingConfirmed, BookingCheckedIn:
		return true
	}
	return false
}

// Covers reports whether d falls within [CheckInDate, CheckOutDate).
func (b *Booking) Covers(d Date) bool {
	return !d.Before(b.CheckInDate) && d.Before(b.CheckOutDate)
}
