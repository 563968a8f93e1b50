package model

import "time"

// WebsiteBookingStatus is the state of an inbound website reservation request.
type WebsiteBookingStatus string

const (
	WebsiteBookingPending  WebsiteBookingStatus = "pending"
	WebsiteBookingAccepted WebsiteBookingStatus = "accepted"
	WebsiteBookingRejected WebsiteBookingStatus = "rejected"
)

// WebsiteBooking is an untrusted reservation request from the hotel website.
// It sits in an inbox until the front desk converts it into a Booking or
// rejects it; either way it is removed once processed.
type WebsiteBooking struct {
	ID                string               `gorm:"primaryKey;size:36" json:"id"`
	GuestName         string               `gorm:"size:256;not null" json:"guestName"`
	GuestEmail        string               `gorm:"size:256" json:"guestEmail"`
	RoomTypeRequested RoomType             `gorm:"size:16;not null" json:"roomTypeRequested"`
	CheckInDate       Date                 `gorm:"size:10;not null" json:"checkInDate"`
	CheckOutDate      Date                 `gorm:"size:10;not null" json:"checkOutDate"`
	PaxCount          int                  `gorm:"not null" json:"paxCount"`
	SpecialRequests   string               `json:"specialRequests"`
	Status            WebsiteBookingStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt         time.Time            `json:"createdAt"`
}
