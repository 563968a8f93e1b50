package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomType classifies a room for pricing and website-booking matching.
type RoomType string

const (
	RoomStandard RoomType = "Standard"
	RoomDeluxe   RoomType = "Deluxe"
	RoomSuite    RoomType = "Suite"
)

// ValidRoomType reports whether t is one of the known room types.
func ValidRoomType(t RoomType) bool {
	switch t {
	case RoomStandard, RoomDeluxe, RoomSuite:
		return true
	}
	return false
}

// RoomStatus is the stored room state. Occupied/available is derived from the
// checked-in bookings covering the current operating date; the stored value is
// a materialized cache kept fresh by the reconciliation pass. Maintenance is
// set manually and is never overwritten by the sync.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

// Room is a single physical room of the hotel.
type Room struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	Number       string          `gorm:"uniqueIndex;size:32;not null" json:"roomNumber"`
	Type         RoomType        `gorm:"size:16;not null" json:"type"`
	Capacity     int             `gorm:"not null" json:"capacity"`
	NightlyPrice decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"nightlyPrice"`
	Status       RoomStatus      `gorm:"size:16;not null" json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
