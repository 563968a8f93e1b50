package model

import "time"

// PushSubscription holds a dashboard browser's web push subscription.
// Subscribers are notified of new website bookings and completed night audits.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
