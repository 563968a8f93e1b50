package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCategory discriminates room revenue, incidental charges and
// payments. Room charges posted by the night audit carry CategoryRoomCharge so
// reporting never has to match on description text.
type TransactionCategory string

const (
	CategoryRoomCharge TransactionCategory = "room_charge"
	CategoryIncidental TransactionCategory = "incidental"
	CategoryPayment    TransactionCategory = "payment"
)

// ValidTransactionCategory reports whether c is a known category.
func ValidTransactionCategory(c TransactionCategory) bool {
	switch c {
	case CategoryRoomCharge, CategoryIncidental, CategoryPayment:
		return true
	}
	return false
}

// IsCharge reports whether the category increases the booking balance.
func (c TransactionCategory) IsCharge() bool {
	return c == CategoryRoomCharge || c == CategoryIncidental
}

// Transaction is a single charge or payment owned by exactly one booking.
// Amount is always positive; the effect on the balance is determined by the
// category, never by the sign of the amount.
//
// The partial unique index admits at most one room charge per booking and
// date, so concurrent night-audit runs cannot double-post a folio even when
// both pass the dedup read.
type Transaction struct {
	ID          string              `gorm:"primaryKey;size:36" json:"id"`
	BookingID   string              `gorm:"size:36;index;not null;uniqueIndex:uniq_room_charge_per_night,priority:1" json:"bookingId"`
	Category    TransactionCategory `gorm:"size:16;not null;uniqueIndex:uniq_room_charge_per_night,priority:2,where:category = 'room_charge'" json:"category"`
	Amount      decimal.Decimal     `gorm:"type:decimal(20,2);not null" json:"amount"`
	Description string              `gorm:"size:256" json:"description"`
	// Date is the operating date the transaction is attributed to, which the
	// night audit aggregates by. It is independent of CreatedAt.
	Date      Date      `gorm:"size:10;index;not null;uniqueIndex:uniq_room_charge_per_night,priority:3" json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// BalanceEffect returns the signed effect of the transaction on the owning
// booking's balance due.
func (t *Transaction) BalanceEffect() decimal.Decimal {
	if t.Category == CategoryPayment {
		return t.Amount.Neg()
	}
	return t.Amount
}
