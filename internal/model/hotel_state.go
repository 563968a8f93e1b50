package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// HotelStateID is the fixed primary key of the singleton HotelState row.
const HotelStateID = "state"

// HotelState is the hotel's clock and running city ledger. CurrentDate is the
// operating date, advanced only by the night audit and independent of the
// wall-clock date. Mutated exclusively by the night-audit processor.
type HotelState struct {
	ID                string          `gorm:"primaryKey;size:16" json:"id"`
	CurrentDate       Date            `gorm:"column:operating_date;size:10;not null" json:"currentDate"`
	CityLedgerBalance decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"cityLedgerBalance"`
	LastClosedAt      *time.Time      `json:"lastClosedAt,omitempty"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// DailySummary is the immutable close-out record for one operating date,
// written by the night audit. Re-running the audit for the same date
// recomputes the same row in place (merge-write); it is never double-posted.
type DailySummary struct {
	Date                 Date            `gorm:"primaryKey;size:10" json:"date"`
	TotalSales           decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"totalSales"`
	RoomsSold            int             `gorm:"not null" json:"roomsSold"`
	PaxCount             int             `gorm:"not null" json:"paxCount"`
	AccommodationCharges decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"accommodationCharges"`
	OtherCharges         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"otherCharges"`
	PaymentsReceived     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"paymentsReceived"`
	CityLedgerOpening    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"cityLedgerOpening"`
	CityLedgerClosing    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"cityLedgerClosing"`
	ProcessedAt          time.Time       `gorm:"not null" json:"processedAt"`
}
