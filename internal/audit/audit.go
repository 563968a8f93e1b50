// Package audit implements the night-audit (end-of-day) batch: it posts
// accommodation charges for in-house guests, aggregates the day's
// transactions, auto-checks-out settled guests, writes the daily summary and
// rolls the city ledger forward onto the next operating date.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-pms-backend/internal/events"
	"hotel-pms-backend/internal/ledger"
	"hotel-pms-backend/internal/model"
	"hotel-pms-backend/internal/store"
)

// Processor runs the end-of-day close.
type Processor struct {
	store  store.Store
	ledger *ledger.Service
	events *events.Publisher
}

// NewProcessor creates a night-audit processor. events may be nil.
func NewProcessor(s store.Store, l *ledger.Service, ev *events.Publisher) *Processor {
	return &Processor{store: s, ledger: l, events: ev}
}

// Result is the outcome of one audit run. Warnings name guests that could not
// be auto-checked out; they are soft and do not abort the run.
type Result struct {
	Summary  model.DailySummary `json:"summary"`
	Warnings []string           `json:"warnings,omitempty"`
	Rerun    bool               `json:"rerun"`
}

// Run closes the operating date. An empty date means the current operating
// date. The whole batch executes in a single database transaction, so a
// mid-scan failure leaves no partial postings behind.
//
// Closing is guarded: only the current operating date can be closed for the
// first time. A date whose summary already exists may be re-run; the re-run
// recomputes the summary in place against its stored opening balance, skips
// bookings that already carry a room charge for that date, and never advances
// the operating date, so it is idempotent.
func (p *Processor) Run(ctx context.Context, date model.Date) (*Result, error) {
	state, err := p.store.HotelState(ctx)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = state.CurrentDate
	}
	if !date.Valid() {
		return nil, &ledger.ValidationError{Msg: fmt.Sprintf("invalid operating date %q", date)}
	}

	rerun := false
	opening := state.CityLedgerBalance
	if date != state.CurrentDate {
		summary, err := p.store.GetDailySummary(ctx, date)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, &ledger.BusinessRuleError{
					Msg: fmt.Sprintf("%s is not the current operating date (%s) and has no previous close", date, state.CurrentDate),
				}
			}
			return nil, err
		}
		rerun = true
		opening = summary.CityLedgerOpening
	}

	result := &Result{Rerun: rerun}
	err = p.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return p.runLocked(tx, date, opening, rerun, result)
	})
	if err != nil {
		return nil, err
	}

	// Refresh derived room statuses for the new operating date.
	if _, err := p.ledger.ReconcileRoomStatus(ctx); err != nil {
		return nil, fmt.Errorf("close succeeded but room reconciliation failed: %w", err)
	}

	p.events.Publish(ctx, events.AuditCompleted, result)
	return result, nil
}

func (p *Processor) runLocked(tx *gorm.DB, date model.Date, opening decimal.Decimal, rerun bool, result *Result) error {
	// The hotel-state row is the mutex for the close: holding its write lock
	// serializes concurrent audit runs, and the guard is re-checked under the
	// lock because a competing close may have advanced the date since Run
	// read it.
	var state model.HotelState
	if err := store.LockForUpdate(tx).First(&state, "id = ?", model.HotelStateID).Error; err != nil {
		return err
	}
	if !rerun && state.CurrentDate != date {
		return &ledger.BusinessRuleError{
			Msg: fmt.Sprintf("operating date advanced to %s while closing %s", state.CurrentDate, date),
		}
	}

	var rooms []model.Room
	if err := tx.Find(&rooms).Error; err != nil {
		return err
	}
	priceByRoom := make(map[string]decimal.Decimal, len(rooms))
	for i := range rooms {
		priceByRoom[rooms[i].ID] = rooms[i].NightlyPrice
	}

	var bookings []model.Booking
	if err := tx.Find(&bookings).Error; err != nil {
		return err
	}

	roomsSold := 0
	paxCount := 0
	now := time.Now()

	for i := range bookings {
		b := &bookings[i]
		inHouse := b.Status == model.BookingCheckedIn && b.Covers(date)

		if inHouse {
			roomsSold++
			paxCount += b.PaxCount

			if err := p.postRoomCharge(tx, b, priceByRoom, date); err != nil {
				return err
			}
		}
	}

	accommodation, other, payments, err := aggregateDay(tx, date)
	if err != nil {
		return err
	}
	totalSales := accommodation.Add(other)
	closing := opening.Add(totalSales).Sub(payments)

	// Auto-checkout pass: guests whose stay ends today leave if settled.
	for i := range bookings {
		b := &bookings[i]
		if b.Status != model.BookingCheckedIn || b.CheckOutDate != date {
			continue
		}

		// Re-read the balance: the posting pass above may have changed it.
		var current model.Booking
		if err := tx.First(&current, "id = ?", b.ID).Error; err != nil {
			return err
		}
		if current.BalanceDue.IsPositive() {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"guest %s could not be auto-checked out: outstanding balance of %s",
				current.GuestName, current.BalanceDue.StringFixed(2)))
			continue
		}

		current.Status = model.BookingCheckedOut
		current.CheckedOutAt = &now
		if err := tx.Save(&current).Error; err != nil {
			return err
		}
		err := tx.Model(&model.Room{}).
			Where("id = ? AND status <> ?", current.RoomID, model.RoomMaintenance).
			Update("status", model.RoomAvailable).Error
		if err != nil {
			return err
		}
	}

	summary := model.DailySummary{
		Date:                 date,
		TotalSales:           totalSales,
		RoomsSold:            roomsSold,
		PaxCount:             paxCount,
		AccommodationCharges: accommodation,
		OtherCharges:         other,
		PaymentsReceived:     payments,
		CityLedgerOpening:    opening,
		CityLedgerClosing:    closing,
		ProcessedAt:          now,
	}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		UpdateAll: true,
	}).Create(&summary).Error
	if err != nil {
		return err
	}
	result.Summary = summary

	if rerun {
		return nil
	}

	// Advancing the date is the final step of a first-time close.
	return tx.Model(&model.HotelState{}).
		Where("id = ?", model.HotelStateID).
		Updates(map[string]any{
			"operating_date":      date.AddDays(1),
			"city_ledger_balance": closing,
			"last_closed_at":      now,
		}).Error
}

// postRoomCharge posts the nightly accommodation charge for an in-house
// booking unless one already exists for the date, which makes re-runs and
// retried closes idempotent per booking and date.
func (p *Processor) postRoomCharge(tx *gorm.DB, b *model.Booking, priceByRoom map[string]decimal.Decimal, date model.Date) error {
	price, ok := priceByRoom[b.RoomID]
	if !ok || !price.IsPositive() {
		return nil
	}

	var count int64
	err := tx.Model(&model.Transaction{}).
		Where("booking_id = ? AND category = ? AND date = ?", b.ID, model.CategoryRoomCharge, date).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	txn := model.Transaction{
		ID:          uuid.NewString(),
		BookingID:   b.ID,
		Category:    model.CategoryRoomCharge,
		Amount:      price,
		Description: fmt.Sprintf("Accommodation Charge (%s)", date),
		Date:        date,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return err
	}

	var txns []model.Transaction
	if err := tx.Where("booking_id = ?", b.ID).Find(&txns).Error; err != nil {
		return err
	}
	return tx.Model(&model.Booking{}).
		Where("id = ?", b.ID).
		Update("balance_due", ledger.ComputeBalance(b.TotalPrice, txns)).Error
}

// aggregateDay sums the day's transactions by category.
func aggregateDay(tx *gorm.DB, date model.Date) (accommodation, other, payments decimal.Decimal, err error) {
	accommodation, other, payments = decimal.Zero, decimal.Zero, decimal.Zero

	var txns []model.Transaction
	if err = tx.Where("date = ?", date).Find(&txns).Error; err != nil {
		return
	}
	for i := range txns {
		switch txns[i].Category {
		case model.CategoryRoomCharge:
			accommodation = accommodation.Add(txns[i].Amount)
		case model.CategoryIncidental:
			other = other.Add(txns[i].Amount)
		case model.CategoryPayment:
			payments = payments.Add(txns[i].Amount)
		}
	}
	return
}
