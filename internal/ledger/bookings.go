package ledger

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-pms-backend/internal/availability"
	"hotel-pms-backend/internal/events"
	"hotel-pms-backend/internal/model"
	"hotel-pms-backend/internal/store"
)

// BookingInput holds the fields for creating a booking.
type BookingInput struct {
	GuestName       string
	GuestEmail      string
	RoomID          string
	CheckInDate     model.Date
	CheckOutDate    model.Date
	PaxCount        int
	NightlyPrice    *decimal.Decimal // defaults to the room's current price
	SpecialRequests string
}

// BookingUpdate holds a partial booking update. Nil fields are left unchanged.
type BookingUpdate struct {
	GuestName       *string
	GuestEmail      *string
	RoomID          *string
	CheckInDate     *model.Date
	CheckOutDate    *model.Date
	PaxCount        *int
	NightlyPrice    *decimal.Decimal
	SpecialRequests *string
}

// TransactionInput holds the fields for posting a charge or payment.
type TransactionInput struct {
	Category    model.TransactionCategory
	Amount      decimal.Decimal
	Description string
	// Date defaults to the current operating date when empty.
	Date model.Date
}

func validateStayRange(checkIn, checkOut model.Date) error {
	if !checkIn.Valid() {
		return validationf("invalid check-in date %q", checkIn)
	}
	if !checkOut.Valid() {
		return validationf("invalid check-out date %q", checkOut)
	}
	if !checkOut.After(checkIn) {
		return validationf("check-out date must be after check-in date")
	}
	return nil
}

// CreateBooking validates the request, runs the availability check and creates
// a pending booking. The check and the write share one transaction and the
// room row is locked for its duration, so a concurrent conflicting creation
// for the same room waits and then sees this booking.
func (s *Service) CreateBooking(ctx context.Context, in BookingInput) (*model.Booking, error) {
	if in.GuestName == "" {
		return nil, validationf("guest name is required")
	}
	if err := validateStayRange(in.CheckInDate, in.CheckOutDate); err != nil {
		return nil, err
	}

	var booking *model.Booking
	err := s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room model.Room
		if err := store.LockForUpdate(tx).First(&room, "id = ?", in.RoomID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return validationf("unknown room %q", in.RoomID)
			}
			return err
		}
		if in.PaxCount < 1 || in.PaxCount > room.Capacity {
			return validationf("pax count must be between 1 and %d", room.Capacity)
		}

		var existing []model.Booking
		if err := tx.Where("room_id = ?", room.ID).Find(&existing).Error; err != nil {
			return err
		}
		if !availability.IsAvailable(existing, in.CheckInDate, in.CheckOutDate, "") {
			return conflictf("room %s is not available for %s to %s", room.Number, in.CheckInDate, in.CheckOutDate)
		}

		nightly := room.NightlyPrice
		if in.NightlyPrice != nil {
			if in.NightlyPrice.IsNegative() {
				return validationf("nightly price must not be negative")
			}
			nightly = *in.NightlyPrice
		}
		total := totalPriceFor(nightly, in.CheckInDate, in.CheckOutDate)

		booking = &model.Booking{
			ID:              uuid.NewString(),
			GuestName:       in.GuestName,
			GuestEmail:      in.GuestEmail,
			RoomID:          room.ID,
			RoomNumber:      room.Number,
			RoomType:        room.Type,
			CheckInDate:     in.CheckInDate,
			CheckOutDate:    in.CheckOutDate,
			PaxCount:        in.PaxCount,
			NightlyPrice:    nightly,
			TotalPrice:      total,
			BalanceDue:      total,
			Status:          model.BookingPending,
			SpecialRequests: in.SpecialRequests,
		}
		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.BookingCreated, booking)
	return booking, nil
}

// UpdateBooking applies a partial edit, re-runs the availability check with the
// booking itself excluded, and recomputes total price and balance from the
// booking's existing transactions so posted charges and payments survive the
// edit.
func (s *Service) UpdateBooking(ctx context.Context, id string, upd BookingUpdate) (*model.Booking, error) {
	var booking *model.Booking
	err := s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b model.Booking
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return wrapBookingNotFound(id)
			}
			return err
		}

		if upd.GuestName != nil {
			if *upd.GuestName == "" {
				return validationf("guest name is required")
			}
			b.GuestName = *upd.GuestName
		}
		if upd.GuestEmail != nil {
			b.GuestEmail = *upd.GuestEmail
		}
		if upd.CheckInDate != nil {
			b.CheckInDate = *upd.CheckInDate
		}
		if upd.CheckOutDate != nil {
			b.CheckOutDate = *upd.CheckOutDate
		}
		if upd.SpecialRequests != nil {
			b.SpecialRequests = *upd.SpecialRequests
		}
		if upd.NightlyPrice != nil {
			if upd.NightlyPrice.IsNegative() {
				return validationf("nightly price must not be negative")
			}
			b.NightlyPrice = *upd.NightlyPrice
		}

		var room model.Room
		if upd.RoomID != nil {
			if err := store.LockForUpdate(tx).First(&room, "id = ?", *upd.RoomID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return validationf("unknown room %q", *upd.RoomID)
				}
				return err
			}
			b.RoomID = room.ID
			b.RoomNumber = room.Number
			b.RoomType = room.Type
		} else {
			if err := store.LockForUpdate(tx).First(&room, "id = ?", b.RoomID).Error; err != nil {
				return err
			}
		}
		if upd.PaxCount != nil {
			if *upd.PaxCount < 1 || *upd.PaxCount > room.Capacity {
				return validationf("pax count must be between 1 and %d", room.Capacity)
			}
			b.PaxCount = *upd.PaxCount
		}

		if err := validateStayRange(b.CheckInDate, b.CheckOutDate); err != nil {
			return err
		}

		var existing []model.Booking
		if err := tx.Where("room_id = ?", b.RoomID).Find(&existing).Error; err != nil {
			return err
		}
		if !availability.IsAvailable(existing, b.CheckInDate, b.CheckOutDate, b.ID) {
			return conflictf("room %s is not available for %s to %s", b.RoomNumber, b.CheckInDate, b.CheckOutDate)
		}

		var txns []model.Transaction
		if err := tx.Where("booking_id = ?", b.ID).Find(&txns).Error; err != nil {
			return err
		}
		b.TotalPrice = totalPriceFor(b.NightlyPrice, b.CheckInDate, b.CheckOutDate)
		b.BalanceDue = ComputeBalance(b.TotalPrice, txns)

		booking = &b
		return tx.Save(&b).Error
	})
	if err != nil {
		return nil, err
	}

	// A date or room edit can move an in-house stay off the operating date.
	if _, err := s.ReconcileRoomStatus(ctx); err != nil {
		return nil, fmt.Errorf("booking updated but room reconciliation failed: %w", err)
	}

	s.events.Publish(ctx, events.BookingUpdated, booking)
	return booking, nil
}

// CheckIn transitions a pending or confirmed booking to checkedIn and marks
// the room occupied.
func (s *Service) CheckIn(ctx context.Context, id string) (*model.Booking, error) {
	var booking *model.Booking
	err := s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b model.Booking
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return wrapBookingNotFound(id)
			}
			return err
		}
		if b.Status != model.BookingPending && b.Status != model.BookingConfirmed {
			return businessf("cannot check in a booking with status %q", b.Status)
		}

		now := time.Now()
		b.Status = model.BookingCheckedIn
		b.CheckedInAt = &now
		if err := tx.Save(&b).Error; err != nil {
			return err
		}

		booking = &b
		return tx.Model(&model.Room{}).
			Where("id = ? AND status <> ?", b.RoomID, model.RoomMaintenance).
			Update("status", model.RoomOccupied).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.BookingCheckedIn, booking)
	return booking, nil
}

// CheckOut transitions a checkedIn booking to checkedOut and frees the room.
// It fails when the booking still carries a positive balance.
func (s *Service) CheckOut(ctx context.Context, id string) (*model.Booking, error) {
	var booking *model.Booking
	err := s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b model.Booking
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return wrapBookingNotFound(id)
			}
			return err
		}
		if b.Status != model.BookingCheckedIn {
			return businessf("cannot check out a booking with status %q", b.Status)
		}
		if b.BalanceDue.IsPositive() {
			return businessf("cannot check out with outstanding balance of %s", b.BalanceDue.StringFixed(2))
		}

		now := time.Now()
		b.Status = model.BookingCheckedOut
		b.CheckedOutAt = &now
		if err := tx.Save(&b).Error; err != nil {
			return err
		}

		booking = &b
		return tx.Model(&model.Room{}).
			Where("id = ? AND status <> ?", b.RoomID, model.RoomMaintenance).
			Update("status", model.RoomAvailable).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.BookingCheckedOut, booking)
	return booking, nil
}

// PostTransaction appends a charge or payment to a booking and recomputes its
// balance from the full transaction set.
func (s *Service) PostTransaction(ctx context.Context, bookingID string, in TransactionInput) (*model.Transaction, error) {
	if in.Category != model.CategoryIncidental && in.Category != model.CategoryPayment {
		return nil, validationf("transaction category must be %q or %q", model.CategoryIncidental, model.CategoryPayment)
	}
	if !in.Amount.IsPositive() {
		return nil, validationf("amount must be positive")
	}
	if in.Date != "" && !in.Date.Valid() {
		return nil, validationf("invalid transaction date %q", in.Date)
	}

	var txn *model.Transaction
	err := s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b model.Booking
		if err := tx.First(&b, "id = ?", bookingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return wrapBookingNotFound(bookingID)
			}
			return err
		}

		var state model.HotelState
		if err := tx.First(&state, "id = ?", model.HotelStateID).Error; err != nil {
			return err
		}

		date := in.Date
		if date == "" {
			date = state.CurrentDate
		} else if date.Before(state.CurrentDate) {
			// Closed days are immutable: a back-dated posting would change a
			// daily summary that has already rolled into the city ledger.
			return businessf("cannot post a transaction dated %s into a closed day (current operating date is %s)",
				date, state.CurrentDate)
		}

		description := in.Description
		if description == "" {
			if in.Category == model.CategoryPayment {
				description = "Payment Received"
			} else {
				description = "Other Charge"
			}
		}

		txn = &model.Transaction{
			ID:          uuid.NewString(),
			BookingID:   b.ID,
			Category:    in.Category,
			Amount:      in.Amount,
			Description: description,
			Date:        date,
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		var txns []model.Transaction
		if err := tx.Where("booking_id = ?", b.ID).Find(&txns).Error; err != nil {
			return err
		}
		b.BalanceDue = ComputeBalance(b.TotalPrice, txns)
		return tx.Save(&b).Error
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// CancelBooking transitions a non-terminal booking to cancelled. Cancelling a
// checkedIn booking is an administrative override: the stay machine proper
// only leaves checkedIn through checkout, but the front desk needs an escape
// hatch for no-show corrections and walked guests.
func (s *Service) CancelBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status.Terminal() {
		return nil, businessf("cannot cancel a booking with status %q", booking.Status)
	}

	booking.Status = model.BookingCancelled
	if err := s.store.DB().WithContext(ctx).Save(booking).Error; err != nil {
		return nil, err
	}

	// Cancelling an in-house stay must free its room immediately.
	if _, err := s.ReconcileRoomStatus(ctx); err != nil {
		return nil, fmt.Errorf("booking cancelled but room reconciliation failed: %w", err)
	}

	s.events.Publish(ctx, events.BookingCancelled, booking)
	return booking, nil
}

// DeleteBooking removes a booking and its transactions unconditionally.
// Deleting a non-terminal booking that still carries a balance is logged as a
// forced write-off rather than silently discarding the financial record.
func (s *Service) DeleteBooking(ctx context.Context, id string) error {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if !booking.Status.Terminal() && !booking.BalanceDue.IsZero() {
		log.Printf("ledger: forced write-off: deleting %s booking %s (guest %q) with balance %s",
			booking.Status, booking.ID, booking.GuestName, booking.BalanceDue.StringFixed(2))
	}

	err = s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&model.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Booking{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	// Deleting an in-house stay must free its room immediately.
	if _, err := s.ReconcileRoomStatus(ctx); err != nil {
		return fmt.Errorf("booking deleted but room reconciliation failed: %w", err)
	}

	s.events.Publish(ctx, events.BookingDeleted, booking)
	return nil
}

func wrapBookingNotFound(id string) error {
	return wrapNotFoundf("booking %s", id)
}
