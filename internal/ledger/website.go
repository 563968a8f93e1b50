package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotel-pms-backend/internal/availability"
	"hotel-pms-backend/internal/events"
	"hotel-pms-backend/internal/model"
	"hotel-pms-backend/internal/store"
)

// WebsiteBookingInput is the untrusted inbound reservation request written to
// the inbox by the hotel website.
type WebsiteBookingInput struct {
	GuestName         string
	GuestEmail        string
	RoomTypeRequested model.RoomType
	CheckInDate       model.Date
	CheckOutDate      model.Date
	PaxCount          int
	SpecialRequests   string
}

// CreateWebsiteBooking places a pending reservation request in the inbox.
func (s *Service) CreateWebsiteBooking(ctx context.Context, in WebsiteBookingInput) (*model.WebsiteBooking, error) {
	if in.GuestName == "" {
		return nil, validationf("guest name is required")
	}
	if !model.ValidRoomType(in.RoomTypeRequested) {
		return nil, validationf("unknown room type %q", in.RoomTypeRequested)
	}
	if err := validateStayRange(in.CheckInDate, in.CheckOutDate); err != nil {
		return nil, err
	}
	if in.PaxCount < 1 {
		return nil, validationf("pax count must be at least 1")
	}

	wb := &model.WebsiteBooking{
		ID:                uuid.NewString(),
		GuestName:         in.GuestName,
		GuestEmail:        in.GuestEmail,
		RoomTypeRequested: in.RoomTypeRequested,
		CheckInDate:       in.CheckInDate,
		CheckOutDate:      in.CheckOutDate,
		PaxCount:          in.PaxCount,
		SpecialRequests:   in.SpecialRequests,
		Status:            model.WebsiteBookingPending,
	}
	if err := s.store.DB().WithContext(ctx).Create(wb).Error; err != nil {
		return nil, err
	}
	return wb, nil
}

// AcceptWebsiteBooking converts a pending website request into a confirmed
// booking. Room selection is first-available for the requested type; the
// chosen room's dates are then re-validated. On any failure the request stays
// pending in the inbox; on success it is removed.
func (s *Service) AcceptWebsiteBooking(ctx context.Context, id string) (*model.Booking, error) {
	var booking *model.Booking
	err := s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wb model.WebsiteBooking
		if err := tx.First(&wb, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return wrapNotFoundf("website booking %s", id)
			}
			return err
		}
		if wb.Status != model.WebsiteBookingPending {
			return businessf("website booking is already %s", wb.Status)
		}

		var candidates []model.Room
		err := store.LockForUpdate(tx).
			Where("type = ? AND status = ?", wb.RoomTypeRequested, model.RoomAvailable).
			Order("number").
			Find(&candidates).Error
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return noInventoryf("no available rooms of type %q", wb.RoomTypeRequested)
		}

		room := candidates[0]
		var existing []model.Booking
		if err := tx.Where("room_id = ?", room.ID).Find(&existing).Error; err != nil {
			return err
		}
		if !availability.IsAvailable(existing, wb.CheckInDate, wb.CheckOutDate, "") {
			return noInventoryf("room %s is no longer available for %s to %s", room.Number, wb.CheckInDate, wb.CheckOutDate)
		}

		total := totalPriceFor(room.NightlyPrice, wb.CheckInDate, wb.CheckOutDate)
		booking = &model.Booking{
			ID:                            uuid.NewString(),
			GuestName:                     wb.GuestName,
			GuestEmail:                    wb.GuestEmail,
			RoomID:                        room.ID,
			RoomNumber:                    room.Number,
			RoomType:                      room.Type,
			CheckInDate:                   wb.CheckInDate,
			CheckOutDate:                  wb.CheckOutDate,
			PaxCount:                      wb.PaxCount,
			NightlyPrice:                  room.NightlyPrice,
			TotalPrice:                    total,
			BalanceDue:                    total,
			Status:                        model.BookingConfirmed,
			SpecialRequests:               wb.SpecialRequests,
			ProcessedFromWebsiteBookingID: wb.ID,
		}
		if err := tx.Create(booking).Error; err != nil {
			return err
		}

		// Processed requests leave the inbox.
		return tx.Delete(&model.WebsiteBooking{}, "id = ?", wb.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.BookingCreated, booking)
	return booking, nil
}

// RejectWebsiteBooking discards a pending website request.
func (s *Service) RejectWebsiteBooking(ctx context.Context, id string) error {
	return s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wb model.WebsiteBooking
		if err := tx.First(&wb, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return wrapNotFoundf("website booking %s", id)
			}
			return err
		}
		if wb.Status != model.WebsiteBookingPending {
			return businessf("website booking is already %s", wb.Status)
		}
		return tx.Delete(&model.WebsiteBooking{}, "id = ?", id).Error
	})
}
