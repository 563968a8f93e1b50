package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-pms-backend/internal/model"
)

// RoomInput holds the fields for creating a room.
type RoomInput struct {
	Number       string
	Type         model.RoomType
	Capacity     int
	NightlyPrice decimal.Decimal
}

// RoomUpdate holds a partial room update. Nil fields are left unchanged.
// Status may only be set to available or maintenance; occupied is derived.
type RoomUpdate struct {
	Number       *string
	Type         *model.RoomType
	Capacity     *int
	NightlyPrice *decimal.Decimal
	Status       *model.RoomStatus
}

// CreateRoom registers a new room. New rooms always start available.
func (s *Service) CreateRoom(ctx context.Context, in RoomInput) (*model.Room, error) {
	if in.Number == "" {
		return nil, validationf("room number is required")
	}
	if !model.ValidRoomType(in.Type) {
		return nil, validationf("unknown room type %q", in.Type)
	}
	if in.Capacity < 1 {
		return nil, validationf("capacity must be at least 1")
	}
	if in.NightlyPrice.IsNegative() {
		return nil, validationf("nightly price must not be negative")
	}

	room := &model.Room{
		ID:           uuid.NewString(),
		Number:       in.Number,
		Type:         in.Type,
		Capacity:     in.Capacity,
		NightlyPrice: in.NightlyPrice,
		Status:       model.RoomAvailable,
	}

	err := s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Room{}).Where("number = ?", in.Number).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return conflictf("room number %q already exists", in.Number)
		}
		return tx.Create(room).Error
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// UpdateRoom applies a partial update to a room.
func (s *Service) UpdateRoom(ctx context.Context, id string, upd RoomUpdate) (*model.Room, error) {
	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Number != nil {
		if *upd.Number == "" {
			return nil, validationf("room number is required")
		}
		room.Number = *upd.Number
	}
	if upd.Type != nil {
		if !model.ValidRoomType(*upd.Type) {
			return nil, validationf("unknown room type %q", *upd.Type)
		}
		room.Type = *upd.Type
	}
	if upd.Capacity != nil {
		if *upd.Capacity < 1 {
			return nil, validationf("capacity must be at least 1")
		}
		room.Capacity = *upd.Capacity
	}
	if upd.NightlyPrice != nil {
		if upd.NightlyPrice.IsNegative() {
			return nil, validationf("nightly price must not be negative")
		}
		room.NightlyPrice = *upd.NightlyPrice
	}
	if upd.Status != nil {
		// Occupied is a derived fact owned by the reconciliation pass.
		if *upd.Status != model.RoomAvailable && *upd.Status != model.RoomMaintenance {
			return nil, validationf("room status may only be set to %q or %q", model.RoomAvailable, model.RoomMaintenance)
		}
		room.Status = *upd.Status
	}

	err = s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if upd.Number != nil {
			var count int64
			if err := tx.Model(&model.Room{}).
				Where("number = ? AND id <> ?", room.Number, room.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return conflictf("room number %q already exists", room.Number)
			}
		}
		return tx.Save(room).Error
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom removes a room unless an active booking still references it.
func (s *Service) DeleteRoom(ctx context.Context, id string) error {
	if _, err := s.store.GetRoom(ctx, id); err != nil {
		return err
	}

	return s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.Booking{}).
			Where("room_id = ? AND status IN ?", id, []model.BookingStatus{model.BookingConfirmed, model.BookingCheckedIn}).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return conflictf("room is assigned to %d active booking(s)", count)
		}
		return tx.Delete(&model.Room{}, "id = ?", id).Error
	})
}
