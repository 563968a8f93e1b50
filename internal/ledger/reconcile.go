package ledger

import (
	"context"
	"log"

	"gorm.io/gorm"

	"hotel-pms-backend/internal/model"
)

// DeriveRoomStatus returns the status a room should hold on the given
// operating date: occupied iff a checked-in booking's stay range covers the
// date, available otherwise. Maintenance is sticky and returned unchanged.
func DeriveRoomStatus(room *model.Room, checkedIn []model.Booking, date model.Date) model.RoomStatus {
	if room.Status == model.RoomMaintenance {
		return model.RoomMaintenance
	}
	for i := range checkedIn {
		b := &checkedIn[i]
		if b.RoomID == room.ID && b.Covers(date) {
			return model.RoomOccupied
		}
	}
	return model.RoomAvailable
}

// ReconcileRoomStatus recomputes every room's derived status from the
// checked-in bookings covering the current operating date and writes only the
// rooms whose stored status disagrees. It is idempotent and safe to run on
// any change to rooms, bookings or the operating date. Returns the number of
// rooms updated.
func (s *Service) ReconcileRoomStatus(ctx context.Context) (int, error) {
	state, err := s.store.HotelState(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	err = s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rooms []model.Room
		if err := tx.Find(&rooms).Error; err != nil {
			return err
		}
		var checkedIn []model.Booking
		if err := tx.Where("status = ?", model.BookingCheckedIn).Find(&checkedIn).Error; err != nil {
			return err
		}

		for i := range rooms {
			room := &rooms[i]
			derived := DeriveRoomStatus(room, checkedIn, state.CurrentDate)
			if derived == room.Status {
				continue
			}
			err := tx.Model(&model.Room{}).
				Where("id = ?", room.ID).
				Update("status", derived).Error
			if err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if changed > 0 {
		log.Printf("ledger: room status reconciliation updated %d room(s)", changed)
	}
	return changed, nil
}
