package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-pms-backend/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence operations used by the services. Handlers
// performing plain reads may use DB() directly.
type Store interface {
	DB() *gorm.DB

	GetRoom(ctx context.Context, id string) (*model.Room, error)
	ListRooms(ctx context.Context) ([]model.Room, error)

	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	ListBookings(ctx context.Context) ([]model.Booking, error)
	BookingsForRoom(ctx context.Context, roomID string) ([]model.Booking, error)
	TransactionsForBooking(ctx context.Context, bookingID string) ([]model.Transaction, error)
	AllTransactions(ctx context.Context) ([]model.Transaction, error)

	GetWebsiteBooking(ctx context.Context, id string) (*model.WebsiteBooking, error)
	ListWebsiteBookings(ctx context.Context) ([]model.WebsiteBooking, error)

	HotelState(ctx context.Context) (*model.HotelState, error)
	GetDailySummary(ctx context.Context, date model.Date) (*model.DailySummary, error)
	SummariesForMonth(ctx context.Context, month string) ([]model.DailySummary, error)
}

// LockForUpdate applies a row-level write lock to the query on dialects that
// support it. SQLite serializes writers on its own and rejects the FOR UPDATE
// syntax, so it is skipped there.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	if err := s.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err, "room %s", id)
	}
	return &room, nil
}

func (s *gormStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).Order("number").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *gormStore) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	if err := s.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err, "booking %s", id)
	}
	return &booking, nil
}

func (s *gormStore) ListBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.db.WithContext(ctx).Order("created_at").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *gormStore) BookingsForRoom(ctx context.Context, roomID string) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.db.WithContext(ctx).Where("room_id = ?", roomID).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *gormStore) TransactionsForBooking(ctx context.Context, bookingID string) ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := s.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (s *gormStore) AllTransactions(ctx context.Context) ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := s.db.WithContext(ctx).Order("date, created_at").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (s *gormStore) GetWebsiteBooking(ctx context.Context, id string) (*model.WebsiteBooking, error) {
	var wb model.WebsiteBooking
	if err := s.db.WithContext(ctx).First(&wb, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err, "website booking %s", id)
	}
	return &wb, nil
}

func (s *gormStore) ListWebsiteBookings(ctx context.Context) ([]model.WebsiteBooking, error) {
	var wbs []model.WebsiteBooking
	if err := s.db.WithContext(ctx).Order("created_at").Find(&wbs).Error; err != nil {
		return nil, err
	}
	return wbs, nil
}

// HotelState returns the singleton operating-state row, creating it on first
// use with today's wall-clock date and a zero city ledger.
func (s *gormStore) HotelState(ctx context.Context) (*model.HotelState, error) {
	state := model.HotelState{
		ID:                model.HotelStateID,
		CurrentDate:       model.DateOf(time.Now()),
		CityLedgerBalance: decimal.Zero,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&state).Error
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).First(&state, "id = ?", model.HotelStateID).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *gormStore) GetDailySummary(ctx context.Context, date model.Date) (*model.DailySummary, error) {
	var summary model.DailySummary
	if err := s.db.WithContext(ctx).First(&summary, "date = ?", date).Error; err != nil {
		return nil, wrapNotFound(err, "daily summary %s", date)
	}
	return &summary, nil
}

func (s *gormStore) SummariesForMonth(ctx context.Context, month string) ([]model.DailySummary, error) {
	var summaries []model.DailySummary
	if err := s.db.WithContext(ctx).
		Where("date LIKE ?", month+"%").
		Order("date").
		Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func wrapNotFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return err
}
