// Package ledger owns the booking lifecycle, per-booking balances and
// transaction posting, the website-booking intake, and the derived room-status
// reconciliation.
package ledger

import (
	"github.com/shopspring/decimal"

	"hotel-pms-backend/internal/events"
	"hotel-pms-backend/internal/model"
	"hotel-pms-backend/internal/store"
)

// Service implements the room registry and booking ledger operations.
type Service struct {
	store  store.Store
	events *events.Publisher
}

// NewService creates a ledger service. events may be nil.
func NewService(s store.Store, ev *events.Publisher) *Service {
	return &Service{store: s, events: ev}
}

// Store exposes the underlying store for read-only collaborators.
func (s *Service) Store() store.Store {
	return s.store
}

// ComputeBalance returns totalPrice plus the signed effect of every
// transaction. Balances are always recomputed from the full transaction set,
// never adjusted from a stale stored value. The night-audit processor uses
// the same rule when it posts accommodation charges.
func ComputeBalance(totalPrice decimal.Decimal, txns []model.Transaction) decimal.Decimal {
	balance := totalPrice
	for i := range txns {
		balance = balance.Add(txns[i].BalanceEffect())
	}
	return balance
}

// totalPriceFor computes nights * nightly price for a half-open stay range.
func totalPriceFor(nightly decimal.Decimal, checkIn, checkOut model.Date) decimal.Decimal {
	return nightly.Mul(decimal.NewFromInt(int64(model.NightsBetween(checkIn, checkOut))))
}
