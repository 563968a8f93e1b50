package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"hotel-pms-backend/internal/audit"
	"hotel-pms-backend/internal/drafting"
	"hotel-pms-backend/internal/ledger"
	"hotel-pms-backend/internal/notification"
	"hotel-pms-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	ledger   *ledger.Service
	audit    *audit.Processor
	drafting *drafting.Client
	pool     *notification.WorkerPool
	webpush  *webpush.Options
}

// NewHandler creates a new API handler. pool and drafting may be nil.
func NewHandler(s store.Store, l *ledger.Service, a *audit.Processor, d *drafting.Client, pool *notification.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:    s,
		ledger:   l,
		audit:    a,
		drafting: d,
		pool:     pool,
		webpush:  webpushOptions,
	}
}
