package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hotel-pms-backend/config"
	"hotel-pms-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// Financial views are restricted to back-office roles.
	finance := mw.RequireRole(mw.RoleFinance, mw.RoleAdmin)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/overview", h.GetOverview)

		api.GET("/rooms", caching, h.ListRooms)
		api.POST("/rooms", h.CreateRoom)
		api.PATCH("/rooms/:id", h.UpdateRoom)
		api.DELETE("/rooms/:id", h.DeleteRoom)

		api.GET("/bookings", h.ListBookings)
		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings/:id", h.GetBooking)
		api.PATCH("/bookings/:id", h.UpdateBooking)
		api.DELETE("/bookings/:id", h.DeleteBooking)
		api.POST("/bookings/:id/check-in", h.CheckIn)
		api.POST("/bookings/:id/check-out", h.CheckOut)
		api.POST("/bookings/:id/cancel", h.CancelBooking)
		api.POST("/bookings/:id/transactions", h.PostTransaction)
		api.POST("/bookings/:id/messages", h.DraftMessage)

		api.GET("/transactions", finance, h.ListTransactions)

		api.GET("/website-bookings", h.ListWebsiteBookings)
		api.POST("/website-bookings", h.CreateWebsiteBooking)
		api.POST("/website-bookings/:id/accept", h.AcceptWebsiteBooking)
		api.POST("/website-bookings/:id/reject", h.RejectWebsiteBooking)

		api.POST("/night-audit", h.RunNightAudit)
		api.GET("/reports/daily/:date", finance, h.GetDailyReport)
		api.GET("/reports/monthly/:month", finance, h.GetMonthlyReport)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
