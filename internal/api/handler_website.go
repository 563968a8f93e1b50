package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-pms-backend/internal/ledger"
	"hotel-pms-backend/internal/model"
)

type websiteBookingRequest struct {
	GuestName         string         `json:"guestName" binding:"required"`
	GuestEmail        string         `json:"guestEmail"`
	RoomTypeRequested model.RoomType `json:"roomTypeRequested" binding:"required"`
	CheckInDate       model.Date     `json:"checkInDate" binding:"required"`
	CheckOutDate      model.Date     `json:"checkOutDate" binding:"required"`
	PaxCount          int            `json:"paxCount" binding:"required"`
	SpecialRequests   string         `json:"specialRequests"`
}

// CreateWebsiteBooking handles POST /api/website-bookings, the public inbox
// write from the hotel website.
func (h *Handler) CreateWebsiteBooking(c *gin.Context) {
	var req websiteBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wb, err := h.ledger.CreateWebsiteBooking(c.Request.Context(), ledger.WebsiteBookingInput{
		GuestName:         req.GuestName,
		GuestEmail:        req.GuestEmail,
		RoomTypeRequested: req.RoomTypeRequested,
		CheckInDate:       req.CheckInDate,
		CheckOutDate:      req.CheckOutDate,
		PaxCount:          req.PaxCount,
		SpecialRequests:   req.SpecialRequests,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.pool.Dispatch(fmt.Sprintf("New website booking from %s (%s, %s to %s)",
		wb.GuestName, wb.RoomTypeRequested, wb.CheckInDate, wb.CheckOutDate))

	c.JSON(http.StatusCreated, wb)
}

// ListWebsiteBookings handles GET /api/website-bookings.
func (h *Handler) ListWebsiteBookings(c *gin.Context) {
	wbs, err := h.store.ListWebsiteBookings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, wbs)
}

// AcceptWebsiteBooking handles POST /api/website-bookings/:id/accept.
func (h *Handler) AcceptWebsiteBooking(c *gin.Context) {
	booking, err := h.ledger.AcceptWebsiteBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// RejectWebsiteBooking handles POST /api/website-bookings/:id/reject.
func (h *Handler) RejectWebsiteBooking(c *gin.Context) {
	if err := h.ledger.RejectWebsiteBooking(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
