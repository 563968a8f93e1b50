package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-pms-backend/internal/drafting"
	"hotel-pms-backend/internal/ledger"
	"hotel-pms-backend/internal/model"
)

type createBookingRequest struct {
	GuestName       string           `json:"guestName" binding:"required"`
	GuestEmail      string           `json:"guestEmail"`
	RoomID          string           `json:"roomId" binding:"required"`
	CheckInDate     model.Date       `json:"checkInDate" binding:"required"`
	CheckOutDate    model.Date       `json:"checkOutDate" binding:"required"`
	PaxCount        int              `json:"paxCount" binding:"required"`
	NightlyPrice    *decimal.Decimal `json:"nightlyPrice"`
	SpecialRequests string           `json:"specialRequests"`
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.ledger.CreateBooking(c.Request.Context(), ledger.BookingInput{
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		RoomID:          req.RoomID,
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		PaxCount:        req.PaxCount,
		NightlyPrice:    req.NightlyPrice,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListBookings handles GET /api/bookings.
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.store.ListBookings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBooking handles GET /api/bookings/:id. The response includes the
// booking's transactions, which is what the invoice view renders.
func (h *Handler) GetBooking(c *gin.Context) {
	ctx := c.Request.Context()
	booking, err := h.store.GetBooking(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	txns, err := h.store.TransactionsForBooking(ctx, booking.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	booking.Transactions = txns
	c.JSON(http.StatusOK, booking)
}

type updateBookingRequest struct {
	GuestName       *string          `json:"guestName"`
	GuestEmail      *string          `json:"guestEmail"`
	RoomID          *string          `json:"roomId"`
	CheckInDate     *model.Date      `json:"checkInDate"`
	CheckOutDate    *model.Date      `json:"checkOutDate"`
	PaxCount        *int             `json:"paxCount"`
	NightlyPrice    *decimal.Decimal `json:"nightlyPrice"`
	SpecialRequests *string          `json:"specialRequests"`
}

// UpdateBooking handles PATCH /api/bookings/:id.
func (h *Handler) UpdateBooking(c *gin.Context) {
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.ledger.UpdateBooking(c.Request.Context(), c.Param("id"), ledger.BookingUpdate{
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		RoomID:          req.RoomID,
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		PaxCount:        req.PaxCount,
		NightlyPrice:    req.NightlyPrice,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DeleteBooking handles DELETE /api/bookings/:id.
func (h *Handler) DeleteBooking(c *gin.Context) {
	if err := h.ledger.DeleteBooking(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckIn handles POST /api/bookings/:id/check-in.
func (h *Handler) CheckIn(c *gin.Context) {
	booking, err := h.ledger.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CheckOut handles POST /api/bookings/:id/check-out.
func (h *Handler) CheckOut(c *gin.Context) {
	booking, err := h.ledger.CheckOut(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (h *Handler) CancelBooking(c *gin.Context) {
	booking, err := h.ledger.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

type postTransactionRequest struct {
	Category    model.TransactionCategory `json:"category" binding:"required"`
	Amount      decimal.Decimal           `json:"amount"`
	Description string                    `json:"description"`
	Date        model.Date                `json:"date"`
}

// PostTransaction handles POST /api/bookings/:id/transactions.
func (h *Handler) PostTransaction(c *gin.Context) {
	var req postTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.ledger.PostTransaction(c.Request.Context(), c.Param("id"), ledger.TransactionInput{
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// ListTransactions handles GET /api/transactions, the city-ledger view of all
// transactions across all bookings.
func (h *Handler) ListTransactions(c *gin.Context) {
	txns, err := h.store.AllTransactions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

type draftMessageRequest struct {
	Kind drafting.MessageKind `json:"kind" binding:"required"`
}

// DraftMessage handles POST /api/bookings/:id/messages.
func (h *Handler) DraftMessage(c *gin.Context) {
	var req draftMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !drafting.ValidMessageKind(req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown message kind"})
		return
	}
	if h.drafting == nil || !h.drafting.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "drafting service is not configured"})
		return
	}

	ctx := c.Request.Context()
	booking, err := h.store.GetBooking(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	text, err := h.drafting.Draft(ctx, req.Kind, booking)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": req.Kind, "text": text})
}
