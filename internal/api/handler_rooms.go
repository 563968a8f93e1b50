package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-pms-backend/internal/ledger"
	"hotel-pms-backend/internal/model"
)

type createRoomRequest struct {
	RoomNumber   string          `json:"roomNumber" binding:"required"`
	Type         model.RoomType  `json:"type" binding:"required"`
	Capacity     int             `json:"capacity" binding:"required"`
	NightlyPrice decimal.Decimal `json:"nightlyPrice"`
}

// CreateRoom handles POST /api/rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.ledger.CreateRoom(c.Request.Context(), ledger.RoomInput{
		Number:       req.RoomNumber,
		Type:         req.Type,
		Capacity:     req.Capacity,
		NightlyPrice: req.NightlyPrice,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /api/rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

type updateRoomRequest struct {
	RoomNumber   *string           `json:"roomNumber"`
	Type         *model.RoomType   `json:"type"`
	Capacity     *int              `json:"capacity"`
	NightlyPrice *decimal.Decimal  `json:"nightlyPrice"`
	Status       *model.RoomStatus `json:"status"`
}

// UpdateRoom handles PATCH /api/rooms/:id.
func (h *Handler) UpdateRoom(c *gin.Context) {
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.ledger.UpdateRoom(c.Request.Context(), c.Param("id"), ledger.RoomUpdate{
		Number:       req.RoomNumber,
		Type:         req.Type,
		Capacity:     req.Capacity,
		NightlyPrice: req.NightlyPrice,
		Status:       req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/rooms/:id.
func (h *Handler) DeleteRoom(c *gin.Context) {
	if err := h.ledger.DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
