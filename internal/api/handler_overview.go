package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-pms-backend/internal/model"
)

// overviewResponse is the dashboard snapshot for the current operating date.
type overviewResponse struct {
	CurrentDate            model.Date      `json:"currentDate"`
	CityLedgerBalance      decimal.Decimal `json:"cityLedgerBalance"`
	TotalRooms             int             `json:"totalRooms"`
	AvailableRooms         int             `json:"availableRooms"`
	OccupiedRooms          int             `json:"occupiedRooms"`
	OccupancyRate          float64         `json:"occupancyRate"`
	TotalBookings          int             `json:"totalBookings"`
	CheckInsToday          int             `json:"checkInsToday"`
	CheckOutsToday         int             `json:"checkOutsToday"`
	InHousePax             int             `json:"inHousePax"`
	PendingWebsiteBookings int             `json:"pendingWebsiteBookings"`
}

// GetOverview handles GET /api/overview.
func (h *Handler) GetOverview(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := h.store.HotelState(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	rooms, err := h.store.ListRooms(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	bookings, err := h.store.ListBookings(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	websiteBookings, err := h.store.ListWebsiteBookings(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := overviewResponse{
		CurrentDate:       state.CurrentDate,
		CityLedgerBalance: state.CityLedgerBalance,
		TotalRooms:        len(rooms),
		TotalBookings:     len(bookings),
	}
	for i := range rooms {
		switch rooms[i].Status {
		case model.RoomAvailable:
			resp.AvailableRooms++
		case model.RoomOccupied:
			resp.OccupiedRooms++
		}
	}
	if resp.TotalRooms > 0 {
		resp.OccupancyRate = float64(resp.OccupiedRooms) / float64(resp.TotalRooms) * 100
	}
	for i := range bookings {
		b := &bookings[i]
		if !b.Active() {
			continue
		}
		if b.CheckInDate == state.CurrentDate {
			resp.CheckInsToday++
		}
		if b.CheckOutDate == state.CurrentDate {
			resp.CheckOutsToday++
		}
		if b.Status == model.BookingCheckedIn && b.Covers(state.CurrentDate) {
			resp.InHousePax += b.PaxCount
		}
	}
	for i := range websiteBookings {
		if websiteBookings[i].Status == model.WebsiteBookingPending {
			resp.PendingWebsiteBookings++
		}
	}

	c.JSON(http.StatusOK, resp)
}
