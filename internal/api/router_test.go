package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-pms-backend/config"
	"hotel-pms-backend/internal/audit"
	"hotel-pms-backend/internal/db"
	"hotel-pms-backend/internal/ledger"
	"hotel-pms-backend/internal/model"
	"hotel-pms-backend/internal/mw"
	"hotel-pms-backend/internal/store"
)

const testDate = model.Date("2024-06-01")

func newTestServer(t *testing.T) (*gin.Engine, *ledger.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	state := model.HotelState{
		ID:                model.HotelStateID,
		CurrentDate:       testDate,
		CityLedgerBalance: decimal.Zero,
	}
	require.NoError(t, gdb.Create(&state).Error)

	s := store.NewGormStore(gdb)
	svc := ledger.NewService(s, nil)
	proc := audit.NewProcessor(s, svc, nil)
	handler := NewHandler(s, svc, proc, nil, nil, nil)

	// Limits high enough that tests never trip the rate limiter.
	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1

	return NewRouter(handler, cfg), svc
}

func doRequest(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedRoom(t *testing.T, svc *ledger.Service, number string) *model.Room {
	t.Helper()
	room, err := svc.CreateRoom(context.Background(), ledger.RoomInput{
		Number:       number,
		Type:         model.RoomStandard,
		Capacity:     2,
		NightlyPrice: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	return room
}

func TestRoomEndpoints(t *testing.T) {
	r, _ := newTestServer(t)

	w := doRequest(r, "POST", "/api/rooms",
		`{"roomNumber":"101","type":"Standard","capacity":2,"nightlyPrice":"100"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var room model.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &room))
	assert.Equal(t, "101", room.Number)
	assert.Equal(t, model.RoomAvailable, room.Status)

	// Missing required fields.
	w = doRequest(r, "POST", "/api/rooms", `{"type":"Standard"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate room number.
	w = doRequest(r, "POST", "/api/rooms",
		`{"roomNumber":"101","type":"Deluxe","capacity":2,"nightlyPrice":"150"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(r, "PATCH", "/api/rooms/"+room.ID, `{"status":"maintenance"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &room))
	assert.Equal(t, model.RoomMaintenance, room.Status)

	w = doRequest(r, "DELETE", "/api/rooms/"+room.ID, "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBookingEndpoints(t *testing.T) {
	r, svc := newTestServer(t)
	room := seedRoom(t, svc, "101")

	w := doRequest(r, "POST", "/api/bookings", fmt.Sprintf(
		`{"guestName":"Alice Smith","roomId":"%s","checkInDate":"2024-06-01","checkOutDate":"2024-06-03","paxCount":1}`,
		room.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var booking model.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, model.BookingPending, booking.Status)

	// Overlapping range.
	w = doRequest(r, "POST", "/api/bookings", fmt.Sprintf(
		`{"guestName":"Bob Jones","roomId":"%s","checkInDate":"2024-06-02","checkOutDate":"2024-06-04","paxCount":1}`,
		room.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(r, "POST", "/api/bookings/"+booking.ID+"/check-in", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Outstanding balance blocks checkout.
	w = doRequest(r, "POST", "/api/bookings/"+booking.ID+"/check-out", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(r, "POST", "/api/bookings/"+booking.ID+"/transactions",
		`{"category":"payment","amount":"200"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The invoice view carries the booking's transactions.
	w = doRequest(r, "GET", "/api/bookings/"+booking.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	require.Len(t, booking.Transactions, 1)
	assert.Equal(t, model.CategoryPayment, booking.Transactions[0].Category)
	assert.True(t, booking.BalanceDue.IsZero(), "balance = %s", booking.BalanceDue)

	w = doRequest(r, "POST", "/api/bookings/"+booking.ID+"/check-out", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(r, "GET", "/api/bookings/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Manual room charges are refused.
	w = doRequest(r, "POST", "/api/bookings/"+booking.ID+"/transactions",
		`{"category":"room_charge","amount":"100"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionsRoleGate(t *testing.T) {
	r, _ := newTestServer(t)

	w := doRequest(r, "GET", "/api/transactions", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, "GET", "/api/transactions", "", map[string]string{mw.RoleHeader: mw.RoleReceptionist})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, "GET", "/api/transactions", "", map[string]string{mw.RoleHeader: mw.RoleFinance})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, "GET", "/api/reports/monthly/2024-06", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNightAuditAndReports(t *testing.T) {
	r, svc := newTestServer(t)
	ctx := context.Background()

	room := seedRoom(t, svc, "101")
	booking, err := svc.CreateBooking(ctx, ledger.BookingInput{
		GuestName:    "Alice Smith",
		RoomID:       room.ID,
		CheckInDate:  "2024-06-01",
		CheckOutDate: "2024-06-03",
		PaxCount:     2,
	})
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, booking.ID)
	require.NoError(t, err)

	finance := map[string]string{mw.RoleHeader: mw.RoleFinance}

	// No close yet, so no report.
	w := doRequest(r, "GET", "/api/reports/daily/2024-06-01", "", finance)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, "POST", "/api/night-audit", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result audit.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, testDate, result.Summary.Date)
	assert.Equal(t, 1, result.Summary.RoomsSold)

	w = doRequest(r, "GET", "/api/reports/daily/2024-06-01", "", finance)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, "GET", "/api/reports/daily/bogus", "", finance)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, "GET", "/api/reports/monthly/2024-06", "", finance)
	require.Equal(t, http.StatusOK, w.Code)
	var monthly map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &monthly))
	assert.Equal(t, float64(1), monthly["days"])

	// Closing a date that was never the operating date is refused.
	w = doRequest(r, "POST", "/api/night-audit", `{"date":"2030-01-01"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestWebsiteBookingEndpoints(t *testing.T) {
	r, svc := newTestServer(t)
	seedRoom(t, svc, "101")

	w := doRequest(r, "POST", "/api/website-bookings",
		`{"guestName":"Carol King","roomTypeRequested":"Standard","checkInDate":"2024-06-01","checkOutDate":"2024-06-03","paxCount":2}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var wb model.WebsiteBooking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wb))
	assert.Equal(t, model.WebsiteBookingPending, wb.Status)

	w = doRequest(r, "POST", "/api/website-bookings/"+wb.ID+"/accept", "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var booking model.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, model.BookingConfirmed, booking.Status)
	assert.Equal(t, "101", booking.RoomNumber)

	// The accepted request left the inbox.
	w = doRequest(r, "POST", "/api/website-bookings/"+wb.ID+"/reject", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A second request for the same type and dates finds no inventory.
	w = doRequest(r, "POST", "/api/website-bookings",
		`{"guestName":"Dan Cole","roomTypeRequested":"Standard","checkInDate":"2024-06-01","checkOutDate":"2024-06-03","paxCount":1}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wb))

	w = doRequest(r, "POST", "/api/website-bookings/"+wb.ID+"/accept", "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOverview(t *testing.T) {
	r, svc := newTestServer(t)
	ctx := context.Background()

	room := seedRoom(t, svc, "101")
	seedRoom(t, svc, "102")
	booking, err := svc.CreateBooking(ctx, ledger.BookingInput{
		GuestName:    "Alice Smith",
		RoomID:       room.ID,
		CheckInDate:  "2024-06-01",
		CheckOutDate: "2024-06-03",
		PaxCount:     2,
	})
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, booking.ID)
	require.NoError(t, err)

	w := doRequest(r, "GET", "/api/overview", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp overviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testDate, resp.CurrentDate)
	assert.Equal(t, 2, resp.TotalRooms)
	assert.Equal(t, 1, resp.OccupiedRooms)
	assert.Equal(t, 1, resp.AvailableRooms)
	assert.Equal(t, 1, resp.CheckInsToday)
	assert.Equal(t, 2, resp.InHousePax)
}

func TestSubscriptionEndpoints(t *testing.T) {
	r, _ := newTestServer(t)

	w := doRequest(r, "PUT", "/api/subscriptions",
		`{"endpoint":"https://push.example.com/abc","p256dh":"key","auth":"secret"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(r, "GET", "/api/subscriptions?endpoint=https://push.example.com/abc", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, "DELETE", "/api/subscriptions", `{"endpoint":"https://push.example.com/abc"}`, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, "GET", "/api/subscriptions?endpoint=https://push.example.com/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// VAPID keys were not configured for this server.
	w = doRequest(r, "GET", "/api/vapid_public_key", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDraftMessageUnconfigured(t *testing.T) {
	r, svc := newTestServer(t)
	room := seedRoom(t, svc, "101")
	booking, err := svc.CreateBooking(context.Background(), ledger.BookingInput{
		GuestName:    "Alice Smith",
		RoomID:       room.ID,
		CheckInDate:  "2024-06-01",
		CheckOutDate: "2024-06-03",
		PaxCount:     1,
	})
	require.NoError(t, err)

	w := doRequest(r, "POST", "/api/bookings/"+booking.ID+"/messages", `{"kind":"welcome"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(r, "POST", "/api/bookings/"+booking.ID+"/messages", `{"kind":"bogus"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
