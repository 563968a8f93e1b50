package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-pms-backend/internal/model"
)

type runAuditRequest struct {
	// Date defaults to the current operating date.
	Date model.Date `json:"date"`
}

// RunNightAudit handles POST /api/night-audit.
func (h *Handler) RunNightAudit(c *gin.Context) {
	var req runAuditRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.audit.Run(c.Request.Context(), req.Date)
	if err != nil {
		writeError(c, err)
		return
	}

	h.pool.Dispatch(fmt.Sprintf("Night audit for %s completed", result.Summary.Date))

	c.JSON(http.StatusOK, result)
}

// GetDailyReport handles GET /api/reports/daily/:date.
func (h *Handler) GetDailyReport(c *gin.Context) {
	date, err := model.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	summary, err := h.store.GetDailySummary(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// monthlyReport aggregates a month's daily summaries.
type monthlyReport struct {
	Month                string          `json:"month"`
	Days                 int             `json:"days"`
	TotalSales           decimal.Decimal `json:"totalSales"`
	RoomsSold            int             `json:"roomsSold"`
	PaxCount             int             `json:"paxCount"`
	AccommodationCharges decimal.Decimal `json:"accommodationCharges"`
	OtherCharges         decimal.Decimal `json:"otherCharges"`
	PaymentsReceived     decimal.Decimal `json:"paymentsReceived"`
}

// GetMonthlyReport handles GET /api/reports/monthly/:month (YYYY-MM).
func (h *Handler) GetMonthlyReport(c *gin.Context) {
	month := c.Param("month")
	if _, err := model.ParseDate(month + "-01"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month, use YYYY-MM"})
		return
	}

	summaries, err := h.store.SummariesForMonth(c.Request.Context(), month)
	if err != nil {
		writeError(c, err)
		return
	}

	report := monthlyReport{
		Month:                month,
		Days:                 len(summaries),
		TotalSales:           decimal.Zero,
		AccommodationCharges: decimal.Zero,
		OtherCharges:         decimal.Zero,
		PaymentsReceived:     decimal.Zero,
	}
	for i := range summaries {
		s := &summaries[i]
		report.TotalSales = report.TotalSales.Add(s.TotalSales)
		report.RoomsSold += s.RoomsSold
		report.PaxCount += s.PaxCount
		report.AccommodationCharges = report.AccommodationCharges.Add(s.AccommodationCharges)
		report.OtherCharges = report.OtherCharges.Add(s.OtherCharges)
		report.PaymentsReceived = report.PaymentsReceived.Add(s.PaymentsReceived)
	}
	c.JSON(http.StatusOK, report)
}
