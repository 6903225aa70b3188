package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentgrid/car-rental-backend/internal/schedule"
	"github.com/rentgrid/car-rental-backend/internal/services"
)

// defaultDailyRate is used by the revenue estimate when no rate is given.
const defaultDailyRate = 500

// DashboardHandler handles admin reporting endpoints
type DashboardHandler struct {
	reports *services.ReportService
	logger  *logrus.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(reports *services.ReportService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		reports: reports,
		logger:  logger,
	}
}

// Stats returns fleet-wide counts.
// GET /api/v1/admin/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.reports.DashboardStats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Revenue estimates revenue from completed bookings in a window.
// GET /api/v1/admin/dashboard/revenue?from=...&to=...&daily_rate=500
func (h *DashboardHandler) Revenue(c *gin.Context) {
	from, to, ok := h.parseWindow(c)
	if !ok {
		return
	}

	dailyRate := float64(defaultDailyRate)
	if raw := c.Query("daily_rate"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid daily_rate"})
			return
		}
		dailyRate = parsed
	}

	report, err := h.reports.Revenue(from, to, dailyRate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Usage returns clipped completed-booking days per vehicle, busiest first.
// GET /api/v1/admin/dashboard/usage?from=...&to=...
func (h *DashboardHandler) Usage(c *gin.Context) {
	from, to, ok := h.parseWindow(c)
	if !ok {
		return
	}

	usage, err := h.reports.Usage(from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, usage)
}

func (h *DashboardHandler) parseWindow(c *gin.Context) (from, to time.Time, ok bool) {
	from, err := schedule.ParseTimestamp(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from: " + err.Error()})
		return time.Time{}, time.Time{}, false
	}
	to, err = schedule.ParseTimestamp(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to: " + err.Error()})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
