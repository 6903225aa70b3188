package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentgrid/car-rental-backend/internal/database"
	"github.com/rentgrid/car-rental-backend/internal/models"
	"github.com/rentgrid/car-rental-backend/internal/services"
)

func setupDashboardHandler(db database.DB) *DashboardHandler {
	reports := services.NewReportService(
		database.NewBookingRepository(db),
		database.NewReportRepository(db),
	)
	return NewDashboardHandler(reports, testLogger())
}

func TestDashboardStatsHandler(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupDashboardHandler(db)

	c, w := setupAdminContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard/stats", nil)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vehicles`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM bookings GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(models.BookingStatusActive, 2).
			AddRow(models.BookingStatusCompleted, 5))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM maintenance`).
		WithArgs(models.MaintenanceStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	handler.Stats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 7, stats.TotalVehicles)
	assert.Equal(t, 7, stats.TotalBookings)
	assert.Equal(t, 1, stats.ActiveMaintenance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRevenueHandler(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Success With Explicit Rate", func(t *testing.T) {
		db, mock := setupTestDB(t)
		handler := setupDashboardHandler(db)

		now := time.Now()

		c, w := setupAdminContext()
		c.Request = httptest.NewRequest(http.MethodGet,
			"/api/v1/admin/dashboard/revenue?from=2026-06-01&to=2026-07-01&daily_rate=100", nil)

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(models.BookingStatusCompleted, from, to).
			WillReturnRows(sqlmock.NewRows(bookingRows).AddRow(
				uuid.New().String(), uuid.New().String(), uuid.New().String(),
				time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC),
				models.BookingStatusCompleted, now, now,
			))

		handler.Revenue(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var report models.RevenueReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, 1, report.CompletedBookingsCount)
		assert.Equal(t, float64(300), report.EstimatedRevenue)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Daily Rate Returns 400", func(t *testing.T) {
		db, _ := setupTestDB(t)
		handler := setupDashboardHandler(db)

		c, w := setupAdminContext()
		c.Request = httptest.NewRequest(http.MethodGet,
			"/api/v1/admin/dashboard/revenue?from=2026-06-01&to=2026-07-01&daily_rate=-5", nil)

		handler.Revenue(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing Window Returns 400", func(t *testing.T) {
		db, _ := setupTestDB(t)
		handler := setupDashboardHandler(db)

		c, w := setupAdminContext()
		c.Request = httptest.NewRequest(http.MethodGet,
			"/api/v1/admin/dashboard/revenue?from=2026-06-01", nil)

		handler.Revenue(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDashboardUsageHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := setupTestDB(t)
		handler := setupDashboardHandler(db)

		from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
		vehicleID := uuid.New().String()
		now := time.Now()

		c, w := setupAdminContext()
		c.Request = httptest.NewRequest(http.MethodGet,
			"/api/v1/admin/dashboard/usage?from=2026-06-01&to=2026-07-01", nil)

		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(models.BookingStatusCompleted, from, to).
			WillReturnRows(sqlmock.NewRows(bookingRows).AddRow(
				uuid.New().String(), vehicleID, uuid.New().String(),
				time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 6, 9, 0, 0, 0, 0, time.UTC),
				models.BookingStatusCompleted, now, now,
			))

		handler.Usage(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var usage []models.VehicleUsage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &usage))
		require.Len(t, usage, 1)
		assert.Equal(t, vehicleID, usage[0].VehicleID)
		assert.Equal(t, 4, usage[0].BookedDays)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Inverted Window Returns 400", func(t *testing.T) {
		db, _ := setupTestDB(t)
		handler := setupDashboardHandler(db)

		c, w := setupAdminContext()
		c.Request = httptest.NewRequest(http.MethodGet,
			"/api/v1/admin/dashboard/usage?from=2026-07-01&to=2026-06-01", nil)

		handler.Usage(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
