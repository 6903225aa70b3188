package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/rentgrid/car-rental-backend/internal/database"
	"github.com/rentgrid/car-rental-backend/internal/models"
	"github.com/rentgrid/car-rental-backend/internal/schedule"
)

// ReportService aggregates usage and revenue figures from completed
// bookings. Booking ranges are clipped to the reporting window and day
// counts are computed on calendar dates with time-of-day discarded.
type ReportService struct {
	bookings *database.BookingRepository
	reports  *database.ReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(bookings *database.BookingRepository, reports *database.ReportRepository) *ReportService {
	return &ReportService{
		bookings: bookings,
		reports:  reports,
	}
}

func validateWindow(from, to time.Time) (time.Time, time.Time, error) {
	from = schedule.NormalizeUTC(from)
	to = schedule.NormalizeUTC(to)
	if !(schedule.Range{Start: from, End: to}).IsValid() {
		return from, to, fmt.Errorf("to must be after from: %w", models.ErrValidation)
	}
	return from, to, nil
}

// Revenue estimates revenue over [from, to): clipped whole days of every
// qualifying completed booking times the daily rate. Bookings whose
// clipped duration is zero still count toward the booking total.
func (s *ReportService) Revenue(from, to time.Time, dailyRate float64) (*models.RevenueReport, error) {
	from, to, err := validateWindow(from, to)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.GetCompletedInWindow(from, to)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, b := range bookings {
		days := schedule.ClippedDays(b.StartDate, b.EndDate, from, to)
		total += float64(days) * dailyRate
	}

	return &models.RevenueReport{
		From:                   from,
		To:                     to,
		DailyRate:              dailyRate,
		CompletedBookingsCount: len(bookings),
		EstimatedRevenue:       total,
	}, nil
}

// Usage groups qualifying completed bookings by vehicle, summing clipped
// days, sorted by booked days descending
func (s *ReportService) Usage(from, to time.Time) ([]models.VehicleUsage, error) {
	from, to, err := validateWindow(from, to)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.GetCompletedInWindow(from, to)
	if err != nil {
		return nil, err
	}

	byVehicle := make(map[string]*models.VehicleUsage)
	order := []string{}
	for _, b := range bookings {
		usage, ok := byVehicle[b.VehicleID]
		if !ok {
			usage = &models.VehicleUsage{VehicleID: b.VehicleID}
			byVehicle[b.VehicleID] = usage
			order = append(order, b.VehicleID)
		}
		usage.BookingCount++
		usage.BookedDays += schedule.ClippedDays(b.StartDate, b.EndDate, from, to)
	}

	result := make([]models.VehicleUsage, 0, len(order))
	for _, id := range order {
		result = append(result, *byVehicle[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].BookedDays > result[j].BookedDays
	})
	return result, nil
}

// DashboardStats returns fleet-wide counts with no clipping
func (s *ReportService) DashboardStats() (*models.DashboardStats, error) {
	totalVehicles, err := s.reports.CountVehicles()
	if err != nil {
		return nil, err
	}

	totalBookings, bookingCounts, err := s.reports.CountBookingsByStatus()
	if err != nil {
		return nil, err
	}

	activeMaintenance, err := s.reports.CountActiveMaintenance()
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalVehicles:     totalVehicles,
		TotalBookings:     totalBookings,
		Bookings:          bookingCounts,
		ActiveMaintenance: activeMaintenance,
	}, nil
}
