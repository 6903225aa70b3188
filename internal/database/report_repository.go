package database

import (
	"fmt"

	"github.com/rentgrid/car-rental-backend/internal/models"
)

// ReportRepository serves the read-only count queries behind the admin
// dashboard. These are advisory snapshots and run outside any transaction.
type ReportRepository struct {
	db DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// CountVehicles returns the total number of vehicles
func (r *ReportRepository) CountVehicles() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM vehicles`); err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return count, nil
}

// CountBookingsByStatus returns the total booking count and its partition
// by status
func (r *ReportRepository) CountBookingsByStatus() (total int, counts models.BookingCounts, err error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return 0, counts, fmt.Errorf("failed to count bookings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.BookingStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return 0, counts, fmt.Errorf("failed to scan booking counts: %w", err)
		}
		total += n
		switch status {
		case models.BookingStatusActive:
			counts.Active = n
		case models.BookingStatusCancelled:
			counts.Cancelled = n
		case models.BookingStatusCompleted:
			counts.Completed = n
		}
	}
	return total, counts, rows.Err()
}

// CountActiveMaintenance returns the number of maintenance records with
// active status
func (r *ReportRepository) CountActiveMaintenance() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM maintenance WHERE status = $1`,
		models.MaintenanceStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to count active maintenance: %w", err)
	}
	return count, nil
}
