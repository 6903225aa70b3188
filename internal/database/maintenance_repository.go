package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentgrid/car-rental-backend/internal/models"
	"github.com/rentgrid/car-rental-backend/internal/schedule"
)

// MaintenanceRepository handles database operations for the maintenance table
type MaintenanceRepository struct {
	db DB
}

// NewMaintenanceRepository creates a new MaintenanceRepository
func NewMaintenanceRepository(db DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

const maintenanceColumns = `id, vehicle_id, start_date, end_date, notes, status, created_at, updated_at`

// Create inserts a new active maintenance window after verifying the
// vehicle exists and that the window overlaps neither an active booking
// nor an active maintenance window on the same vehicle. All checks and
// the insert run in one transaction with the vehicle row locked.
//
// Only active maintenance windows block new ones; a completed window no
// longer occupies the vehicle's schedule.
func (r *MaintenanceRepository) Create(m *models.Maintenance) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var vehicleID string
	err = tx.Get(&vehicleID, `SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, m.VehicleID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("vehicle %s: %w", m.VehicleID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock vehicle row: %w", err)
	}

	var activeBookings []models.Booking
	err = tx.Select(&activeBookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE vehicle_id = $1 AND status = $2
	`, m.VehicleID, models.BookingStatusActive)
	if err != nil {
		return fmt.Errorf("failed to load active bookings: %w", err)
	}

	bookingRanges := make([]schedule.Range, len(activeBookings))
	for i, b := range activeBookings {
		bookingRanges[i] = b.Range()
	}
	if schedule.HasConflict(m.Range(), bookingRanges) {
		return fmt.Errorf("vehicle %s has an active booking during these dates: %w",
			m.VehicleID, models.ErrConflict)
	}

	var activeMaintenance []models.Maintenance
	err = tx.Select(&activeMaintenance, `
		SELECT `+maintenanceColumns+`
		FROM maintenance
		WHERE vehicle_id = $1 AND status = $2
	`, m.VehicleID, models.MaintenanceStatusActive)
	if err != nil {
		return fmt.Errorf("failed to load active maintenance: %w", err)
	}

	maintenanceRanges := make([]schedule.Range, len(activeMaintenance))
	for i, existing := range activeMaintenance {
		maintenanceRanges[i] = existing.Range()
	}
	if schedule.HasConflict(m.Range(), maintenanceRanges) {
		return fmt.Errorf("maintenance already scheduled for vehicle %s in the selected dates: %w",
			m.VehicleID, models.ErrConflict)
	}

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.Status = models.MaintenanceStatusActive

	err = tx.QueryRow(`
		INSERT INTO maintenance (id, vehicle_id, start_date, end_date, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, m.ID, m.VehicleID, m.StartDate, m.EndDate, m.Notes, m.Status,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert maintenance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit maintenance: %w", err)
	}
	return nil
}

// GetByID retrieves a maintenance record by ID
func (r *MaintenanceRepository) GetByID(maintenanceID string) (*models.Maintenance, error) {
	var m models.Maintenance
	err := r.db.Get(&m, `
		SELECT `+maintenanceColumns+`
		FROM maintenance
		WHERE id = $1
	`, maintenanceID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("maintenance %s: %w", maintenanceID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get maintenance: %w", err)
	}
	return &m, nil
}

// UpdateStatus updates a maintenance record's status
func (r *MaintenanceRepository) UpdateStatus(maintenanceID string, status models.MaintenanceStatus) error {
	result, err := r.db.Exec(`
		UPDATE maintenance
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, maintenanceID, status)
	if err != nil {
		return fmt.Errorf("failed to update maintenance status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("maintenance %s: %w", maintenanceID, models.ErrNotFound)
	}
	return nil
}

// Delete removes a maintenance record regardless of its status
func (r *MaintenanceRepository) Delete(maintenanceID string) error {
	result, err := r.db.Exec(`DELETE FROM maintenance WHERE id = $1`, maintenanceID)
	if err != nil {
		return fmt.Errorf("failed to delete maintenance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("maintenance %s: %w", maintenanceID, models.ErrNotFound)
	}
	return nil
}

const maintenanceWithVehicleColumns = `
	m.id, m.vehicle_id, m.start_date, m.end_date, m.notes, m.status, m.created_at, m.updated_at,
	v.id AS "vehicle.id", v.make AS "vehicle.make", v.model AS "vehicle.model",
	v.year AS "vehicle.year", v.category AS "vehicle.category", v.color AS "vehicle.color",
	v.seats AS "vehicle.seats", v.mileage AS "vehicle.mileage", v.status AS "vehicle.status"`

// GetAllWithVehicle retrieves all maintenance records joined with vehicle
// summary data
func (r *MaintenanceRepository) GetAllWithVehicle() ([]models.MaintenanceWithVehicle, error) {
	records := []models.MaintenanceWithVehicle{}
	err := r.db.Select(&records, `
		SELECT `+maintenanceWithVehicleColumns+`
		FROM maintenance m
		JOIN vehicles v ON v.id = m.vehicle_id
		ORDER BY m.start_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance: %w", err)
	}
	return records, nil
}

// VehicleIDsWithActiveOverlap returns the distinct vehicle IDs that have an
// active maintenance window overlapping the half-open range [start, end)
func (r *MaintenanceRepository) VehicleIDsWithActiveOverlap(start, end time.Time) ([]string, error) {
	ids := []string{}
	err := r.db.Select(&ids, `
		SELECT DISTINCT vehicle_id
		FROM maintenance
		WHERE status = $1 AND start_date < $3 AND end_date > $2
	`, models.MaintenanceStatusActive, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles under maintenance: %w", err)
	}
	return ids, nil
}
