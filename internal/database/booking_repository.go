package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentgrid/car-rental-backend/internal/models"
	"github.com/rentgrid/car-rental-backend/internal/schedule"
)

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, vehicle_id, user_id, start_date, end_date, status, created_at, updated_at`

// Create inserts a new active booking after verifying the vehicle exists
// and that the requested range does not overlap any active booking on the
// same vehicle. The existence check, the overlap check and the insert run
// in one transaction with the vehicle row locked, so two concurrent
// creates for the same vehicle cannot both pass the check.
func (r *BookingRepository) Create(booking *models.Booking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the vehicle row; doubles as the existence check.
	var vehicleID string
	err = tx.Get(&vehicleID, `SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, booking.VehicleID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("vehicle %s: %w", booking.VehicleID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock vehicle row: %w", err)
	}

	var existing []models.Booking
	err = tx.Select(&existing, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE vehicle_id = $1 AND status = $2
	`, booking.VehicleID, models.BookingStatusActive)
	if err != nil {
		return fmt.Errorf("failed to load active bookings: %w", err)
	}

	ranges := make([]schedule.Range, len(existing))
	for i, b := range existing {
		ranges[i] = b.Range()
	}
	if schedule.HasConflict(booking.Range(), ranges) {
		return fmt.Errorf("vehicle %s is already booked for the selected dates: %w",
			booking.VehicleID, models.ErrConflict)
	}

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.Status = models.BookingStatusActive

	err = tx.QueryRow(`
		INSERT INTO bookings (id, vehicle_id, user_id, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, booking.ID, booking.VehicleID, booking.UserID, booking.StartDate, booking.EndDate, booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Get(&booking, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, bookingID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("booking %s: %w", bookingID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// UpdateStatus updates a booking's status
func (r *BookingRepository) UpdateStatus(bookingID string, status models.BookingStatus) error {
	result, err := r.db.Exec(`
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, bookingID, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking %s: %w", bookingID, models.ErrNotFound)
	}
	return nil
}

const bookingWithVehicleColumns = `
	b.id, b.vehicle_id, b.user_id, b.start_date, b.end_date, b.status, b.created_at, b.updated_at,
	v.id AS "vehicle.id", v.make AS "vehicle.make", v.model AS "vehicle.model",
	v.year AS "vehicle.year", v.category AS "vehicle.category", v.color AS "vehicle.color",
	v.seats AS "vehicle.seats", v.mileage AS "vehicle.mileage", v.status AS "vehicle.status"`

// GetByUserWithVehicle retrieves all bookings for a user joined with
// vehicle summary data, newest rental period first
func (r *BookingRepository) GetByUserWithVehicle(userID string) ([]models.BookingWithVehicle, error) {
	bookings := []models.BookingWithVehicle{}
	err := r.db.Select(&bookings, `
		SELECT `+bookingWithVehicleColumns+`
		FROM bookings b
		JOIN vehicles v ON v.id = b.vehicle_id
		WHERE b.user_id = $1
		ORDER BY b.start_date DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for user: %w", err)
	}
	return bookings, nil
}

// GetAllWithVehicle retrieves all bookings joined with vehicle summary
// data, optionally restricted to one status
func (r *BookingRepository) GetAllWithVehicle(status models.BookingStatus) ([]models.BookingWithVehicle, error) {
	query := `
		SELECT ` + bookingWithVehicleColumns + `
		FROM bookings b
		JOIN vehicles v ON v.id = b.vehicle_id`
	args := []interface{}{}

	if status != "" {
		query += ` WHERE b.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY b.start_date DESC`

	bookings := []models.BookingWithVehicle{}
	if err := r.db.Select(&bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// VehicleIDsWithActiveOverlap returns the distinct vehicle IDs that have an
// active booking overlapping the half-open range [start, end)
func (r *BookingRepository) VehicleIDsWithActiveOverlap(start, end time.Time) ([]string, error) {
	ids := []string{}
	err := r.db.Select(&ids, `
		SELECT DISTINCT vehicle_id
		FROM bookings
		WHERE status = $1 AND start_date < $3 AND end_date > $2
	`, models.BookingStatusActive, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked vehicles: %w", err)
	}
	return ids, nil
}

// GetCompletedInWindow retrieves completed bookings whose range intersects
// the reporting window [from, to)
func (r *BookingRepository) GetCompletedInWindow(from, to time.Time) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.db.Select(&bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE status = $1 AND start_date < $3 AND end_date > $2
	`, models.BookingStatusCompleted, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed bookings: %w", err)
	}
	return bookings, nil
}
