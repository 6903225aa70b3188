package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rentgrid/car-rental-backend/internal/models"
)

// VehicleRepository handles database operations for the vehicles table
type VehicleRepository struct {
	db DB
}

// NewVehicleRepository creates a new VehicleRepository
func NewVehicleRepository(db DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `id, make, model, year, category, color, seats, mileage, status, created_at, updated_at`

// Create registers a new vehicle
func (r *VehicleRepository) Create(vehicle *models.Vehicle) error {
	if vehicle.ID == "" {
		vehicle.ID = uuid.New().String()
	}
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleStatusAvailable
	}

	err := r.db.QueryRow(`
		INSERT INTO vehicles (id, make, model, year, category, color, seats, mileage, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, vehicle.ID, vehicle.Make, vehicle.Model, vehicle.Year, vehicle.Category,
		vehicle.Color, vehicle.Seats, vehicle.Mileage, vehicle.Status,
	).Scan(&vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vehicle: %w", err)
	}
	return nil
}

// GetByID retrieves a vehicle by ID
func (r *VehicleRepository) GetByID(vehicleID string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.Get(&vehicle, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE id = $1
	`, vehicleID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("vehicle %s: %w", vehicleID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return &vehicle, nil
}

// GetAll retrieves all vehicles
func (r *VehicleRepository) GetAll() ([]models.Vehicle, error) {
	vehicles := []models.Vehicle{}
	err := r.db.Select(&vehicles, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		ORDER BY make, model
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return vehicles, nil
}

// ListAvailable retrieves vehicles whose base status is available, minus
// the excluded IDs, optionally filtered by exact category match
func (r *VehicleRepository) ListAvailable(category string, excludeIDs []string) ([]models.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE status = $1 AND NOT (id = ANY($2))
	`
	args := []interface{}{models.VehicleStatusAvailable, pq.Array(excludeIDs)}

	if category != "" {
		query += ` AND category = $3`
		args = append(args, category)
	}
	query += ` ORDER BY make, model`

	vehicles := []models.Vehicle{}
	if err := r.db.Select(&vehicles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list available vehicles: %w", err)
	}
	return vehicles, nil
}
