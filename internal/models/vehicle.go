package models

import (
	"errors"
	"time"
)

// VehicleStatus represents the base status of a vehicle
type VehicleStatus string

const (
	VehicleStatusAvailable VehicleStatus = "available"
	VehicleStatusRetired   VehicleStatus = "retired"
)

// Vehicle represents a rentable vehicle in the fleet
type Vehicle struct {
	ID        string        `json:"id" db:"id"`
	Make      string        `json:"make" db:"make"`
	Model     string        `json:"model" db:"model"`
	Year      int           `json:"year" db:"year"`
	Category  string        `json:"category" db:"category"`
	Color     string        `json:"color" db:"color"`
	Seats     int           `json:"seats" db:"seats"`
	Mileage   int           `json:"mileage" db:"mileage"`
	Status    VehicleStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// VehicleSummary is the vehicle projection embedded in booking listings
type VehicleSummary struct {
	ID       string        `json:"id" db:"id"`
	Make     string        `json:"make" db:"make"`
	Model    string        `json:"model" db:"model"`
	Year     int           `json:"year" db:"year"`
	Category string        `json:"category" db:"category"`
	Color    string        `json:"color" db:"color"`
	Seats    int           `json:"seats" db:"seats"`
	Mileage  int           `json:"mileage" db:"mileage"`
	Status   VehicleStatus `json:"status" db:"status"`
}

// CreateVehicleRequest represents the request to register a new vehicle
type CreateVehicleRequest struct {
	Make     string `json:"make" binding:"required"`
	Model    string `json:"model" binding:"required"`
	Year     int    `json:"year" binding:"required"`
	Category string `json:"category" binding:"required"`
	Color    string `json:"color"`
	Seats    int    `json:"seats" binding:"required,min=1"`
	Mileage  int    `json:"mileage"`
}

// Validate validates the create vehicle request
func (r *CreateVehicleRequest) Validate() error {
	if r.Year < 1950 {
		return errors.New("year must be 1950 or later")
	}
	if r.Seats <= 0 {
		return errors.New("seats must be at least 1")
	}
	if r.Mileage < 0 {
		return errors.New("mileage cannot be negative")
	}
	return nil
}
