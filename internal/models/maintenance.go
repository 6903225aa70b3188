package models

import (
	"time"

	"github.com/rentgrid/car-rental-backend/internal/schedule"
)

// MaintenanceStatus represents the status of a maintenance window
type MaintenanceStatus string

const (
	MaintenanceStatusActive    MaintenanceStatus = "active"
	MaintenanceStatusCompleted MaintenanceStatus = "completed"
)

// Maintenance represents a scheduled maintenance window for a vehicle
// over [StartDate, EndDate)
type Maintenance struct {
	ID        string            `json:"id" db:"id"`
	VehicleID string            `json:"vehicle_id" db:"vehicle_id"`
	StartDate time.Time         `json:"start_date" db:"start_date"`
	EndDate   time.Time         `json:"end_date" db:"end_date"`
	Notes     string            `json:"notes" db:"notes"`
	Status    MaintenanceStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// MaintenanceWithVehicle is a maintenance record joined with its vehicle summary
type MaintenanceWithVehicle struct {
	Maintenance
	Vehicle VehicleSummary `json:"vehicle"`
}

// CreateMaintenanceRequest represents the request to schedule maintenance
type CreateMaintenanceRequest struct {
	VehicleID string `json:"vehicle_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Notes     string `json:"notes"`
}

// ParseDates parses and normalizes the maintenance window to UTC
func (r *CreateMaintenanceRequest) ParseDates() (start, end time.Time, err error) {
	start, err = schedule.ParseTimestamp(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = schedule.ParseTimestamp(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Range returns the maintenance window's half-open interval
func (m *Maintenance) Range() schedule.Range {
	return schedule.Range{Start: m.StartDate, End: m.EndDate}
}
