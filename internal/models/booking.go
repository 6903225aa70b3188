package models

import (
	"errors"
	"time"

	"github.com/rentgrid/car-rental-backend/internal/schedule"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking represents a vehicle rental reservation over [StartDate, EndDate)
type Booking struct {
	ID        string        `json:"id" db:"id"`
	VehicleID string        `json:"vehicle_id" db:"vehicle_id"`
	UserID    string        `json:"user_id" db:"user_id"`
	StartDate time.Time     `json:"start_date" db:"start_date"`
	EndDate   time.Time     `json:"end_date" db:"end_date"`
	Status    BookingStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// BookingWithVehicle is a booking joined with its vehicle summary
type BookingWithVehicle struct {
	Booking
	Vehicle VehicleSummary `json:"vehicle"`
}

// CreateBookingRequest represents the request to create a booking.
// Dates arrive as strings so timestamps without a zone marker can be
// normalized to UTC once, at the boundary.
type CreateBookingRequest struct {
	VehicleID string `json:"vehicle_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// ParseDates parses and normalizes the requested rental period to UTC
func (r *CreateBookingRequest) ParseDates() (start, end time.Time, err error) {
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

// Range returns the booking's half-open rental interval
func (b *Booking) Range() schedule.Range {
	return schedule.Range{Start: b.StartDate, End: b.EndDate}
}

// IsTerminal reports whether no further status transition is permitted
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}

// ParseBookingStatus validates a status filter value from a query string
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingStatusActive, BookingStatusCancelled, BookingStatusCompleted:
		return BookingStatus(s), nil
	}
	return "", errors.New("invalid booking status: " + s)
}
