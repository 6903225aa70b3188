package models

import "time"

// BookingCounts partitions the total booking count by status
type BookingCounts struct {
	Active    int `json:"active"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
}

// DashboardStats is the admin dashboard overview
type DashboardStats struct {
	TotalVehicles     int           `json:"total_vehicles"`
	TotalBookings     int           `json:"total_bookings"`
	Bookings          BookingCounts `json:"bookings"`
	ActiveMaintenance int           `json:"active_maintenance"`
}

// RevenueReport estimates revenue from completed bookings within a window.
// Booking ranges are clipped to the window before counting days.
type RevenueReport struct {
	From                   time.Time `json:"from"`
	To                     time.Time `json:"to"`
	DailyRate              float64   `json:"daily_rate"`
	CompletedBookingsCount int       `json:"completed_bookings_count"`
	EstimatedRevenue       float64   `json:"estimated_revenue"`
}

// VehicleUsage reports clipped completed-booking days for one vehicle
type VehicleUsage struct {
	VehicleID    string `json:"vehicle_id"`
	BookingCount int    `json:"booking_count"`
	BookedDays   int    `json:"booked_days"`
}
