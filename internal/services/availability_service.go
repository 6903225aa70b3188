package services

import (
	"fmt"
	"time"

	"github.com/rentgrid/car-rental-backend/internal/database"
	"github.com/rentgrid/car-rental-backend/internal/models"
	"github.com/rentgrid/car-rental-backend/internal/schedule"
)

// AvailabilityService resolves which vehicles are free to rent over a
// requested range. Results are point-in-time snapshots; the non-overlap
// invariant is enforced at booking time, not here.
type AvailabilityService struct {
	vehicles    *database.VehicleRepository
	bookings    *database.BookingRepository
	maintenance *database.MaintenanceRepository
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(
	vehicles *database.VehicleRepository,
	bookings *database.BookingRepository,
	maintenance *database.MaintenanceRepository,
) *AvailabilityService {
	return &AvailabilityService{
		vehicles:    vehicles,
		bookings:    bookings,
		maintenance: maintenance,
	}
}

// GetAvailable returns vehicles with base status available that have
// neither an active booking nor an active maintenance window overlapping
// [start, end), optionally filtered by exact category match.
func (s *AvailabilityService) GetAvailable(start, end time.Time, category string) ([]models.Vehicle, error) {
	start = schedule.NormalizeUTC(start)
	end = schedule.NormalizeUTC(end)

	if !(schedule.Range{Start: start, End: end}).IsValid() {
		return nil, fmt.Errorf("end date must be after start date: %w", models.ErrValidation)
	}

	bookedIDs, err := s.bookings.VehicleIDsWithActiveOverlap(start, end)
	if err != nil {
		return nil, err
	}

	maintenanceIDs, err := s.maintenance.VehicleIDsWithActiveOverlap(start, end)
	if err != nil {
		return nil, err
	}

	excluded := make([]string, 0, len(bookedIDs)+len(maintenanceIDs))
	seen := make(map[string]bool, len(bookedIDs)+len(maintenanceIDs))
	for _, id := range append(bookedIDs, maintenanceIDs...) {
		if !seen[id] {
			seen[id] = true
			excluded = append(excluded, id)
		}
	}

	return s.vehicles.ListAvailable(category, excluded)
}
