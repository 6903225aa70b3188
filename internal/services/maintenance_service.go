package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rentgrid/car-rental-backend/internal/database"
	"github.com/rentgrid/car-rental-backend/internal/models"
	"github.com/rentgrid/car-rental-backend/internal/schedule"
)

// MaintenanceService implements the maintenance lifecycle: scheduling with
// conflict detection against active bookings and active maintenance,
// idempotent completion, and hard deletion.
type MaintenanceService struct {
	maintenance *database.MaintenanceRepository
	logger      *logrus.Logger
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(maintenance *database.MaintenanceRepository, logger *logrus.Logger) *MaintenanceService {
	return &MaintenanceService{
		maintenance: maintenance,
		logger:      logger,
	}
}

// Create schedules a maintenance window over [start, end). The window may
// not overlap an active booking or an active maintenance window on the
// same vehicle; checks and insert are atomic in the repository.
func (s *MaintenanceService) Create(vehicleID string, start, end time.Time, notes string) (*models.Maintenance, error) {
	start = schedule.NormalizeUTC(start)
	end = schedule.NormalizeUTC(end)

	if !(schedule.Range{Start: start, End: end}).IsValid() {
		return nil, fmt.Errorf("end date must be after start date: %w", models.ErrValidation)
	}

	m := &models.Maintenance{
		VehicleID: vehicleID,
		StartDate: start,
		EndDate:   end,
		Notes:     notes,
	}

	if err := s.maintenance.Create(m); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"maintenance_id": m.ID,
		"vehicle_id":     vehicleID,
		"start":          start,
		"end":            end,
	}).Info("Maintenance scheduled")

	return m, nil
}

// Complete marks a maintenance window as completed. Completing an already
// completed record is a no-op.
func (s *MaintenanceService) Complete(maintenanceID string) (*models.Maintenance, error) {
	m, err := s.maintenance.GetByID(maintenanceID)
	if err != nil {
		return nil, err
	}

	if m.Status == models.MaintenanceStatusCompleted {
		return m, nil
	}

	if err := s.maintenance.UpdateStatus(maintenanceID, models.MaintenanceStatusCompleted); err != nil {
		return nil, err
	}
	m.Status = models.MaintenanceStatusCompleted

	s.logger.WithField("maintenance_id", maintenanceID).Info("Maintenance completed")
	return m, nil
}

// Delete removes a maintenance record unconditionally, regardless of status
func (s *MaintenanceService) Delete(maintenanceID string) error {
	if err := s.maintenance.Delete(maintenanceID); err != nil {
		return err
	}
	s.logger.WithField("maintenance_id", maintenanceID).Info("Maintenance deleted")
	return nil
}

// ListAll returns every maintenance record with vehicle summaries
func (s *MaintenanceService) ListAll() ([]models.MaintenanceWithVehicle, error) {
	return s.maintenance.GetAllWithVehicle()
}
