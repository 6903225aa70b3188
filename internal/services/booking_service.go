package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rentgrid/car-rental-backend/internal/database"
	"github.com/rentgrid/car-rental-backend/internal/models"
	"github.com/rentgrid/car-rental-backend/internal/schedule"
)

// BookingService implements the booking lifecycle: create with conflict
// detection, cancellation by the owning requester, completion by an admin,
// and listings. Authorization inputs arrive as explicit parameters; the
// service never inspects request state itself.
type BookingService struct {
	bookings *database.BookingRepository
	logger   *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(bookings *database.BookingRepository, logger *logrus.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		logger:   logger,
	}
}

// Create books a vehicle for the requester over [start, end). The overlap
// check against active bookings and the insert are atomic (repository
// transaction), so concurrent creates cannot double-book a vehicle.
func (s *BookingService) Create(vehicleID, requesterID string, start, end time.Time) (*models.Booking, error) {
	start = schedule.NormalizeUTC(start)
	end = schedule.NormalizeUTC(end)

	if !(schedule.Range{Start: start, End: end}).IsValid() {
		return nil, fmt.Errorf("end date must be after start date: %w", models.ErrValidation)
	}

	booking := &models.Booking{
		VehicleID: vehicleID,
		UserID:    requesterID,
		StartDate: start,
		EndDate:   end,
	}

	if err := s.bookings.Create(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"vehicle_id": vehicleID,
		"start":      start,
		"end":        end,
	}).Info("Booking created")

	return booking, nil
}

// Cancel cancels a booking on behalf of its owner. Cancelling an already
// cancelled booking is a no-op; a completed booking cannot be cancelled.
func (s *BookingService) Cancel(bookingID, requesterID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != requesterID {
		return nil, fmt.Errorf("booking %s does not belong to requester: %w", bookingID, models.ErrForbidden)
	}
	if booking.IsTerminal() {
		if booking.Status == models.BookingStatusCompleted {
			return nil, fmt.Errorf("cannot cancel a completed booking: %w", models.ErrValidation)
		}
		return booking, nil
	}

	if err := s.bookings.UpdateStatus(bookingID, models.BookingStatusCancelled); err != nil {
		return nil, err
	}
	booking.Status = models.BookingStatusCancelled

	s.logger.WithField("booking_id", bookingID).Info("Booking cancelled")
	return booking, nil
}

// Complete marks a booking as completed. Completing an already completed
// booking is a no-op; a cancelled booking cannot be completed. The admin
// capability is enforced by the routing layer.
func (s *BookingService) Complete(bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.IsTerminal() {
		if booking.Status == models.BookingStatusCancelled {
			return nil, fmt.Errorf("cannot complete a cancelled booking: %w", models.ErrValidation)
		}
		return booking, nil
	}

	if err := s.bookings.UpdateStatus(bookingID, models.BookingStatusCompleted); err != nil {
		return nil, err
	}
	booking.Status = models.BookingStatusCompleted

	s.logger.WithField("booking_id", bookingID).Info("Booking completed")
	return booking, nil
}

// ListForRequester returns the requester's bookings with vehicle summaries,
// newest rental period first
func (s *BookingService) ListForRequester(requesterID string) ([]models.BookingWithVehicle, error) {
	return s.bookings.GetByUserWithVehicle(requesterID)
}

// ListAll returns bookings with vehicle summaries, optionally restricted
// to one status
func (s *BookingService) ListAll(status models.BookingStatus) ([]models.BookingWithVehicle, error) {
	return s.bookings.GetAllWithVehicle(status)
}
