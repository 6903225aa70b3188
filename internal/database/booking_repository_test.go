package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentgrid/car-rental-backend/internal/models"
)

func newMockDB(t *testing.T) (DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

var bookingRows = []string{
	"id", "vehicle_id", "user_id", "start_date", "end_date", "status", "created_at", "updated_at",
}

func TestCreateBooking(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		vehicleID := uuid.New().String()
		userID := uuid.New().String()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM vehicles WHERE id = \$1 FOR UPDATE`).
			WithArgs(vehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(vehicleID))
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(vehicleID, models.BookingStatusActive).
			WillReturnRows(sqlmock.NewRows(bookingRows))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WithArgs(sqlmock.AnyArg(), vehicleID, userID, day(1), day(5), models.BookingStatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectCommit()

		booking := &models.Booking{
			VehicleID: vehicleID,
			UserID:    userID,
			StartDate: day(1),
			EndDate:   day(5),
		}
		err := repo.Create(booking)
		require.NoError(t, err)
		assert.NotEmpty(t, booking.ID)
		assert.Equal(t, models.BookingStatusActive, booking.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Vehicle Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		vehicleID := uuid.New().String()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM vehicles WHERE id = \$1 FOR UPDATE`).
			WithArgs(vehicleID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Create(&models.Booking{
			VehicleID: vehicleID,
			UserID:    uuid.New().String(),
			StartDate: day(1),
			EndDate:   day(5),
		})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Overlapping Active Booking Rejected", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		vehicleID := uuid.New().String()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM vehicles WHERE id = \$1 FOR UPDATE`).
			WithArgs(vehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(vehicleID))
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(vehicleID, models.BookingStatusActive).
			WillReturnRows(sqlmock.NewRows(bookingRows).AddRow(
				uuid.New().String(), vehicleID, uuid.New().String(),
				day(3), day(8), models.BookingStatusActive, now, now,
			))
		mock.ExpectRollback()

		err := repo.Create(&models.Booking{
			VehicleID: vehicleID,
			UserID:    uuid.New().String(),
			StartDate: day(1),
			EndDate:   day(5),
		})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrConflict))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Back To Back Bookings Allowed", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		vehicleID := uuid.New().String()
		userID := uuid.New().String()
		now := time.Now()

		// Existing booking ends exactly when the new one begins.
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM vehicles WHERE id = \$1 FOR UPDATE`).
			WithArgs(vehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(vehicleID))
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(vehicleID, models.BookingStatusActive).
			WillReturnRows(sqlmock.NewRows(bookingRows).AddRow(
				uuid.New().String(), vehicleID, uuid.New().String(),
				day(1), day(5), models.BookingStatusActive, now, now,
			))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WithArgs(sqlmock.AnyArg(), vehicleID, userID, day(5), day(9), models.BookingStatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectCommit()

		err := repo.Create(&models.Booking{
			VehicleID: vehicleID,
			UserID:    userID,
			StartDate: day(5),
			EndDate:   day(9),
		})
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		vehicleID := uuid.New().String()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM vehicles WHERE id = \$1 FOR UPDATE`).
			WithArgs(vehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(vehicleID))
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(vehicleID, models.BookingStatusActive).
			WillReturnRows(sqlmock.NewRows(bookingRows))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(fmt.Errorf("database error"))
		mock.ExpectRollback()

		err := repo.Create(&models.Booking{
			VehicleID: vehicleID,
			UserID:    uuid.New().String(),
			StartDate: day(1),
			EndDate:   day(5),
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert booking")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBookingByID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		bookingID := uuid.New().String()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(bookingRows).AddRow(
				bookingID, uuid.New().String(), uuid.New().String(),
				now, now.Add(48*time.Hour), models.BookingStatusActive, now, now,
			))

		booking, err := repo.GetByID(bookingID)
		require.NoError(t, err)
		assert.Equal(t, bookingID, booking.ID)
		assert.Equal(t, models.BookingStatusActive, booking.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		bookingID := uuid.New().String()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(bookingID).
			WillReturnError(sql.ErrNoRows)

		booking, err := repo.GetByID(bookingID)
		assert.Error(t, err)
		assert.Nil(t, booking)
		assert.True(t, errors.Is(err, models.ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		bookingID := uuid.New().String()

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusCancelled).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(bookingID, models.BookingStatusCancelled)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		bookingID := uuid.New().String()

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID, models.BookingStatusCompleted).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(bookingID, models.BookingStatusCompleted)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVehicleIDsWithActiveBookingOverlap(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	id1 := uuid.New().String()
	id2 := uuid.New().String()

	mock.ExpectQuery(`SELECT DISTINCT vehicle_id`).
		WithArgs(models.BookingStatusActive, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_id"}).AddRow(id1).AddRow(id2))

	ids, err := repo.VehicleIDsWithActiveOverlap(start, end)
	require.NoError(t, err)
	assert.Equal(t, []string{id1, id2}, ids)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingsByUserWithVehicle(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	userID := uuid.New().String()
	vehicleID := uuid.New().String()
	now := time.Now()

	cols := append([]string{}, bookingRows...)
	cols = append(cols,
		"vehicle.id", "vehicle.make", "vehicle.model", "vehicle.year",
		"vehicle.category", "vehicle.color", "vehicle.seats", "vehicle.mileage", "vehicle.status",
	)

	mock.ExpectQuery(`SELECT (.+) FROM bookings b`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			uuid.New().String(), vehicleID, userID,
			now, now.Add(72*time.Hour), models.BookingStatusActive, now, now,
			vehicleID, "Toyota", "Corolla", 2023, "sedan", "white", 5, 42000, models.VehicleStatusAvailable,
		))

	bookings, err := repo.GetByUserWithVehicle(userID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, userID, bookings[0].UserID)
	assert.Equal(t, "Toyota", bookings[0].Vehicle.Make)
	assert.Equal(t, vehicleID, bookings[0].Vehicle.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
