package database

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentgrid/car-rental-backend/internal/models"
)

var maintenanceRows = []string{
	"id", "vehicle_id", "start_date", "end_date", "notes", "status", "created_at", "updated_at",
}

func TestCreateMaintenance(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMaintenanceRepository(db)

		vehicleID := uuid.New().String()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM vehicles WHERE id = \$1 FOR UPDATE`).
			WithArgs(vehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(vehicleID))
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(vehicleID, models.BookingStatusActive).
			WillReturnRows(sqlmock.NewRows(bookingRows))
		mock.ExpectQuery(`SELECT (.+) FROM maintenance`).
			WithArgs(vehicleID, models.MaintenanceStatusActive).
			WillReturnRows(sqlmock.NewRows(maintenanceRows))
		mock.ExpectQuery(`INSERT INTO maintenance`).
			WithArgs(sqlmock.AnyArg(), vehicleID, day(10), day(12), "brake service", models.MaintenanceStatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectCommit()

		m := &models.Maintenance{
			VehicleID: vehicleID,
			StartDate: day(10),
			EndDate:   day(12),
			Notes:     "brake service",
		}
		err := repo.Create(m)
		require.NoError(t, err)
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, models.MaintenanceStatusActive, m.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Blocked By Active Booking", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMaintenanceRepository(db)

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
				day(11), day(14), models.BookingStatusActive, now, now,
			))
		mock.ExpectRollback()

		err := repo.Create(&models.Maintenance{
			VehicleID: vehicleID,
			StartDate: day(10),
			EndDate:   day(12),
		})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrConflict))
		assert.Contains(t, err.Error(), "active booking")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Blocked By Active Maintenance", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMaintenanceRepository(db)

		vehicleID := uuid.New().String()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM vehicles WHERE id = \$1 FOR UPDATE`).
			WithArgs(vehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(vehicleID))
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(vehicleID, models.BookingStatusActive).
			WillReturnRows(sqlmock.NewRows(bookingRows))
		mock.ExpectQuery(`SELECT (.+) FROM maintenance`).
			WithArgs(vehicleID, models.MaintenanceStatusActive).
			WillReturnRows(sqlmock.NewRows(maintenanceRows).AddRow(
				uuid.New().String(), vehicleID, day(11), day(13), "inspection",
				models.MaintenanceStatusActive, now, now,
			))
		mock.ExpectRollback()

		err := repo.Create(&models.Maintenance{
			VehicleID: vehicleID,
			StartDate: day(10),
			EndDate:   day(12),
		})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrConflict))
		assert.Contains(t, err.Error(), "already scheduled")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Completed Maintenance Does Not Block", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMaintenanceRepository(db)

		vehicleID := uuid.New().String()
		now := time.Now()

		// The status filter keeps completed windows out of the result set,
		// so the overlap check only ever sees active ones.
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM vehicles WHERE id = \$1 FOR UPDATE`).
			WithArgs(vehicleID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(vehicleID))
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(vehicleID, models.BookingStatusActive).
			WillReturnRows(sqlmock.NewRows(bookingRows))
		mock.ExpectQuery(`SELECT (.+) FROM maintenance`).
			WithArgs(vehicleID, models.MaintenanceStatusActive).
			WillReturnRows(sqlmock.NewRows(maintenanceRows))
		mock.ExpectQuery(`INSERT INTO maintenance`).
			WithArgs(sqlmock.AnyArg(), vehicleID, day(10), day(12), "", models.MaintenanceStatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectCommit()

		err := repo.Create(&models.Maintenance{
			VehicleID: vehicleID,
			StartDate: day(10),
			EndDate:   day(12),
		})
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Vehicle Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMaintenanceRepository(db)

		vehicleID := uuid.New().String()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM vehicles WHERE id = \$1 FOR UPDATE`).
			WithArgs(vehicleID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Create(&models.Maintenance{
			VehicleID: vehicleID,
			StartDate: day(10),
			EndDate:   day(12),
		})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteMaintenance(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMaintenanceRepository(db)

		maintenanceID := uuid.New().String()

		mock.ExpectExec(`DELETE FROM maintenance WHERE id`).
			WithArgs(maintenanceID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(maintenanceID)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMaintenanceRepository(db)

		maintenanceID := uuid.New().String()

		mock.ExpectExec(`DELETE FROM maintenance WHERE id`).
			WithArgs(maintenanceID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(maintenanceID)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVehicleIDsWithActiveMaintenanceOverlap(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMaintenanceRepository(db)

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	vehicleID := uuid.New().String()

	mock.ExpectQuery(`SELECT DISTINCT vehicle_id`).
		WithArgs(models.MaintenanceStatusActive, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_id"}).AddRow(vehicleID))

	ids, err := repo.VehicleIDsWithActiveOverlap(start, end)
	require.NoError(t, err)
	assert.Equal(t, []string{vehicleID}, ids)

	assert.NoError(t, mock.ExpectationsWereMet())
}
