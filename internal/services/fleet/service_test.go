package fleet

import (
	"testing"
	"time"

	"github.com/frotamoto/patiogo/internal/apperr"
	"github.com/frotamoto/patiogo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Yard{},
		&models.Zone{},
		&models.Box{},
		&models.Vehicle{},
		&models.OccupancySession{},
		&models.MovementLogEntry{},
	))
	return db
}

func seedYard(t *testing.T, db *gorm.DB, name string) models.Yard {
	t.Helper()
	yard := models.Yard{Name: name, Status: models.YardActive}
	require.NoError(t, db.Create(&yard).Error)
	return yard
}

func TestCreateYard(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	require.NoError(t, svc.CreateYard(&models.Yard{Name: "Pátio Norte"}))

	t.Run("name uniqueness is case-insensitive", func(t *testing.T) {
		err := svc.CreateYard(&models.Yard{Name: "pátio norte"})
		assert.ErrorIs(t, err, apperr.ErrDuplicated)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		err := svc.CreateYard(&models.Yard{Name: "   "})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		err := svc.CreateYard(&models.Yard{Name: "Pátio Sul", Status: "X"})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})
}

func TestDeleteYard(t *testing.T) {
	t.Run("yard with boxes cannot be deleted", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		yard := seedYard(t, db, "Pátio A")
		require.NoError(t, db.Create(&models.Box{YardID: yard.ID, Name: "B1", Status: models.BoxFree}).Error)

		err := svc.DeleteYard(yard.ID)
		assert.ErrorIs(t, err, apperr.ErrResourceInUse)
	})

	t.Run("yard with active session cannot be deleted", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		yard := seedYard(t, db, "Pátio A")
		require.NoError(t, db.Create(&models.OccupancySession{
			VehicleID: 1, BoxID: 1, YardID: yard.ID, Active: true, EnteredAt: time.Now(),
		}).Error)

		err := svc.DeleteYard(yard.ID)
		assert.ErrorIs(t, err, apperr.ErrResourceInUse)
	})

	t.Run("empty yard deletes along with its closed history", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		yard := seedYard(t, db, "Pátio A")
		exited := time.Now().UTC()
		require.NoError(t, db.Create(&models.OccupancySession{
			VehicleID: 1, BoxID: 1, YardID: yard.ID, Active: false,
			EnteredAt: exited.Add(-time.Hour), ExitedAt: &exited,
		}).Error)

		require.NoError(t, svc.DeleteYard(yard.ID))

		var sessions int64
		require.NoError(t, db.Model(&models.OccupancySession{}).
			Where("yard_id = ?", yard.ID).Count(&sessions).Error)
		assert.Equal(t, int64(0), sessions)
	})

	t.Run("missing yard fails with NotFound", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		assert.ErrorIs(t, svc.DeleteYard(99), apperr.ErrNotFound)
	})
}

func TestBoxRules(t *testing.T) {
	t.Run("name is unique per yard, case-insensitive", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		yardA := seedYard(t, db, "Pátio A")
		yardB := seedYard(t, db, "Pátio B")

		require.NoError(t, svc.CreateBox(&models.Box{YardID: yardA.ID, Name: "Box-01"}))

		err := svc.CreateBox(&models.Box{YardID: yardA.ID, Name: "box-01"})
		assert.ErrorIs(t, err, apperr.ErrDuplicated)

		// Same name in another yard is fine
		require.NoError(t, svc.CreateBox(&models.Box{YardID: yardB.ID, Name: "Box-01"}))
	})

	t.Run("status must be a known code", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		yard := seedYard(t, db, "Pátio A")

		err := svc.CreateBox(&models.Box{YardID: yard.ID, Name: "B1", Status: "Z"})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	t.Run("exit before entry is rejected", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		yard := seedYard(t, db, "Pátio A")

		entry := time.Now().UTC()
		exit := entry.Add(-time.Minute)
		err := svc.CreateBox(&models.Box{YardID: yard.ID, Name: "B1", EntryAt: &entry, ExitAt: &exit})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	t.Run("unknown yard fails with NotFound", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		err := svc.CreateBox(&models.Box{YardID: 99, Name: "B1"})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestDeleteBox(t *testing.T) {
	t.Run("last box of a yard cannot be deleted", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		yard := seedYard(t, db, "Pátio A")
		box := models.Box{YardID: yard.ID, Name: "B1", Status: models.BoxFree}
		require.NoError(t, db.Create(&box).Error)

		err := svc.DeleteBox(box.ID)
		assert.ErrorIs(t, err, apperr.ErrOperationNotAllowed)
	})

	t.Run("occupied box cannot be deleted", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		yard := seedYard(t, db, "Pátio A")
		box := models.Box{YardID: yard.ID, Name: "B1", Status: models.BoxOccupied}
		require.NoError(t, db.Create(&box).Error)
		require.NoError(t, db.Create(&models.Box{YardID: yard.ID, Name: "B2", Status: models.BoxFree}).Error)

		err := svc.DeleteBox(box.ID)
		assert.ErrorIs(t, err, apperr.ErrResourceInUse)
	})

	t.Run("box referenced by an active session cannot be deleted", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		yard := seedYard(t, db, "Pátio A")
		box := models.Box{YardID: yard.ID, Name: "B1", Status: models.BoxFree}
		require.NoError(t, db.Create(&box).Error)
		require.NoError(t, db.Create(&models.Box{YardID: yard.ID, Name: "B2", Status: models.BoxFree}).Error)
		require.NoError(t, db.Create(&models.OccupancySession{
			VehicleID: 1, BoxID: box.ID, YardID: yard.ID, Active: true, EnteredAt: time.Now(),
		}).Error)

		err := svc.DeleteBox(box.ID)
		assert.ErrorIs(t, err, apperr.ErrResourceInUse)
	})

	t.Run("free sibling box deletes cleanly", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		yard := seedYard(t, db, "Pátio A")
		box := models.Box{YardID: yard.ID, Name: "B1", Status: models.BoxFree}
		require.NoError(t, db.Create(&box).Error)
		require.NoError(t, db.Create(&models.Box{YardID: yard.ID, Name: "B2", Status: models.BoxFree}).Error)

		require.NoError(t, svc.DeleteBox(box.ID))
	})
}

func TestRegisterVehicle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	t.Run("plate is normalized on registration", func(t *testing.T) {
		v := models.Vehicle{Plate: "abc-1d23"}
		require.NoError(t, svc.RegisterVehicle(&v))
		assert.Equal(t, "ABC1D23", v.Plate)
	})

	t.Run("duplicate plate is rejected", func(t *testing.T) {
		err := svc.RegisterVehicle(&models.Vehicle{Plate: "ABC1D23"})
		assert.ErrorIs(t, err, apperr.ErrDuplicated)
	})

	t.Run("malformed plate is rejected", func(t *testing.T) {
		err := svc.RegisterVehicle(&models.Vehicle{Plate: "1234ABC"})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})
}

func TestDeleteVehicle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	v := models.Vehicle{Plate: "ABC1234"}
	require.NoError(t, svc.RegisterVehicle(&v))

	yard := seedYard(t, db, "Pátio A")
	require.NoError(t, db.Create(&models.OccupancySession{
		VehicleID: v.ID, BoxID: 1, YardID: yard.ID, Active: true, EnteredAt: time.Now(),
	}).Error)

	assert.ErrorIs(t, svc.DeleteVehicle(v.ID), apperr.ErrResourceInUse)

	require.NoError(t, db.Model(&models.OccupancySession{}).
		Where("vehicle_id = ?", v.ID).Update("active", false).Error)
	require.NoError(t, svc.DeleteVehicle(v.ID))
}
