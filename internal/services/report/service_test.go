package report

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
		&models.Box{},
		&models.OccupancySession{},
		&models.MovementLogEntry{},
	))
	return db
}

func TestSummary(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	yard := models.Yard{Name: "Pátio A", Status: models.YardActive}
	require.NoError(t, db.Create(&yard).Error)

	statuses := []models.BoxStatus{
		models.BoxFree, models.BoxFree, models.BoxFree,
		models.BoxOccupied, models.BoxOccupied,
		models.BoxMaintenance,
	}
	for i, st := range statuses {
		require.NoError(t, db.Create(&models.Box{
			YardID: yard.ID,
			Name:   "B" + string(rune('1'+i)),
			Status: st,
		}).Error)
	}

	summary, err := svc.Summary(yard.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(6), summary.TotalBoxes)
	assert.Equal(t, int64(3), summary.Free)
	assert.Equal(t, int64(2), summary.Occupied)
	assert.Equal(t, int64(1), summary.Maintenance)
	assert.InDelta(t, 0.4, summary.OccupancyRate, 0.0001) // 2 of 5 usable

	_, err = svc.Summary(999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDwell(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	durations := []time.Duration{30 * time.Minute, 90 * time.Minute}
	for i, d := range durations {
		exited := base.Add(d)
		require.NoError(t, db.Create(&models.OccupancySession{
			VehicleID: int64(i + 1),
			BoxID:     int64(i + 1),
			YardID:    1,
			Active:    false,
			EnteredAt: base,
			ExitedAt:  &exited,
		}).Error)
	}
	// Still-active session is excluded
	require.NoError(t, db.Create(&models.OccupancySession{
		VehicleID: 3, BoxID: 3, YardID: 1, Active: true, EnteredAt: base,
	}).Error)

	stats, err := svc.Dwell(nil)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Sessions)
	assert.InDelta(t, 60.0, stats.AvgMinutes, 0.0001)
	assert.Equal(t, int64(90), stats.MaxMinutes)
}

func TestDwellEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	stats, err := svc.Dwell(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Sessions)
	assert.Equal(t, 0.0, stats.AvgMinutes)
}

func TestMovements(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.MovementLogEntry{
			EventID:    string(rune('a' + i)),
			VehicleID:  1,
			BoxID:      int64(i + 1),
			YardID:     1,
			Kind:       models.MovementEntry,
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	entries, err := svc.Movements(nil, 2, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first
	assert.Equal(t, int64(3), entries[0].BoxID)
	assert.Equal(t, int64(2), entries[1].BoxID)
}
