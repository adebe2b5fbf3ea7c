package movement

import (
	"log"
	"time"

	"github.com/frotamoto/patiogo/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recorder appends entry/exit events to the movement log. Writes are
// best-effort: a failure is logged and swallowed so it can never roll back
// the allocation or release that triggered it.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder creates a new movement Recorder
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Entry records a vehicle entering a box
func (r *Recorder) Entry(vehicleID, boxID, yardID int64, notes string) {
	r.append(models.MovementLogEntry{
		EventID:    uuid.NewString(),
		VehicleID:  vehicleID,
		BoxID:      boxID,
		YardID:     yardID,
		Kind:       models.MovementEntry,
		Notes:      notes,
		RecordedAt: time.Now().UTC(),
	})
}

// Exit records a vehicle leaving a box with its computed dwell time
func (r *Recorder) Exit(vehicleID, boxID, yardID, dwellMinutes int64, notes string) {
	r.append(models.MovementLogEntry{
		EventID:      uuid.NewString(),
		VehicleID:    vehicleID,
		BoxID:        boxID,
		YardID:       yardID,
		Kind:         models.MovementExit,
		DwellMinutes: &dwellMinutes,
		Notes:        notes,
		Metadata:     datatypes.JSON([]byte(`{"source":"release"}`)),
		RecordedAt:   time.Now().UTC(),
	})
}

func (r *Recorder) append(entry models.MovementLogEntry) {
	if err := r.db.Create(&entry).Error; err != nil {
		log.Printf("⚠️ Movement log write failed (vehicle=%d box=%d kind=%s): %v",
			entry.VehicleID, entry.BoxID, entry.Kind, err)
	}
}
