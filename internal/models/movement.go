package models

import (
	"time"

	"gorm.io/datatypes"
)

// Movement kinds
const (
	MovementEntry = "entry"
	MovementExit  = "exit"
)

// MovementLogEntry is the append-only audit trail of entry/exit events.
// The parking service writes it best-effort and never reads it back;
// reporting reads it independently.
type MovementLogEntry struct {
	ID           int64          `gorm:"primaryKey" json:"id"`
	EventID      string         `gorm:"type:uuid;uniqueIndex" json:"event_id"`
	VehicleID    int64          `gorm:"not null;index" json:"vehicle_id"`
	BoxID        int64          `gorm:"not null;index" json:"box_id"`
	YardID       int64          `gorm:"not null;index" json:"yard_id"`
	Kind         string         `gorm:"type:varchar(8);not null;index" json:"kind"`
	DwellMinutes *int64         `json:"dwell_minutes,omitempty"` // exit events only
	Notes        string         `json:"notes,omitempty"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	RecordedAt   time.Time      `gorm:"not null;index" json:"recorded_at"`
}

// TableName specifies the table name for MovementLogEntry model
func (MovementLogEntry) TableName() string {
	return "movement_log"
}
