package models

import (
	"time"

	"gorm.io/gorm"
)

// OccupancySession is one vehicle's stay in one box. Rows with Active=true
// represent current occupancy and are the authoritative source of truth;
// the Box.Status field is a denormalized mirror that can drift under races
// and is reconciled by the parking service.
//
// The composite indexes on (vehicle_id, active) and (box_id, active) back
// the "active sessions for X" lookups every allocate/release performs.
type OccupancySession struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	VehicleID int64          `gorm:"not null;index:idx_sessions_vehicle_active" json:"vehicle_id"`
	BoxID     int64          `gorm:"not null;index:idx_sessions_box_active" json:"box_id"`
	YardID    int64          `gorm:"not null;index" json:"yard_id"`
	Active    bool           `gorm:"not null;default:true;index:idx_sessions_vehicle_active;index:idx_sessions_box_active" json:"active"`
	EnteredAt time.Time      `gorm:"not null" json:"entered_at"`
	ExitedAt  *time.Time     `json:"exited_at,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Vehicle Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Box     Box     `gorm:"foreignKey:BoxID" json:"box,omitempty"`
	Yard    Yard    `gorm:"foreignKey:YardID" json:"yard,omitempty"`
}

// TableName specifies the table name for OccupancySession model
func (OccupancySession) TableName() string {
	return "occupancy_sessions"
}

// DwellMinutes returns the elapsed whole minutes between entry and exit,
// or between entry and now for a still-active session.
func (s *OccupancySession) DwellMinutes(now time.Time) int64 {
	end := now
	if s.ExitedAt != nil {
		end = *s.ExitedAt
	}
	d := end.Sub(s.EnteredAt)
	if d < 0 {
		return 0
	}
	return int64(d / time.Minute)
}
