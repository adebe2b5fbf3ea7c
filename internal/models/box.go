package models

import (
	"time"

	"gorm.io/gorm"
)

// BoxStatus is the persisted single-letter status code of a box.
// The letters match the legacy wire format: L (livre), O (ocupado),
// M (manutenção).
type BoxStatus string

const (
	BoxFree        BoxStatus = "L"
	BoxOccupied    BoxStatus = "O"
	BoxMaintenance BoxStatus = "M"
)

// Valid reports whether s is one of the three known statuses.
func (s BoxStatus) Valid() bool {
	switch s {
	case BoxFree, BoxOccupied, BoxMaintenance:
		return true
	}
	return false
}

// Box represents an individual parking slot within a yard
type Box struct {
	ID          int64          `gorm:"primaryKey" json:"id"`
	YardID      int64          `gorm:"not null;index" json:"yard_id"`
	Name        string         `gorm:"not null" json:"name"`
	Status      BoxStatus      `gorm:"type:varchar(1);not null;default:'L';index" json:"status"`
	EntryAt     *time.Time     `json:"entry_at,omitempty"` // legacy mirror of the active session
	ExitAt      *time.Time     `json:"exit_at,omitempty"`
	Observation string         `json:"observation,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Yard Yard `gorm:"foreignKey:YardID" json:"yard,omitempty"`
}

// TableName specifies the table name for Box model
func (Box) TableName() string {
	return "boxes"
}
