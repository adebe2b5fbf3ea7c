package models

import (
	"time"

	"gorm.io/gorm"
)

// Yard status codes kept as the single-letter wire values the mobile
// clients already speak.
const (
	YardActive   = "A"
	YardInactive = "I"
)

// Yard represents a physical facility (pátio) containing zones and boxes
type Yard struct {
	ID          int64          `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;index" json:"name"`
	Status      string         `gorm:"type:varchar(1);default:'A'" json:"status"`
	Address     string         `json:"address,omitempty"`
	Observation string         `json:"observation,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Boxes []Box  `gorm:"foreignKey:YardID;constraint:OnDelete:CASCADE" json:"boxes,omitempty"`
	Zones []Zone `gorm:"foreignKey:YardID;constraint:OnDelete:CASCADE" json:"zones,omitempty"`
}

// TableName specifies the table name for Yard model
func (Yard) TableName() string {
	return "yards"
}

// Zone represents a named subdivision of a yard's boxes.
// Organizational only; allocation never routes through it.
type Zone struct {
	ID          int64          `gorm:"primaryKey" json:"id"`
	YardID      int64          `gorm:"not null;index" json:"yard_id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Yard Yard `gorm:"foreignKey:YardID" json:"yard,omitempty"`
}

// TableName specifies the table name for Zone model
func (Zone) TableName() string {
	return "zones"
}
