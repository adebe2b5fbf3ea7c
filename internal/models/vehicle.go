package models

import (
	"time"

	"gorm.io/gorm"
)

// Vehicle represents a fleet vehicle identified by its normalized plate
type Vehicle struct {
	ID           int64          `gorm:"primaryKey" json:"id"`
	Plate        string         `gorm:"uniqueIndex;not null" json:"plate"` // always stored normalized (uppercase)
	Model        string         `json:"model,omitempty"`
	Manufacturer string         `json:"manufacturer,omitempty"`
	Status       string         `gorm:"default:'active'" json:"status"`
	YardID       *int64         `gorm:"index" json:"yard_id,omitempty"` // home yard association
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}
