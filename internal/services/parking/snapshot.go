package parking

import (
	"time"

	"github.com/frotamoto/patiogo/internal/models"
)

// VehicleInfo is the vehicle slice of a snapshot
type VehicleInfo struct {
	ID           int64  `json:"id"`
	Plate        string `json:"plate"`
	Model        string `json:"model,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

// BoxInfo is the box slice of a snapshot
type BoxInfo struct {
	ID     int64            `json:"id"`
	Name   string           `json:"name"`
	Status models.BoxStatus `json:"status"`
}

// YardInfo is the yard slice of a snapshot
type YardInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Snapshot is the consistent view of one occupancy session returned by
// every allocate/release operation.
type Snapshot struct {
	SessionID    int64       `json:"session_id"`
	Vehicle      VehicleInfo `json:"vehicle"`
	Box          BoxInfo     `json:"box"`
	Yard         YardInfo    `json:"yard"`
	Active       bool        `json:"active"`
	EnteredAt    time.Time   `json:"entered_at"`
	ExitedAt     *time.Time  `json:"exited_at,omitempty"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Notes        string      `json:"notes,omitempty"`
	DwellMinutes int64       `json:"dwell_minutes"`
}

func buildSnapshot(s *models.OccupancySession, dwell int64) *Snapshot {
	return &Snapshot{
		SessionID: s.ID,
		Vehicle: VehicleInfo{
			ID:           s.Vehicle.ID,
			Plate:        s.Vehicle.Plate,
			Model:        s.Vehicle.Model,
			Manufacturer: s.Vehicle.Manufacturer,
		},
		Box: BoxInfo{
			ID:     s.Box.ID,
			Name:   s.Box.Name,
			Status: s.Box.Status,
		},
		Yard: YardInfo{
			ID:     s.Yard.ID,
			Name:   s.Yard.Name,
			Status: s.Yard.Status,
		},
		Active:       s.Active,
		EnteredAt:    s.EnteredAt,
		ExitedAt:     s.ExitedAt,
		UpdatedAt:    s.UpdatedAt,
		Notes:        s.Notes,
		DwellMinutes: dwell,
	}
}
