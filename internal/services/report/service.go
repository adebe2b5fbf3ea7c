package report

import (
	"time"

	"github.com/frotamoto/patiogo/internal/apperr"
	"github.com/frotamoto/patiogo/internal/models"
	"gorm.io/gorm"
)

// Service produces read-only aggregations over the ledger and movement log.
// It never writes; consistency invariants live in the parking service.
type Service struct {
	db *gorm.DB
}

// NewService creates a new report Service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// YardSummary is the per-yard occupancy breakdown
type YardSummary struct {
	YardID        int64     `json:"yard_id"`
	YardName      string    `json:"yard_name"`
	TotalBoxes    int64     `json:"total_boxes"`
	Free          int64     `json:"free"`
	Occupied      int64     `json:"occupied"`
	Maintenance   int64     `json:"maintenance"`
	OccupancyRate float64   `json:"occupancy_rate"` // occupied / (total - maintenance)
	GeneratedAt   time.Time `json:"generated_at"`
}

// Summary builds the occupancy breakdown for one yard
func (s *Service) Summary(yardID int64) (*YardSummary, error) {
	var yard models.Yard
	if err := s.db.First(&yard, yardID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("yard %d not found", yardID)
		}
		return nil, err
	}

	summary := YardSummary{
		YardID:      yard.ID,
		YardName:    yard.Name,
		GeneratedAt: time.Now().UTC(),
	}

	type row struct {
		Status models.BoxStatus
		N      int64
	}
	var rows []row
	if err := s.db.Model(&models.Box{}).
		Select("status, COUNT(*) AS n").
		Where("yard_id = ?", yardID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		summary.TotalBoxes += r.N
		switch r.Status {
		case models.BoxFree:
			summary.Free = r.N
		case models.BoxOccupied:
			summary.Occupied = r.N
		case models.BoxMaintenance:
			summary.Maintenance = r.N
		}
	}

	if usable := summary.TotalBoxes - summary.Maintenance; usable > 0 {
		summary.OccupancyRate = float64(summary.Occupied) / float64(usable)
	}
	return &summary, nil
}

// DwellStats aggregates dwell times over closed sessions
type DwellStats struct {
	Sessions   int64   `json:"sessions"`
	AvgMinutes float64 `json:"avg_minutes"`
	MaxMinutes int64   `json:"max_minutes"`
}

// Dwell computes dwell statistics, optionally scoped to a yard
func (s *Service) Dwell(yardID *int64) (*DwellStats, error) {
	var sessions []models.OccupancySession
	query := s.db.Where("active = ? AND exited_at IS NOT NULL", false)
	if yardID != nil {
		query = query.Where("yard_id = ?", *yardID)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}

	stats := DwellStats{Sessions: int64(len(sessions))}
	if len(sessions) == 0 {
		return &stats, nil
	}

	var total int64
	for i := range sessions {
		d := sessions[i].DwellMinutes(*sessions[i].ExitedAt)
		total += d
		if d > stats.MaxMinutes {
			stats.MaxMinutes = d
		}
	}
	stats.AvgMinutes = float64(total) / float64(len(sessions))
	return &stats, nil
}

// Movements lists movement-log entries, newest first, with limit/offset
// pagination
func (s *Service) Movements(yardID *int64, limit, offset int) ([]models.MovementLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := s.db.Order("recorded_at DESC").Limit(limit).Offset(offset)
	if yardID != nil {
		query = query.Where("yard_id = ?", *yardID)
	}
	var entries []models.MovementLogEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
