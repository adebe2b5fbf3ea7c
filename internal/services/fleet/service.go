package fleet

import (
	"strings"

	"github.com/frotamoto/patiogo/internal/apperr"
	"github.com/frotamoto/patiogo/internal/models"
	"github.com/frotamoto/patiogo/internal/utils"
	"gorm.io/gorm"
)

// Service owns the structural side of the registry: yards, zones, boxes and
// vehicles, with the deletion and uniqueness rules the parking service
// depends on.
type Service struct {
	db *gorm.DB
}

// NewService creates a new fleet Service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ---- Yards ----

// CreateYard creates a yard with a case-insensitively unique name
func (s *Service) CreateYard(yard *models.Yard) error {
	yard.Name = strings.TrimSpace(yard.Name)
	if yard.Name == "" {
		return apperr.InvalidInput("yard name is required")
	}
	if yard.Status == "" {
		yard.Status = models.YardActive
	}
	if yard.Status != models.YardActive && yard.Status != models.YardInactive {
		return apperr.InvalidInput("yard status %q is not one of A, I", yard.Status)
	}

	var n int64
	if err := s.db.Model(&models.Yard{}).
		Where("LOWER(name) = LOWER(?)", yard.Name).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Duplicated("yard named %q already exists", yard.Name)
	}
	return s.db.Create(yard).Error
}

// UpdateYard updates name/status/address of an existing yard
func (s *Service) UpdateYard(id int64, patch *models.Yard) (*models.Yard, error) {
	var yard models.Yard
	if err := s.db.First(&yard, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("yard %d not found", id)
		}
		return nil, err
	}

	if name := strings.TrimSpace(patch.Name); name != "" && !strings.EqualFold(name, yard.Name) {
		var n int64
		if err := s.db.Model(&models.Yard{}).
			Where("LOWER(name) = LOWER(?) AND id <> ?", name, id).
			Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, apperr.Duplicated("yard named %q already exists", name)
		}
		yard.Name = name
	}
	if patch.Status != "" {
		if patch.Status != models.YardActive && patch.Status != models.YardInactive {
			return nil, apperr.InvalidInput("yard status %q is not one of A, I", patch.Status)
		}
		yard.Status = patch.Status
	}
	if patch.Address != "" {
		yard.Address = patch.Address
	}
	if patch.Observation != "" {
		yard.Observation = patch.Observation
	}

	if err := s.db.Save(&yard).Error; err != nil {
		return nil, err
	}
	return &yard, nil
}

// DeleteYard removes a yard. Anything still living under it blocks the
// delete: active sessions, associated vehicles, boxes, zones. Historical
// (closed) sessions are removed with the yard.
func (s *Service) DeleteYard(id int64) error {
	var yard models.Yard
	if err := s.db.First(&yard, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("yard %d not found", id)
		}
		return err
	}

	var activeSessions int64
	if err := s.db.Model(&models.OccupancySession{}).
		Where("yard_id = ? AND active = ?", id, true).
		Count(&activeSessions).Error; err != nil {
		return err
	}
	if activeSessions > 0 {
		return apperr.ResourceInUse("yard %d has %d active occupancy session(s)", id, activeSessions)
	}

	var vehicles int64
	if err := s.db.Model(&models.Vehicle{}).Where("yard_id = ?", id).Count(&vehicles).Error; err != nil {
		return err
	}
	if vehicles > 0 {
		return apperr.ResourceInUse("yard %d has %d associated vehicle(s)", id, vehicles)
	}

	var boxes int64
	if err := s.db.Model(&models.Box{}).Where("yard_id = ?", id).Count(&boxes).Error; err != nil {
		return err
	}
	if boxes > 0 {
		return apperr.ResourceInUse("yard %d has %d box(es)", id, boxes)
	}

	var zones int64
	if err := s.db.Model(&models.Zone{}).Where("yard_id = ?", id).Count(&zones).Error; err != nil {
		return err
	}
	if zones > 0 {
		return apperr.ResourceInUse("yard %d has %d zone(s)", id, zones)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Cascade the historical ledger rows of the yard
		if err := tx.Where("yard_id = ?", id).Delete(&models.OccupancySession{}).Error; err != nil {
			return err
		}
		return tx.Delete(&yard).Error
	})
}

// ---- Zones ----

// CreateZone adds a zone under a yard
func (s *Service) CreateZone(zone *models.Zone) error {
	zone.Name = strings.TrimSpace(zone.Name)
	if zone.Name == "" {
		return apperr.InvalidInput("zone name is required")
	}
	var yard models.Yard
	if err := s.db.First(&yard, zone.YardID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("yard %d not found", zone.YardID)
		}
		return err
	}
	var n int64
	if err := s.db.Model(&models.Zone{}).
		Where("yard_id = ? AND LOWER(name) = LOWER(?)", zone.YardID, zone.Name).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Duplicated("zone named %q already exists in yard %d", zone.Name, zone.YardID)
	}
	return s.db.Create(zone).Error
}

// DeleteZone removes a zone
func (s *Service) DeleteZone(id int64) error {
	res := s.db.Delete(&models.Zone{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("zone %d not found", id)
	}
	return nil
}

// ---- Boxes ----

func (s *Service) validateBox(box *models.Box, excludeID int64) error {
	box.Name = strings.TrimSpace(box.Name)
	if box.Name == "" {
		return apperr.InvalidInput("box name is required")
	}
	if box.Status == "" {
		box.Status = models.BoxFree
	}
	if !box.Status.Valid() {
		return apperr.InvalidInput("box status %q is not one of L, O, M", box.Status)
	}
	if box.EntryAt != nil && box.ExitAt != nil && box.ExitAt.Before(*box.EntryAt) {
		return apperr.InvalidInput("box exit date precedes entry date")
	}

	var yard models.Yard
	if err := s.db.First(&yard, box.YardID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("yard %d not found", box.YardID)
		}
		return err
	}

	// Name is unique per yard, case-insensitive
	query := s.db.Model(&models.Box{}).
		Where("yard_id = ? AND LOWER(name) = LOWER(?)", box.YardID, box.Name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Duplicated("box named %q already exists in yard %d", box.Name, box.YardID)
	}
	return nil
}

// CreateBox creates a box inside a yard
func (s *Service) CreateBox(box *models.Box) error {
	if err := s.validateBox(box, 0); err != nil {
		return err
	}
	return s.db.Create(box).Error
}

// UpdateBox updates a box's name, status and observation
func (s *Service) UpdateBox(id int64, patch *models.Box) (*models.Box, error) {
	var box models.Box
	if err := s.db.First(&box, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("box %d not found", id)
		}
		return nil, err
	}

	if patch.Name != "" {
		box.Name = patch.Name
	}
	if patch.Status != "" {
		box.Status = patch.Status
	}
	if patch.Observation != "" {
		box.Observation = patch.Observation
	}
	if patch.EntryAt != nil {
		box.EntryAt = patch.EntryAt
	}
	if patch.ExitAt != nil {
		box.ExitAt = patch.ExitAt
	}

	if err := s.validateBox(&box, id); err != nil {
		return nil, err
	}
	if err := s.db.Save(&box).Error; err != nil {
		return nil, err
	}
	return &box, nil
}

// DeleteBox removes a box. A yard always keeps at least one box, an
// occupied box cannot go away, and neither can one the ledger or a vehicle
// association still points at.
func (s *Service) DeleteBox(id int64) error {
	var box models.Box
	if err := s.db.First(&box, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("box %d not found", id)
		}
		return err
	}

	var siblings int64
	if err := s.db.Model(&models.Box{}).Where("yard_id = ?", box.YardID).Count(&siblings).Error; err != nil {
		return err
	}
	if siblings <= 1 {
		return apperr.OperationNotAllowed("box %d is the last box of yard %d", id, box.YardID)
	}

	if box.Status == models.BoxOccupied {
		return apperr.ResourceInUse("box %d is occupied", id)
	}

	var active int64
	if err := s.db.Model(&models.OccupancySession{}).
		Where("box_id = ? AND active = ?", id, true).
		Count(&active).Error; err != nil {
		return err
	}
	if active > 0 {
		return apperr.ResourceInUse("box %d has %d active session(s)", id, active)
	}

	return s.db.Delete(&box).Error
}

// ---- Vehicles ----

// RegisterVehicle creates a vehicle keyed by its normalized plate
func (s *Service) RegisterVehicle(vehicle *models.Vehicle) error {
	normalized := utils.NormalizePlate(vehicle.Plate)
	if normalized == "" || !utils.ValidPlate(normalized) {
		return apperr.InvalidInput("invalid plate %q", vehicle.Plate)
	}
	vehicle.Plate = normalized

	var n int64
	if err := s.db.Model(&models.Vehicle{}).Where("plate = ?", normalized).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Duplicated("vehicle with plate %s already exists", normalized)
	}
	if vehicle.YardID != nil {
		var yard models.Yard
		if err := s.db.First(&yard, *vehicle.YardID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound("yard %d not found", *vehicle.YardID)
			}
			return err
		}
	}
	return s.db.Create(vehicle).Error
}

// UpdateVehicle updates vehicle metadata; the plate itself never changes
func (s *Service) UpdateVehicle(id int64, patch *models.Vehicle) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("vehicle %d not found", id)
		}
		return nil, err
	}
	if patch.Model != "" {
		vehicle.Model = patch.Model
	}
	if patch.Manufacturer != "" {
		vehicle.Manufacturer = patch.Manufacturer
	}
	if patch.Status != "" {
		vehicle.Status = patch.Status
	}
	if patch.YardID != nil {
		vehicle.YardID = patch.YardID
	}
	if err := s.db.Save(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// DeleteVehicle removes a vehicle unless it is currently parked
func (s *Service) DeleteVehicle(id int64) error {
	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("vehicle %d not found", id)
		}
		return err
	}

	var active int64
	if err := s.db.Model(&models.OccupancySession{}).
		Where("vehicle_id = ? AND active = ?", id, true).
		Count(&active).Error; err != nil {
		return err
	}
	if active > 0 {
		return apperr.ResourceInUse("vehicle %d is currently parked", id)
	}
	return s.db.Delete(&vehicle).Error
}
