package parking

import (
	"log"
	"time"

	"github.com/frotamoto/patiogo/internal/apperr"
	"github.com/frotamoto/patiogo/internal/models"
	"github.com/frotamoto/patiogo/internal/services/movement"
	"github.com/frotamoto/patiogo/internal/utils"
	"gorm.io/gorm"
)

// Service orchestrates the occupancy lifecycle: allocating a vehicle to a
// box, releasing it, and keeping the box status mirror consistent with the
// session ledger. The ledger (occupancy_sessions.active) is authoritative;
// box status is re-validated against it before every write because the two
// can be observed in a transiently inconsistent state under concurrency.
type Service struct {
	db       *gorm.DB
	recorder *movement.Recorder
}

// NewService creates a new parking Service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:       db,
		recorder: movement.NewRecorder(db),
	}
}

// resolveVehicle normalizes a plate and loads the matching vehicle.
// Vehicles are never auto-registered here; an unknown plate is a hard
// NotFound so a typo cannot silently grow the fleet.
func (s *Service) resolveVehicle(plate string) (*models.Vehicle, error) {
	normalized := utils.NormalizePlate(plate)
	if normalized == "" {
		return nil, apperr.InvalidInput("invalid plate %q", plate)
	}

	var vehicle models.Vehicle
	if err := s.db.Where("plate = ?", normalized).First(&vehicle).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("vehicle with plate %s is not registered", normalized)
		}
		return nil, err
	}
	return &vehicle, nil
}

// repairActiveSessions force-closes every active session of a vehicle and
// frees the boxes they reference. Finding duplicates is normal operation
// for this pass, not an error; it exists so allocation never compounds an
// inconsistent state left behind by an earlier race.
//
// Writes commit immediately (outside any enclosing transaction) so a
// concurrently racing allocate sees the repair right away. Only ids travel
// between the read and the write to avoid holding stale rows.
func (s *Service) repairActiveSessions(vehicleID int64) (int, error) {
	var stale []models.OccupancySession
	if err := s.db.Select("id", "box_id").
		Where("vehicle_id = ? AND active = ?", vehicleID, true).
		Find(&stale).Error; err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	sessionIDs := make([]int64, 0, len(stale))
	boxIDs := make([]int64, 0, len(stale))
	for _, sess := range stale {
		sessionIDs = append(sessionIDs, sess.ID)
		boxIDs = append(boxIDs, sess.BoxID)
	}

	if err := s.db.Model(&models.OccupancySession{}).
		Where("id IN ?", sessionIDs).
		Updates(map[string]interface{}{"active": false, "exited_at": now}).Error; err != nil {
		return 0, err
	}
	if err := s.db.Model(&models.Box{}).
		Where("id IN ?", boxIDs).
		Updates(map[string]interface{}{"status": models.BoxFree, "exit_at": now}).Error; err != nil {
		return 0, err
	}

	log.Printf("🔧 Repaired %d stale active session(s) for vehicle %d (boxes %v)",
		len(stale), vehicleID, boxIDs)
	return len(stale), nil
}

// countActiveByBox counts active sessions referencing a box
func (s *Service) countActiveByBox(boxID int64) (int64, error) {
	var n int64
	err := s.db.Model(&models.OccupancySession{}).
		Where("box_id = ? AND active = ?", boxID, true).
		Count(&n).Error
	return n, err
}

// selectBox picks the target box for an allocation. An explicit box id is
// validated against both the status field and the ledger; otherwise the
// first free box (scoped to the yard when given) without an active session
// wins.
func (s *Service) selectBox(preferredBoxID, preferredYardID *int64) (*models.Box, error) {
	if preferredBoxID != nil {
		var box models.Box
		if err := s.db.First(&box, *preferredBoxID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperr.NotFound("box %d not found", *preferredBoxID)
			}
			return nil, err
		}
		if box.Status != models.BoxFree {
			return nil, apperr.InvalidInput("box %d is not free (status %s)", box.ID, box.Status)
		}
		// Status says free, but the ledger wins when the two drift
		n, err := s.countActiveByBox(box.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, apperr.InvalidInput("box %d already has %d active session(s)", box.ID, n)
		}
		return &box, nil
	}

	query := s.db.Where("status = ?", models.BoxFree).Order("id")
	if preferredYardID != nil {
		var yard models.Yard
		if err := s.db.First(&yard, *preferredYardID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperr.NotFound("yard %d not found", *preferredYardID)
			}
			return nil, err
		}
		query = query.Where("yard_id = ?", yard.ID)
	} else {
		// Deprecated compatibility path: kept working, but callers should
		// always scope the search to a yard
		log.Printf("⚠️ Free-box search without a yard scope; searching globally")
	}

	var candidates []models.Box
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}
	for i := range candidates {
		n, err := s.countActiveByBox(candidates[i].ID)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return &candidates[i], nil
		}
	}
	if preferredYardID != nil {
		return nil, apperr.NotFound("no free box available in yard %d", *preferredYardID)
	}
	return nil, apperr.NotFound("no free box available")
}

// openSession atomically marks a box occupied and opens its ledger row.
// The guarded box update doubles as a last-instant free-status check so two
// racing allocations cannot both claim the same box.
func (s *Service) openSession(vehicleID, boxID, yardID int64, notes string) (int64, error) {
	now := time.Now().UTC()
	var sessionID int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Box{}).
			Where("id = ? AND status = ?", boxID, models.BoxFree).
			Updates(map[string]interface{}{
				"status":   models.BoxOccupied,
				"entry_at": now,
				"exit_at":  nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidInput("box %d is no longer free", boxID)
		}

		session := models.OccupancySession{
			VehicleID: vehicleID,
			BoxID:     boxID,
			YardID:    yardID,
			Active:    true,
			EnteredAt: now,
			Notes:     notes,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		sessionID = session.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sessionID, nil
}

// Allocate assigns a vehicle to a box and returns the resulting snapshot.
// Any pre-existing active sessions for the vehicle are repaired (closed and
// their boxes freed) before the new session opens, so the call is
// self-healing: it leaves exactly one active session no matter how
// inconsistent the starting state was.
func (s *Service) Allocate(plate string, preferredBoxID, preferredYardID *int64, notes string) (*Snapshot, error) {
	vehicle, err := s.resolveVehicle(plate)
	if err != nil {
		return nil, err
	}

	if _, err := s.repairActiveSessions(vehicle.ID); err != nil {
		return nil, err
	}

	box, err := s.selectBox(preferredBoxID, preferredYardID)
	if err != nil {
		return nil, err
	}

	sessionID, err := s.openSession(vehicle.ID, box.ID, box.YardID, notes)
	if err != nil {
		return nil, err
	}

	// Best-effort audit write, never rolls back the allocation
	s.recorder.Entry(vehicle.ID, box.ID, box.YardID, notes)

	return s.loadSnapshot(sessionID, 0)
}

// Create is the non-repairing allocation variant behind the structured DTO
// endpoint. Unlike Allocate it refuses to proceed when the vehicle already
// has an active session.
func (s *Service) Create(plate string, boxID int64, notes string) (*Snapshot, error) {
	vehicle, err := s.resolveVehicle(plate)
	if err != nil {
		return nil, err
	}

	var active int64
	if err := s.db.Model(&models.OccupancySession{}).
		Where("vehicle_id = ? AND active = ?", vehicle.ID, true).
		Count(&active).Error; err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, apperr.Duplicated("vehicle %s already has %d active session(s)", vehicle.Plate, active)
	}

	box, err := s.selectBox(&boxID, nil)
	if err != nil {
		return nil, err
	}

	sessionID, err := s.openSession(vehicle.ID, box.ID, box.YardID, notes)
	if err != nil {
		return nil, err
	}

	s.recorder.Entry(vehicle.ID, box.ID, box.YardID, notes)

	return s.loadSnapshot(sessionID, 0)
}

// closeSession closes one ledger row and frees its box in one transaction
func (s *Service) closeSession(sessionID, boxID int64, now time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OccupancySession{}).
			Where("id = ?", sessionID).
			Updates(map[string]interface{}{"active": false, "exited_at": now}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Box{}).
			Where("id = ?", boxID).
			Updates(map[string]interface{}{"status": models.BoxFree, "exit_at": now}).Error
	})
}

// ReleaseByBox closes the single active session of a box, frees the box and
// returns the closed snapshot with its dwell time. Other boxes or sessions
// of the same vehicle are left untouched.
func (s *Service) ReleaseByBox(boxID int64, notes string) (*Snapshot, error) {
	var session models.OccupancySession
	if err := s.db.Where("box_id = ? AND active = ?", boxID, true).
		First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("no active session for box %d", boxID)
		}
		return nil, err
	}

	now := time.Now().UTC()
	dwell := session.DwellMinutes(now)

	if err := s.closeSession(session.ID, session.BoxID, now); err != nil {
		return nil, err
	}

	s.recorder.Exit(session.VehicleID, session.BoxID, session.YardID, dwell, notes)

	return s.loadSnapshot(session.ID, dwell)
}

// ReleaseByPlate closes every active session of a vehicle (there may be
// more than one when the ledger has drifted), frees all their boxes and
// returns the snapshot of the most recently entered one.
// A second authoritative read afterwards force-closes anything a racing
// transaction slipped in, so a released vehicle never leaks an occupied
// box into the free pool.
func (s *Service) ReleaseByPlate(plate string, notes string) (*Snapshot, error) {
	vehicle, err := s.resolveVehicle(plate)
	if err != nil {
		return nil, err
	}

	var sessions []models.OccupancySession
	if err := s.db.Where("vehicle_id = ? AND active = ?", vehicle.ID, true).
		Order("entered_at").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, apperr.NotFound("vehicle %s has no active session", vehicle.Plate)
	}

	now := time.Now().UTC()
	last := sessions[len(sessions)-1]
	lastDwell := last.DwellMinutes(now)

	for _, session := range sessions {
		dwell := session.DwellMinutes(now)
		if err := s.closeSession(session.ID, session.BoxID, now); err != nil {
			return nil, err
		}
		s.recorder.Exit(session.VehicleID, session.BoxID, session.YardID, dwell, notes)
	}

	// Re-verify: a session committed by a concurrent allocate may not have
	// been in the list above
	if _, err := s.repairActiveSessions(vehicle.ID); err != nil {
		return nil, err
	}

	return s.loadSnapshot(last.ID, lastDwell)
}

// IsVehicleParked reports whether the vehicle currently has an active
// session. Unregistered vehicles are simply not parked.
func (s *Service) IsVehicleParked(plate string) (bool, error) {
	normalized := utils.NormalizePlate(plate)
	if normalized == "" {
		return false, apperr.InvalidInput("invalid plate %q", plate)
	}

	var vehicle models.Vehicle
	if err := s.db.Where("plate = ?", normalized).First(&vehicle).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}

	var n int64
	if err := s.db.Model(&models.OccupancySession{}).
		Where("vehicle_id = ? AND active = ?", vehicle.ID, true).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindActiveByPlate returns the snapshot of the vehicle's current active
// session, or NotFound when it is not parked.
func (s *Service) FindActiveByPlate(plate string) (*Snapshot, error) {
	vehicle, err := s.resolveVehicle(plate)
	if err != nil {
		return nil, err
	}

	var session models.OccupancySession
	if err := s.db.Where("vehicle_id = ? AND active = ?", vehicle.ID, true).
		Order("entered_at DESC").
		First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("vehicle %s has no active session", vehicle.Plate)
		}
		return nil, err
	}

	return s.loadSnapshot(session.ID, 0)
}

// ListActive returns snapshots of current active sessions, oldest entry
// first, optionally scoped to a yard. Pagination is limit/offset.
func (s *Service) ListActive(yardID *int64, limit, offset int) ([]*Snapshot, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := s.db.Preload("Vehicle").Preload("Box").Preload("Yard").
		Where("active = ?", true).
		Order("entered_at").
		Limit(limit).Offset(offset)
	if yardID != nil {
		query = query.Where("yard_id = ?", *yardID)
	}

	var sessions []models.OccupancySession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}

	snapshots := make([]*Snapshot, 0, len(sessions))
	for i := range sessions {
		snapshots = append(snapshots, buildSnapshot(&sessions[i], 0))
	}
	return snapshots, nil
}

// ListHistory returns closed sessions, newest exit first, with each
// session's final dwell time.
func (s *Service) ListHistory(yardID *int64, limit, offset int) ([]*Snapshot, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := s.db.Preload("Vehicle").Preload("Box").Preload("Yard").
		Where("active = ? AND exited_at IS NOT NULL", false).
		Order("exited_at DESC").
		Limit(limit).Offset(offset)
	if yardID != nil {
		query = query.Where("yard_id = ?", *yardID)
	}

	var sessions []models.OccupancySession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}

	snapshots := make([]*Snapshot, 0, len(sessions))
	for i := range sessions {
		snapshots = append(snapshots, buildSnapshot(&sessions[i], sessions[i].DwellMinutes(*sessions[i].ExitedAt)))
	}
	return snapshots, nil
}

// loadSnapshot re-fetches a session by id with its references resolved.
// Fetching fresh instead of reusing rows read before the write pass keeps
// the snapshot consistent with what actually committed.
func (s *Service) loadSnapshot(sessionID int64, dwell int64) (*Snapshot, error) {
	var session models.OccupancySession
	if err := s.db.Preload("Vehicle").Preload("Box").Preload("Yard").
		First(&session, sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("session %d not found", sessionID)
		}
		return nil, err
	}
	return buildSnapshot(&session, dwell), nil
}
