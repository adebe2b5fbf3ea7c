package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/frotamoto/patiogo/internal/apperr"
	"github.com/gorilla/mux"
)

// AllocateRequest represents an allocation request
type AllocateRequest struct {
	Plate  string `json:"plate"`
	BoxID  *int64 `json:"box_id,omitempty"`
	YardID *int64 `json:"yard_id,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// ReleaseRequest carries the optional notes of a release call
type ReleaseRequest struct {
	Notes string `json:"notes,omitempty"`
}

// OccupancyRequest is the structured DTO create payload
type OccupancyRequest struct {
	Plate string `json:"plate"`
	BoxID int64  `json:"box_id"`
	Notes string `json:"notes,omitempty"`
}

// allocate parks a vehicle, repairing any stale sessions first
func (r *Router) allocate(w http.ResponseWriter, req *http.Request) {
	var body AllocateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	snapshot, err := r.parking.Allocate(body.Plate, body.BoxID, body.YardID, body.Notes)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, snapshot)
}

// createOccupancy is the non-repairing DTO path; it conflicts instead of
// healing when the vehicle is already parked
func (r *Router) createOccupancy(w http.ResponseWriter, req *http.Request) {
	var body OccupancyRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if body.BoxID <= 0 {
		respondError(w, http.StatusBadRequest, "box_id is required")
		return
	}

	snapshot, err := r.parking.Create(body.Plate, body.BoxID, body.Notes)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, snapshot)
}

// listOccupancies lists active or historical sessions with pagination
func (r *Router) listOccupancies(w http.ResponseWriter, req *http.Request) {
	yardID := queryYardID(req)
	limit := queryInt(req, "limit", 100)
	offset := queryInt(req, "offset", 0)

	if req.URL.Query().Get("active") == "false" {
		snapshots, err := r.parking.ListHistory(yardID, limit, offset)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, snapshots)
		return
	}

	snapshots, err := r.parking.ListActive(yardID, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshots)
}

func decodeReleaseNotes(req *http.Request) string {
	var body ReleaseRequest
	if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&body)
	}
	return body.Notes
}

// releaseByBox frees one box
func (r *Router) releaseByBox(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid box id")
		return
	}

	snapshot, err := r.parking.ReleaseByBox(id, decodeReleaseNotes(req))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// releaseByPlate frees every box the vehicle occupies
func (r *Router) releaseByPlate(w http.ResponseWriter, req *http.Request) {
	plate := mux.Vars(req)["plate"]

	snapshot, err := r.parking.ReleaseByPlate(plate, decodeReleaseNotes(req))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// parkingStatus reports whether a vehicle is parked and where
func (r *Router) parkingStatus(w http.ResponseWriter, req *http.Request) {
	plate := mux.Vars(req)["plate"]

	parked, err := r.parking.IsVehicleParked(plate)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !parked {
		respondJSON(w, http.StatusOK, map[string]interface{}{"parked": false})
		return
	}

	snapshot, err := r.parking.FindActiveByPlate(plate)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// Session closed between the two reads
			respondJSON(w, http.StatusOK, map[string]interface{}{"parked": false})
			return
		}
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"parked":   true,
		"snapshot": snapshot,
	})
}
