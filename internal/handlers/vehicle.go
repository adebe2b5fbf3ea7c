package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/frotamoto/patiogo/internal/models"
	"github.com/frotamoto/patiogo/internal/utils"
)

// listVehicles returns vehicles, optionally filtered by plate prefix or yard
func (r *Router) listVehicles(w http.ResponseWriter, req *http.Request) {
	query := r.db.Order("plate").
		Limit(queryInt(req, "limit", 100)).
		Offset(queryInt(req, "offset", 0))
	if yardID := queryYardID(req); yardID != nil {
		query = query.Where("yard_id = ?", *yardID)
	}
	if plate := utils.NormalizePlate(req.URL.Query().Get("plate")); plate != "" {
		query = query.Where("plate LIKE ?", plate+"%")
	}

	var vehicles []models.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch vehicles")
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

// getVehicle returns a single vehicle
func (r *Router) getVehicle(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid vehicle id")
		return
	}
	var vehicle models.Vehicle
	if err := r.db.First(&vehicle, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

// createVehicle registers a new vehicle
func (r *Router) createVehicle(w http.ResponseWriter, req *http.Request) {
	var vehicle models.Vehicle
	if err := json.NewDecoder(req.Body).Decode(&vehicle); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.fleet.RegisterVehicle(&vehicle); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, vehicle)
}

// updateVehicle updates vehicle metadata
func (r *Router) updateVehicle(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid vehicle id")
		return
	}
	var patch models.Vehicle
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	vehicle, err := r.fleet.UpdateVehicle(id, &patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

// deleteVehicle removes a vehicle
func (r *Router) deleteVehicle(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid vehicle id")
		return
	}
	if err := r.fleet.DeleteVehicle(id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Vehicle deleted"})
}
