package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frotamoto/patiogo/internal/models"
	"github.com/gorilla/mux"
)

func pathID(req *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(req)[key], 10, 64)
	return id, err == nil && id > 0
}

func queryInt(req *http.Request, key string, def int) int {
	v := req.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func queryYardID(req *http.Request) *int64 {
	v := req.URL.Query().Get("yard_id")
	if v == "" {
		return nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// listYards returns all yards
func (r *Router) listYards(w http.ResponseWriter, req *http.Request) {
	var yards []models.Yard
	if err := r.db.Order("name").Find(&yards).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch yards")
		return
	}
	respondJSON(w, http.StatusOK, yards)
}

// getYard returns a yard with its boxes and zones
func (r *Router) getYard(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid yard id")
		return
	}
	var yard models.Yard
	if err := r.db.Preload("Boxes").Preload("Zones").First(&yard, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Yard not found")
		return
	}
	respondJSON(w, http.StatusOK, yard)
}

// createYard creates a new yard
func (r *Router) createYard(w http.ResponseWriter, req *http.Request) {
	var yard models.Yard
	if err := json.NewDecoder(req.Body).Decode(&yard); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.fleet.CreateYard(&yard); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, yard)
}

// updateYard updates a yard
func (r *Router) updateYard(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid yard id")
		return
	}
	var patch models.Yard
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	yard, err := r.fleet.UpdateYard(id, &patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, yard)
}

// deleteYard removes a yard
func (r *Router) deleteYard(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid yard id")
		return
	}
	if err := r.fleet.DeleteYard(id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Yard deleted"})
}

// listZones returns the zones of a yard
func (r *Router) listZones(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid yard id")
		return
	}
	var zones []models.Zone
	if err := r.db.Where("yard_id = ?", id).Order("name").Find(&zones).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch zones")
		return
	}
	respondJSON(w, http.StatusOK, zones)
}

// createZone adds a zone to a yard
func (r *Router) createZone(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid yard id")
		return
	}
	var zone models.Zone
	if err := json.NewDecoder(req.Body).Decode(&zone); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	zone.YardID = id
	if err := r.fleet.CreateZone(&zone); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, zone)
}

// deleteZone removes a zone
func (r *Router) deleteZone(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid zone id")
		return
	}
	if err := r.fleet.DeleteZone(id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Zone deleted"})
}
