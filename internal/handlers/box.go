package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/frotamoto/patiogo/internal/models"
	"github.com/skip2/go-qrcode"
)

// listBoxes returns boxes, optionally filtered by yard and status
func (r *Router) listBoxes(w http.ResponseWriter, req *http.Request) {
	query := r.db.Order("yard_id, name")
	if yardID := queryYardID(req); yardID != nil {
		query = query.Where("yard_id = ?", *yardID)
	}
	if status := req.URL.Query().Get("status"); status != "" {
		if !models.BoxStatus(status).Valid() {
			respondError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		query = query.Where("status = ?", status)
	}

	var boxes []models.Box
	if err := query.Find(&boxes).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch boxes")
		return
	}
	respondJSON(w, http.StatusOK, boxes)
}

// getBox returns a single box
func (r *Router) getBox(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid box id")
		return
	}
	var box models.Box
	if err := r.db.Preload("Yard").First(&box, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Box not found")
		return
	}
	respondJSON(w, http.StatusOK, box)
}

// createBox creates a new box
func (r *Router) createBox(w http.ResponseWriter, req *http.Request) {
	var box models.Box
	if err := json.NewDecoder(req.Body).Decode(&box); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.fleet.CreateBox(&box); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, box)
}

// updateBox updates a box
func (r *Router) updateBox(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid box id")
		return
	}
	var patch models.Box
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	box, err := r.fleet.UpdateBox(id, &patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, box)
}

// deleteBox removes a box
func (r *Router) deleteBox(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid box id")
		return
	}
	if err := r.fleet.DeleteBox(id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Box deleted"})
}

// boxQR renders a printable QR label for a box. Gate scanners read it to
// target a specific box on allocate/release.
func (r *Router) boxQR(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid box id")
		return
	}
	var box models.Box
	if err := r.db.First(&box, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Box not found")
		return
	}

	// Payload format: PATIO$1$<yard>$<box>
	content := fmt.Sprintf("PATIO$1$%d$%d", box.YardID, box.ID)
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate QR")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
