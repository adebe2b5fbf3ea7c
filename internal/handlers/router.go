package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/frotamoto/patiogo/internal/apperr"
	"github.com/frotamoto/patiogo/internal/buildinfo"
	"github.com/frotamoto/patiogo/internal/config"
	"github.com/frotamoto/patiogo/internal/database"
	"github.com/frotamoto/patiogo/internal/live"
	"github.com/frotamoto/patiogo/internal/middleware"
	"github.com/frotamoto/patiogo/internal/services/fleet"
	"github.com/frotamoto/patiogo/internal/services/parking"
	"github.com/frotamoto/patiogo/internal/services/report"
	"github.com/gorilla/mux"
)

// Router wraps the mux router, the database and the domain services
type Router struct {
	*mux.Router
	db      *database.DB
	cfg     *config.Config
	parking *parking.Service
	fleet   *fleet.Service
	reports *report.Service
	hub     *live.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, hub *live.Hub) *Router {
	r := &Router{
		Router:  mux.NewRouter(),
		db:      db,
		cfg:     cfg,
		parking: parking.NewService(db.DB),
		fleet:   fleet.NewService(db.DB),
		reports: report.NewService(db.DB),
		hub:     hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Yards and zones
	api.HandleFunc("/yards", r.listYards).Methods("GET")
	api.HandleFunc("/yards", r.createYard).Methods("POST")
	api.HandleFunc("/yards/{id}", r.getYard).Methods("GET")
	api.HandleFunc("/yards/{id}", r.updateYard).Methods("PUT")
	api.HandleFunc("/yards/{id}", r.deleteYard).Methods("DELETE")
	api.HandleFunc("/yards/{id}/zones", r.listZones).Methods("GET")
	api.HandleFunc("/yards/{id}/zones", r.createZone).Methods("POST")
	api.HandleFunc("/zones/{id}", r.deleteZone).Methods("DELETE")

	// Boxes
	api.HandleFunc("/boxes", r.listBoxes).Methods("GET")
	api.HandleFunc("/boxes", r.createBox).Methods("POST")
	api.HandleFunc("/boxes/{id}", r.getBox).Methods("GET")
	api.HandleFunc("/boxes/{id}", r.updateBox).Methods("PUT")
	api.HandleFunc("/boxes/{id}", r.deleteBox).Methods("DELETE")
	api.HandleFunc("/boxes/{id}/qr", r.boxQR).Methods("GET")

	// Vehicles
	api.HandleFunc("/vehicles", r.listVehicles).Methods("GET")
	api.HandleFunc("/vehicles", r.createVehicle).Methods("POST")
	api.HandleFunc("/vehicles/{id}", r.getVehicle).Methods("GET")
	api.HandleFunc("/vehicles/{id}", r.updateVehicle).Methods("PUT")
	api.HandleFunc("/vehicles/{id}", r.deleteVehicle).Methods("DELETE")

	// Parking lifecycle
	api.HandleFunc("/parking/allocate", r.allocate).Methods("POST")
	api.HandleFunc("/parking/release/box/{id}", r.releaseByBox).Methods("POST")
	api.HandleFunc("/parking/release/plate/{plate}", r.releaseByPlate).Methods("POST")
	api.HandleFunc("/parking/status/{plate}", r.parkingStatus).Methods("GET")
	api.HandleFunc("/occupancies", r.createOccupancy).Methods("POST")
	api.HandleFunc("/occupancies", r.listOccupancies).Methods("GET")

	// Live status push
	api.HandleFunc("/live/occupancy", r.liveOccupancySSE).Methods("GET")
	api.HandleFunc("/live/ws", r.liveOccupancyWS).Methods("GET")

	// Reports
	api.HandleFunc("/reports/yards/{id}/summary", r.yardSummary).Methods("GET")
	api.HandleFunc("/reports/yards/{id}/summary.pdf", r.yardSummaryPDF).Methods("GET")
	api.HandleFunc("/reports/dwell", r.dwellStats).Methods("GET")
	api.HandleFunc("/reports/movements", r.listMovements).Methods("GET")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns the current server status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":     "running",
		"commit":     buildinfo.CommitHash,
		"built_at":   buildinfo.BuildTime,
		"started_at": buildinfo.StartTime,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps a service error to its HTTP status
func respondDomainError(w http.ResponseWriter, err error) {
	respondError(w, apperr.HTTPStatus(err), err.Error())
}
