package handlers

import (
	"net/http"
)

// yardSummary returns the occupancy breakdown of one yard
func (r *Router) yardSummary(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid yard id")
		return
	}
	summary, err := r.reports.Summary(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// yardSummaryPDF returns the printable PDF version of the yard summary
func (r *Router) yardSummaryPDF(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid yard id")
		return
	}
	pdf, err := r.reports.SummaryPDF(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Write(pdf)
}

// dwellStats returns dwell-time aggregates over closed sessions
func (r *Router) dwellStats(w http.ResponseWriter, req *http.Request) {
	stats, err := r.reports.Dwell(queryYardID(req))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// listMovements lists movement-log entries, newest first
func (r *Router) listMovements(w http.ResponseWriter, req *http.Request) {
	entries, err := r.reports.Movements(queryYardID(req),
		queryInt(req, "limit", 100), queryInt(req, "offset", 0))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
