package handlers

import (
	"fmt"
	"net/http"
)

// liveOccupancySSE streams the active occupancy set as Server-Sent Events.
// The hub's poller re-reads the ledger on a fixed interval and pushes one
// event per tick.
func (r *Router) liveOccupancySSE(w http.ResponseWriter, req *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := r.hub.Subscribe()
	defer r.hub.Unsubscribe(ch)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-req.Context().Done():
			return
		case payload, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: occupancy\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// liveOccupancyWS is the websocket peer of the SSE stream
func (r *Router) liveOccupancyWS(w http.ResponseWriter, req *http.Request) {
	r.hub.ServeWS(w, req)
}
