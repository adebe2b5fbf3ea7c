package live

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub fans the periodically re-read occupancy state out to every connected
// live client (SSE and websocket). It polls the ledger through the fetch
// callback on a fixed interval; it never writes.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan []byte]struct{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan []byte]struct{}),
	}
}

// Subscribe registers a listener channel. The caller must call Unsubscribe
// when done.
func (h *Hub) Subscribe() chan []byte {
	ch := make(chan []byte, 8)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel
func (h *Hub) Unsubscribe(ch chan []byte) {
	h.mu.Lock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Broadcast sends a payload to every subscriber, dropping it for slow ones
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- payload:
		default:
			// Slow consumer keeps only the updates it can drain
		}
	}
}

// Run polls fetch on the given interval and broadcasts the marshaled
// result. Blocks; run in a goroutine. Stops when stop is closed.
func (h *Hub) Run(interval time.Duration, fetch func() (interface{}, error), stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			state, err := fetch()
			if err != nil {
				log.Printf("⚠️ Live status poll failed: %v", err)
				continue
			}
			payload, err := json.Marshal(state)
			if err != nil {
				log.Printf("⚠️ Live status marshal failed: %v", err)
				continue
			}
			h.Broadcast(payload)
		}
	}
}
