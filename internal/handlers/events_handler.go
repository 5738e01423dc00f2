package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/trymedating/trymed/internal/events"
	"github.com/trymedating/trymed/internal/middleware"
	"github.com/trymedating/trymed/pkg/logger"
)

// EventsHandler streams the caller's realtime events over SSE. This replaces
// the per-table realtime subscriptions of the managed backend: clients treat
// every event as an invalidation hint and re-fetch the affected list.
type EventsHandler struct {
	bus *events.Bus
}

func NewEventsHandler(bus *events.Bus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

const keepAliveInterval = 25 * time.Second

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, cancel := h.bus.Subscribe(userID)
	defer cancel()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case ev, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Warn("Failed to marshal event", "type", ev.Type, "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
