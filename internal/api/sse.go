package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/san-kum/fluidmind/internal/event"
	"github.com/san-kum/fluidmind/internal/simloop"
)

// writeSSEFrame writes e as one SSE frame: its Kind on the event: line
// and the whole Event marshaled as JSON on the data: line, zero-valued
// fields of other kinds included.
func writeSSEFrame(w http.ResponseWriter, e event.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Kind, data)
	return err
}

// handleSSE streams events to a subscriber as Server-Sent Events.
// Lag (the cursor falling behind the broadcaster's retained window) is
// surfaced as a comment line rather than an error, per spec.md §7.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", "")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	cursor := s.loop.Broadcaster().NewCursor()
	ticker := time.NewTicker(simloop.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			events, lagged := cursor.Drain()
			if lagged {
				if _, err := fmt.Fprint(w, ": lag, some events were dropped\n\n"); err != nil {
					return
				}
			}
			for _, e := range events {
				if err := writeSSEFrame(w, e); err != nil {
					return
				}
			}
			if len(events) > 0 || lagged {
				flusher.Flush()
			}
		}
	}
}
