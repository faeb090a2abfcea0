package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sevigo/wikigen/internal/orchestrate"
)

// ProgressHandler streams generation progress events to HTTP clients as
// server-sent events. One subscription per request; the stream ends when
// the client disconnects.
type ProgressHandler struct {
	broker *orchestrate.ProgressBroker
	logger *slog.Logger
}

func NewProgressHandler(broker *orchestrate.ProgressBroker, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{broker: broker, logger: logger}
}

// Stream subscribes the caller to the progress event channel and relays
// each event as an SSE "data:" frame until the client goes away.
func (h *ProgressHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming is not supported by this connection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	events, cancel := h.broker.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				h.logger.Warn("failed to serialize progress event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
