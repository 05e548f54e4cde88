package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/caredispatch/backend/internal/api/middleware"
	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/providers"
	"github.com/caredispatch/backend/internal/infrastructure/observability"
)

// StreamHandler streams queue events to hospital dashboards over
// Server-Sent Events.
type StreamHandler struct {
	eventBus providers.EventBus
}

// NewStreamHandler creates a new stream handler. eventBus may be nil,
// in which case streaming reports unavailable.
func NewStreamHandler(eventBus providers.EventBus) *StreamHandler {
	return &StreamHandler{eventBus: eventBus}
}

// StreamQueueUpdates handles GET /api/stream/queue. The connection stays
// open until the client disconnects; each queue or admission event for
// the hospital's facility is pushed as an SSE event.
func (h *StreamHandler) StreamQueueUpdates(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if !principal.IsVerifiedHospital() {
		respondWithError(w, http.StatusForbidden, "verified hospital account required")
		return
	}

	if h.eventBus == nil {
		respondWithError(w, http.StatusServiceUnavailable, "event streaming is not available")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	channel := entities.QueueChannel(principal.FacilityID)
	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("channel", channel).Msg("failed to subscribe to queue events")
		respondWithError(w, http.StatusServiceUnavailable, "event streaming is not available")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sendEvent(w, "connected", map[string]interface{}{
		"facility_id": principal.FacilityID,
		"timestamp":   time.Now(),
	})
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			sendEvent(w, "heartbeat", map[string]interface{}{"timestamp": time.Now()})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			sendEvent(w, event.Type, event)
			flusher.Flush()
		}
	}
}

// sendEvent writes a single SSE event frame
func sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", payload)
}
