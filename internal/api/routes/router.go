package routes

import (
	"net/http"

	"github.com/caredispatch/backend/internal/api/handlers"
	"github.com/caredispatch/backend/internal/api/middleware"
	"github.com/caredispatch/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	dispatchHandler  *handlers.DispatchHandler
	admissionHandler *handlers.AdmissionHandler
	queueHandler     *handlers.QueueHandler
	facilityHandler  *handlers.FacilityHandler
	profileHandler   *handlers.ProfileHandler
	intentHandler    *handlers.IntentHandler
	streamHandler    *handlers.StreamHandler
	healthHandler    *handlers.HealthHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	dispatchHandler *handlers.DispatchHandler,
	admissionHandler *handlers.AdmissionHandler,
	queueHandler *handlers.QueueHandler,
	facilityHandler *handlers.FacilityHandler,
	profileHandler *handlers.ProfileHandler,
	intentHandler *handlers.IntentHandler,
	streamHandler *handlers.StreamHandler,
	healthHandler *handlers.HealthHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		dispatchHandler:  dispatchHandler,
		admissionHandler: admissionHandler,
		queueHandler:     queueHandler,
		facilityHandler:  facilityHandler,
		profileHandler:   profileHandler,
		intentHandler:    intentHandler,
		streamHandler:    streamHandler,
		healthHandler:    healthHandler,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Emergency dispatch
	r.mux.HandleFunc("POST /api/dispatch/emergency", r.dispatchHandler.EmergencyDispatch)

	// Admission requests
	r.mux.HandleFunc("POST /api/admissions", r.admissionHandler.RequestAdmission)
	r.mux.HandleFunc("GET /api/admissions/incoming", r.admissionHandler.ListIncoming)
	r.mux.HandleFunc("POST /api/admissions/{id}/accept", r.admissionHandler.Accept)
	r.mux.HandleFunc("POST /api/admissions/{id}/reject", r.admissionHandler.Reject)

	// Hospital queue
	r.mux.HandleFunc("GET /api/queue", r.queueHandler.ListQueue)
	r.mux.HandleFunc("POST /api/queue/admissions", r.queueHandler.AdmitPatient)
	r.mux.HandleFunc("PATCH /api/queue/{id}", r.queueHandler.UpdateEntry)

	// Facility directory
	r.mux.HandleFunc("GET /api/facilities", r.facilityHandler.ListFacilities)
	r.mux.HandleFunc("POST /api/facilities", r.facilityHandler.RegisterFacility)
	r.mux.HandleFunc("GET /api/facilities/{id}", r.facilityHandler.GetFacility)
	r.mux.HandleFunc("PUT /api/facilities/me", r.facilityHandler.UpdateOwnFacility)

	// Medical profile
	r.mux.HandleFunc("GET /api/profile/medical", r.profileHandler.GetProfile)
	r.mux.HandleFunc("PUT /api/profile/medical", r.profileHandler.UpsertProfile)

	// Voice intent
	r.mux.HandleFunc("POST /api/voice/intent", r.intentHandler.ClassifyIntent)

	// Dashboard event stream
	r.mux.HandleFunc("GET /api/stream/queue", r.streamHandler.StreamQueueUpdates)

	// Apply middleware in reverse order (last middleware wraps first).
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.IdentityMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so preflight and error responses get headers
	handler = middleware.CORSMiddleware(handler)

	return handler
}
