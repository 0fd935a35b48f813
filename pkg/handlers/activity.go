package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/auth"
	"github.com/hackcentral/engine/pkg/services"
)

// ActivityHandler handles the manually reported activity endpoints.
type ActivityHandler struct {
	activityService services.ActivityService
	resolver        services.ViewerResolver
	logger          *zap.Logger
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activityService services.ActivityService, resolver services.ViewerResolver, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		resolver:        resolver,
		logger:          logger,
	}
}

// RegisterRoutes registers the activity handler's routes on the given mux.
func (h *ActivityHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/activity", authMiddleware.RequireAuth(h.Record))
	mux.HandleFunc("GET /api/activity", authMiddleware.RequireAuth(h.ListMine))
}

// Record handles POST /api/activity
// Accepts contribution and support events; reuse events are derived from
// the asset reuse endpoint.
func (h *ActivityHandler) Record(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	var input services.RecordActivityInput
	if err := DecodeJSON(r, &input); err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	event, err := h.activityService.Record(r.Context(), viewer, input)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, event); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListMine handles GET /api/activity
func (h *ActivityHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	events, err := h.activityService.ListMine(r.Context(), viewer)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, events); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
