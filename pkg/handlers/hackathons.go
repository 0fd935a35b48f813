package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/auth"
	"github.com/hackcentral/engine/pkg/services"
)

// HackathonsHandler handles hackathon HTTP endpoints.
type HackathonsHandler struct {
	hackathonService services.HackathonService
	resolver         services.ViewerResolver
	logger           *zap.Logger
}

// NewHackathonsHandler creates a new hackathons handler.
func NewHackathonsHandler(hackathonService services.HackathonService, resolver services.ViewerResolver, logger *zap.Logger) *HackathonsHandler {
	return &HackathonsHandler{
		hackathonService: hackathonService,
		resolver:         resolver,
		logger:           logger,
	}
}

// RegisterRoutes registers the hackathons handler's routes on the given mux.
func (h *HackathonsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/hackathons", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/hackathons", authMiddleware.OptionalAuth(h.List))
	mux.HandleFunc("GET /api/hackathons/{id}", authMiddleware.OptionalAuth(h.Get))
	mux.HandleFunc("PATCH /api/hackathons/{id}", authMiddleware.RequireAuth(h.Update))
}

// Create handles POST /api/hackathons
// Phase timestamps left out of the body cascade from event_date.
func (h *HackathonsHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	var input services.CreateHackathonInput
	if err := DecodeJSON(r, &input); err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	hackathon, err := h.hackathonService.Create(r.Context(), viewer, input)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, hackathon); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/hackathons
func (h *HackathonsHandler) List(w http.ResponseWriter, r *http.Request) {
	hackathons, err := h.hackathonService.List(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, hackathons); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/hackathons/{id}
func (h *HackathonsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid hackathon ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	hackathon, err := h.hackathonService.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, hackathon); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PATCH /api/hackathons/{id}
func (h *HackathonsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid hackathon ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	var input services.UpdateHackathonInput
	if err := DecodeJSON(r, &input); err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	hackathon, err := h.hackathonService.Update(r.Context(), viewer, id, input)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, hackathon); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
