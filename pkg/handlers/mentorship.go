package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/auth"
	"github.com/hackcentral/engine/pkg/models"
	"github.com/hackcentral/engine/pkg/services"
)

// MentorshipHandler handles mentor request HTTP endpoints.
type MentorshipHandler struct {
	mentorshipService services.MentorshipService
	resolver          services.ViewerResolver
	logger            *zap.Logger
}

// NewMentorshipHandler creates a new mentorship handler.
func NewMentorshipHandler(mentorshipService services.MentorshipService, resolver services.ViewerResolver, logger *zap.Logger) *MentorshipHandler {
	return &MentorshipHandler{
		mentorshipService: mentorshipService,
		resolver:          resolver,
		logger:            logger,
	}
}

// RegisterRoutes registers the mentorship handler's routes on the given mux.
// Every endpoint requires authentication; requests are visible to their two
// parties only.
func (h *MentorshipHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/mentorship/requests", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/mentorship/requests", authMiddleware.RequireAuth(h.ListMine))
	mux.HandleFunc("GET /api/mentorship/requests/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("POST /api/mentorship/requests/{id}/accept", authMiddleware.RequireAuth(h.Accept))
	mux.HandleFunc("POST /api/mentorship/requests/{id}/cancel", authMiddleware.RequireAuth(h.Cancel))
	mux.HandleFunc("POST /api/mentorship/requests/{id}/complete", authMiddleware.RequireAuth(h.Complete))
}

// Create handles POST /api/mentorship/requests
func (h *MentorshipHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	var input services.CreateMentorRequestInput
	if err := DecodeJSON(r, &input); err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	request, err := h.mentorshipService.CreateRequest(r.Context(), viewer, input)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, request); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListMine handles GET /api/mentorship/requests
// Returns requests where the caller is requester or mentor.
func (h *MentorshipHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	requests, err := h.mentorshipService.ListMine(r.Context(), viewer)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, requests); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/mentorship/requests/{id}
func (h *MentorshipHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withRequest(w, r, h.mentorshipService.Get)
}

// Accept handles POST /api/mentorship/requests/{id}/accept
// Mentor only; capacity is re-checked inside the accepting transaction.
func (h *MentorshipHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.withRequest(w, r, h.mentorshipService.Accept)
}

// Cancel handles POST /api/mentorship/requests/{id}/cancel
func (h *MentorshipHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.withRequest(w, r, h.mentorshipService.Cancel)
}

// Complete handles POST /api/mentorship/requests/{id}/complete
// Mentor only; increments the mentor's session counter.
func (h *MentorshipHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.withRequest(w, r, h.mentorshipService.Complete)
}

// withRequest factors the shared id-parse / viewer-resolve / respond shape
// of the per-request endpoints.
func (h *MentorshipHandler) withRequest(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.MentorRequest, error),
) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid request ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	request, err := op(r.Context(), viewer, id)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, request); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
