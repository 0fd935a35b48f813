package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/auth"
	"github.com/hackcentral/engine/pkg/services"
)

// ProfilesHandler handles profile-related HTTP requests.
type ProfilesHandler struct {
	profileService services.ProfileService
	resolver       services.ViewerResolver
	logger         *zap.Logger
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(profileService services.ProfileService, resolver services.ViewerResolver, logger *zap.Logger) *ProfilesHandler {
	return &ProfilesHandler{
		profileService: profileService,
		resolver:       resolver,
		logger:         logger,
	}
}

// RegisterRoutes registers the profiles handler's routes on the given mux.
func (h *ProfilesHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/profiles/me", authMiddleware.RequireAuth(h.EnsureMe))
	mux.HandleFunc("GET /api/profiles/me", authMiddleware.RequireAuth(h.GetMe))
	mux.HandleFunc("PATCH /api/profiles/me", authMiddleware.RequireAuth(h.UpdateMe))
	mux.HandleFunc("GET /api/profiles", authMiddleware.OptionalAuth(h.List))
	mux.HandleFunc("GET /api/profiles/{id}", authMiddleware.OptionalAuth(h.Get))
}

// EnsureMe handles POST /api/profiles/me
// Upserts the caller's profile from their token claims. Idempotent; the
// first call provisions the profile.
func (h *ProfilesHandler) EnsureMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Missing authentication"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	profile, err := h.profileService.EnsureProfile(r.Context(), claims.Subject, claims.Email, claims.Name)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, profile); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetMe handles GET /api/profiles/me
func (h *ProfilesHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, viewer.Profile); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateMe handles PATCH /api/profiles/me
func (h *ProfilesHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	var input services.ProfileInput
	if err := DecodeJSON(r, &input); err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	profile, err := h.profileService.UpdateMe(r.Context(), viewer, input)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, profile); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/profiles
// Anonymous callers see public profiles only.
func (h *ProfilesHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.Resolve(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	profiles, err := h.profileService.List(r.Context(), viewer)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, profiles); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/profiles/{id}
func (h *ProfilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid profile ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	viewer, err := h.resolver.Resolve(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	profile, err := h.profileService.Get(r.Context(), viewer, id)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, profile); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
