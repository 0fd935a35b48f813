package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/auth"
	"github.com/hackcentral/engine/pkg/repositories"
	"github.com/hackcentral/engine/pkg/services"
)

// ReuseRequest is the optional body for POST /api/assets/{id}/reuse.
type ReuseRequest struct {
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
}

// ReuseResponse reports whether a reuse call recorded a new fact.
type ReuseResponse struct {
	Recorded bool `json:"recorded"`
}

// AssetsHandler handles asset-related HTTP requests.
type AssetsHandler struct {
	assetService   services.AssetService
	metricsService services.MetricsService
	resolver       services.ViewerResolver
	logger         *zap.Logger
}

// NewAssetsHandler creates a new assets handler.
func NewAssetsHandler(
	assetService services.AssetService,
	metricsService services.MetricsService,
	resolver services.ViewerResolver,
	logger *zap.Logger,
) *AssetsHandler {
	return &AssetsHandler{
		assetService:   assetService,
		metricsService: metricsService,
		resolver:       resolver,
		logger:         logger,
	}
}

// RegisterRoutes registers the assets handler's routes on the given mux.
func (h *AssetsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/assets", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/assets", authMiddleware.OptionalAuth(h.List))
	mux.HandleFunc("GET /api/assets/graduation", authMiddleware.OptionalAuth(h.Graduation))
	mux.HandleFunc("GET /api/assets/{id}", authMiddleware.OptionalAuth(h.Get))
	mux.HandleFunc("PATCH /api/assets/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("POST /api/assets/{id}/verify", authMiddleware.RequireAuth(h.Verify))
	mux.HandleFunc("POST /api/assets/{id}/reuse", authMiddleware.RequireAuth(h.Reuse))
}

// Create handles POST /api/assets
func (h *AssetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	var input services.CreateAssetInput
	if err := DecodeJSON(r, &input); err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	asset, err := h.assetService.Create(r.Context(), viewer, input)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, asset); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/assets with optional type, status, and arsenal
// query filters.
func (h *AssetsHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.Resolve(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	filter := repositories.AssetFilter{
		AssetType:   r.URL.Query().Get("type"),
		Status:      r.URL.Query().Get("status"),
		ArsenalOnly: r.URL.Query().Get("arsenal") == "true",
	}

	assets, err := h.assetService.List(r.Context(), viewer, filter)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, assets); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/assets/{id}
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	viewer, err := h.resolver.Resolve(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	asset, err := h.assetService.Get(r.Context(), viewer, id)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, asset); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PATCH /api/assets/{id}
func (h *AssetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	var input services.UpdateAssetInput
	if err := DecodeJSON(r, &input); err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	asset, err := h.assetService.Update(r.Context(), viewer, id, input)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, asset); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Verify handles POST /api/assets/{id}/verify
func (h *AssetsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	asset, err := h.assetService.Verify(r.Context(), viewer, id)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, asset); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Reuse handles POST /api/assets/{id}/reuse
// Idempotent: repeated calls for the same asset and caller report
// recorded=false instead of failing.
func (h *AssetsHandler) Reuse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	var body ReuseRequest
	if r.ContentLength > 0 {
		if err := DecodeJSON(r, &body); err != nil {
			WriteServiceError(h.logger, w, err)
			return
		}
	}

	recorded, err := h.assetService.RecordReuse(r.Context(), viewer, id, body.ProjectID)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ReuseResponse{Recorded: recorded}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Graduation handles GET /api/assets/graduation (?min_reuses= overrides the
// configured threshold).
func (h *AssetsHandler) Graduation(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.Resolve(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	minReuses := 0
	if raw := r.URL.Query().Get("min_reuses"); raw != "" {
		minReuses, err = strconv.Atoi(raw)
		if err != nil || minReuses < 1 {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_min_reuses", "min_reuses must be a positive integer"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
	}

	candidates, err := h.metricsService.GraduationCandidates(r.Context(), viewer, minReuses)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, candidates); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *AssetsHandler) assetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid asset ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}
