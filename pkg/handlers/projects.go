package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/auth"
	"github.com/hackcentral/engine/pkg/services"
)

// AddMemberRequest is the body for POST /api/projects/{id}/members.
type AddMemberRequest struct {
	ProfileID uuid.UUID `json:"profile_id"`
}

// ProjectsHandler handles project-related HTTP requests.
type ProjectsHandler struct {
	projectService services.ProjectService
	resolver       services.ViewerResolver
	logger         *zap.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(projectService services.ProjectService, resolver services.ViewerResolver, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		projectService: projectService,
		resolver:       resolver,
		logger:         logger,
	}
}

// RegisterRoutes registers the projects handler's routes on the given mux.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/projects", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/projects", authMiddleware.OptionalAuth(h.List))
	mux.HandleFunc("GET /api/projects/{id}", authMiddleware.OptionalAuth(h.Get))
	mux.HandleFunc("PATCH /api/projects/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("GET /api/projects/{id}/members", authMiddleware.OptionalAuth(h.ListMembers))
	mux.HandleFunc("POST /api/projects/{id}/members", authMiddleware.RequireAuth(h.AddMember))
	mux.HandleFunc("DELETE /api/projects/{id}/members/{profileID}", authMiddleware.RequireAuth(h.RemoveMember))
}

// Create handles POST /api/projects
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	var input services.CreateProjectInput
	if err := DecodeJSON(r, &input); err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	project, err := h.projectService.Create(r.Context(), viewer, input)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/projects
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.Resolve(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	projects, err := h.projectService.List(r.Context(), viewer)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, projects); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/projects/{id}
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r)
	if !ok {
		return
	}

	viewer, err := h.resolver.Resolve(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	project, err := h.projectService.Get(r.Context(), viewer, id)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PATCH /api/projects/{id}
// Status changes run through the project state machine; guard failures
// surface as 409.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r)
	if !ok {
		return
	}

	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	var input services.UpdateProjectInput
	if err := DecodeJSON(r, &input); err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	project, err := h.projectService.Update(r.Context(), viewer, id, input)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListMembers handles GET /api/projects/{id}/members
func (h *ProjectsHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r)
	if !ok {
		return
	}

	viewer, err := h.resolver.Resolve(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	members, err := h.projectService.ListMembers(r.Context(), viewer, id)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, members); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// AddMember handles POST /api/projects/{id}/members
func (h *ProjectsHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r)
	if !ok {
		return
	}

	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	var body AddMemberRequest
	if err := DecodeJSON(r, &body); err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}
	if body.ProfileID == uuid.Nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_profile_id", "profile_id is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.projectService.AddMember(r.Context(), viewer, id, body.ProfileID); err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveMember handles DELETE /api/projects/{id}/members/{profileID}
func (h *ProjectsHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r)
	if !ok {
		return
	}
	profileID, err := uuid.Parse(r.PathValue("profileID"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	viewer, err := h.resolver.RequireProfile(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := h.projectService.RemoveMember(r.Context(), viewer, id, profileID); err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectsHandler) projectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid project ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}
