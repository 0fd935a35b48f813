package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/apperrors"
	"github.com/hackcentral/engine/pkg/models"
	"github.com/hackcentral/engine/pkg/repositories"
)

// CreateProjectInput carries the fields for registering a new project.
type CreateProjectInput struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Visibility       string   `json:"visibility"`
	IsAnonymous      bool     `json:"is_anonymous"`
	ImpactHypothesis string   `json:"impact_hypothesis"`
	AIToolsUsed      []string `json:"ai_tools_used,omitempty"`
}

// UpdateProjectInput carries owner-editable project fields. Nil means
// unchanged. Status transitions are guarded; the readiness and sponsor
// timestamps may arrive in the same call as the transition they unlock.
type UpdateProjectInput struct {
	Title                *string    `json:"title,omitempty"`
	Description          *string    `json:"description,omitempty"`
	Status               *string    `json:"status,omitempty"`
	Visibility           *string    `json:"visibility,omitempty"`
	IsAnonymous          *bool      `json:"is_anonymous,omitempty"`
	ReadinessCompletedAt *time.Time `json:"readiness_completed_at,omitempty"`
	SponsorCommittedAt   *time.Time `json:"sponsor_committed_at,omitempty"`
	ImpactHypothesis     *string    `json:"impact_hypothesis,omitempty"`
	AIToolsUsed          []string   `json:"ai_tools_used,omitempty"`
	HoursSavedPerWeek    *float64   `json:"hours_saved_per_week,omitempty"`
	LessonsLearned       *string    `json:"lessons_learned,omitempty"`
}

// ProjectService manages projects, their membership, and the status machine.
type ProjectService interface {
	Create(ctx context.Context, viewer *Viewer, input CreateProjectInput) (*models.Project, error)
	Get(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, viewer *Viewer) ([]*models.Project, error)
	Update(ctx context.Context, viewer *Viewer, id uuid.UUID, input UpdateProjectInput) (*models.Project, error)
	AddMember(ctx context.Context, viewer *Viewer, projectID, profileID uuid.UUID) error
	RemoveMember(ctx context.Context, viewer *Viewer, projectID, profileID uuid.UUID) error
	ListMembers(ctx context.Context, viewer *Viewer, projectID uuid.UUID) ([]*models.ProjectMember, error)
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	logger      *zap.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repositories.ProjectRepository, logger *zap.Logger) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		logger:      logger.Named("project-service"),
	}
}

var _ ProjectService = (*projectService)(nil)

func (s *projectService) Create(ctx context.Context, viewer *Viewer, input CreateProjectInput) (*models.Project, error) {
	ownerID, ok := viewer.ProfileID()
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}
	if input.Title == "" {
		return nil, apperrors.Validationf("title must not be empty")
	}
	if input.Visibility == "" {
		input.Visibility = models.VisibilityOrg
	}
	if !models.ValidVisibility(input.Visibility) {
		return nil, apperrors.Validationf("invalid visibility %q", input.Visibility)
	}

	project := &models.Project{
		Title:            input.Title,
		Description:      input.Description,
		Status:           models.ProjectStatusIdea,
		OwnerID:          ownerID,
		Visibility:       input.Visibility,
		IsAnonymous:      input.IsAnonymous,
		ImpactHypothesis: input.ImpactHypothesis,
		AIToolsUsed:      input.AIToolsUsed,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info("project created", zap.String("project_id", project.ID.String()))
	return project, nil
}

func (s *projectService) Get(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canViewProject(ctx, viewer, project) {
		return nil, apperrors.ErrNotFound
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, viewer *Viewer) ([]*models.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	visible := make([]*models.Project, 0, len(projects))
	for _, project := range projects {
		if s.canViewProject(ctx, viewer, project) {
			visible = append(visible, project)
		}
	}
	return visible, nil
}

// canViewProject wires the membership lookup into the visibility predicate.
// Membership is only consulted for private projects whose owner is not the
// viewer, so the extra query stays off the common path.
func (s *projectService) canViewProject(ctx context.Context, viewer *Viewer, project *models.Project) bool {
	return CanView(viewer, ProjectResource(project, func() bool {
		profileID, ok := viewer.ProfileID()
		if !ok {
			return false
		}
		isMember, err := s.projectRepo.IsMember(ctx, project.ID, profileID)
		if err != nil {
			s.logger.Warn("membership check failed",
				zap.String("project_id", project.ID.String()), zap.Error(err))
			return false
		}
		return isMember
	}))
}

func (s *projectService) Update(ctx context.Context, viewer *Viewer, id uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	profileID, ok := viewer.ProfileID()
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}

	project, err := s.projectRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canViewProject(ctx, viewer, project) {
		return nil, apperrors.ErrNotFound
	}
	if project.OwnerID != profileID {
		return nil, fmt.Errorf("%w: only the owner may edit a project", apperrors.ErrNotAuthorized)
	}

	// Timestamps apply before the transition guard so a single call can
	// supply the precondition and the transition together.
	if input.ReadinessCompletedAt != nil {
		project.ReadinessCompletedAt = input.ReadinessCompletedAt
	}
	if input.SponsorCommittedAt != nil {
		project.SponsorCommittedAt = input.SponsorCommittedAt
	}

	if input.Status != nil && *input.Status != project.Status {
		if err := checkProjectTransition(project, *input.Status); err != nil {
			return nil, err
		}
		project.Status = *input.Status
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperrors.Validationf("title must not be empty")
		}
		project.Title = *input.Title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Visibility != nil {
		if !models.ValidVisibility(*input.Visibility) {
			return nil, apperrors.Validationf("invalid visibility %q", *input.Visibility)
		}
		project.Visibility = *input.Visibility
	}
	if input.IsAnonymous != nil {
		project.IsAnonymous = *input.IsAnonymous
	}
	if input.ImpactHypothesis != nil {
		project.ImpactHypothesis = *input.ImpactHypothesis
	}
	if input.AIToolsUsed != nil {
		project.AIToolsUsed = input.AIToolsUsed
	}
	if input.HoursSavedPerWeek != nil {
		project.HoursSavedPerWeek = input.HoursSavedPerWeek
	}
	if input.LessonsLearned != nil {
		project.LessonsLearned = *input.LessonsLearned
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// checkProjectTransition validates a status transition against the current
// project state. The timestamps gating forward transitions must already be
// set on the project when this runs.
func checkProjectTransition(project *models.Project, target string) error {
	if !models.ValidProjectStatus(target) {
		return apperrors.Validationf("invalid status %q", target)
	}

	current := project.Status
	switch target {
	case models.ProjectStatusBuilding:
		if current != models.ProjectStatusIdea {
			return transitionError(current, target)
		}
		if project.ReadinessCompletedAt == nil {
			return fmt.Errorf("%w: readiness_completed_at is required to start building", apperrors.ErrInvalidState)
		}
	case models.ProjectStatusIncubation:
		if current != models.ProjectStatusBuilding {
			return transitionError(current, target)
		}
		if project.SponsorCommittedAt == nil {
			return fmt.Errorf("%w: sponsor_committed_at is required to enter incubation", apperrors.ErrInvalidState)
		}
	case models.ProjectStatusCompleted:
		if current != models.ProjectStatusIncubation {
			return transitionError(current, target)
		}
	case models.ProjectStatusArchived:
		if current == models.ProjectStatusCompleted || current == models.ProjectStatusArchived {
			return transitionError(current, target)
		}
	default:
		return transitionError(current, target)
	}
	return nil
}

func transitionError(current, target string) error {
	return fmt.Errorf("%w: cannot transition from %s to %s", apperrors.ErrInvalidState, current, target)
}

func (s *projectService) AddMember(ctx context.Context, viewer *Viewer, projectID, profileID uuid.UUID) error {
	callerID, ok := viewer.ProfileID()
	if !ok {
		return apperrors.ErrNotAuthenticated
	}

	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if !s.canViewProject(ctx, viewer, project) {
		return apperrors.ErrNotFound
	}
	if project.OwnerID != callerID {
		return fmt.Errorf("%w: only the owner may manage members", apperrors.ErrNotAuthorized)
	}

	return s.projectRepo.AddMember(ctx, &models.ProjectMember{
		ProjectID: projectID,
		ProfileID: profileID,
		Role:      models.ProjectRoleMember,
	})
}

func (s *projectService) RemoveMember(ctx context.Context, viewer *Viewer, projectID, profileID uuid.UUID) error {
	callerID, ok := viewer.ProfileID()
	if !ok {
		return apperrors.ErrNotAuthenticated
	}

	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if !s.canViewProject(ctx, viewer, project) {
		return apperrors.ErrNotFound
	}
	// Members may leave on their own; everyone else needs the owner
	if project.OwnerID != callerID && profileID != callerID {
		return fmt.Errorf("%w: only the owner may manage members", apperrors.ErrNotAuthorized)
	}
	if profileID == project.OwnerID {
		return fmt.Errorf("%w: the owner cannot be removed from a project", apperrors.ErrInvalidState)
	}

	return s.projectRepo.RemoveMember(ctx, projectID, profileID)
}

func (s *projectService) ListMembers(ctx context.Context, viewer *Viewer, projectID uuid.UUID) ([]*models.ProjectMember, error) {
	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.canViewProject(ctx, viewer, project) {
		return nil, apperrors.ErrNotFound
	}
	return s.projectRepo.ListMembers(ctx, projectID)
}
