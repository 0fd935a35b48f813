package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hackcentral/engine/pkg/apperrors"
	"github.com/hackcentral/engine/pkg/database"
	"github.com/hackcentral/engine/pkg/models"
)

const projectColumns = `id, title, description, status, owner_id, visibility, is_anonymous,
	readiness_completed_at, sponsor_committed_at, impact_hypothesis, ai_tools_used,
	hours_saved_per_week, lessons_learned, created_at, updated_at`

// ProjectRepository defines the interface for project data access.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Count(ctx context.Context) (int, error)

	AddMember(ctx context.Context, member *models.ProjectMember) error
	RemoveMember(ctx context.Context, projectID, profileID uuid.UUID) error
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]*models.ProjectMember, error)
	IsMember(ctx context.Context, projectID, profileID uuid.UUID) (bool, error)
}

// projectRepository implements ProjectRepository using PostgreSQL.
type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create inserts a new project and registers the owner as a member in the
// same transaction.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}

	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Status == "" {
		project.Status = models.ProjectStatusIdea
	}
	if project.Visibility == "" {
		project.Visibility = models.VisibilityOrg
	}
	if project.AIToolsUsed == nil {
		project.AIToolsUsed = []string{}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO projects (id, title, description, status, owner_id, visibility, is_anonymous,
			readiness_completed_at, sponsor_committed_at, impact_hypothesis, ai_tools_used,
			hours_saved_per_week, lessons_learned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		project.ID,
		project.Title,
		project.Description,
		project.Status,
		project.OwnerID,
		project.Visibility,
		project.IsAnonymous,
		project.ReadinessCompletedAt,
		project.SponsorCommittedAt,
		project.ImpactHypothesis,
		project.AIToolsUsed,
		project.HoursSavedPerWeek,
		project.LessonsLearned,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO project_members (project_id, profile_id, role, created_at)
		VALUES ($1, $2, $3, $4)`,
		project.ID, project.OwnerID, models.ProjectRoleOwner, now,
	)
	if err != nil {
		return fmt.Errorf("failed to add owner membership: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *projectRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	var project models.Project
	if err := r.scanProject(r.db.QueryRow(ctx, query, id), &project); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var project models.Project
		if err := r.scanProject(rows, &project); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &project)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()

	query := `
		UPDATE projects
		SET title = $2, description = $3, status = $4, visibility = $5, is_anonymous = $6,
		    readiness_completed_at = $7, sponsor_committed_at = $8, impact_hypothesis = $9,
		    ai_tools_used = $10, hours_saved_per_week = $11, lessons_learned = $12, updated_at = $13
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		project.ID,
		project.Title,
		project.Description,
		project.Status,
		project.Visibility,
		project.IsAnonymous,
		project.ReadinessCompletedAt,
		project.SponsorCommittedAt,
		project.ImpactHypothesis,
		project.AIToolsUsed,
		project.HoursSavedPerWeek,
		project.LessonsLearned,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *projectRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

func (r *projectRepository) AddMember(ctx context.Context, member *models.ProjectMember) error {
	member.CreatedAt = time.Now()
	if member.Role == "" {
		member.Role = models.ProjectRoleMember
	}

	query := `
		INSERT INTO project_members (project_id, profile_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, profile_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, member.ProjectID, member.ProfileID, member.Role, member.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add project member: %w", err)
	}
	return nil
}

func (r *projectRepository) RemoveMember(ctx context.Context, projectID, profileID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND profile_id = $2`,
		projectID, profileID)
	if err != nil {
		return fmt.Errorf("failed to remove project member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *projectRepository) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*models.ProjectMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT project_id, profile_id, role, created_at
		FROM project_members WHERE project_id = $1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query project members: %w", err)
	}
	defer rows.Close()

	var members []*models.ProjectMember
	for rows.Next() {
		var member models.ProjectMember
		if err := rows.Scan(&member.ProjectID, &member.ProfileID, &member.Role, &member.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project member: %w", err)
		}
		members = append(members, &member)
	}
	return members, rows.Err()
}

func (r *projectRepository) IsMember(ctx context.Context, projectID, profileID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM project_members WHERE project_id = $1 AND profile_id = $2
		)`, projectID, profileID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check project membership: %w", err)
	}
	return exists, nil
}

func (r *projectRepository) scanProject(row pgx.Row, project *models.Project) error {
	return row.Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.Status,
		&project.OwnerID,
		&project.Visibility,
		&project.IsAnonymous,
		&project.ReadinessCompletedAt,
		&project.SponsorCommittedAt,
		&project.ImpactHypothesis,
		&project.AIToolsUsed,
		&project.HoursSavedPerWeek,
		&project.LessonsLearned,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
}

// Ensure projectRepository implements ProjectRepository at compile time.
var _ ProjectRepository = (*projectRepository)(nil)
