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

const hackathonColumns = `id, name, description, status, event_date,
	idea_submission_opens_at, idea_submission_closes_at,
	team_formation_opens_at, team_formation_closes_at,
	demos_at, winners_announced_at, created_by, created_at, updated_at`

// HackathonRepository defines the interface for hackathon data access.
type HackathonRepository interface {
	Create(ctx context.Context, hackathon *models.Hackathon) error
	Get(ctx context.Context, id uuid.UUID) (*models.Hackathon, error)
	List(ctx context.Context) ([]*models.Hackathon, error)
	Update(ctx context.Context, hackathon *models.Hackathon) error
}

// hackathonRepository implements HackathonRepository using PostgreSQL.
type hackathonRepository struct {
	db *database.DB
}

// NewHackathonRepository creates a new hackathon repository.
func NewHackathonRepository(db *database.DB) HackathonRepository {
	return &hackathonRepository{db: db}
}

func (r *hackathonRepository) Create(ctx context.Context, hackathon *models.Hackathon) error {
	if hackathon.ID == uuid.Nil {
		hackathon.ID = uuid.New()
	}

	now := time.Now()
	hackathon.CreatedAt = now
	hackathon.UpdatedAt = now
	if hackathon.Status == "" {
		hackathon.Status = models.HackathonUpcoming
	}

	query := `
		INSERT INTO hackathons (id, name, description, status, event_date,
			idea_submission_opens_at, idea_submission_closes_at,
			team_formation_opens_at, team_formation_closes_at,
			demos_at, winners_announced_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		hackathon.ID,
		hackathon.Name,
		hackathon.Description,
		hackathon.Status,
		hackathon.EventDate,
		hackathon.IdeaSubmissionOpensAt,
		hackathon.IdeaSubmissionClosesAt,
		hackathon.TeamFormationOpensAt,
		hackathon.TeamFormationClosesAt,
		hackathon.DemosAt,
		hackathon.WinnersAnnouncedAt,
		hackathon.CreatedBy,
		hackathon.CreatedAt,
		hackathon.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create hackathon: %w", err)
	}
	return nil
}

func (r *hackathonRepository) Get(ctx context.Context, id uuid.UUID) (*models.Hackathon, error) {
	query := `SELECT ` + hackathonColumns + ` FROM hackathons WHERE id = $1`

	var hackathon models.Hackathon
	if err := r.scanHackathon(r.db.QueryRow(ctx, query, id), &hackathon); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hackathon: %w", err)
	}
	return &hackathon, nil
}

func (r *hackathonRepository) List(ctx context.Context) ([]*models.Hackathon, error) {
	query := `SELECT ` + hackathonColumns + ` FROM hackathons ORDER BY event_date DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query hackathons: %w", err)
	}
	defer rows.Close()

	var hackathons []*models.Hackathon
	for rows.Next() {
		var hackathon models.Hackathon
		if err := r.scanHackathon(rows, &hackathon); err != nil {
			return nil, fmt.Errorf("failed to scan hackathon: %w", err)
		}
		hackathons = append(hackathons, &hackathon)
	}
	return hackathons, rows.Err()
}

func (r *hackathonRepository) Update(ctx context.Context, hackathon *models.Hackathon) error {
	hackathon.UpdatedAt = time.Now()

	query := `
		UPDATE hackathons
		SET name = $2, description = $3, status = $4, event_date = $5,
		    idea_submission_opens_at = $6, idea_submission_closes_at = $7,
		    team_formation_opens_at = $8, team_formation_closes_at = $9,
		    demos_at = $10, winners_announced_at = $11, updated_at = $12
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		hackathon.ID,
		hackathon.Name,
		hackathon.Description,
		hackathon.Status,
		hackathon.EventDate,
		hackathon.IdeaSubmissionOpensAt,
		hackathon.IdeaSubmissionClosesAt,
		hackathon.TeamFormationOpensAt,
		hackathon.TeamFormationClosesAt,
		hackathon.DemosAt,
		hackathon.WinnersAnnouncedAt,
		hackathon.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update hackathon: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *hackathonRepository) scanHackathon(row pgx.Row, hackathon *models.Hackathon) error {
	return row.Scan(
		&hackathon.ID,
		&hackathon.Name,
		&hackathon.Description,
		&hackathon.Status,
		&hackathon.EventDate,
		&hackathon.IdeaSubmissionOpensAt,
		&hackathon.IdeaSubmissionClosesAt,
		&hackathon.TeamFormationOpensAt,
		&hackathon.TeamFormationClosesAt,
		&hackathon.DemosAt,
		&hackathon.WinnersAnnouncedAt,
		&hackathon.CreatedBy,
		&hackathon.CreatedAt,
		&hackathon.UpdatedAt,
	)
}

// Ensure hackathonRepository implements HackathonRepository at compile time.
var _ HackathonRepository = (*hackathonRepository)(nil)
