// Package repositories contains PostgreSQL data access for hackcentral-engine.
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

const profileColumns = `id, clerk_user_id, email, display_name, experience_level,
	mentor_capacity, mentor_sessions_used, visibility, skills, created_at, updated_at`

// ProfileRepository defines the interface for profile data access.
type ProfileRepository interface {
	// Upsert inserts a profile keyed on the external-auth subject id, or
	// refreshes email/display name on conflict. Idempotent first-login path.
	Upsert(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByClerkUserID(ctx context.Context, clerkUserID string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]*models.Profile, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, profile *models.Profile) error
}

// profileRepository implements ProfileRepository using PostgreSQL.
type profileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *database.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if profile.ExperienceLevel == "" {
		profile.ExperienceLevel = models.ExperienceBeginner
	}
	if profile.Visibility == "" {
		profile.Visibility = models.VisibilityOrg
	}
	if profile.Skills == nil {
		profile.Skills = []string{}
	}

	query := `
		INSERT INTO profiles (id, clerk_user_id, email, display_name, experience_level,
			mentor_capacity, mentor_sessions_used, visibility, skills, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (clerk_user_id) DO UPDATE
		SET email = EXCLUDED.email,
		    display_name = CASE WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name
		                        ELSE profiles.display_name END,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + profileColumns

	return r.scanProfile(r.db.QueryRow(ctx, query,
		profile.ID,
		profile.ClerkUserID,
		profile.Email,
		profile.DisplayName,
		profile.ExperienceLevel,
		profile.MentorCapacity,
		profile.MentorSessionsUsed,
		profile.Visibility,
		profile.Skills,
		profile.CreatedAt,
		profile.UpdatedAt,
	), profile)
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var profile models.Profile
	if err := r.scanProfile(r.db.QueryRow(ctx, query, id), &profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByClerkUserID(ctx context.Context, clerkUserID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE clerk_user_id = $1`

	var profile models.Profile
	if err := r.scanProfile(r.db.QueryRow(ctx, query, clerkUserID), &profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile by subject: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at`
	return r.queryProfiles(ctx, query)
}

func (r *profileRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE created_at >= $1 ORDER BY created_at`
	return r.queryProfiles(ctx, query, since)
}

func (r *profileRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	profile.UpdatedAt = time.Now()

	query := `
		UPDATE profiles
		SET display_name = $2, experience_level = $3, mentor_capacity = $4,
		    visibility = $5, skills = $6, updated_at = $7
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.DisplayName,
		profile.ExperienceLevel,
		profile.MentorCapacity,
		profile.Visibility,
		profile.Skills,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *profileRepository) queryProfiles(ctx context.Context, query string, args ...any) ([]*models.Profile, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		var profile models.Profile
		if err := r.scanProfile(rows, &profile); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, &profile)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) scanProfile(row pgx.Row, profile *models.Profile) error {
	return row.Scan(
		&profile.ID,
		&profile.ClerkUserID,
		&profile.Email,
		&profile.DisplayName,
		&profile.ExperienceLevel,
		&profile.MentorCapacity,
		&profile.MentorSessionsUsed,
		&profile.Visibility,
		&profile.Skills,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
}

// Ensure profileRepository implements ProfileRepository at compile time.
var _ ProfileRepository = (*profileRepository)(nil)
