package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hackcentral/engine/pkg/database"
	"github.com/hackcentral/engine/pkg/models"
)

// ActivityRepository records and reads the append-only activity event log.
type ActivityRepository interface {
	Record(ctx context.Context, event *models.ActivityEvent) error
	ListByTypeSince(ctx context.Context, activityType string, since time.Time) ([]*models.ActivityEvent, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.ActivityEvent, error)
}

// activityRepository implements ActivityRepository using PostgreSQL.
type activityRepository struct {
	db *database.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *database.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Record(ctx context.Context, event *models.ActivityEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()

	query := `
		INSERT INTO activity_events (id, profile_id, activity_type, subject_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.ProfileID,
		event.ActivityType,
		event.SubjectID,
		event.Note,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record activity event: %w", err)
	}
	return nil
}

func (r *activityRepository) ListByTypeSince(ctx context.Context, activityType string, since time.Time) ([]*models.ActivityEvent, error) {
	return r.query(ctx, `
		SELECT id, profile_id, activity_type, subject_id, note, created_at
		FROM activity_events
		WHERE activity_type = $1 AND created_at >= $2
		ORDER BY created_at`, activityType, since)
}

func (r *activityRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.ActivityEvent, error) {
	return r.query(ctx, `
		SELECT id, profile_id, activity_type, subject_id, note, created_at
		FROM activity_events
		WHERE profile_id = $1
		ORDER BY created_at DESC`, profileID)
}

func (r *activityRepository) query(ctx context.Context, query string, args ...any) ([]*models.ActivityEvent, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity events: %w", err)
	}
	defer rows.Close()

	var events []*models.ActivityEvent
	for rows.Next() {
		var event models.ActivityEvent
		if err := rows.Scan(&event.ID, &event.ProfileID, &event.ActivityType, &event.SubjectID, &event.Note, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity event: %w", err)
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}

// Ensure activityRepository implements ActivityRepository at compile time.
var _ ActivityRepository = (*activityRepository)(nil)
