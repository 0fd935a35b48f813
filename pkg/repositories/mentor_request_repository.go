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

const mentorRequestColumns = `id, requester_id, mentor_id, status, topic,
	duration_minutes, scheduled_at, created_at, updated_at`

// MentorRequestRepository defines the interface for mentor request data access.
// The state-transition methods are atomic: each re-reads the request (and the
// mentor profile where relevant) under a row lock inside one transaction so a
// concurrent transition cannot slip past the guards.
type MentorRequestRepository interface {
	Create(ctx context.Context, request *models.MentorRequest) error
	Get(ctx context.Context, id uuid.UUID) (*models.MentorRequest, error)
	ListForProfile(ctx context.Context, profileID uuid.UUID) ([]*models.MentorRequest, error)
	ListCompletedSince(ctx context.Context, since time.Time) ([]*models.MentorRequest, error)

	// AcceptWithCapacityCheck transitions pending -> accepted, re-validating
	// mentor capacity (sessions_used < capacity) at accept time. Acceptance
	// does not consume capacity; only completion does.
	AcceptWithCapacityCheck(ctx context.Context, requestID uuid.UUID) error

	// CompleteWithSessionIncrement transitions accepted -> completed and
	// increments the mentor's mentor_sessions_used by exactly 1 in the same
	// transaction.
	CompleteWithSessionIncrement(ctx context.Context, requestID uuid.UUID) error

	// Cancel transitions pending/accepted -> cancelled.
	Cancel(ctx context.Context, requestID uuid.UUID) error
}

// mentorRequestRepository implements MentorRequestRepository using PostgreSQL.
type mentorRequestRepository struct {
	db *database.DB
}

// NewMentorRequestRepository creates a new mentor request repository.
func NewMentorRequestRepository(db *database.DB) MentorRequestRepository {
	return &mentorRequestRepository{db: db}
}

func (r *mentorRequestRepository) Create(ctx context.Context, request *models.MentorRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}

	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	if request.Status == "" {
		request.Status = models.MentorRequestPending
	}
	if request.DurationMinutes == 0 {
		request.DurationMinutes = 30
	}

	query := `
		INSERT INTO mentor_requests (id, requester_id, mentor_id, status, topic,
			duration_minutes, scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		request.ID,
		request.RequesterID,
		request.MentorID,
		request.Status,
		request.Topic,
		request.DurationMinutes,
		request.ScheduledAt,
		request.CreatedAt,
		request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create mentor request: %w", err)
	}
	return nil
}

func (r *mentorRequestRepository) Get(ctx context.Context, id uuid.UUID) (*models.MentorRequest, error) {
	query := `SELECT ` + mentorRequestColumns + ` FROM mentor_requests WHERE id = $1`

	var request models.MentorRequest
	if err := r.scanRequest(r.db.QueryRow(ctx, query, id), &request); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mentor request: %w", err)
	}
	return &request, nil
}

func (r *mentorRequestRepository) ListForProfile(ctx context.Context, profileID uuid.UUID) ([]*models.MentorRequest, error) {
	return r.query(ctx, `
		SELECT `+mentorRequestColumns+`
		FROM mentor_requests
		WHERE requester_id = $1 OR mentor_id = $1
		ORDER BY created_at DESC`, profileID)
}

func (r *mentorRequestRepository) ListCompletedSince(ctx context.Context, since time.Time) ([]*models.MentorRequest, error) {
	return r.query(ctx, `
		SELECT `+mentorRequestColumns+`
		FROM mentor_requests
		WHERE status = 'completed' AND updated_at >= $1
		ORDER BY updated_at`, since)
}

func (r *mentorRequestRepository) AcceptWithCapacityCheck(ctx context.Context, requestID uuid.UUID) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		request, err := r.lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.MentorRequestPending {
			return fmt.Errorf("%w: request is %s, only pending requests can be accepted",
				apperrors.ErrInvalidState, request.Status)
		}

		var capacity, sessionsUsed int
		err = tx.QueryRow(ctx, `
			SELECT mentor_capacity, mentor_sessions_used
			FROM profiles WHERE id = $1 FOR UPDATE`, request.MentorID).
			Scan(&capacity, &sessionsUsed)
		if err != nil {
			return fmt.Errorf("failed to load mentor capacity: %w", err)
		}
		if sessionsUsed >= capacity {
			return fmt.Errorf("%w: mentor has no remaining capacity (%d of %d sessions used)",
				apperrors.ErrInvalidState, sessionsUsed, capacity)
		}

		return r.setStatus(ctx, tx, requestID, models.MentorRequestAccepted)
	})
}

func (r *mentorRequestRepository) CompleteWithSessionIncrement(ctx context.Context, requestID uuid.UUID) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		request, err := r.lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.MentorRequestAccepted {
			return fmt.Errorf("%w: request is %s, only accepted requests can be completed",
				apperrors.ErrInvalidState, request.Status)
		}

		if err := r.setStatus(ctx, tx, requestID, models.MentorRequestCompleted); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE profiles
			SET mentor_sessions_used = mentor_sessions_used + 1, updated_at = NOW()
			WHERE id = $1`, request.MentorID)
		if err != nil {
			return fmt.Errorf("failed to increment mentor sessions: %w", err)
		}
		return nil
	})
}

func (r *mentorRequestRepository) Cancel(ctx context.Context, requestID uuid.UUID) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		request, err := r.lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if request.IsTerminal() {
			return fmt.Errorf("%w: request is already %s",
				apperrors.ErrInvalidState, request.Status)
		}
		return r.setStatus(ctx, tx, requestID, models.MentorRequestCancelled)
	})
}

func (r *mentorRequestRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *mentorRequestRepository) lockRequest(ctx context.Context, tx pgx.Tx, requestID uuid.UUID) (*models.MentorRequest, error) {
	var request models.MentorRequest
	err := r.scanRequest(tx.QueryRow(ctx,
		`SELECT `+mentorRequestColumns+` FROM mentor_requests WHERE id = $1 FOR UPDATE`,
		requestID), &request)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock mentor request: %w", err)
	}
	return &request, nil
}

func (r *mentorRequestRepository) setStatus(ctx context.Context, tx pgx.Tx, requestID uuid.UUID, status string) error {
	_, err := tx.Exec(ctx,
		`UPDATE mentor_requests SET status = $2, updated_at = NOW() WHERE id = $1`,
		requestID, status)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	return nil
}

func (r *mentorRequestRepository) query(ctx context.Context, query string, args ...any) ([]*models.MentorRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentor requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.MentorRequest
	for rows.Next() {
		var request models.MentorRequest
		if err := r.scanRequest(rows, &request); err != nil {
			return nil, fmt.Errorf("failed to scan mentor request: %w", err)
		}
		requests = append(requests, &request)
	}
	return requests, rows.Err()
}

func (r *mentorRequestRepository) scanRequest(row pgx.Row, request *models.MentorRequest) error {
	return row.Scan(
		&request.ID,
		&request.RequesterID,
		&request.MentorID,
		&request.Status,
		&request.Topic,
		&request.DurationMinutes,
		&request.ScheduledAt,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
}

// Ensure mentorRequestRepository implements MentorRequestRepository at compile time.
var _ MentorRequestRepository = (*mentorRequestRepository)(nil)
