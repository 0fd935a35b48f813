package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hackcentral/engine/pkg/database"
	"github.com/hackcentral/engine/pkg/models"
)

// ReuseRepository records and reads asset reuse events. Rows are append-only;
// duplicate (asset, user) pairs are collapsed at insert time.
type ReuseRepository interface {
	// Record inserts a reuse event. Returns false when the same user already
	// recorded a reuse of the asset (the insert is a no-op).
	Record(ctx context.Context, reuse *models.AssetReuse) (bool, error)
	ListAll(ctx context.Context) ([]*models.AssetReuse, error)
	ListSince(ctx context.Context, since time.Time) ([]*models.AssetReuse, error)
	CountByAsset(ctx context.Context, assetID uuid.UUID) (int, error)
}

// reuseRepository implements ReuseRepository using PostgreSQL.
type reuseRepository struct {
	db *database.DB
}

// NewReuseRepository creates a new reuse repository.
func NewReuseRepository(db *database.DB) ReuseRepository {
	return &reuseRepository{db: db}
}

func (r *reuseRepository) Record(ctx context.Context, reuse *models.AssetReuse) (bool, error) {
	if reuse.ID == uuid.Nil {
		reuse.ID = uuid.New()
	}
	reuse.CreatedAt = time.Now()

	query := `
		INSERT INTO asset_reuses (id, asset_id, user_id, project_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (asset_id, user_id) DO NOTHING`

	result, err := r.db.Exec(ctx, query,
		reuse.ID,
		reuse.AssetID,
		reuse.UserID,
		reuse.ProjectID,
		reuse.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record reuse: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *reuseRepository) ListAll(ctx context.Context) ([]*models.AssetReuse, error) {
	return r.query(ctx, `
		SELECT id, asset_id, user_id, project_id, created_at
		FROM asset_reuses ORDER BY created_at`)
}

func (r *reuseRepository) ListSince(ctx context.Context, since time.Time) ([]*models.AssetReuse, error) {
	return r.query(ctx, `
		SELECT id, asset_id, user_id, project_id, created_at
		FROM asset_reuses WHERE created_at >= $1 ORDER BY created_at`, since)
}

func (r *reuseRepository) CountByAsset(ctx context.Context, assetID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM asset_reuses WHERE asset_id = $1`, assetID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reuses: %w", err)
	}
	return count, nil
}

func (r *reuseRepository) query(ctx context.Context, query string, args ...any) ([]*models.AssetReuse, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reuses: %w", err)
	}
	defer rows.Close()

	var reuses []*models.AssetReuse
	for rows.Next() {
		var reuse models.AssetReuse
		if err := rows.Scan(&reuse.ID, &reuse.AssetID, &reuse.UserID, &reuse.ProjectID, &reuse.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reuse: %w", err)
		}
		reuses = append(reuses, &reuse)
	}
	return reuses, rows.Err()
}

// Ensure reuseRepository implements ReuseRepository at compile time.
var _ ReuseRepository = (*reuseRepository)(nil)
