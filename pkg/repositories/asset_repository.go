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

const assetColumns = `id, title, description, asset_type, content, status, author_id,
	verified_by, verified_at, visibility, in_arsenal, is_anonymous, source_repo_url,
	created_at, updated_at`

// AssetFilter narrows List results. Zero values mean "no filter".
type AssetFilter struct {
	AssetType   string
	Status      string
	ArsenalOnly bool
}

// AssetRepository defines the interface for asset data access.
type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	Get(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]*models.Asset, error)
	Update(ctx context.Context, asset *models.Asset) error
	Count(ctx context.Context) (int, error)
}

// assetRepository implements AssetRepository using PostgreSQL.
type assetRepository struct {
	db *database.DB
}

// NewAssetRepository creates a new asset repository.
func NewAssetRepository(db *database.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *models.Asset) error {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}

	now := time.Now()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	if asset.Status == "" {
		asset.Status = models.AssetStatusInProgress
	}
	if asset.Visibility == "" {
		asset.Visibility = models.VisibilityOrg
	}

	query := `
		INSERT INTO assets (id, title, description, asset_type, content, status, author_id,
			verified_by, verified_at, visibility, in_arsenal, is_anonymous, source_repo_url,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		asset.ID,
		asset.Title,
		asset.Description,
		asset.AssetType,
		asset.Content,
		asset.Status,
		asset.AuthorID,
		asset.VerifiedBy,
		asset.VerifiedAt,
		asset.Visibility,
		asset.InArsenal,
		asset.IsAnonymous,
		asset.SourceRepoURL,
		asset.CreatedAt,
		asset.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *assetRepository) Get(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	var asset models.Asset
	if err := r.scanAsset(r.db.QueryRow(ctx, query, id), &asset); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &asset, nil
}

func (r *assetRepository) List(ctx context.Context, filter AssetFilter) ([]*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE 1=1`
	var args []any

	if filter.AssetType != "" {
		args = append(args, filter.AssetType)
		query += fmt.Sprintf(" AND asset_type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.ArsenalOnly {
		query += " AND in_arsenal"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		var asset models.Asset
		if err := r.scanAsset(rows, &asset); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, &asset)
	}
	return assets, rows.Err()
}

func (r *assetRepository) Update(ctx context.Context, asset *models.Asset) error {
	asset.UpdatedAt = time.Now()

	query := `
		UPDATE assets
		SET title = $2, description = $3, content = $4, status = $5,
		    verified_by = $6, verified_at = $7, visibility = $8, in_arsenal = $9,
		    is_anonymous = $10, source_repo_url = $11, updated_at = $12
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		asset.ID,
		asset.Title,
		asset.Description,
		asset.Content,
		asset.Status,
		asset.VerifiedBy,
		asset.VerifiedAt,
		asset.Visibility,
		asset.InArsenal,
		asset.IsAnonymous,
		asset.SourceRepoURL,
		asset.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assetRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM assets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}
	return count, nil
}

func (r *assetRepository) scanAsset(row pgx.Row, asset *models.Asset) error {
	return row.Scan(
		&asset.ID,
		&asset.Title,
		&asset.Description,
		&asset.AssetType,
		&asset.Content,
		&asset.Status,
		&asset.AuthorID,
		&asset.VerifiedBy,
		&asset.VerifiedAt,
		&asset.Visibility,
		&asset.InArsenal,
		&asset.IsAnonymous,
		&asset.SourceRepoURL,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
}

// Ensure assetRepository implements AssetRepository at compile time.
var _ AssetRepository = (*assetRepository)(nil)
