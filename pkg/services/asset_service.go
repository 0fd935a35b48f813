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

// CreateAssetInput carries the fields for publishing a new asset.
type CreateAssetInput struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	AssetType     string  `json:"asset_type"`
	Content       string  `json:"content"`
	Visibility    string  `json:"visibility"`
	IsAnonymous   bool    `json:"is_anonymous"`
	SourceRepoURL *string `json:"source_repo_url,omitempty"`
}

// UpdateAssetInput carries author-editable asset fields. Nil means unchanged.
type UpdateAssetInput struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Content       *string `json:"content,omitempty"`
	Status        *string `json:"status,omitempty"`
	Visibility    *string `json:"visibility,omitempty"`
	InArsenal     *bool   `json:"in_arsenal,omitempty"`
	IsAnonymous   *bool   `json:"is_anonymous,omitempty"`
	SourceRepoURL *string `json:"source_repo_url,omitempty"`
}

// AssetService manages reusable assets (prompts, skills, apps) and their
// reuse facts.
type AssetService interface {
	Create(ctx context.Context, viewer *Viewer, input CreateAssetInput) (*models.Asset, error)
	Get(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.Asset, error)
	List(ctx context.Context, viewer *Viewer, filter repositories.AssetFilter) ([]*models.Asset, error)
	Update(ctx context.Context, viewer *Viewer, id uuid.UUID, input UpdateAssetInput) (*models.Asset, error)
	// Verify marks the asset verified by the viewer. Authors cannot verify
	// their own assets.
	Verify(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.Asset, error)
	// RecordReuse records that the viewer reused the asset, optionally in a
	// project. Repeated calls for the same (asset, viewer) pair are no-ops;
	// the bool reports whether a new fact was recorded.
	RecordReuse(ctx context.Context, viewer *Viewer, id uuid.UUID, projectID *uuid.UUID) (bool, error)
}

type assetService struct {
	assetRepo    repositories.AssetRepository
	reuseRepo    repositories.ReuseRepository
	activityRepo repositories.ActivityRepository
	logger       *zap.Logger
}

// NewAssetService creates a new AssetService.
func NewAssetService(
	assetRepo repositories.AssetRepository,
	reuseRepo repositories.ReuseRepository,
	activityRepo repositories.ActivityRepository,
	logger *zap.Logger,
) AssetService {
	return &assetService{
		assetRepo:    assetRepo,
		reuseRepo:    reuseRepo,
		activityRepo: activityRepo,
		logger:       logger.Named("asset-service"),
	}
}

var _ AssetService = (*assetService)(nil)

func (s *assetService) Create(ctx context.Context, viewer *Viewer, input CreateAssetInput) (*models.Asset, error) {
	authorID, ok := viewer.ProfileID()
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}
	if input.Title == "" {
		return nil, apperrors.Validationf("title must not be empty")
	}
	if !models.ValidAssetType(input.AssetType) {
		return nil, apperrors.Validationf("invalid asset_type %q", input.AssetType)
	}
	if input.Visibility == "" {
		input.Visibility = models.VisibilityOrg
	}
	if !models.ValidVisibility(input.Visibility) {
		return nil, apperrors.Validationf("invalid visibility %q", input.Visibility)
	}

	asset := &models.Asset{
		Title:         input.Title,
		Description:   input.Description,
		AssetType:     input.AssetType,
		Content:       input.Content,
		Status:        models.AssetStatusInProgress,
		AuthorID:      authorID,
		Visibility:    input.Visibility,
		IsAnonymous:   input.IsAnonymous,
		SourceRepoURL: input.SourceRepoURL,
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}

	// Publishing an asset is a contribution; the event log drives the
	// adoption metrics. An asset without its event would undercount the
	// author, so the failure is surfaced rather than swallowed.
	event := &models.ActivityEvent{
		ProfileID:    authorID,
		ActivityType: models.ActivityContribution,
		SubjectID:    &asset.ID,
	}
	if err := s.activityRepo.Record(ctx, event); err != nil {
		return nil, fmt.Errorf("record contribution event: %w", err)
	}

	s.logger.Info("asset created",
		zap.String("asset_id", asset.ID.String()),
		zap.String("asset_type", asset.AssetType))
	return asset, nil
}

func (s *assetService) Get(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.Asset, error) {
	asset, err := s.assetRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(viewer, AssetResource(asset)) {
		return nil, apperrors.ErrNotFound
	}
	return asset, nil
}

func (s *assetService) List(ctx context.Context, viewer *Viewer, filter repositories.AssetFilter) ([]*models.Asset, error) {
	if filter.AssetType != "" && !models.ValidAssetType(filter.AssetType) {
		return nil, apperrors.Validationf("invalid asset_type %q", filter.AssetType)
	}

	assets, err := s.assetRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	visible := make([]*models.Asset, 0, len(assets))
	for _, asset := range assets {
		if CanView(viewer, AssetResource(asset)) {
			visible = append(visible, asset)
		}
	}
	return visible, nil
}

func (s *assetService) Update(ctx context.Context, viewer *Viewer, id uuid.UUID, input UpdateAssetInput) (*models.Asset, error) {
	profileID, ok := viewer.ProfileID()
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}

	asset, err := s.assetRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(viewer, AssetResource(asset)) {
		return nil, apperrors.ErrNotFound
	}
	if asset.AuthorID != profileID {
		return nil, fmt.Errorf("%w: only the author may edit an asset", apperrors.ErrNotAuthorized)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperrors.Validationf("title must not be empty")
		}
		asset.Title = *input.Title
	}
	if input.Description != nil {
		asset.Description = *input.Description
	}
	if input.Content != nil {
		asset.Content = *input.Content
	}
	if input.Status != nil {
		// Verified status is only reachable through Verify
		if *input.Status != models.AssetStatusInProgress && *input.Status != models.AssetStatusDeprecated {
			return nil, apperrors.Validationf("invalid status %q", *input.Status)
		}
		asset.Status = *input.Status
	}
	if input.Visibility != nil {
		if !models.ValidVisibility(*input.Visibility) {
			return nil, apperrors.Validationf("invalid visibility %q", *input.Visibility)
		}
		asset.Visibility = *input.Visibility
	}
	if input.InArsenal != nil {
		asset.InArsenal = *input.InArsenal
	}
	if input.IsAnonymous != nil {
		asset.IsAnonymous = *input.IsAnonymous
	}
	if input.SourceRepoURL != nil {
		asset.SourceRepoURL = input.SourceRepoURL
	}

	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("update asset: %w", err)
	}
	return asset, nil
}

func (s *assetService) Verify(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.Asset, error) {
	profileID, ok := viewer.ProfileID()
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}

	asset, err := s.assetRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(viewer, AssetResource(asset)) {
		return nil, apperrors.ErrNotFound
	}
	if asset.AuthorID == profileID {
		return nil, fmt.Errorf("%w: authors cannot verify their own assets", apperrors.ErrNotAuthorized)
	}
	if asset.Status == models.AssetStatusVerified {
		return nil, fmt.Errorf("%w: asset is already verified", apperrors.ErrInvalidState)
	}

	now := time.Now()
	asset.Status = models.AssetStatusVerified
	asset.VerifiedBy = &profileID
	asset.VerifiedAt = &now

	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("verify asset: %w", err)
	}

	// Verification counts as peer support
	event := &models.ActivityEvent{
		ProfileID:    profileID,
		ActivityType: models.ActivitySupport,
		SubjectID:    &asset.ID,
	}
	if err := s.activityRepo.Record(ctx, event); err != nil {
		return nil, fmt.Errorf("record support event: %w", err)
	}

	s.logger.Info("asset verified", zap.String("asset_id", asset.ID.String()))
	return asset, nil
}

func (s *assetService) RecordReuse(ctx context.Context, viewer *Viewer, id uuid.UUID, projectID *uuid.UUID) (bool, error) {
	profileID, ok := viewer.ProfileID()
	if !ok {
		return false, apperrors.ErrNotAuthenticated
	}

	asset, err := s.assetRepo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if !CanView(viewer, AssetResource(asset)) {
		return false, apperrors.ErrNotFound
	}

	recorded, err := s.reuseRepo.Record(ctx, &models.AssetReuse{
		AssetID:   asset.ID,
		UserID:    profileID,
		ProjectID: projectID,
	})
	if err != nil {
		return false, fmt.Errorf("record reuse: %w", err)
	}
	if !recorded {
		return false, nil
	}

	event := &models.ActivityEvent{
		ProfileID:    profileID,
		ActivityType: models.ActivityReuse,
		SubjectID:    &asset.ID,
	}
	if err := s.activityRepo.Record(ctx, event); err != nil {
		return false, fmt.Errorf("record reuse event: %w", err)
	}
	return true, nil
}
