package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/apperrors"
	"github.com/hackcentral/engine/pkg/models"
	"github.com/hackcentral/engine/pkg/repositories"
)

type assetFixture struct {
	profiles   *mockProfileRepo
	assets     *mockAssetRepo
	reuses     *mockReuseRepo
	activities *mockActivityRepo
	service    AssetService
}

func newAssetFixture(t *testing.T) *assetFixture {
	t.Helper()
	profiles := newMockProfileRepo()
	assets := newMockAssetRepo()
	reuses := &mockReuseRepo{}
	activities := &mockActivityRepo{}
	return &assetFixture{
		profiles:   profiles,
		assets:     assets,
		reuses:     reuses,
		activities: activities,
		service:    NewAssetService(assets, reuses, activities, zap.NewNop()),
	}
}

func (f *assetFixture) viewer(subject string) *Viewer {
	profile := f.profiles.add(&models.Profile{
		ClerkUserID: subject,
		DisplayName: subject,
		Visibility:  models.VisibilityOrg,
	})
	return &Viewer{Subject: subject, Profile: profile}
}

func TestAssetCreateRecordsContribution(t *testing.T) {
	f := newAssetFixture(t)
	author := f.viewer("user_author")

	asset, err := f.service.Create(context.Background(), author, CreateAssetInput{
		Title:     "Standup summarizer",
		AssetType: models.AssetTypePrompt,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusInProgress, asset.Status)
	assert.Equal(t, models.VisibilityOrg, asset.Visibility)

	require.Len(t, f.activities.events, 1)
	assert.Equal(t, models.ActivityContribution, f.activities.events[0].ActivityType)
	assert.Equal(t, author.Profile.ID, f.activities.events[0].ProfileID)
}

func TestAssetCreateValidation(t *testing.T) {
	f := newAssetFixture(t)
	author := f.viewer("user_author")
	ctx := context.Background()

	_, err := f.service.Create(ctx, author, CreateAssetInput{AssetType: models.AssetTypePrompt})
	assert.True(t, apperrors.IsValidation(err), "missing title should be rejected")

	_, err = f.service.Create(ctx, author, CreateAssetInput{Title: "X", AssetType: "binary"})
	assert.True(t, apperrors.IsValidation(err), "unknown asset type should be rejected")

	_, err = f.service.Create(ctx, nil, CreateAssetInput{Title: "X", AssetType: models.AssetTypePrompt})
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestAssetVerifyRejectsSelfVerification(t *testing.T) {
	f := newAssetFixture(t)
	author := f.viewer("user_author")
	reviewer := f.viewer("user_reviewer")
	ctx := context.Background()

	asset, err := f.service.Create(ctx, author, CreateAssetInput{
		Title: "Standup summarizer", AssetType: models.AssetTypePrompt,
	})
	require.NoError(t, err)

	_, err = f.service.Verify(ctx, author, asset.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)

	verified, err := f.service.Verify(ctx, reviewer, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusVerified, verified.Status)
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, reviewer.Profile.ID, *verified.VerifiedBy)
	assert.NotNil(t, verified.VerifiedAt)

	// Re-verifying is a state error.
	_, err = f.service.Verify(ctx, reviewer, asset.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestAssetUpdateCannotSetVerifiedDirectly(t *testing.T) {
	f := newAssetFixture(t)
	author := f.viewer("user_author")
	ctx := context.Background()

	asset, err := f.service.Create(ctx, author, CreateAssetInput{
		Title: "Standup summarizer", AssetType: models.AssetTypePrompt,
	})
	require.NoError(t, err)

	_, err = f.service.Update(ctx, author, asset.ID, UpdateAssetInput{
		Status: strPtr(models.AssetStatusVerified),
	})
	assert.True(t, apperrors.IsValidation(err))

	updated, err := f.service.Update(ctx, author, asset.ID, UpdateAssetInput{
		Status: strPtr(models.AssetStatusDeprecated),
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusDeprecated, updated.Status)
}

func TestAssetUpdateIsAuthorOnly(t *testing.T) {
	f := newAssetFixture(t)
	author := f.viewer("user_author")
	other := f.viewer("user_other")
	ctx := context.Background()

	asset, err := f.service.Create(ctx, author, CreateAssetInput{
		Title: "Standup summarizer", AssetType: models.AssetTypePrompt,
	})
	require.NoError(t, err)

	_, err = f.service.Update(ctx, other, asset.ID, UpdateAssetInput{Title: strPtr("Hijacked")})
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)
}

func TestRecordReuseIsIdempotent(t *testing.T) {
	f := newAssetFixture(t)
	author := f.viewer("user_author")
	user := f.viewer("user_reuser")
	ctx := context.Background()

	asset, err := f.service.Create(ctx, author, CreateAssetInput{
		Title: "Standup summarizer", AssetType: models.AssetTypePrompt,
	})
	require.NoError(t, err)

	recorded, err := f.service.RecordReuse(ctx, user, asset.ID, nil)
	require.NoError(t, err)
	assert.True(t, recorded)

	// The same (asset, user) pair collapses; no second reuse event either.
	recorded, err = f.service.RecordReuse(ctx, user, asset.ID, nil)
	require.NoError(t, err)
	assert.False(t, recorded)

	reuseEvents := 0
	for _, event := range f.activities.events {
		if event.ActivityType == models.ActivityReuse {
			reuseEvents++
		}
	}
	assert.Equal(t, 1, reuseEvents)
	assert.Len(t, f.reuses.reuses, 1)
}

func TestPrivateAssetHiddenFromOthers(t *testing.T) {
	f := newAssetFixture(t)
	author := f.viewer("user_author")
	other := f.viewer("user_other")
	ctx := context.Background()

	asset, err := f.service.Create(ctx, author, CreateAssetInput{
		Title:      "Secret prompt",
		AssetType:  models.AssetTypePrompt,
		Visibility: models.VisibilityPrivate,
	})
	require.NoError(t, err)

	_, err = f.service.Get(ctx, other, asset.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Reuse of an invisible asset is the same ErrNotFound, not a hint that
	// the asset exists.
	_, err = f.service.RecordReuse(ctx, other, asset.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := f.service.Get(ctx, author, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.ID, got.ID)
}

func TestAssetListAppliesFilterAndVisibility(t *testing.T) {
	f := newAssetFixture(t)
	author := f.viewer("user_author")
	ctx := context.Background()

	_, err := f.service.Create(ctx, author, CreateAssetInput{
		Title: "Prompt A", AssetType: models.AssetTypePrompt,
	})
	require.NoError(t, err)
	app, err := f.service.Create(ctx, author, CreateAssetInput{
		Title: "App B", AssetType: models.AssetTypeApp,
	})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, author, CreateAssetInput{
		Title: "Hidden C", AssetType: models.AssetTypeApp, Visibility: models.VisibilityPrivate,
	})
	require.NoError(t, err)

	// Anonymous viewer: org assets are invisible too.
	visible, err := f.service.List(ctx, nil, repositories.AssetFilter{})
	require.NoError(t, err)
	assert.Empty(t, visible)

	other := f.viewer("user_other")
	visible, err = f.service.List(ctx, other, repositories.AssetFilter{AssetType: models.AssetTypeApp})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, app.ID, visible[0].ID)
}
