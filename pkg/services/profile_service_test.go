package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/apperrors"
	"github.com/hackcentral/engine/pkg/models"
)

func intPtr(n int) *int { return &n }

func TestEnsureProfileProvisionsOnFirstLogin(t *testing.T) {
	profiles := newMockProfileRepo()
	service := NewProfileService(profiles, zap.NewNop())
	ctx := context.Background()

	profile, err := service.EnsureProfile(ctx, "user_123", "kai@example.com", "Kai")
	require.NoError(t, err)
	assert.Equal(t, "Kai", profile.DisplayName)
	assert.Equal(t, models.ExperienceBeginner, profile.ExperienceLevel)
	assert.Equal(t, models.VisibilityOrg, profile.Visibility)

	// Second login returns the existing row, not a duplicate.
	again, err := service.EnsureProfile(ctx, "user_123", "kai@new.example.com", "Kai")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
	assert.Len(t, profiles.profiles, 1)
}

func TestEnsureProfileFallsBackToEmailForName(t *testing.T) {
	service := NewProfileService(newMockProfileRepo(), zap.NewNop())

	profile, err := service.EnsureProfile(context.Background(), "user_123", "kai@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "kai@example.com", profile.DisplayName)
}

func TestUpdateMeValidatesFields(t *testing.T) {
	profiles := newMockProfileRepo()
	service := NewProfileService(profiles, zap.NewNop())
	ctx := context.Background()

	profile := profiles.add(&models.Profile{
		ClerkUserID: "user_123",
		DisplayName: "Kai",
		Visibility:  models.VisibilityOrg,
	})
	viewer := &Viewer{Subject: "user_123", Profile: profile}

	_, err := service.UpdateMe(ctx, viewer, ProfileInput{ExperienceLevel: strPtr("wizard")})
	assert.True(t, apperrors.IsValidation(err))

	_, err = service.UpdateMe(ctx, viewer, ProfileInput{MentorCapacity: intPtr(-1)})
	assert.True(t, apperrors.IsValidation(err))

	_, err = service.UpdateMe(ctx, viewer, ProfileInput{Visibility: strPtr("friends")})
	assert.True(t, apperrors.IsValidation(err))

	updated, err := service.UpdateMe(ctx, viewer, ProfileInput{
		ExperienceLevel: strPtr(models.ExperiencePractitioner),
		MentorCapacity:  intPtr(3),
		Skills:          []string{"rag", "evals"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ExperiencePractitioner, updated.ExperienceLevel)
	assert.Equal(t, 3, updated.MentorCapacity)
	assert.Equal(t, []string{"rag", "evals"}, updated.Skills)
}

func TestUpdateMeRequiresProfile(t *testing.T) {
	service := NewProfileService(newMockProfileRepo(), zap.NewNop())

	_, err := service.UpdateMe(context.Background(), &Viewer{Subject: "user_new"}, ProfileInput{})
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	_, err = service.UpdateMe(context.Background(), nil, ProfileInput{})
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestProfileGetAppliesVisibility(t *testing.T) {
	profiles := newMockProfileRepo()
	service := NewProfileService(profiles, zap.NewNop())
	ctx := context.Background()

	hidden := profiles.add(&models.Profile{
		ClerkUserID: "user_hidden",
		DisplayName: "Hidden",
		Visibility:  models.VisibilityPrivate,
	})
	open := profiles.add(&models.Profile{
		ClerkUserID: "user_open",
		DisplayName: "Open",
		Visibility:  models.VisibilityPublic,
	})

	// Anonymous viewer sees public only.
	_, err := service.Get(ctx, nil, hidden.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	got, err := service.Get(ctx, nil, open.ID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, got.ID)

	visible, err := service.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, open.ID, visible[0].ID)

	// Owners always see themselves.
	owner := &Viewer{Subject: "user_hidden", Profile: hidden}
	got, err = service.Get(ctx, owner, hidden.ID)
	require.NoError(t, err)
	assert.Equal(t, hidden.ID, got.ID)
}
