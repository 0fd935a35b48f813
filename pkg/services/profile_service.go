package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/apperrors"
	"github.com/hackcentral/engine/pkg/models"
	"github.com/hackcentral/engine/pkg/repositories"
)

// ProfileInput carries the owner-editable profile fields. Nil pointers mean
// "leave unchanged" on update.
type ProfileInput struct {
	DisplayName     *string  `json:"display_name,omitempty"`
	ExperienceLevel *string  `json:"experience_level,omitempty"`
	MentorCapacity  *int     `json:"mentor_capacity,omitempty"`
	Visibility      *string  `json:"visibility,omitempty"`
	Skills          []string `json:"skills,omitempty"`
}

// ProfileService manages community member profiles.
type ProfileService interface {
	// EnsureProfile upserts the caller's profile from their token claims.
	// First call provisions the row; later calls refresh email and return
	// the existing row.
	EnsureProfile(ctx context.Context, subject, email, name string) (*models.Profile, error)
	Get(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.Profile, error)
	// List returns the profiles the viewer may see. Invisible profiles are
	// silently dropped.
	List(ctx context.Context, viewer *Viewer) ([]*models.Profile, error)
	UpdateMe(ctx context.Context, viewer *Viewer, input ProfileInput) (*models.Profile, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	logger      *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profileRepo repositories.ProfileRepository, logger *zap.Logger) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		logger:      logger.Named("profile-service"),
	}
}

var _ ProfileService = (*profileService)(nil)

func (s *profileService) EnsureProfile(ctx context.Context, subject, email, name string) (*models.Profile, error) {
	if subject == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	if name == "" {
		name = email
	}

	profile := &models.Profile{
		ClerkUserID:     subject,
		Email:           email,
		DisplayName:     name,
		ExperienceLevel: models.ExperienceBeginner,
		Visibility:      models.VisibilityOrg,
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	s.logger.Debug("profile ensured", zap.String("profile_id", profile.ID.String()))
	return profile, nil
}

func (s *profileService) Get(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Invisible and missing are indistinguishable to the caller
	if !CanView(viewer, ProfileResource(profile)) {
		return nil, apperrors.ErrNotFound
	}
	return profile, nil
}

func (s *profileService) List(ctx context.Context, viewer *Viewer) ([]*models.Profile, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	visible := make([]*models.Profile, 0, len(profiles))
	for _, profile := range profiles {
		if CanView(viewer, ProfileResource(profile)) {
			visible = append(visible, profile)
		}
	}
	return visible, nil
}

func (s *profileService) UpdateMe(ctx context.Context, viewer *Viewer, input ProfileInput) (*models.Profile, error) {
	if viewer == nil || viewer.Profile == nil {
		return nil, apperrors.ErrNotAuthenticated
	}

	profile, err := s.profileRepo.GetByID(ctx, viewer.Profile.ID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		if *input.DisplayName == "" {
			return nil, apperrors.Validationf("display_name must not be empty")
		}
		profile.DisplayName = *input.DisplayName
	}
	if input.ExperienceLevel != nil {
		if !models.ValidExperienceLevel(*input.ExperienceLevel) {
			return nil, apperrors.Validationf("invalid experience_level %q", *input.ExperienceLevel)
		}
		profile.ExperienceLevel = *input.ExperienceLevel
	}
	if input.MentorCapacity != nil {
		if *input.MentorCapacity < 0 {
			return nil, apperrors.Validationf("mentor_capacity must not be negative")
		}
		profile.MentorCapacity = *input.MentorCapacity
	}
	if input.Visibility != nil {
		if !models.ValidVisibility(*input.Visibility) {
			return nil, apperrors.Validationf("invalid visibility %q", *input.Visibility)
		}
		profile.Visibility = *input.Visibility
	}
	if input.Skills != nil {
		profile.Skills = input.Skills
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}
