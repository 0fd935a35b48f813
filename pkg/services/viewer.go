// Package services contains the business logic for hackcentral-engine.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hackcentral/engine/pkg/apperrors"
	"github.com/hackcentral/engine/pkg/auth"
	"github.com/hackcentral/engine/pkg/models"
	"github.com/hackcentral/engine/pkg/repositories"
)

// Viewer is the resolved identity of the caller, threaded explicitly into
// every query and mutation instead of being re-derived from ambient request
// context. A nil *Viewer is an anonymous caller. A non-nil Viewer with a nil
// Profile is authenticated but has not provisioned a profile yet.
type Viewer struct {
	// Subject is the external-auth subject id from the JWT.
	Subject string
	// Profile is the viewer's profile document, nil before first upsert.
	Profile *models.Profile
}

// ProfileID returns the viewer's profile id, or false when the viewer has no
// profile document yet.
func (v *Viewer) ProfileID() (uuid.UUID, bool) {
	if v == nil || v.Profile == nil {
		return uuid.Nil, false
	}
	return v.Profile.ID, true
}

// IsAuthenticated reports whether the viewer carries any authenticated identity.
func (v *Viewer) IsAuthenticated() bool {
	return v != nil && v.Subject != ""
}

// ViewerResolver resolves the caller's claims into a Viewer.
type ViewerResolver interface {
	// Resolve returns the viewer for the request context. Anonymous
	// requests resolve to nil, nil.
	Resolve(ctx context.Context) (*Viewer, error)
	// RequireViewer resolves the viewer and returns ErrNotAuthenticated for
	// anonymous requests. The viewer may still lack a profile.
	RequireViewer(ctx context.Context) (*Viewer, error)
	// RequireProfile resolves the viewer and returns ErrNotAuthenticated
	// unless the viewer is authenticated and has a profile document.
	RequireProfile(ctx context.Context) (*Viewer, error)
}

type viewerResolver struct {
	profileRepo repositories.ProfileRepository
}

// NewViewerResolver creates a ViewerResolver backed by the profile repository.
func NewViewerResolver(profileRepo repositories.ProfileRepository) ViewerResolver {
	return &viewerResolver{profileRepo: profileRepo}
}

func (r *viewerResolver) Resolve(ctx context.Context) (*Viewer, error) {
	subject, ok := auth.Subject(ctx)
	if !ok {
		return nil, nil
	}

	profile, err := r.profileRepo.GetByClerkUserID(ctx, subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Authenticated, no profile document yet
			return &Viewer{Subject: subject}, nil
		}
		return nil, fmt.Errorf("resolve viewer: %w", err)
	}

	return &Viewer{Subject: subject, Profile: profile}, nil
}

func (r *viewerResolver) RequireViewer(ctx context.Context) (*Viewer, error) {
	viewer, err := r.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAuthenticated() {
		return nil, apperrors.ErrNotAuthenticated
	}
	return viewer, nil
}

func (r *viewerResolver) RequireProfile(ctx context.Context) (*Viewer, error) {
	viewer, err := r.RequireViewer(ctx)
	if err != nil {
		return nil, err
	}
	if viewer.Profile == nil {
		return nil, fmt.Errorf("%w: no profile for subject", apperrors.ErrNotAuthenticated)
	}
	return viewer, nil
}

// Ensure viewerResolver implements ViewerResolver at compile time.
var _ ViewerResolver = (*viewerResolver)(nil)
