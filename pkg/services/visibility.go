package services

import (
	"github.com/google/uuid"

	"github.com/hackcentral/engine/pkg/models"
)

// VisibleResource is the shape every readable resource reduces to for the
// visibility check. Each resource type (profile, asset, project) previously
// carried its own copy of this logic; the single predicate keeps the copies
// from drifting.
type VisibleResource struct {
	// Visibility is one of models.VisibilityPrivate/Org/Public.
	Visibility string
	// OwnerID is the owning profile id.
	OwnerID uuid.UUID
	// IsMember reports project membership for project-shaped resources.
	// Nil for resources without a membership concept.
	IsMember func() bool
}

// CanView decides whether the viewer may read (or derive from) the resource.
// Precedence:
//  1. public resources are visible to everyone, anonymous included.
//  2. org resources are visible to any authenticated viewer.
//  3. private resources are visible to the owner, or to a recorded project
//     member for project-shaped resources.
//
// Callers must apply this before returning titles, author names, or derived
// counts. Query paths degrade to empty/zero results on false; mutation paths
// surface apperrors instead.
func CanView(viewer *Viewer, res VisibleResource) bool {
	switch res.Visibility {
	case models.VisibilityPublic:
		return true
	case models.VisibilityOrg:
		return viewer.IsAuthenticated()
	case models.VisibilityPrivate:
		profileID, ok := viewer.ProfileID()
		if !ok {
			// No profile id means the viewer cannot be owner or member
			return false
		}
		if profileID == res.OwnerID {
			return true
		}
		return res.IsMember != nil && res.IsMember()
	default:
		// Unknown visibility tag fails closed
		return false
	}
}

// ProfileResource adapts a profile for CanView.
func ProfileResource(p *models.Profile) VisibleResource {
	return VisibleResource{Visibility: p.Visibility, OwnerID: p.ID}
}

// AssetResource adapts an asset for CanView.
func AssetResource(a *models.Asset) VisibleResource {
	return VisibleResource{Visibility: a.Visibility, OwnerID: a.AuthorID}
}

// ProjectResource adapts a project for CanView. isMember may be nil when the
// caller has already ruled out membership.
func ProjectResource(p *models.Project, isMember func() bool) VisibleResource {
	return VisibleResource{Visibility: p.Visibility, OwnerID: p.OwnerID, IsMember: isMember}
}
