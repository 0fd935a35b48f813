package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hackcentral/engine/pkg/models"
)

func testViewer(profileID uuid.UUID) *Viewer {
	return &Viewer{
		Subject: "user_" + profileID.String()[:8],
		Profile: &models.Profile{ID: profileID},
	}
}

func TestCanView_PublicVisibleToEveryone(t *testing.T) {
	ownerID := uuid.New()
	res := VisibleResource{Visibility: models.VisibilityPublic, OwnerID: ownerID}

	assert.True(t, CanView(nil, res), "anonymous viewer")
	assert.True(t, CanView(&Viewer{Subject: "user_x"}, res), "authenticated, no profile")
	assert.True(t, CanView(testViewer(uuid.New()), res), "authenticated non-owner")
	assert.True(t, CanView(testViewer(ownerID), res), "owner")
}

func TestCanView_OrgRequiresAuthentication(t *testing.T) {
	res := VisibleResource{Visibility: models.VisibilityOrg, OwnerID: uuid.New()}

	assert.False(t, CanView(nil, res), "anonymous viewer")
	assert.True(t, CanView(&Viewer{Subject: "user_x"}, res), "authenticated, no profile")
	assert.True(t, CanView(testViewer(uuid.New()), res), "any authenticated viewer")
}

func TestCanView_PrivateOwnerOnly(t *testing.T) {
	ownerID := uuid.New()
	res := VisibleResource{Visibility: models.VisibilityPrivate, OwnerID: ownerID}

	assert.False(t, CanView(nil, res), "anonymous viewer")
	assert.False(t, CanView(&Viewer{Subject: "user_x"}, res),
		"authenticated viewer without profile cannot be owner")
	assert.False(t, CanView(testViewer(uuid.New()), res), "authenticated non-owner")
	assert.True(t, CanView(testViewer(ownerID), res), "owner")
}

func TestCanView_PrivateProjectMember(t *testing.T) {
	ownerID := uuid.New()
	memberID := uuid.New()

	res := VisibleResource{
		Visibility: models.VisibilityPrivate,
		OwnerID:    ownerID,
		IsMember:   func() bool { return true },
	}
	assert.True(t, CanView(testViewer(memberID), res), "recorded project member")

	res.IsMember = func() bool { return false }
	assert.False(t, CanView(testViewer(memberID), res), "non-member")

	// Membership check never reached for viewers without a profile
	res.IsMember = func() bool {
		t.Fatal("membership check should not run for profile-less viewer")
		return true
	}
	assert.False(t, CanView(&Viewer{Subject: "user_x"}, res))
}

func TestCanView_UnknownVisibilityFailsClosed(t *testing.T) {
	res := VisibleResource{Visibility: "everyone", OwnerID: uuid.New()}
	assert.False(t, CanView(testViewer(uuid.New()), res))
}

func TestCanView_ResourceAdapters(t *testing.T) {
	ownerID := uuid.New()

	profile := &models.Profile{ID: ownerID, Visibility: models.VisibilityPrivate}
	assert.True(t, CanView(testViewer(ownerID), ProfileResource(profile)))
	assert.False(t, CanView(testViewer(uuid.New()), ProfileResource(profile)))

	asset := &models.Asset{AuthorID: ownerID, Visibility: models.VisibilityOrg}
	assert.True(t, CanView(testViewer(uuid.New()), AssetResource(asset)))
	assert.False(t, CanView(nil, AssetResource(asset)))

	project := &models.Project{OwnerID: ownerID, Visibility: models.VisibilityPrivate}
	assert.True(t, CanView(testViewer(ownerID), ProjectResource(project, nil)))
	assert.False(t, CanView(testViewer(uuid.New()), ProjectResource(project, nil)))
}
