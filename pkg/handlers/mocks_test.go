package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hackcentral/engine/pkg/apperrors"
	"github.com/hackcentral/engine/pkg/models"
	"github.com/hackcentral/engine/pkg/repositories"
	"github.com/hackcentral/engine/pkg/services"
)

// mockResolver returns a fixed viewer; err takes precedence when set.
type mockResolver struct {
	viewer *services.Viewer
	err    error
}

func (m *mockResolver) Resolve(ctx context.Context) (*services.Viewer, error) {
	return m.viewer, m.err
}

func (m *mockResolver) RequireViewer(ctx context.Context) (*services.Viewer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !m.viewer.IsAuthenticated() {
		return nil, apperrors.ErrNotAuthenticated
	}
	return m.viewer, nil
}

func (m *mockResolver) RequireProfile(ctx context.Context) (*services.Viewer, error) {
	viewer, err := m.RequireViewer(ctx)
	if err != nil {
		return nil, err
	}
	if viewer.Profile == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	return viewer, nil
}

var _ services.ViewerResolver = (*mockResolver)(nil)

type mockProfileService struct {
	ensureFn func(ctx context.Context, subject, email, name string) (*models.Profile, error)
	getFn    func(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.Profile, error)
	listFn   func(ctx context.Context, viewer *services.Viewer) ([]*models.Profile, error)
	updateFn func(ctx context.Context, viewer *services.Viewer, input services.ProfileInput) (*models.Profile, error)
}

func (m *mockProfileService) EnsureProfile(ctx context.Context, subject, email, name string) (*models.Profile, error) {
	return m.ensureFn(ctx, subject, email, name)
}

func (m *mockProfileService) Get(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.Profile, error) {
	return m.getFn(ctx, viewer, id)
}

func (m *mockProfileService) List(ctx context.Context, viewer *services.Viewer) ([]*models.Profile, error) {
	return m.listFn(ctx, viewer)
}

func (m *mockProfileService) UpdateMe(ctx context.Context, viewer *services.Viewer, input services.ProfileInput) (*models.Profile, error) {
	return m.updateFn(ctx, viewer, input)
}

var _ services.ProfileService = (*mockProfileService)(nil)

type mockAssetService struct {
	createFn func(ctx context.Context, viewer *services.Viewer, input services.CreateAssetInput) (*models.Asset, error)
	getFn    func(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.Asset, error)
	listFn   func(ctx context.Context, viewer *services.Viewer, filter repositories.AssetFilter) ([]*models.Asset, error)
	updateFn func(ctx context.Context, viewer *services.Viewer, id uuid.UUID, input services.UpdateAssetInput) (*models.Asset, error)
	verifyFn func(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.Asset, error)
	reuseFn  func(ctx context.Context, viewer *services.Viewer, id uuid.UUID, projectID *uuid.UUID) (bool, error)
}

func (m *mockAssetService) Create(ctx context.Context, viewer *services.Viewer, input services.CreateAssetInput) (*models.Asset, error) {
	return m.createFn(ctx, viewer, input)
}

func (m *mockAssetService) Get(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.Asset, error) {
	return m.getFn(ctx, viewer, id)
}

func (m *mockAssetService) List(ctx context.Context, viewer *services.Viewer, filter repositories.AssetFilter) ([]*models.Asset, error) {
	return m.listFn(ctx, viewer, filter)
}

func (m *mockAssetService) Update(ctx context.Context, viewer *services.Viewer, id uuid.UUID, input services.UpdateAssetInput) (*models.Asset, error) {
	return m.updateFn(ctx, viewer, id, input)
}

func (m *mockAssetService) Verify(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.Asset, error) {
	return m.verifyFn(ctx, viewer, id)
}

func (m *mockAssetService) RecordReuse(ctx context.Context, viewer *services.Viewer, id uuid.UUID, projectID *uuid.UUID) (bool, error) {
	return m.reuseFn(ctx, viewer, id, projectID)
}

var _ services.AssetService = (*mockAssetService)(nil)

type mockMetricsService struct {
	adoptionFn      func(ctx context.Context, now time.Time) (*services.AdoptionSummary, error)
	contributorsFn  func(ctx context.Context, viewer *services.Viewer, now time.Time) ([]services.LeaderboardEntry, error)
	mentorsFn       func(ctx context.Context, viewer *services.Viewer, now time.Time) ([]services.LeaderboardEntry, error)
	reusedAssetsFn  func(ctx context.Context, viewer *services.Viewer, now time.Time) ([]services.LeaderboardEntry, error)
	graduationFn    func(ctx context.Context, viewer *services.Viewer, minReuses int) ([]services.GraduationCandidate, error)
	concentrationFn func(ctx context.Context, now time.Time) (float64, error)
}

func (m *mockMetricsService) AdoptionSummary(ctx context.Context, now time.Time) (*services.AdoptionSummary, error) {
	return m.adoptionFn(ctx, now)
}

func (m *mockMetricsService) TopContributors(ctx context.Context, viewer *services.Viewer, now time.Time) ([]services.LeaderboardEntry, error) {
	return m.contributorsFn(ctx, viewer, now)
}

func (m *mockMetricsService) TopMentors(ctx context.Context, viewer *services.Viewer, now time.Time) ([]services.LeaderboardEntry, error) {
	return m.mentorsFn(ctx, viewer, now)
}

func (m *mockMetricsService) MostReusedAssets(ctx context.Context, viewer *services.Viewer, now time.Time) ([]services.LeaderboardEntry, error) {
	return m.reusedAssetsFn(ctx, viewer, now)
}

func (m *mockMetricsService) GraduationCandidates(ctx context.Context, viewer *services.Viewer, minReuses int) ([]services.GraduationCandidate, error) {
	return m.graduationFn(ctx, viewer, minReuses)
}

func (m *mockMetricsService) ContributionGini(ctx context.Context, now time.Time) (float64, error) {
	return m.concentrationFn(ctx, now)
}

var _ services.MetricsService = (*mockMetricsService)(nil)

type mockProjectService struct {
	createFn        func(ctx context.Context, viewer *services.Viewer, input services.CreateProjectInput) (*models.Project, error)
	getFn           func(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.Project, error)
	listFn          func(ctx context.Context, viewer *services.Viewer) ([]*models.Project, error)
	updateFn        func(ctx context.Context, viewer *services.Viewer, id uuid.UUID, input services.UpdateProjectInput) (*models.Project, error)
	addMemberFn     func(ctx context.Context, viewer *services.Viewer, projectID, profileID uuid.UUID) error
	removeMemberFn  func(ctx context.Context, viewer *services.Viewer, projectID, profileID uuid.UUID) error
	listMembersFn   func(ctx context.Context, viewer *services.Viewer, projectID uuid.UUID) ([]*models.ProjectMember, error)
}

func (m *mockProjectService) Create(ctx context.Context, viewer *services.Viewer, input services.CreateProjectInput) (*models.Project, error) {
	return m.createFn(ctx, viewer, input)
}

func (m *mockProjectService) Get(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.Project, error) {
	return m.getFn(ctx, viewer, id)
}

func (m *mockProjectService) List(ctx context.Context, viewer *services.Viewer) ([]*models.Project, error) {
	return m.listFn(ctx, viewer)
}

func (m *mockProjectService) Update(ctx context.Context, viewer *services.Viewer, id uuid.UUID, input services.UpdateProjectInput) (*models.Project, error) {
	return m.updateFn(ctx, viewer, id, input)
}

func (m *mockProjectService) AddMember(ctx context.Context, viewer *services.Viewer, projectID, profileID uuid.UUID) error {
	return m.addMemberFn(ctx, viewer, projectID, profileID)
}

func (m *mockProjectService) RemoveMember(ctx context.Context, viewer *services.Viewer, projectID, profileID uuid.UUID) error {
	return m.removeMemberFn(ctx, viewer, projectID, profileID)
}

func (m *mockProjectService) ListMembers(ctx context.Context, viewer *services.Viewer, projectID uuid.UUID) ([]*models.ProjectMember, error) {
	return m.listMembersFn(ctx, viewer, projectID)
}

var _ services.ProjectService = (*mockProjectService)(nil)

type mockMentorshipService struct {
	createFn   func(ctx context.Context, viewer *services.Viewer, input services.CreateMentorRequestInput) (*models.MentorRequest, error)
	getFn      func(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.MentorRequest, error)
	listFn     func(ctx context.Context, viewer *services.Viewer) ([]*models.MentorRequest, error)
	acceptFn   func(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.MentorRequest, error)
	cancelFn   func(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.MentorRequest, error)
	completeFn func(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.MentorRequest, error)
}

func (m *mockMentorshipService) CreateRequest(ctx context.Context, viewer *services.Viewer, input services.CreateMentorRequestInput) (*models.MentorRequest, error) {
	return m.createFn(ctx, viewer, input)
}

func (m *mockMentorshipService) Get(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.MentorRequest, error) {
	return m.getFn(ctx, viewer, id)
}

func (m *mockMentorshipService) ListMine(ctx context.Context, viewer *services.Viewer) ([]*models.MentorRequest, error) {
	return m.listFn(ctx, viewer)
}

func (m *mockMentorshipService) Accept(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.MentorRequest, error) {
	return m.acceptFn(ctx, viewer, id)
}

func (m *mockMentorshipService) Cancel(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.MentorRequest, error) {
	return m.cancelFn(ctx, viewer, id)
}

func (m *mockMentorshipService) Complete(ctx context.Context, viewer *services.Viewer, id uuid.UUID) (*models.MentorRequest, error) {
	return m.completeFn(ctx, viewer, id)
}

var _ services.MentorshipService = (*mockMentorshipService)(nil)

// jsonBody encodes v for use as a request body.
func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(data)
}

// authedViewer builds a viewer with a profile for handler tests.
func authedViewer(subject string) *services.Viewer {
	return &services.Viewer{
		Subject: subject,
		Profile: &models.Profile{
			ID:          uuid.New(),
			ClerkUserID: subject,
			DisplayName: subject,
			Visibility:  models.VisibilityOrg,
		},
	}
}
