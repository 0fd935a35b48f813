package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hackcentral/engine/pkg/apperrors"
	"github.com/hackcentral/engine/pkg/models"
	"github.com/hackcentral/engine/pkg/repositories"
)

// ============================================================================
// Mock repositories shared across service tests
// ============================================================================

type mockProfileRepo struct {
	profiles  map[uuid.UUID]*models.Profile
	bySubject map[string]*models.Profile
	upsertErr error
	updateErr error
	updated   []*models.Profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		profiles:  make(map[uuid.UUID]*models.Profile),
		bySubject: make(map[string]*models.Profile),
	}
}

func (m *mockProfileRepo) add(profile *models.Profile) *models.Profile {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	m.profiles[profile.ID] = profile
	if profile.ClerkUserID != "" {
		m.bySubject[profile.ClerkUserID] = profile
	}
	return profile
}

func (m *mockProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if existing, ok := m.bySubject[profile.ClerkUserID]; ok {
		existing.Email = profile.Email
		*profile = *existing
		return nil
	}
	m.add(profile)
	return nil
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, ok := m.profiles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return profile, nil
}

func (m *mockProfileRepo) GetByClerkUserID(ctx context.Context, clerkUserID string) (*models.Profile, error) {
	profile, ok := m.bySubject[clerkUserID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return profile, nil
}

func (m *mockProfileRepo) List(ctx context.Context) ([]*models.Profile, error) {
	result := make([]*models.Profile, 0, len(m.profiles))
	for _, profile := range m.profiles {
		result = append(result, profile)
	}
	return result, nil
}

func (m *mockProfileRepo) ListCreatedSince(ctx context.Context, since time.Time) ([]*models.Profile, error) {
	var result []*models.Profile
	for _, profile := range m.profiles {
		if !profile.CreatedAt.Before(since) {
			result = append(result, profile)
		}
	}
	return result, nil
}

func (m *mockProfileRepo) Count(ctx context.Context) (int, error) {
	return len(m.profiles), nil
}

func (m *mockProfileRepo) Update(ctx context.Context, profile *models.Profile) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.profiles[profile.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.profiles[profile.ID] = profile
	m.updated = append(m.updated, profile)
	return nil
}

var _ repositories.ProfileRepository = (*mockProfileRepo)(nil)

type mockAssetRepo struct {
	assets    map[uuid.UUID]*models.Asset
	order     []uuid.UUID
	createErr error
	updateErr error
}

func newMockAssetRepo() *mockAssetRepo {
	return &mockAssetRepo{assets: make(map[uuid.UUID]*models.Asset)}
}

func (m *mockAssetRepo) add(asset *models.Asset) *models.Asset {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	m.assets[asset.ID] = asset
	m.order = append(m.order, asset.ID)
	return asset
}

func (m *mockAssetRepo) Create(ctx context.Context, asset *models.Asset) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.add(asset)
	return nil
}

func (m *mockAssetRepo) Get(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	asset, ok := m.assets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return asset, nil
}

func (m *mockAssetRepo) List(ctx context.Context, filter repositories.AssetFilter) ([]*models.Asset, error) {
	var result []*models.Asset
	for _, id := range m.order {
		asset := m.assets[id]
		if filter.AssetType != "" && asset.AssetType != filter.AssetType {
			continue
		}
		if filter.Status != "" && asset.Status != filter.Status {
			continue
		}
		if filter.ArsenalOnly && !asset.InArsenal {
			continue
		}
		result = append(result, asset)
	}
	return result, nil
}

func (m *mockAssetRepo) Update(ctx context.Context, asset *models.Asset) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.assets[asset.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.assets[asset.ID] = asset
	return nil
}

func (m *mockAssetRepo) Count(ctx context.Context) (int, error) {
	return len(m.assets), nil
}

var _ repositories.AssetRepository = (*mockAssetRepo)(nil)

type mockProjectRepo struct {
	projects  map[uuid.UUID]*models.Project
	members   map[uuid.UUID][]*models.ProjectMember
	createErr error
	updateErr error
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{
		projects: make(map[uuid.UUID]*models.Project),
		members:  make(map[uuid.UUID][]*models.ProjectMember),
	}
}

func (m *mockProjectRepo) add(project *models.Project) *models.Project {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	m.projects[project.ID] = project
	m.members[project.ID] = append(m.members[project.ID], &models.ProjectMember{
		ProjectID: project.ID,
		ProfileID: project.OwnerID,
		Role:      models.ProjectRoleOwner,
	})
	return project
}

func (m *mockProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if m.createErr != nil {
		return m.createErr
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusIdea
	}
	m.add(project)
	return nil
}

func (m *mockProjectRepo) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, ok := m.projects[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return project, nil
}

func (m *mockProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	result := make([]*models.Project, 0, len(m.projects))
	for _, project := range m.projects {
		result = append(result, project)
	}
	return result, nil
}

func (m *mockProjectRepo) Update(ctx context.Context, project *models.Project) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.projects[project.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.projects[project.ID] = project
	return nil
}

func (m *mockProjectRepo) Count(ctx context.Context) (int, error) {
	return len(m.projects), nil
}

func (m *mockProjectRepo) AddMember(ctx context.Context, member *models.ProjectMember) error {
	for _, existing := range m.members[member.ProjectID] {
		if existing.ProfileID == member.ProfileID {
			return nil
		}
	}
	m.members[member.ProjectID] = append(m.members[member.ProjectID], member)
	return nil
}

func (m *mockProjectRepo) RemoveMember(ctx context.Context, projectID, profileID uuid.UUID) error {
	members := m.members[projectID]
	for i, member := range members {
		if member.ProfileID == profileID {
			m.members[projectID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockProjectRepo) ListMembers(ctx context.Context, projectID uuid.UUID) ([]*models.ProjectMember, error) {
	return m.members[projectID], nil
}

func (m *mockProjectRepo) IsMember(ctx context.Context, projectID, profileID uuid.UUID) (bool, error) {
	for _, member := range m.members[projectID] {
		if member.ProfileID == profileID {
			return true, nil
		}
	}
	return false, nil
}

var _ repositories.ProjectRepository = (*mockProjectRepo)(nil)

type mockReuseRepo struct {
	reuses    []*models.AssetReuse
	recordErr error
}

func (m *mockReuseRepo) add(assetID, userID uuid.UUID, projectID *uuid.UUID, at time.Time) {
	m.reuses = append(m.reuses, &models.AssetReuse{
		ID:        uuid.New(),
		AssetID:   assetID,
		UserID:    userID,
		ProjectID: projectID,
		CreatedAt: at,
	})
}

func (m *mockReuseRepo) Record(ctx context.Context, reuse *models.AssetReuse) (bool, error) {
	if m.recordErr != nil {
		return false, m.recordErr
	}
	for _, existing := range m.reuses {
		if existing.AssetID == reuse.AssetID && existing.UserID == reuse.UserID {
			return false, nil
		}
	}
	reuse.ID = uuid.New()
	reuse.CreatedAt = time.Now()
	m.reuses = append(m.reuses, reuse)
	return true, nil
}

func (m *mockReuseRepo) ListAll(ctx context.Context) ([]*models.AssetReuse, error) {
	return m.reuses, nil
}

func (m *mockReuseRepo) ListSince(ctx context.Context, since time.Time) ([]*models.AssetReuse, error) {
	var result []*models.AssetReuse
	for _, reuse := range m.reuses {
		if !reuse.CreatedAt.Before(since) {
			result = append(result, reuse)
		}
	}
	return result, nil
}

func (m *mockReuseRepo) CountByAsset(ctx context.Context, assetID uuid.UUID) (int, error) {
	count := 0
	for _, reuse := range m.reuses {
		if reuse.AssetID == assetID {
			count++
		}
	}
	return count, nil
}

var _ repositories.ReuseRepository = (*mockReuseRepo)(nil)

type mockActivityRepo struct {
	events    []*models.ActivityEvent
	recordErr error
}

func (m *mockActivityRepo) add(profileID uuid.UUID, activityType string, at time.Time) {
	m.events = append(m.events, &models.ActivityEvent{
		ID:           uuid.New(),
		ProfileID:    profileID,
		ActivityType: activityType,
		CreatedAt:    at,
	})
}

func (m *mockActivityRepo) Record(ctx context.Context, event *models.ActivityEvent) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	m.events = append(m.events, event)
	return nil
}

func (m *mockActivityRepo) ListByTypeSince(ctx context.Context, activityType string, since time.Time) ([]*models.ActivityEvent, error) {
	var result []*models.ActivityEvent
	for _, event := range m.events {
		if event.ActivityType == activityType && !event.CreatedAt.Before(since) {
			result = append(result, event)
		}
	}
	return result, nil
}

func (m *mockActivityRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.ActivityEvent, error) {
	var result []*models.ActivityEvent
	for _, event := range m.events {
		if event.ProfileID == profileID {
			result = append(result, event)
		}
	}
	return result, nil
}

var _ repositories.ActivityRepository = (*mockActivityRepo)(nil)

type mockMentorRequestRepo struct {
	requests  map[uuid.UUID]*models.MentorRequest
	profiles  *mockProfileRepo
	createErr error
}

func newMockMentorRequestRepo(profiles *mockProfileRepo) *mockMentorRequestRepo {
	return &mockMentorRequestRepo{
		requests: make(map[uuid.UUID]*models.MentorRequest),
		profiles: profiles,
	}
}

func (m *mockMentorRequestRepo) add(request *models.MentorRequest) *models.MentorRequest {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	if request.Status == "" {
		request.Status = models.MentorRequestPending
	}
	m.requests[request.ID] = request
	return request
}

func (m *mockMentorRequestRepo) Create(ctx context.Context, request *models.MentorRequest) error {
	if m.createErr != nil {
		return m.createErr
	}
	request.Status = models.MentorRequestPending
	m.add(request)
	return nil
}

func (m *mockMentorRequestRepo) Get(ctx context.Context, id uuid.UUID) (*models.MentorRequest, error) {
	request, ok := m.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return request, nil
}

func (m *mockMentorRequestRepo) ListForProfile(ctx context.Context, profileID uuid.UUID) ([]*models.MentorRequest, error) {
	var result []*models.MentorRequest
	for _, request := range m.requests {
		if request.RequesterID == profileID || request.MentorID == profileID {
			result = append(result, request)
		}
	}
	return result, nil
}

func (m *mockMentorRequestRepo) ListCompletedSince(ctx context.Context, since time.Time) ([]*models.MentorRequest, error) {
	var result []*models.MentorRequest
	for _, request := range m.requests {
		if request.Status == models.MentorRequestCompleted && !request.UpdatedAt.Before(since) {
			result = append(result, request)
		}
	}
	return result, nil
}

// AcceptWithCapacityCheck mirrors the repository's transactional guard:
// only pending requests accept, and capacity is re-validated at accept time.
func (m *mockMentorRequestRepo) AcceptWithCapacityCheck(ctx context.Context, requestID uuid.UUID) error {
	request, ok := m.requests[requestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if request.Status != models.MentorRequestPending {
		return apperrors.ErrInvalidState
	}
	mentor, ok := m.profiles.profiles[request.MentorID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if mentor.MentorSessionsUsed >= mentor.MentorCapacity {
		return apperrors.ErrInvalidState
	}
	request.Status = models.MentorRequestAccepted
	request.UpdatedAt = time.Now()
	return nil
}

func (m *mockMentorRequestRepo) CompleteWithSessionIncrement(ctx context.Context, requestID uuid.UUID) error {
	request, ok := m.requests[requestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if request.Status != models.MentorRequestAccepted {
		return apperrors.ErrInvalidState
	}
	request.Status = models.MentorRequestCompleted
	request.UpdatedAt = time.Now()
	m.profiles.profiles[request.MentorID].MentorSessionsUsed++
	return nil
}

func (m *mockMentorRequestRepo) Cancel(ctx context.Context, requestID uuid.UUID) error {
	request, ok := m.requests[requestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if request.IsTerminal() {
		return apperrors.ErrInvalidState
	}
	request.Status = models.MentorRequestCancelled
	request.UpdatedAt = time.Now()
	return nil
}

var _ repositories.MentorRequestRepository = (*mockMentorRequestRepo)(nil)

type mockHackathonRepo struct {
	hackathons map[uuid.UUID]*models.Hackathon
	createErr  error
}

func newMockHackathonRepo() *mockHackathonRepo {
	return &mockHackathonRepo{hackathons: make(map[uuid.UUID]*models.Hackathon)}
}

func (m *mockHackathonRepo) Create(ctx context.Context, hackathon *models.Hackathon) error {
	if m.createErr != nil {
		return m.createErr
	}
	if hackathon.ID == uuid.Nil {
		hackathon.ID = uuid.New()
	}
	m.hackathons[hackathon.ID] = hackathon
	return nil
}

func (m *mockHackathonRepo) Get(ctx context.Context, id uuid.UUID) (*models.Hackathon, error) {
	hackathon, ok := m.hackathons[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return hackathon, nil
}

func (m *mockHackathonRepo) List(ctx context.Context) ([]*models.Hackathon, error) {
	result := make([]*models.Hackathon, 0, len(m.hackathons))
	for _, hackathon := range m.hackathons {
		result = append(result, hackathon)
	}
	return result, nil
}

func (m *mockHackathonRepo) Update(ctx context.Context, hackathon *models.Hackathon) error {
	if _, ok := m.hackathons[hackathon.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.hackathons[hackathon.ID] = hackathon
	return nil
}

var _ repositories.HackathonRepository = (*mockHackathonRepo)(nil)
