package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/config"
	"github.com/hackcentral/engine/pkg/models"
	"github.com/hackcentral/engine/pkg/repositories"
)

// UnknownDisplayName is used when a leaderboard subject has no resolvable
// profile.
const UnknownDisplayName = "Unknown"

// AnonymousDisplayName replaces names on resources flagged anonymous.
const AnonymousDisplayName = "Anonymous"

// AdoptionSummary holds org-wide AI adoption counts and percentages.
type AdoptionSummary struct {
	AIContributorCount  int     `json:"ai_contributor_count"`
	AIContributorPct    float64 `json:"ai_contributor_pct"`
	TotalProfiles       int     `json:"total_profiles"`
	ProjectsWithAICount int     `json:"projects_with_ai_count"`
	ProjectsWithAIPct   float64 `json:"projects_with_ai_pct"`
	TotalProjects       int     `json:"total_projects"`
}

// LeaderboardEntry is one row of a leaderboard.
type LeaderboardEntry struct {
	SubjectID   uuid.UUID `json:"subject_id"`
	DisplayName string    `json:"display_name"`
	Count       int       `json:"count"`
}

// GraduationCandidate is an asset whose lifetime reuse count crossed the
// graduation threshold.
type GraduationCandidate struct {
	Asset      *models.Asset `json:"asset"`
	ReuseCount int           `json:"reuse_count"`
}

// MetricsService computes derived metrics over the event log. Every
// computation is a fold over a visibility-filtered, time-windowed slice; all
// take a caller-supplied now so they stay testable without wall-clock
// coupling. Metrics re-scan the full collections per call; at current data
// volume that is intentional (no incremental aggregates are maintained).
type MetricsService interface {
	AdoptionSummary(ctx context.Context, now time.Time) (*AdoptionSummary, error)
	TopContributors(ctx context.Context, viewer *Viewer, now time.Time) ([]LeaderboardEntry, error)
	TopMentors(ctx context.Context, viewer *Viewer, now time.Time) ([]LeaderboardEntry, error)
	MostReusedAssets(ctx context.Context, viewer *Viewer, now time.Time) ([]LeaderboardEntry, error)
	// GraduationCandidates returns public/org assets whose lifetime reuse
	// count is at least minReuses, sorted descending by count. minReuses <= 0
	// falls back to the configured default.
	GraduationCandidates(ctx context.Context, viewer *Viewer, minReuses int) ([]GraduationCandidate, error)
	// ContributionGini returns the Gini coefficient of contribution counts
	// across profiles created in the population window.
	ContributionGini(ctx context.Context, now time.Time) (float64, error)
}

type metricsService struct {
	profileRepo  repositories.ProfileRepository
	projectRepo  repositories.ProjectRepository
	assetRepo    repositories.AssetRepository
	reuseRepo    repositories.ReuseRepository
	activityRepo repositories.ActivityRepository
	mentorRepo   repositories.MentorRequestRepository
	cfg          config.MetricsConfig
	logger       *zap.Logger
}

// NewMetricsService creates a new MetricsService.
func NewMetricsService(
	profileRepo repositories.ProfileRepository,
	projectRepo repositories.ProjectRepository,
	assetRepo repositories.AssetRepository,
	reuseRepo repositories.ReuseRepository,
	activityRepo repositories.ActivityRepository,
	mentorRepo repositories.MentorRequestRepository,
	cfg config.MetricsConfig,
	logger *zap.Logger,
) MetricsService {
	return &metricsService{
		profileRepo:  profileRepo,
		projectRepo:  projectRepo,
		assetRepo:    assetRepo,
		reuseRepo:    reuseRepo,
		activityRepo: activityRepo,
		mentorRepo:   mentorRepo,
		cfg:          cfg,
		logger:       logger.Named("metrics-service"),
	}
}

var _ MetricsService = (*metricsService)(nil)

func (s *metricsService) contributionWindow(now time.Time) time.Time {
	return now.AddDate(0, 0, -s.cfg.ContributionWindowDays)
}

func (s *metricsService) AdoptionSummary(ctx context.Context, now time.Time) (*AdoptionSummary, error) {
	events, err := s.activityRepo.ListByTypeSince(ctx, models.ActivityContribution, s.contributionWindow(now))
	if err != nil {
		return nil, fmt.Errorf("list contribution events: %w", err)
	}
	totalProfiles, err := s.profileRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}
	reuses, err := s.reuseRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reuses: %w", err)
	}
	totalProjects, err := s.projectRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}

	contributors := make(map[uuid.UUID]struct{})
	for _, event := range events {
		contributors[event.ProfileID] = struct{}{}
	}

	projectsWithAI := make(map[uuid.UUID]struct{})
	for _, reuse := range reuses {
		if reuse.ProjectID != nil {
			projectsWithAI[*reuse.ProjectID] = struct{}{}
		}
	}

	return &AdoptionSummary{
		AIContributorCount:  len(contributors),
		AIContributorPct:    percentage(len(contributors), totalProfiles),
		TotalProfiles:       totalProfiles,
		ProjectsWithAICount: len(projectsWithAI),
		ProjectsWithAIPct:   percentage(len(projectsWithAI), totalProjects),
		TotalProjects:       totalProjects,
	}, nil
}

func (s *metricsService) TopContributors(ctx context.Context, viewer *Viewer, now time.Time) ([]LeaderboardEntry, error) {
	events, err := s.activityRepo.ListByTypeSince(ctx, models.ActivityContribution, s.contributionWindow(now))
	if err != nil {
		return nil, fmt.Errorf("list contribution events: %w", err)
	}

	subjects := make([]uuid.UUID, 0, len(events))
	for _, event := range events {
		subjects = append(subjects, event.ProfileID)
	}

	entries := topCounts(subjects, s.cfg.LeaderboardLimit)
	return s.resolveNames(ctx, viewer, entries)
}

func (s *metricsService) TopMentors(ctx context.Context, viewer *Viewer, now time.Time) ([]LeaderboardEntry, error) {
	completed, err := s.mentorRepo.ListCompletedSince(ctx, s.contributionWindow(now))
	if err != nil {
		return nil, fmt.Errorf("list completed sessions: %w", err)
	}

	subjects := make([]uuid.UUID, 0, len(completed))
	for _, request := range completed {
		subjects = append(subjects, request.MentorID)
	}

	entries := topCounts(subjects, s.cfg.LeaderboardLimit)
	return s.resolveNames(ctx, viewer, entries)
}

func (s *metricsService) MostReusedAssets(ctx context.Context, viewer *Viewer, now time.Time) ([]LeaderboardEntry, error) {
	reuses, err := s.reuseRepo.ListSince(ctx, s.contributionWindow(now))
	if err != nil {
		return nil, fmt.Errorf("list reuses: %w", err)
	}
	assets, err := s.assetRepo.List(ctx, repositories.AssetFilter{})
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	// Filter out assets the viewer may not see before counting
	visible := make(map[uuid.UUID]*models.Asset, len(assets))
	for _, asset := range assets {
		if CanView(viewer, AssetResource(asset)) {
			visible[asset.ID] = asset
		}
	}

	subjects := make([]uuid.UUID, 0, len(reuses))
	for _, reuse := range reuses {
		if _, ok := visible[reuse.AssetID]; ok {
			subjects = append(subjects, reuse.AssetID)
		}
	}

	entries := topCounts(subjects, s.cfg.LeaderboardLimit)
	viewerProfileID, _ := viewer.ProfileID()
	for i := range entries {
		asset := visible[entries[i].SubjectID]
		// Anonymous assets still rank, but only the author sees the title
		if asset.IsAnonymous && asset.AuthorID != viewerProfileID {
			entries[i].DisplayName = AnonymousDisplayName
			continue
		}
		entries[i].DisplayName = asset.Title
	}
	return entries, nil
}

func (s *metricsService) GraduationCandidates(ctx context.Context, viewer *Viewer, minReuses int) ([]GraduationCandidate, error) {
	if minReuses <= 0 {
		minReuses = s.cfg.GraduationMinReuses
	}

	reuses, err := s.reuseRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reuses: %w", err)
	}
	assets, err := s.assetRepo.List(ctx, repositories.AssetFilter{})
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	counts := make(map[uuid.UUID]int)
	for _, reuse := range reuses {
		counts[reuse.AssetID]++
	}

	candidates := make([]GraduationCandidate, 0)
	for _, asset := range assets {
		// Private assets never graduate into the shared view
		if asset.Visibility == models.VisibilityPrivate {
			continue
		}
		if !CanView(viewer, AssetResource(asset)) {
			continue
		}
		if count := counts[asset.ID]; count >= minReuses {
			candidates = append(candidates, GraduationCandidate{Asset: asset, ReuseCount: count})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ReuseCount > candidates[j].ReuseCount
	})
	return candidates, nil
}

func (s *metricsService) ContributionGini(ctx context.Context, now time.Time) (float64, error) {
	population, err := s.profileRepo.ListCreatedSince(ctx, now.AddDate(0, 0, -s.cfg.PopulationWindowDays))
	if err != nil {
		return 0, fmt.Errorf("list active profiles: %w", err)
	}
	events, err := s.activityRepo.ListByTypeSince(ctx, models.ActivityContribution, s.contributionWindow(now))
	if err != nil {
		return 0, fmt.Errorf("list contribution events: %w", err)
	}

	perProfile := make(map[uuid.UUID]int)
	for _, event := range events {
		perProfile[event.ProfileID]++
	}

	counts := make([]int, 0, len(population))
	for _, profile := range population {
		counts = append(counts, perProfile[profile.ID])
	}

	return giniCoefficient(counts), nil
}

// resolveNames enriches leaderboard entries with display names. Names resolve
// to "Unknown" when no profile exists for the subject, and to the same when
// the viewer may not see the profile.
func (s *metricsService) resolveNames(ctx context.Context, viewer *Viewer, entries []LeaderboardEntry) ([]LeaderboardEntry, error) {
	if len(entries) == 0 {
		return entries, nil
	}

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Profile, len(profiles))
	for _, profile := range profiles {
		byID[profile.ID] = profile
	}

	for i := range entries {
		profile, ok := byID[entries[i].SubjectID]
		if !ok || !CanView(viewer, ProfileResource(profile)) {
			entries[i].DisplayName = UnknownDisplayName
			continue
		}
		entries[i].DisplayName = profile.DisplayName
	}
	return entries, nil
}

// percentage returns count/total as a percentage, 0 when total is 0.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// topCounts groups subjects, counts occurrences, sorts descending by count
// with first-appearance order as the stable tiebreak, and truncates to limit.
func topCounts(subjects []uuid.UUID, limit int) []LeaderboardEntry {
	counts := make(map[uuid.UUID]int)
	order := make([]uuid.UUID, 0)
	for _, subject := range subjects {
		if _, seen := counts[subject]; !seen {
			order = append(order, subject)
		}
		counts[subject]++
	}

	entries := make([]LeaderboardEntry, 0, len(order))
	for _, subject := range order {
		entries = append(entries, LeaderboardEntry{SubjectID: subject, Count: counts[subject]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// giniCoefficient computes the Gini coefficient of the given counts.
// Counts are sorted ascending and ranked 1..n, then
//
//	G = (2 * Σ(rank_i * count_i)) / (n * Σcount_i) − (n+1)/n
//
// clamped to [0, 1]. An empty population or all-zero counts return 0; the
// denominator n*Σcount is guarded explicitly.
func giniCoefficient(counts []int) float64 {
	n := len(counts)
	if n == 0 {
		return 0
	}

	sorted := make([]int, n)
	copy(sorted, counts)
	sort.Ints(sorted)

	var total, weighted float64
	for i, count := range sorted {
		total += float64(count)
		weighted += float64(i+1) * float64(count)
	}
	if total == 0 {
		return 0
	}

	g := (2*weighted)/(float64(n)*total) - float64(n+1)/float64(n)
	if g < 0 {
		return 0
	}
	if g > 1 {
		return 1
	}
	return g
}
