package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/apperrors"
	"github.com/hackcentral/engine/pkg/models"
	"github.com/hackcentral/engine/pkg/repositories"
)

// RecordActivityInput carries a manually reported activity fact.
type RecordActivityInput struct {
	ActivityType string     `json:"activity_type"`
	SubjectID    *uuid.UUID `json:"subject_id,omitempty"`
	Note         string     `json:"note"`
}

// ActivityService records and reads the append-only activity log. Reuse
// events arrive through AssetService; this service accepts the manually
// reported kinds only.
type ActivityService interface {
	Record(ctx context.Context, viewer *Viewer, input RecordActivityInput) (*models.ActivityEvent, error)
	ListMine(ctx context.Context, viewer *Viewer) ([]*models.ActivityEvent, error)
}

type activityService struct {
	activityRepo repositories.ActivityRepository
	logger       *zap.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo repositories.ActivityRepository, logger *zap.Logger) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		logger:       logger.Named("activity-service"),
	}
}

var _ ActivityService = (*activityService)(nil)

func (s *activityService) Record(ctx context.Context, viewer *Viewer, input RecordActivityInput) (*models.ActivityEvent, error) {
	profileID, ok := viewer.ProfileID()
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}
	if input.ActivityType != models.ActivityContribution && input.ActivityType != models.ActivitySupport {
		return nil, apperrors.Validationf("invalid activity_type %q", input.ActivityType)
	}

	event := &models.ActivityEvent{
		ProfileID:    profileID,
		ActivityType: input.ActivityType,
		SubjectID:    input.SubjectID,
		Note:         input.Note,
	}
	if err := s.activityRepo.Record(ctx, event); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}
	return event, nil
}

func (s *activityService) ListMine(ctx context.Context, viewer *Viewer) ([]*models.ActivityEvent, error) {
	profileID, ok := viewer.ProfileID()
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}
	return s.activityRepo.ListByProfile(ctx, profileID)
}
