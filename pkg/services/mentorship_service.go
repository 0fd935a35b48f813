package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/apperrors"
	"github.com/hackcentral/engine/pkg/models"
	"github.com/hackcentral/engine/pkg/repositories"
)

// CreateMentorRequestInput carries the fields for requesting a session.
type CreateMentorRequestInput struct {
	MentorID        uuid.UUID  `json:"mentor_id"`
	Topic           string     `json:"topic"`
	DurationMinutes int        `json:"duration_minutes"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
}

// MentorshipService manages the mentor request lifecycle. Acceptance does
// not consume capacity; only completion increments the mentor's session
// counter. Capacity is re-checked inside the accepting transaction, so a
// mentor whose sessions filled up between request and accept is refused at
// accept time.
type MentorshipService interface {
	CreateRequest(ctx context.Context, viewer *Viewer, input CreateMentorRequestInput) (*models.MentorRequest, error)
	Get(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.MentorRequest, error)
	// ListMine returns requests where the viewer is requester or mentor.
	ListMine(ctx context.Context, viewer *Viewer) ([]*models.MentorRequest, error)
	Accept(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.MentorRequest, error)
	Cancel(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.MentorRequest, error)
	Complete(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.MentorRequest, error)
}

type mentorshipService struct {
	requestRepo  repositories.MentorRequestRepository
	profileRepo  repositories.ProfileRepository
	activityRepo repositories.ActivityRepository
	logger       *zap.Logger
}

// NewMentorshipService creates a new MentorshipService.
func NewMentorshipService(
	requestRepo repositories.MentorRequestRepository,
	profileRepo repositories.ProfileRepository,
	activityRepo repositories.ActivityRepository,
	logger *zap.Logger,
) MentorshipService {
	return &mentorshipService{
		requestRepo:  requestRepo,
		profileRepo:  profileRepo,
		activityRepo: activityRepo,
		logger:       logger.Named("mentorship-service"),
	}
}

var _ MentorshipService = (*mentorshipService)(nil)

func (s *mentorshipService) CreateRequest(ctx context.Context, viewer *Viewer, input CreateMentorRequestInput) (*models.MentorRequest, error) {
	requesterID, ok := viewer.ProfileID()
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}
	if input.MentorID == uuid.Nil {
		return nil, apperrors.Validationf("mentor_id is required")
	}
	if input.MentorID == requesterID {
		return nil, apperrors.Validationf("cannot request a session with yourself")
	}
	if input.Topic == "" {
		return nil, apperrors.Validationf("topic must not be empty")
	}
	if input.DurationMinutes <= 0 {
		return nil, apperrors.Validationf("duration_minutes must be positive")
	}

	mentor, err := s.profileRepo.GetByID(ctx, input.MentorID)
	if err != nil {
		return nil, err
	}
	if mentor.MentorCapacity == 0 {
		return nil, fmt.Errorf("%w: profile does not offer mentoring", apperrors.ErrInvalidState)
	}

	request := &models.MentorRequest{
		RequesterID:     requesterID,
		MentorID:        mentor.ID,
		Topic:           input.Topic,
		DurationMinutes: input.DurationMinutes,
		ScheduledAt:     input.ScheduledAt,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("create mentor request: %w", err)
	}

	s.logger.Info("mentor request created",
		zap.String("request_id", request.ID.String()),
		zap.String("mentor_id", mentor.ID.String()))
	return request, nil
}

func (s *mentorshipService) Get(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.MentorRequest, error) {
	return s.partyRequest(ctx, viewer, id)
}

func (s *mentorshipService) ListMine(ctx context.Context, viewer *Viewer) ([]*models.MentorRequest, error) {
	profileID, ok := viewer.ProfileID()
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}
	return s.requestRepo.ListForProfile(ctx, profileID)
}

func (s *mentorshipService) Accept(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.MentorRequest, error) {
	request, err := s.partyRequest(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	profileID, _ := viewer.ProfileID()
	if request.MentorID != profileID {
		return nil, fmt.Errorf("%w: only the designated mentor may accept", apperrors.ErrNotAuthorized)
	}

	if err := s.requestRepo.AcceptWithCapacityCheck(ctx, id); err != nil {
		return nil, err
	}
	return s.requestRepo.Get(ctx, id)
}

func (s *mentorshipService) Cancel(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.MentorRequest, error) {
	if _, err := s.partyRequest(ctx, viewer, id); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Cancel(ctx, id); err != nil {
		return nil, err
	}
	return s.requestRepo.Get(ctx, id)
}

func (s *mentorshipService) Complete(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.MentorRequest, error) {
	request, err := s.partyRequest(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	profileID, _ := viewer.ProfileID()
	if request.MentorID != profileID {
		return nil, fmt.Errorf("%w: only the mentor may complete a session", apperrors.ErrNotAuthorized)
	}

	if err := s.requestRepo.CompleteWithSessionIncrement(ctx, id); err != nil {
		return nil, err
	}

	event := &models.ActivityEvent{
		ProfileID:    request.MentorID,
		ActivityType: models.ActivitySupport,
		SubjectID:    &request.ID,
	}
	if err := s.activityRepo.Record(ctx, event); err != nil {
		return nil, fmt.Errorf("record support event: %w", err)
	}

	s.logger.Info("mentor session completed", zap.String("request_id", request.ID.String()))
	return s.requestRepo.Get(ctx, id)
}

// partyRequest loads the request and verifies the viewer is one of its two
// parties; anyone else sees ErrNotFound.
func (s *mentorshipService) partyRequest(ctx context.Context, viewer *Viewer, id uuid.UUID) (*models.MentorRequest, error) {
	profileID, ok := viewer.ProfileID()
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}

	request, err := s.requestRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.RequesterID != profileID && request.MentorID != profileID {
		return nil, apperrors.ErrNotFound
	}
	return request, nil
}
