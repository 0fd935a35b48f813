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

// Phase day-offsets from the event-date anchor.
const (
	ideaSubmissionOpensOffset  = -28
	ideaSubmissionClosesOffset = -14
	teamFormationOpensOffset   = -14
	teamFormationClosesOffset  = -1
	demosOffset                = 1
	winnersAnnouncedOffset     = 2
)

// CreateHackathonInput carries the fields for scheduling a hackathon. Phase
// timestamps left nil cascade from EventDate.
type CreateHackathonInput struct {
	Name                   string     `json:"name"`
	Description            string     `json:"description"`
	EventDate              time.Time  `json:"event_date"`
	IdeaSubmissionOpensAt  *time.Time `json:"idea_submission_opens_at,omitempty"`
	IdeaSubmissionClosesAt *time.Time `json:"idea_submission_closes_at,omitempty"`
	TeamFormationOpensAt   *time.Time `json:"team_formation_opens_at,omitempty"`
	TeamFormationClosesAt  *time.Time `json:"team_formation_closes_at,omitempty"`
	DemosAt                *time.Time `json:"demos_at,omitempty"`
	WinnersAnnouncedAt     *time.Time `json:"winners_announced_at,omitempty"`
}

// UpdateHackathonInput carries editable hackathon fields. Nil means
// unchanged. When EventDate moves, phases not supplied in the same call
// re-cascade from the new anchor; supplied phases are kept as overrides.
type UpdateHackathonInput struct {
	Name                   *string    `json:"name,omitempty"`
	Description            *string    `json:"description,omitempty"`
	Status                 *string    `json:"status,omitempty"`
	EventDate              *time.Time `json:"event_date,omitempty"`
	IdeaSubmissionOpensAt  *time.Time `json:"idea_submission_opens_at,omitempty"`
	IdeaSubmissionClosesAt *time.Time `json:"idea_submission_closes_at,omitempty"`
	TeamFormationOpensAt   *time.Time `json:"team_formation_opens_at,omitempty"`
	TeamFormationClosesAt  *time.Time `json:"team_formation_closes_at,omitempty"`
	DemosAt                *time.Time `json:"demos_at,omitempty"`
	WinnersAnnouncedAt     *time.Time `json:"winners_announced_at,omitempty"`
}

// HackathonService manages scheduled hackathon events and their phase
// timeline.
type HackathonService interface {
	Create(ctx context.Context, viewer *Viewer, input CreateHackathonInput) (*models.Hackathon, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Hackathon, error)
	List(ctx context.Context) ([]*models.Hackathon, error)
	// Update edits fields; only the creator may edit.
	Update(ctx context.Context, viewer *Viewer, id uuid.UUID, input UpdateHackathonInput) (*models.Hackathon, error)
}

type hackathonService struct {
	hackathonRepo repositories.HackathonRepository
	logger        *zap.Logger
}

// NewHackathonService creates a new HackathonService.
func NewHackathonService(hackathonRepo repositories.HackathonRepository, logger *zap.Logger) HackathonService {
	return &hackathonService{
		hackathonRepo: hackathonRepo,
		logger:        logger.Named("hackathon-service"),
	}
}

var _ HackathonService = (*hackathonService)(nil)

func (s *hackathonService) Create(ctx context.Context, viewer *Viewer, input CreateHackathonInput) (*models.Hackathon, error) {
	creatorID, ok := viewer.ProfileID()
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}
	if input.Name == "" {
		return nil, apperrors.Validationf("name must not be empty")
	}
	if input.EventDate.IsZero() {
		return nil, apperrors.Validationf("event_date is required")
	}

	hackathon := &models.Hackathon{
		Name:        input.Name,
		Description: input.Description,
		Status:      models.HackathonUpcoming,
		EventDate:   input.EventDate,
		CreatedBy:   creatorID,
	}
	hackathon.IdeaSubmissionOpensAt = phaseOr(input.IdeaSubmissionOpensAt, input.EventDate, ideaSubmissionOpensOffset)
	hackathon.IdeaSubmissionClosesAt = phaseOr(input.IdeaSubmissionClosesAt, input.EventDate, ideaSubmissionClosesOffset)
	hackathon.TeamFormationOpensAt = phaseOr(input.TeamFormationOpensAt, input.EventDate, teamFormationOpensOffset)
	hackathon.TeamFormationClosesAt = phaseOr(input.TeamFormationClosesAt, input.EventDate, teamFormationClosesOffset)
	hackathon.DemosAt = phaseOr(input.DemosAt, input.EventDate, demosOffset)
	hackathon.WinnersAnnouncedAt = phaseOr(input.WinnersAnnouncedAt, input.EventDate, winnersAnnouncedOffset)

	if err := s.hackathonRepo.Create(ctx, hackathon); err != nil {
		return nil, fmt.Errorf("create hackathon: %w", err)
	}

	s.logger.Info("hackathon created",
		zap.String("hackathon_id", hackathon.ID.String()),
		zap.Time("event_date", hackathon.EventDate))
	return hackathon, nil
}

func (s *hackathonService) Get(ctx context.Context, id uuid.UUID) (*models.Hackathon, error) {
	return s.hackathonRepo.Get(ctx, id)
}

func (s *hackathonService) List(ctx context.Context) ([]*models.Hackathon, error) {
	return s.hackathonRepo.List(ctx)
}

func (s *hackathonService) Update(ctx context.Context, viewer *Viewer, id uuid.UUID, input UpdateHackathonInput) (*models.Hackathon, error) {
	profileID, ok := viewer.ProfileID()
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}

	hackathon, err := s.hackathonRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if hackathon.CreatedBy != profileID {
		return nil, fmt.Errorf("%w: only the creator may edit a hackathon", apperrors.ErrNotAuthorized)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.Validationf("name must not be empty")
		}
		hackathon.Name = *input.Name
	}
	if input.Description != nil {
		hackathon.Description = *input.Description
	}
	if input.Status != nil {
		switch *input.Status {
		case models.HackathonUpcoming, models.HackathonActive, models.HackathonCompleted:
			hackathon.Status = *input.Status
		default:
			return nil, apperrors.Validationf("invalid status %q", *input.Status)
		}
	}

	if input.EventDate != nil && !input.EventDate.Equal(hackathon.EventDate) {
		// The anchor moved: re-cascade every phase not explicitly supplied
		// in this call.
		anchor := *input.EventDate
		hackathon.EventDate = anchor
		hackathon.IdeaSubmissionOpensAt = phaseOr(input.IdeaSubmissionOpensAt, anchor, ideaSubmissionOpensOffset)
		hackathon.IdeaSubmissionClosesAt = phaseOr(input.IdeaSubmissionClosesAt, anchor, ideaSubmissionClosesOffset)
		hackathon.TeamFormationOpensAt = phaseOr(input.TeamFormationOpensAt, anchor, teamFormationOpensOffset)
		hackathon.TeamFormationClosesAt = phaseOr(input.TeamFormationClosesAt, anchor, teamFormationClosesOffset)
		hackathon.DemosAt = phaseOr(input.DemosAt, anchor, demosOffset)
		hackathon.WinnersAnnouncedAt = phaseOr(input.WinnersAnnouncedAt, anchor, winnersAnnouncedOffset)
	} else {
		if input.IdeaSubmissionOpensAt != nil {
			hackathon.IdeaSubmissionOpensAt = *input.IdeaSubmissionOpensAt
		}
		if input.IdeaSubmissionClosesAt != nil {
			hackathon.IdeaSubmissionClosesAt = *input.IdeaSubmissionClosesAt
		}
		if input.TeamFormationOpensAt != nil {
			hackathon.TeamFormationOpensAt = *input.TeamFormationOpensAt
		}
		if input.TeamFormationClosesAt != nil {
			hackathon.TeamFormationClosesAt = *input.TeamFormationClosesAt
		}
		if input.DemosAt != nil {
			hackathon.DemosAt = *input.DemosAt
		}
		if input.WinnersAnnouncedAt != nil {
			hackathon.WinnersAnnouncedAt = *input.WinnersAnnouncedAt
		}
	}

	if err := s.hackathonRepo.Update(ctx, hackathon); err != nil {
		return nil, fmt.Errorf("update hackathon: %w", err)
	}
	return hackathon, nil
}

// phaseOr returns the override when present, otherwise the anchor shifted by
// the phase's day offset.
func phaseOr(override *time.Time, anchor time.Time, offsetDays int) time.Time {
	if override != nil {
		return *override
	}
	return anchor.AddDate(0, 0, offsetDays)
}
