package models

import (
	"time"

	"github.com/google/uuid"
)

// Hackathon statuses.
const (
	HackathonUpcoming  = "upcoming"
	HackathonActive    = "active"
	HackathonCompleted = "completed"
)

// Hackathon is a scheduled event. Phase timestamps default to fixed
// day-offsets from EventDate (the anchor) and can be individually
// overridden.
type Hackathon struct {
	ID                     uuid.UUID `json:"id"`
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	Status                 string    `json:"status"`
	EventDate              time.Time `json:"event_date"`
	IdeaSubmissionOpensAt  time.Time `json:"idea_submission_opens_at"`
	IdeaSubmissionClosesAt time.Time `json:"idea_submission_closes_at"`
	TeamFormationOpensAt   time.Time `json:"team_formation_opens_at"`
	TeamFormationClosesAt  time.Time `json:"team_formation_closes_at"`
	DemosAt                time.Time `json:"demos_at"`
	WinnersAnnouncedAt     time.Time `json:"winners_announced_at"`
	CreatedBy              uuid.UUID `json:"created_by"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}
