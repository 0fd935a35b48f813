package models

import (
	"time"

	"github.com/google/uuid"
)

// Mentor request statuses. pending -> {accepted, cancelled},
// accepted -> {completed, cancelled}. Completed and cancelled are terminal.
const (
	MentorRequestPending   = "pending"
	MentorRequestAccepted  = "accepted"
	MentorRequestCompleted = "completed"
	MentorRequestCancelled = "cancelled"
)

// MentorRequest links a requester to a mentor for a session.
type MentorRequest struct {
	ID              uuid.UUID  `json:"id"`
	RequesterID     uuid.UUID  `json:"requester_id"`
	MentorID        uuid.UUID  `json:"mentor_id"`
	Status          string     `json:"status"`
	Topic           string     `json:"topic"`
	DurationMinutes int        `json:"duration_minutes"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsTerminal reports whether the request has reached a terminal status.
func (r *MentorRequest) IsTerminal() bool {
	return r.Status == MentorRequestCompleted || r.Status == MentorRequestCancelled
}
