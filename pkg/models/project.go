package models

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses. Forward transitions are guarded in the project service:
// idea -> building requires a readiness-completion timestamp, building ->
// incubation requires a sponsor-commitment timestamp. Archived is reachable
// from any non-terminal state.
const (
	ProjectStatusIdea       = "idea"
	ProjectStatusBuilding   = "building"
	ProjectStatusIncubation = "incubation"
	ProjectStatusCompleted  = "completed"
	ProjectStatusArchived   = "archived"
)

// ValidProjectStatus reports whether s is a known project status.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusIdea, ProjectStatusBuilding, ProjectStatusIncubation,
		ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// Project is a hackathon project with AI-adoption tracking fields.
type Project struct {
	ID                   uuid.UUID  `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Status               string     `json:"status"`
	OwnerID              uuid.UUID  `json:"owner_id"`
	Visibility           string     `json:"visibility"`
	IsAnonymous          bool       `json:"is_anonymous"`
	ReadinessCompletedAt *time.Time `json:"readiness_completed_at,omitempty"`
	SponsorCommittedAt   *time.Time `json:"sponsor_committed_at,omitempty"`
	ImpactHypothesis     string     `json:"impact_hypothesis"`
	AIToolsUsed          []string   `json:"ai_tools_used"`
	HoursSavedPerWeek    *float64   `json:"hours_saved_per_week,omitempty"`
	LessonsLearned       string     `json:"lessons_learned"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Project member roles.
const (
	ProjectRoleOwner  = "owner"
	ProjectRoleMember = "member"
)

// ProjectMember links a profile to a project.
type ProjectMember struct {
	ProjectID uuid.UUID `json:"project_id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
