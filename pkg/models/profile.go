// Package models contains domain types for hackcentral-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Visibility tags gate read access to a resource.
const (
	VisibilityPrivate = "private"
	VisibilityOrg     = "org"
	VisibilityPublic  = "public"
)

// ValidVisibility reports whether v is a known visibility tag.
func ValidVisibility(v string) bool {
	return v == VisibilityPrivate || v == VisibilityOrg || v == VisibilityPublic
}

// Experience levels, ordered from least to most experienced.
const (
	ExperienceBeginner     = "beginner"
	ExperienceExplorer     = "explorer"
	ExperiencePractitioner = "practitioner"
	ExperienceAdvanced     = "advanced"
	ExperienceExpert       = "expert"
)

// ValidExperienceLevel reports whether level is a known experience level.
func ValidExperienceLevel(level string) bool {
	switch level {
	case ExperienceBeginner, ExperienceExplorer, ExperiencePractitioner,
		ExperienceAdvanced, ExperienceExpert:
		return true
	}
	return false
}

// Profile is the identity-linked record for a community member.
// ClerkUserID is the external-auth subject; a profile is created on first
// authenticated upsert and mutated by the owning user only.
// MentorSessionsUsed only increases, via the mentor-session completion
// transition.
type Profile struct {
	ID                 uuid.UUID `json:"id"`
	ClerkUserID        string    `json:"clerk_user_id"`
	Email              string    `json:"email"`
	DisplayName        string    `json:"display_name"`
	ExperienceLevel    string    `json:"experience_level"`
	MentorCapacity     int       `json:"mentor_capacity"`
	MentorSessionsUsed int       `json:"mentor_sessions_used"`
	Visibility         string    `json:"visibility"`
	Skills             []string  `json:"skills"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
