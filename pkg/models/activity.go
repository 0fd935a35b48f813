package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity types recorded in the append-only event log.
const (
	ActivityContribution = "contribution"
	ActivitySupport      = "support"
	ActivityReuse        = "reuse"
)

// ValidActivityType reports whether t is a known activity type.
func ValidActivityType(t string) bool {
	return t == ActivityContribution || t == ActivitySupport || t == ActivityReuse
}

// ActivityEvent is an append-only fact row linking a profile to an activity.
// Events are never mutated or deleted.
type ActivityEvent struct {
	ID           uuid.UUID  `json:"id"`
	ProfileID    uuid.UUID  `json:"profile_id"`
	ActivityType string     `json:"activity_type"`
	SubjectID    *uuid.UUID `json:"subject_id,omitempty"`
	Note         string     `json:"note"`
	CreatedAt    time.Time  `json:"created_at"`
}
