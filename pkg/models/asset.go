package models

import (
	"time"

	"github.com/google/uuid"
)

// Asset types.
const (
	AssetTypePrompt = "prompt"
	AssetTypeSkill  = "skill"
	AssetTypeApp    = "app"
)

// ValidAssetType reports whether t is a known asset type.
func ValidAssetType(t string) bool {
	return t == AssetTypePrompt || t == AssetTypeSkill || t == AssetTypeApp
}

// Asset statuses.
const (
	AssetStatusInProgress = "in_progress"
	AssetStatusVerified   = "verified"
	AssetStatusDeprecated = "deprecated"
)

// Asset is a reusable hack: a prompt, skill, or app shared with the
// community. InArsenal marks curated promotion, independent of visibility.
type Asset struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	AssetType     string     `json:"asset_type"`
	Content       string     `json:"content"`
	Status        string     `json:"status"`
	AuthorID      uuid.UUID  `json:"author_id"`
	VerifiedBy    *uuid.UUID `json:"verified_by,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	Visibility    string     `json:"visibility"`
	InArsenal     bool       `json:"in_arsenal"`
	IsAnonymous   bool       `json:"is_anonymous"`
	SourceRepoURL *string    `json:"source_repo_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AssetReuse is an append-only fact recording that a user reused an asset,
// optionally in the context of a project. Duplicate (asset, user) pairs are
// collapsed at insert time.
type AssetReuse struct {
	ID        uuid.UUID  `json:"id"`
	AssetID   uuid.UUID  `json:"asset_id"`
	UserID    uuid.UUID  `json:"user_id"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
