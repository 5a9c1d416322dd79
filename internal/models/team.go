package models

import "time"

// Team is a prioritised group of preceptors serving one clerkship.
type Team struct {
	ID                      string    `db:"id" json:"id" yaml:"id"`
	ClerkshipID             string    `db:"clerkship_id" json:"clerkship_id" yaml:"clerkship_id"`
	Name                    string    `db:"name" json:"name" yaml:"name"`
	RequireSameHealthSystem bool      `db:"require_same_health_system" json:"require_same_health_system" yaml:"require_same_health_system"`
	RequireSameSite         bool      `db:"require_same_site" json:"require_same_site" yaml:"require_same_site"`
	RequireSameSpecialty    bool      `db:"require_same_specialty" json:"require_same_specialty" yaml:"require_same_specialty"`
	RequiresAdminApproval   bool      `db:"requires_admin_approval" json:"requires_admin_approval" yaml:"requires_admin_approval"`
	IsActive                bool      `db:"is_active" json:"is_active" yaml:"is_active"`
	CreatedAt               time.Time `db:"created_at" json:"created_at" yaml:"-"`
}

// TeamMember places a preceptor in a team at a unique priority.
type TeamMember struct {
	ID             string    `db:"id" json:"id" yaml:"-"`
	TeamID         string    `db:"team_id" json:"team_id" yaml:"team_id,omitempty"`
	PreceptorID    string    `db:"preceptor_id" json:"preceptor_id" yaml:"preceptor_id"`
	Priority       int       `db:"priority" json:"priority" yaml:"priority"`
	Role           *string   `db:"role" json:"role,omitempty" yaml:"role,omitempty"`
	IsFallbackOnly bool      `db:"is_fallback_only" json:"is_fallback_only" yaml:"is_fallback_only"`
	CreatedAt      time.Time `db:"created_at" json:"created_at" yaml:"-"`
}

// TeamWithMembers bundles a team and its members ordered by priority.
type TeamWithMembers struct {
	Team    `yaml:",inline"`
	Members []TeamMember `json:"members" yaml:"members"`
}
