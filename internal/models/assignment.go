package models

import "time"

// Fallback tiers recorded on assignments.
const (
	TierPrimary      = 0
	TierSameTeam     = 1
	TierHealthSystem = 2
	TierCrossSystem  = 3
)

// Assignment places one student with one preceptor for one clerkship on one date.
type Assignment struct {
	ID              string    `db:"id" json:"id" yaml:"id,omitempty"`
	StudentID       string    `db:"student_id" json:"student_id" yaml:"student_id"`
	PreceptorID     string    `db:"preceptor_id" json:"preceptor_id" yaml:"preceptor_id"`
	ClerkshipID     string    `db:"clerkship_id" json:"clerkship_id" yaml:"clerkship_id"`
	Date            string    `db:"date" json:"date" yaml:"date"`
	Tier            int       `db:"tier" json:"tier" yaml:"tier,omitempty"`
	FallbackTeamID  *string   `db:"fallback_team_id" json:"fallback_team_id,omitempty" yaml:"fallback_team_id,omitempty"`
	OriginalTeamID  *string   `db:"original_team_id" json:"original_team_id,omitempty" yaml:"original_team_id,omitempty"`
	BlockNumber     *int      `db:"block_number" json:"block_number,omitempty" yaml:"block_number,omitempty"`
	PendingApproval bool      `db:"pending_approval" json:"pending_approval" yaml:"pending_approval,omitempty"`
	RunID           *string   `db:"run_id" json:"run_id,omitempty" yaml:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at" yaml:"-"`
}

// AssignmentFilter narrows assignment listings.
type AssignmentFilter struct {
	StartDate   string
	EndDate     string
	StudentID   string
	PreceptorID string
	ClerkshipID string
}
