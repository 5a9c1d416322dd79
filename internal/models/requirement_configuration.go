package models

// AssignmentStrategy names the primary-pass strategy configured for a requirement.
type AssignmentStrategy string

const (
	StrategyContinuous AssignmentStrategy = "continuous_single"
	StrategyBlock      AssignmentStrategy = "block_based"
	StrategyTeam       AssignmentStrategy = "team_continuity"
)

// HealthSystemRule constrains how assignments may span health systems.
type HealthSystemRule string

const (
	HealthSystemEnforceSame HealthSystemRule = "enforce_same_system"
	HealthSystemPreferSame  HealthSystemRule = "prefer_same_system"
	HealthSystemNoPref      HealthSystemRule = "no_preference"
)

// RequirementConfiguration is the resolved configuration for one
// clerkship and requirement type.
type RequirementConfiguration struct {
	ClerkshipID              string             `db:"clerkship_id" json:"clerkship_id" yaml:"clerkship_id"`
	RequirementType          string             `db:"requirement_type" json:"requirement_type" yaml:"requirement_type"`
	RequiredDays             int                `db:"required_days" json:"required_days" yaml:"required_days"`
	AssignmentStrategy       AssignmentStrategy `db:"assignment_strategy" json:"assignment_strategy" yaml:"assignment_strategy"`
	HealthSystemRule         HealthSystemRule   `db:"health_system_rule" json:"health_system_rule" yaml:"health_system_rule"`
	MaxPerDay                int                `db:"max_students_per_day" json:"max_students_per_day" yaml:"max_students_per_day"`
	MaxPerYear               int                `db:"max_students_per_year" json:"max_students_per_year" yaml:"max_students_per_year"`
	AllowTeams               bool               `db:"allow_teams" json:"allow_teams" yaml:"allow_teams"`
	AllowFallbacks           bool               `db:"allow_fallbacks" json:"allow_fallbacks" yaml:"allow_fallbacks"`
	FallbackRequiresApproval bool               `db:"fallback_requires_approval" json:"fallback_requires_approval" yaml:"fallback_requires_approval"`
	FallbackAllowCrossSystem bool               `db:"fallback_allow_cross_system" json:"fallback_allow_cross_system" yaml:"fallback_allow_cross_system"`
	Source                   string             `db:"source" json:"source" yaml:"source,omitempty"`
}

// Configuration sources reported by the requirement config repository.
const (
	ConfigSourceConfigured = "configured"
	ConfigSourceDefault    = "default"
)
