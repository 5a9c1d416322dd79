package scheduling

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

const (
	defaultMinMembers = 2
	defaultMaxMembers = 3
)

// Team validation error codes.
const (
	CodeTeamTooSmall         = "TEAM_TOO_SMALL"
	CodeTeamTooLarge         = "TEAM_TOO_LARGE"
	CodeDuplicatePreceptor   = "DUPLICATE_PRECEPTOR"
	CodePreceptorNotFound    = "PRECEPTOR_NOT_FOUND"
	CodeHealthSystemMismatch = "HEALTH_SYSTEM_MISMATCH"
	CodeSiteMismatch         = "SITE_MISMATCH"
	CodeDuplicatePriority    = "DUPLICATE_PRIORITY"
	CodeNoPrimaryMember      = "NO_PRIMARY_MEMBER"
	CodeCapacityExceeded     = "CAPACITY_EXCEEDED"
	CodeDatesNotCovered      = "DATES_NOT_COVERED"
)

// TeamConfig holds team formation rules. Zero member bounds mean 2..3.
type TeamConfig struct {
	RequireSameHealthSystem bool `json:"requireSameHealthSystem"`
	RequireSameSite         bool `json:"requireSameSite"`
	RequireSameSpecialty    bool `json:"requireSameSpecialty"`
	RequiresAdminApproval   bool `json:"requiresAdminApproval"`
	MinMembers              int  `json:"minMembers,omitempty"`
	MaxMembers              int  `json:"maxMembers,omitempty"`
}

// TeamConfigFromTeam copies the formation flags stored on a team.
func TeamConfigFromTeam(team models.Team) TeamConfig {
	return TeamConfig{
		RequireSameHealthSystem: team.RequireSameHealthSystem,
		RequireSameSite:         team.RequireSameSite,
		RequireSameSpecialty:    team.RequireSameSpecialty,
		RequiresAdminApproval:   team.RequiresAdminApproval,
	}
}

// TeamValidationOptions supplies optional checks.
type TeamValidationOptions struct {
	ClerkshipID     string
	RequirementType string
	Specialty       *string
	// AssignedDates maps preceptor id to dates the member would take.
	AssignedDates map[string][]string
	// TotalDates must each be covered by at least one member's availability.
	TotalDates []string
}

// ValidationError is one team rule failure.
type ValidationError struct {
	Code        string `json:"code"`
	Field       string `json:"field"`
	Message     string `json:"message"`
	PreceptorID string `json:"preceptorId,omitempty"`
	Date        string `json:"date,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TeamValidationResult collects every failure found.
type TeamValidationResult struct {
	IsValid          bool              `json:"isValid"`
	Errors           []ValidationError `json:"errors"`
	Warnings         []string          `json:"warnings"`
	RequiresApproval bool              `json:"requiresApproval"`
}

// Err combines the validation errors, or returns nil for a valid team.
func (r TeamValidationResult) Err() error {
	var err error
	for _, e := range r.Errors {
		err = multierr.Append(err, e)
	}
	return err
}

// TeamValidator checks proposed teams against formation rules.
type TeamValidator struct {
	ctx      *Context
	capacity *CapacityResolver
}

// NewTeamValidator builds a validator over a run context.
func NewTeamValidator(ctx *Context, capacity *CapacityResolver) *TeamValidator {
	return &TeamValidator{ctx: ctx, capacity: capacity}
}

// ValidateTeam runs every rule and returns all errors. Only a missing member
// stops validation early, since later rules need the member records.
func (v *TeamValidator) ValidateTeam(members []models.TeamMember, cfg TeamConfig, opts TeamValidationOptions) TeamValidationResult {
	result := TeamValidationResult{
		Errors:           []ValidationError{},
		Warnings:         []string{},
		RequiresApproval: cfg.RequiresAdminApproval,
	}
	addErr := func(e ValidationError) { result.Errors = append(result.Errors, e) }

	minMembers, maxMembers := cfg.MinMembers, cfg.MaxMembers
	if minMembers <= 0 {
		minMembers = defaultMinMembers
	}
	if maxMembers <= 0 {
		maxMembers = defaultMaxMembers
	}
	if len(members) < minMembers {
		addErr(ValidationError{Code: CodeTeamTooSmall, Field: "members", Message: fmt.Sprintf("team must have at least %d members", minMembers)})
	}
	if len(members) > maxMembers {
		addErr(ValidationError{Code: CodeTeamTooLarge, Field: "members", Message: fmt.Sprintf("team cannot have more than %d members", maxMembers)})
	}

	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if seen[m.PreceptorID] {
			addErr(ValidationError{Code: CodeDuplicatePreceptor, Field: "members", PreceptorID: m.PreceptorID, Message: fmt.Sprintf("preceptor %s appears more than once", m.PreceptorID)})
		}
		seen[m.PreceptorID] = true
	}

	preceptors := make([]models.Preceptor, 0, len(members))
	var missing []string
	for _, m := range members {
		p, ok := v.ctx.Preceptor(m.PreceptorID)
		if !ok {
			missing = append(missing, m.PreceptorID)
			continue
		}
		preceptors = append(preceptors, p)
	}
	if len(missing) > 0 {
		addErr(ValidationError{Code: CodePreceptorNotFound, Field: "members", Message: fmt.Sprintf("preceptors not found: %s", strings.Join(missing, ", "))})
		return result
	}

	if cfg.RequireSameHealthSystem && !sameNonNull(preceptors, func(p models.Preceptor) *string { return p.HealthSystemID }) {
		addErr(ValidationError{Code: CodeHealthSystemMismatch, Field: "members", Message: "all members must belong to the same health system"})
	}
	if cfg.RequireSameSite && !sameNonNull(preceptors, func(p models.Preceptor) *string { return p.SiteID }) {
		addErr(ValidationError{Code: CodeSiteMismatch, Field: "members", Message: "all members must work at the same site"})
	}
	if cfg.RequireSameSpecialty || opts.Specialty != nil {
		result.Errors = append(result.Errors, checkSpecialty(preceptors, opts.Specialty)...)
	}

	priorities := make(map[int]bool, len(members))
	for _, m := range members {
		if priorities[m.Priority] {
			addErr(ValidationError{Code: CodeDuplicatePriority, Field: "priority", PreceptorID: m.PreceptorID, Message: fmt.Sprintf("priority %d is used by more than one member", m.Priority)})
		}
		priorities[m.Priority] = true
	}

	if len(members) > 0 && allFallbackOnly(members) {
		addErr(ValidationError{Code: CodeNoPrimaryMember, Field: "members", Message: "team needs at least one member who is not fallback-only"})
	}

	for _, m := range members {
		for _, date := range opts.AssignedDates[m.PreceptorID] {
			check := v.capacity.CheckCapacity(v.ctx.Assignments, m.PreceptorID, date, CapacityCheckOptions{
				ClerkshipID:     opts.ClerkshipID,
				RequirementType: opts.RequirementType,
			})
			if !check.HasCapacity {
				addErr(ValidationError{Code: CodeCapacityExceeded, Field: "assignedDates", PreceptorID: m.PreceptorID, Date: date, Message: check.Reason})
			}
		}
	}

	if len(opts.TotalDates) > 0 {
		var uncovered []string
		for _, date := range opts.TotalDates {
			if !anyAvailable(v.ctx, members, date) {
				uncovered = append(uncovered, date)
			}
		}
		if len(uncovered) > 0 {
			addErr(ValidationError{Code: CodeDatesNotCovered, Field: "totalDates", Message: fmt.Sprintf("no member is available on %s", strings.Join(uncovered, ", "))})
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// checkSpecialty always passes. Preceptors carry no specialty field.
func checkSpecialty(_ []models.Preceptor, _ *string) []ValidationError {
	return nil
}

func sameNonNull(preceptors []models.Preceptor, field func(models.Preceptor) *string) bool {
	var want *string
	for _, p := range preceptors {
		value := field(p)
		if value == nil {
			return false
		}
		if want == nil {
			want = value
			continue
		}
		if *value != *want {
			return false
		}
	}
	return true
}

func allFallbackOnly(members []models.TeamMember) bool {
	for _, m := range members {
		if !m.IsFallbackOnly {
			return false
		}
	}
	return true
}

func anyAvailable(ctx *Context, members []models.TeamMember, date string) bool {
	for _, m := range members {
		if _, ok := ctx.SiteFor(m.PreceptorID, date); ok {
			return true
		}
	}
	return false
}
