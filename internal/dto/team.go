package dto

import "github.com/noah-isme/clerkship-scheduler/internal/scheduling"

// TeamMemberRequest describes one proposed member.
type TeamMemberRequest struct {
	PreceptorID    string  `json:"preceptorId" validate:"required"`
	Priority       int     `json:"priority" validate:"min=1"`
	Role           *string `json:"role,omitempty"`
	IsFallbackOnly bool    `json:"isFallbackOnly"`
}

// TeamRequest proposes a team for validation or creation.
type TeamRequest struct {
	ClerkshipID             string              `json:"clerkshipId" validate:"required"`
	Name                    string              `json:"name" validate:"required,max=120"`
	RequirementType         string              `json:"requirementType" validate:"omitempty,oneof=inpatient outpatient elective"`
	Members                 []TeamMemberRequest `json:"members" validate:"required,dive"`
	RequireSameHealthSystem bool                `json:"requireSameHealthSystem"`
	RequireSameSite         bool                `json:"requireSameSite"`
	RequireSameSpecialty    bool                `json:"requireSameSpecialty"`
	RequiresAdminApproval   bool                `json:"requiresAdminApproval"`
	AssignedDates           map[string][]string `json:"assignedDates" validate:"omitempty,dive,dive,datetime=2006-01-02"`
	TotalDates              []string            `json:"totalDates" validate:"omitempty,dive,datetime=2006-01-02"`
}

// TeamResponse returns a created team with its validation outcome.
type TeamResponse struct {
	ID         string                          `json:"id"`
	Name       string                          `json:"name"`
	Validation scheduling.TeamValidationResult `json:"validation"`
}

// FallbackQuery previews fallback ordering for an unmet requirement.
type FallbackQuery struct {
	ClerkshipID           string `form:"clerkshipId" validate:"required"`
	PrimaryTeamID         string `form:"primaryTeamId"`
	PrimaryHealthSystemID string `form:"primaryHealthSystemId"`
	AllowCrossSystem      bool   `form:"allowCrossSystem"`
}
