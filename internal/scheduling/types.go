package scheduling

// UnmetRequirement describes days a student still needs for a clerkship.
type UnmetRequirement struct {
	StudentID             string  `json:"studentId"`
	StudentName           string  `json:"studentName,omitempty"`
	ClerkshipID           string  `json:"clerkshipId"`
	ClerkshipName         string  `json:"clerkshipName,omitempty"`
	RequirementType       string  `json:"requirementType"`
	RequiredDays          int     `json:"requiredDays"`
	AssignedDays          int     `json:"assignedDays"`
	RemainingDays         int     `json:"remainingDays"`
	Reason                string  `json:"reason,omitempty"`
	PrimaryTeamID         *string `json:"primaryTeamId,omitempty"`
	PrimaryHealthSystemID *string `json:"primaryHealthSystemId,omitempty"`
}

// Unmet reasons attached by the engine.
const (
	ReasonInsufficientAvailability = "insufficient_availability"
	ReasonNoConfiguration          = "no_configuration"
	ReasonFallbacksDisabled        = "fallbacks_disabled"
	ReasonNoFallbackCapacity       = "no_fallback_capacity"
)
