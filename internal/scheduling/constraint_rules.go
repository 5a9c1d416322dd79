package scheduling

import (
	"fmt"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// Names of the built-in constraints.
const (
	ConstraintBlackout              = "blackout_date"
	ConstraintNoDoubleBooking       = "no_double_booking"
	ConstraintPreceptorAvailability = "preceptor_availability"
	ConstraintSiteClerkship         = "site_clerkship"
	ConstraintCapacity              = "preceptor_capacity"
	ConstraintHealthSystem          = "health_system_continuity"
	ConstraintOnboarding            = "student_onboarding"
)

// DefaultConstraintSet returns the built-in constraints in their standard priorities.
func DefaultConstraintSet(capacity *CapacityResolver) *ConstraintSet {
	return NewConstraintSet(
		NewBlackoutDateConstraint(),
		NewNoDoubleBookingConstraint(),
		NewPreceptorAvailabilityConstraint(),
		NewSiteClerkshipConstraint(),
		NewCapacityConstraint(capacity),
		NewHealthSystemContinuityConstraint(),
		NewOnboardingConstraint(),
	)
}

// GapFillConstraintSet returns the checks the gap filler applies to every
// fallback placement. Site, onboarding and continuity rules belong to the
// primary pass and are left out.
func GapFillConstraintSet(capacity *CapacityResolver) *ConstraintSet {
	return NewConstraintSet(
		NewBlackoutDateConstraint(),
		NewNoDoubleBookingConstraint(),
		NewPreceptorAvailabilityConstraint(),
		NewCapacityConstraint(capacity),
	)
}

// BlackoutDateConstraint rejects assignments on blackout dates.
type BlackoutDateConstraint struct{ baseConstraint }

// NewBlackoutDateConstraint builds the constraint.
func NewBlackoutDateConstraint() *BlackoutDateConstraint {
	return &BlackoutDateConstraint{baseConstraint{name: ConstraintBlackout, priority: 1}}
}

func (c *BlackoutDateConstraint) Validate(a models.Assignment, ctx *Context, tracker *ViolationTracker) bool {
	if !ctx.IsBlackout(a.Date) {
		return true
	}
	tracker.RecordViolation(c.Name(), a, c.ViolationMessage(a, ctx))
	return false
}

func (c *BlackoutDateConstraint) ViolationMessage(a models.Assignment, _ *Context) string {
	return fmt.Sprintf("%s is a blackout date", a.Date)
}

// NoDoubleBookingConstraint allows one assignment per student per date.
type NoDoubleBookingConstraint struct{ baseConstraint }

// NewNoDoubleBookingConstraint builds the constraint.
func NewNoDoubleBookingConstraint() *NoDoubleBookingConstraint {
	return &NoDoubleBookingConstraint{baseConstraint{name: ConstraintNoDoubleBooking, priority: 2}}
}

func (c *NoDoubleBookingConstraint) Validate(a models.Assignment, ctx *Context, tracker *ViolationTracker) bool {
	if !ctx.Assignments.StudentHasDate(a.StudentID, a.Date) {
		return true
	}
	tracker.RecordViolation(c.Name(), a, c.ViolationMessage(a, ctx))
	return false
}

func (c *NoDoubleBookingConstraint) ViolationMessage(a models.Assignment, _ *Context) string {
	return fmt.Sprintf("student %s is already assigned on %s", a.StudentID, a.Date)
}

// PreceptorAvailabilityConstraint requires the preceptor to work somewhere on the date.
type PreceptorAvailabilityConstraint struct{ baseConstraint }

// NewPreceptorAvailabilityConstraint builds the constraint.
func NewPreceptorAvailabilityConstraint() *PreceptorAvailabilityConstraint {
	return &PreceptorAvailabilityConstraint{baseConstraint{name: ConstraintPreceptorAvailability, priority: 3}}
}

func (c *PreceptorAvailabilityConstraint) Validate(a models.Assignment, ctx *Context, tracker *ViolationTracker) bool {
	if _, ok := ctx.SiteFor(a.PreceptorID, a.Date); ok {
		return true
	}
	tracker.RecordViolation(c.Name(), a, c.ViolationMessage(a, ctx))
	return false
}

func (c *PreceptorAvailabilityConstraint) ViolationMessage(a models.Assignment, _ *Context) string {
	return fmt.Sprintf("preceptor %s is not available on %s", a.PreceptorID, a.Date)
}

// SiteClerkshipConstraint requires the preceptor's site on the date to offer the
// clerkship. Without association data it passes.
type SiteClerkshipConstraint struct{ baseConstraint }

// NewSiteClerkshipConstraint builds the constraint.
func NewSiteClerkshipConstraint() *SiteClerkshipConstraint {
	return &SiteClerkshipConstraint{baseConstraint{name: ConstraintSiteClerkship, priority: 4}}
}

func (c *SiteClerkshipConstraint) Validate(a models.Assignment, ctx *Context, tracker *ViolationTracker) bool {
	site, ok := ctx.SiteFor(a.PreceptorID, a.Date)
	if !ok {
		return true
	}
	if open, known := ctx.SiteAvailability[site][a.Date]; known && !open {
		tracker.RecordViolation(c.Name(), a, c.ViolationMessage(a, ctx))
		return false
	}
	if sites, ok := ctx.PreceptorSiteClerkships[a.PreceptorID]; ok {
		if !sites[site][a.ClerkshipID] {
			tracker.RecordViolation(c.Name(), a, c.ViolationMessage(a, ctx))
			return false
		}
		return true
	}
	if sites, ok := ctx.ClerkshipSites[a.ClerkshipID]; ok && !sites[site] {
		tracker.RecordViolation(c.Name(), a, c.ViolationMessage(a, ctx))
		return false
	}
	return true
}

func (c *SiteClerkshipConstraint) ViolationMessage(a models.Assignment, ctx *Context) string {
	site, _ := ctx.SiteFor(a.PreceptorID, a.Date)
	return fmt.Sprintf("site %s does not offer clerkship %s on %s", site, a.ClerkshipID, a.Date)
}

// CapacityConstraint applies the preceptor's resolved capacity rule.
type CapacityConstraint struct {
	baseConstraint
	resolver *CapacityResolver
}

// NewCapacityConstraint builds the constraint around resolver.
func NewCapacityConstraint(resolver *CapacityResolver) *CapacityConstraint {
	return &CapacityConstraint{baseConstraint: baseConstraint{name: ConstraintCapacity, priority: 10}, resolver: resolver}
}

func (c *CapacityConstraint) Validate(a models.Assignment, ctx *Context, tracker *ViolationTracker) bool {
	if c.check(a, ctx).HasCapacity {
		return true
	}
	tracker.RecordViolation(c.Name(), a, c.ViolationMessage(a, ctx))
	return false
}

func (c *CapacityConstraint) ViolationMessage(a models.Assignment, ctx *Context) string {
	return c.check(a, ctx).Reason
}

func (c *CapacityConstraint) check(a models.Assignment, ctx *Context) CapacityCheckResult {
	opts := CapacityCheckOptions{ClerkshipID: a.ClerkshipID, StudentID: a.StudentID, BlockNumber: a.BlockNumber}
	if clerkship, ok := ctx.Clerkship(a.ClerkshipID); ok {
		opts.RequirementType = string(clerkship.ClerkshipType)
	}
	return c.resolver.CheckCapacity(ctx.Assignments, a.PreceptorID, a.Date, opts)
}

// HealthSystemContinuityConstraint keeps a student's clerkship within the health
// system of their earlier assignments for it. It is bypassable.
type HealthSystemContinuityConstraint struct{ baseConstraint }

// NewHealthSystemContinuityConstraint builds the constraint.
func NewHealthSystemContinuityConstraint() *HealthSystemContinuityConstraint {
	return &HealthSystemContinuityConstraint{baseConstraint{name: ConstraintHealthSystem, priority: 20, bypassable: true}}
}

func (c *HealthSystemContinuityConstraint) Validate(a models.Assignment, ctx *Context, tracker *ViolationTracker) bool {
	want, ok := establishedHealthSystem(a, ctx)
	if !ok {
		return true
	}
	p, found := ctx.Preceptor(a.PreceptorID)
	if found && p.HealthSystemID != nil && *p.HealthSystemID == want {
		return true
	}
	tracker.RecordViolation(c.Name(), a, c.ViolationMessage(a, ctx))
	return false
}

func (c *HealthSystemContinuityConstraint) ViolationMessage(a models.Assignment, ctx *Context) string {
	want, _ := establishedHealthSystem(a, ctx)
	return fmt.Sprintf("student %s is already placed in health system %s for clerkship %s", a.StudentID, want, a.ClerkshipID)
}

func establishedHealthSystem(a models.Assignment, ctx *Context) (string, bool) {
	for _, prior := range ctx.Assignments.ForStudent(a.StudentID) {
		if prior.ClerkshipID != a.ClerkshipID {
			continue
		}
		p, ok := ctx.Preceptor(prior.PreceptorID)
		if ok && p.HealthSystemID != nil {
			return *p.HealthSystemID, true
		}
	}
	return "", false
}

// OnboardingConstraint requires completed onboarding with the preceptor's health
// system when onboarding data was loaded.
type OnboardingConstraint struct{ baseConstraint }

// NewOnboardingConstraint builds the constraint.
func NewOnboardingConstraint() *OnboardingConstraint {
	return &OnboardingConstraint{baseConstraint{name: ConstraintOnboarding, priority: 15}}
}

func (c *OnboardingConstraint) Validate(a models.Assignment, ctx *Context, tracker *ViolationTracker) bool {
	if ctx.OnboardingCompleted == nil {
		return true
	}
	p, ok := ctx.Preceptor(a.PreceptorID)
	if !ok || p.HealthSystemID == nil {
		return true
	}
	if ctx.OnboardingCompleted[a.StudentID][*p.HealthSystemID] {
		return true
	}
	tracker.RecordViolation(c.Name(), a, c.ViolationMessage(a, ctx))
	return false
}

func (c *OnboardingConstraint) ViolationMessage(a models.Assignment, ctx *Context) string {
	p, _ := ctx.Preceptor(a.PreceptorID)
	hs := ""
	if p.HealthSystemID != nil {
		hs = *p.HealthSystemID
	}
	return fmt.Sprintf("student %s has not completed onboarding for health system %s", a.StudentID, hs)
}
