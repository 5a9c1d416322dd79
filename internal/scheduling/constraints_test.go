package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

type stubConstraint struct {
	baseConstraint
	pass  bool
	calls *[]string
}

func newStubConstraint(name string, priority int, pass bool, calls *[]string) *stubConstraint {
	return &stubConstraint{baseConstraint: baseConstraint{name: name, priority: priority}, pass: pass, calls: calls}
}

func (s *stubConstraint) Validate(a models.Assignment, ctx *Context, tracker *ViolationTracker) bool {
	*s.calls = append(*s.calls, s.name)
	if !s.pass {
		tracker.RecordViolation(s.name, a, s.ViolationMessage(a, ctx))
	}
	return s.pass
}

func (s *stubConstraint) ViolationMessage(models.Assignment, *Context) string {
	return s.name + " failed"
}

func TestConstraintSetOrdersByPriorityStable(t *testing.T) {
	var calls []string
	set := NewConstraintSet(
		newStubConstraint("late", 30, true, &calls),
		newStubConstraint("first-tie", 5, true, &calls),
		newStubConstraint("second-tie", 5, true, &calls),
		newStubConstraint("early", 1, true, &calls),
	)

	var names []string
	for _, c := range set.Constraints() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"early", "first-tie", "second-tie", "late"}, names)
}

func TestConstraintSetAllowsStopsAtFirstFailure(t *testing.T) {
	var calls []string
	set := NewConstraintSet(
		newStubConstraint("a", 1, true, &calls),
		newStubConstraint("b", 2, false, &calls),
		newStubConstraint("c", 3, false, &calls),
	)
	tracker := NewViolationTracker()

	assert.False(t, set.Allows(models.Assignment{StudentID: "s1", Date: "2025-12-01"}, nil, tracker))
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, 1, tracker.Total())
	assert.Equal(t, 1, tracker.Count("b"))
	assert.Zero(t, tracker.Count("c"))
}

func TestConstraintSetExplainListsEveryFailure(t *testing.T) {
	var calls []string
	set := NewConstraintSet(
		newStubConstraint("a", 1, false, &calls),
		newStubConstraint("b", 2, true, &calls),
		newStubConstraint("c", 3, false, &calls),
	)
	tracker := NewViolationTracker()

	failed := set.Explain(models.Assignment{}, nil, tracker)
	assert.Equal(t, []string{"a", "c"}, failed)
	assert.Equal(t, map[string]int{"a": 1, "c": 1}, tracker.Counts())

	violations := tracker.Violations()
	require.Len(t, violations, 2)
	assert.Equal(t, "c failed", violations[1].Message)
}

func builtinContext() *Context {
	preceptors := []models.Preceptor{
		{ID: "p1", HealthSystemID: strPtr("hs-1")},
		{ID: "p2", HealthSystemID: strPtr("hs-2")},
	}
	clerkships := []models.Clerkship{{ID: "surgery", ClerkshipType: models.ClerkshipTypeInpatient, RequiredDays: 10}}
	availability := append(availabilityRows("p1", "site-1", decemberWeek...), availabilityRows("p2", "site-2", decemberWeek...)...)
	return BuildSchedulingContext([]models.Student{{ID: "s1"}}, preceptors, clerkships, []string{"2025-12-05"}, availability,
		"2025-12-01", "2025-12-31", &OptionalData{
			ClerkshipSites:   []models.ClerkshipSite{{ClerkshipID: "surgery", SiteID: "site-1"}, {ClerkshipID: "surgery", SiteID: "site-2"}},
			SiteAvailability: []models.SiteAvailability{{SiteID: "site-2", Date: "2025-12-04", IsAvailable: false}},
		})
}

func TestBuiltinConstraints(t *testing.T) {
	newAssignment := func(preceptorID, date string) models.Assignment {
		return models.Assignment{StudentID: "s1", PreceptorID: preceptorID, ClerkshipID: "surgery", Date: date}
	}

	t.Run("blackout", func(t *testing.T) {
		ctx := builtinContext()
		c := NewBlackoutDateConstraint()
		assert.False(t, c.Validate(newAssignment("p1", "2025-12-05"), ctx, NewViolationTracker()))
		assert.True(t, c.Validate(newAssignment("p1", "2025-12-04"), ctx, NewViolationTracker()))
	})

	t.Run("double booking", func(t *testing.T) {
		ctx := builtinContext()
		ctx.RecordAssignment(newAssignment("p2", "2025-12-01"))
		c := NewNoDoubleBookingConstraint()
		assert.False(t, c.Validate(newAssignment("p1", "2025-12-01"), ctx, NewViolationTracker()))
		assert.True(t, c.Validate(newAssignment("p1", "2025-12-02"), ctx, NewViolationTracker()))
	})

	t.Run("availability", func(t *testing.T) {
		ctx := builtinContext()
		c := NewPreceptorAvailabilityConstraint()
		assert.True(t, c.Validate(newAssignment("p1", "2025-12-01"), ctx, NewViolationTracker()))
		assert.False(t, c.Validate(newAssignment("p1", "2025-12-08"), ctx, NewViolationTracker()))
		assert.False(t, c.Validate(newAssignment("ghost", "2025-12-01"), ctx, NewViolationTracker()))
	})

	t.Run("site clerkship", func(t *testing.T) {
		ctx := builtinContext()
		c := NewSiteClerkshipConstraint()
		assert.True(t, c.Validate(newAssignment("p2", "2025-12-03"), ctx, NewViolationTracker()))
		assert.False(t, c.Validate(newAssignment("p2", "2025-12-04"), ctx, NewViolationTracker()))

		ctx.ClerkshipSites = map[string]map[string]bool{"surgery": {"site-1": true}}
		assert.False(t, c.Validate(newAssignment("p2", "2025-12-03"), ctx, NewViolationTracker()))

		ctx.PreceptorSiteClerkships = map[string]map[string]map[string]bool{"p2": {"site-2": {"surgery": true}}}
		assert.True(t, c.Validate(newAssignment("p2", "2025-12-03"), ctx, NewViolationTracker()))
	})

	t.Run("capacity", func(t *testing.T) {
		ctx := builtinContext()
		resolver := NewCapacityResolver(ctx.Preceptors, []models.CapacityRule{
			{PreceptorID: "p1", RequirementType: strPtr("inpatient"), MaxStudentsPerDay: 1, MaxStudentsPerYear: 10},
		}, CapacityDefaults{})
		ctx.RecordAssignment(models.Assignment{StudentID: "s9", PreceptorID: "p1", ClerkshipID: "surgery", Date: "2025-12-02"})
		c := NewCapacityConstraint(resolver)
		tracker := NewViolationTracker()

		assert.False(t, c.Validate(newAssignment("p1", "2025-12-02"), ctx, tracker))
		assert.Contains(t, tracker.Violations()[0].Message, "daily capacity")
		assert.True(t, c.Validate(newAssignment("p1", "2025-12-03"), ctx, tracker))
	})

	t.Run("health system continuity", func(t *testing.T) {
		ctx := builtinContext()
		c := NewHealthSystemContinuityConstraint()
		assert.True(t, c.Bypassable())
		assert.True(t, c.Validate(newAssignment("p2", "2025-12-02"), ctx, NewViolationTracker()))

		ctx.RecordAssignment(newAssignment("p1", "2025-12-01"))
		assert.True(t, c.Validate(newAssignment("p1", "2025-12-02"), ctx, NewViolationTracker()))
		assert.False(t, c.Validate(newAssignment("p2", "2025-12-02"), ctx, NewViolationTracker()))
	})

	t.Run("onboarding", func(t *testing.T) {
		ctx := builtinContext()
		c := NewOnboardingConstraint()
		assert.True(t, c.Validate(newAssignment("p2", "2025-12-02"), ctx, NewViolationTracker()))

		ctx.OnboardingCompleted = map[string]map[string]bool{"s1": {"hs-1": true}}
		assert.True(t, c.Validate(newAssignment("p1", "2025-12-02"), ctx, NewViolationTracker()))
		assert.False(t, c.Validate(newAssignment("p2", "2025-12-02"), ctx, NewViolationTracker()))
	})
}

func TestDefaultConstraintSetOrder(t *testing.T) {
	set := DefaultConstraintSet(NewCapacityResolver(nil, nil, CapacityDefaults{}))
	var names []string
	for _, c := range set.Constraints() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{
		ConstraintBlackout,
		ConstraintNoDoubleBooking,
		ConstraintPreceptorAvailability,
		ConstraintSiteClerkship,
		ConstraintCapacity,
		ConstraintOnboarding,
		ConstraintHealthSystem,
	}, names)
}

func TestGapFillConstraintSetOrder(t *testing.T) {
	set := GapFillConstraintSet(NewCapacityResolver(nil, nil, CapacityDefaults{}))
	var names []string
	for _, c := range set.Constraints() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{
		ConstraintBlackout,
		ConstraintNoDoubleBooking,
		ConstraintPreceptorAvailability,
		ConstraintCapacity,
	}, names)
}
