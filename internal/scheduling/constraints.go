package scheduling

import (
	"sort"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// Constraint validates a single proposed assignment against the run context.
// Lower priorities are evaluated first, so cheap checks should use small values.
type Constraint interface {
	Name() string
	Priority() int
	// Bypassable marks constraints a caller may waive by policy.
	Bypassable() bool
	// Validate returns false and records a violation on failure.
	Validate(a models.Assignment, ctx *Context, tracker *ViolationTracker) bool
	ViolationMessage(a models.Assignment, ctx *Context) string
}

// Violation is one recorded constraint failure.
type Violation struct {
	Constraint  string `json:"constraint"`
	Message     string `json:"message"`
	StudentID   string `json:"studentId"`
	PreceptorID string `json:"preceptorId"`
	Date        string `json:"date"`
}

// ViolationTracker collects violations across a run.
type ViolationTracker struct {
	counts     map[string]int
	violations []Violation
}

// NewViolationTracker returns an empty tracker.
func NewViolationTracker() *ViolationTracker {
	return &ViolationTracker{counts: make(map[string]int)}
}

// RecordViolation counts a failure of the named constraint.
func (t *ViolationTracker) RecordViolation(name string, a models.Assignment, message string) {
	t.counts[name]++
	t.violations = append(t.violations, Violation{
		Constraint:  name,
		Message:     message,
		StudentID:   a.StudentID,
		PreceptorID: a.PreceptorID,
		Date:        a.Date,
	})
}

// Count returns how often the named constraint failed.
func (t *ViolationTracker) Count(name string) int {
	return t.counts[name]
}

// Total returns the number of recorded violations.
func (t *ViolationTracker) Total() int {
	return len(t.violations)
}

// Counts returns a copy of the per-constraint counters.
func (t *ViolationTracker) Counts() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Violations returns recorded violations in order.
func (t *ViolationTracker) Violations() []Violation {
	out := make([]Violation, len(t.violations))
	copy(out, t.violations)
	return out
}

// ConstraintSet evaluates constraints in ascending priority, stable on ties.
type ConstraintSet struct {
	constraints []Constraint
}

// NewConstraintSet builds a set from constraints.
func NewConstraintSet(constraints ...Constraint) *ConstraintSet {
	s := &ConstraintSet{}
	for _, c := range constraints {
		s.Add(c)
	}
	return s
}

// Add inserts a constraint keeping priority order.
func (s *ConstraintSet) Add(c Constraint) {
	s.constraints = append(s.constraints, c)
	sort.SliceStable(s.constraints, func(i, j int) bool {
		return s.constraints[i].Priority() < s.constraints[j].Priority()
	})
}

// Constraints returns the constraints in evaluation order.
func (s *ConstraintSet) Constraints() []Constraint {
	out := make([]Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// Allows reports whether a passes every constraint, stopping at the first failure.
func (s *ConstraintSet) Allows(a models.Assignment, ctx *Context, tracker *ViolationTracker) bool {
	for _, c := range s.constraints {
		if !c.Validate(a, ctx, tracker) {
			return false
		}
	}
	return true
}

// Explain evaluates every constraint and returns the names of those that failed.
func (s *ConstraintSet) Explain(a models.Assignment, ctx *Context, tracker *ViolationTracker) []string {
	var failed []string
	for _, c := range s.constraints {
		if !c.Validate(a, ctx, tracker) {
			failed = append(failed, c.Name())
		}
	}
	return failed
}

// baseConstraint supplies the identity half of the Constraint interface.
type baseConstraint struct {
	name       string
	priority   int
	bypassable bool
}

func (b baseConstraint) Name() string     { return b.name }
func (b baseConstraint) Priority() int    { return b.priority }
func (b baseConstraint) Bypassable() bool { return b.bypassable }
