package scheduling

import (
	"fmt"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// Rule sources, from most to least specific.
const (
	SourceClerkshipRequirement = "clerkship_requirement"
	SourceClerkship            = "clerkship"
	SourceRequirementType      = "requirement_type"
	SourcePreceptorGeneral     = "preceptor_general"
	SourceDefault              = "default"
)

// Capacity check dimensions.
const (
	CheckDaily  = "daily"
	CheckYearly = "yearly"
	CheckBlock  = "block"
)

const (
	defaultMaxPerDay  = 2
	defaultMaxPerYear = 20
)

// ResolvedCapacityRule is the capacity rule that applies to one lookup.
type ResolvedCapacityRule struct {
	MaxPerDay        int    `json:"maxPerDay"`
	MaxPerYear       int    `json:"maxPerYear"`
	MaxPerBlock      *int   `json:"maxPerBlock,omitempty"`
	MaxBlocksPerYear *int   `json:"maxBlocksPerYear,omitempty"`
	Source           string `json:"source"`
}

// CapacityCheckResult reports whether a preceptor can take another student.
type CapacityCheckResult struct {
	HasCapacity  bool   `json:"hasCapacity"`
	Reason       string `json:"reason,omitempty"`
	CurrentCount int    `json:"currentCount,omitempty"`
	MaxAllowed   int    `json:"maxAllowed,omitempty"`
	CheckType    string `json:"checkType,omitempty"`
}

// CapacityDefaults overrides the fallback limits used when no rule matches.
type CapacityDefaults struct {
	MaxPerDay  int
	MaxPerYear int
}

// CapacityCheckOptions narrows a capacity check.
type CapacityCheckOptions struct {
	ClerkshipID     string
	RequirementType string
	StudentID       string
	BlockNumber     *int
}

type capacityKey struct {
	preceptorID     string
	clerkshipID     string
	requirementType string
}

// CapacityResolver resolves capacity rules by specificity and checks usage
// against them. Resolutions are cached for the life of the resolver, which
// should not outlive a run.
type CapacityResolver struct {
	preceptors map[string]models.Preceptor
	rules      map[string][]models.CapacityRule
	defaults   CapacityDefaults
	cache      map[capacityKey]ResolvedCapacityRule
}

// NewCapacityResolver indexes rules by preceptor.
func NewCapacityResolver(preceptors []models.Preceptor, rules []models.CapacityRule, defaults CapacityDefaults) *CapacityResolver {
	if defaults.MaxPerDay <= 0 {
		defaults.MaxPerDay = defaultMaxPerDay
	}
	if defaults.MaxPerYear <= 0 {
		defaults.MaxPerYear = defaultMaxPerYear
	}
	r := &CapacityResolver{
		preceptors: make(map[string]models.Preceptor, len(preceptors)),
		rules:      make(map[string][]models.CapacityRule),
		defaults:   defaults,
		cache:      make(map[capacityKey]ResolvedCapacityRule),
	}
	for _, p := range preceptors {
		r.preceptors[p.ID] = p
	}
	for _, rule := range rules {
		r.rules[rule.PreceptorID] = append(r.rules[rule.PreceptorID], rule)
	}
	return r
}

// Resolve returns the first matching rule in order: clerkship and requirement
// type, clerkship only, requirement type only, preceptor general, default.
// Empty clerkshipID or requirementType means the caller has none.
func (r *CapacityResolver) Resolve(preceptorID, clerkshipID, requirementType string) ResolvedCapacityRule {
	key := capacityKey{preceptorID: preceptorID, clerkshipID: clerkshipID, requirementType: requirementType}
	if cached, ok := r.cache[key]; ok {
		return cached
	}
	resolved := r.resolve(preceptorID, clerkshipID, requirementType)
	r.cache[key] = resolved
	return resolved
}

func (r *CapacityResolver) resolve(preceptorID, clerkshipID, requirementType string) ResolvedCapacityRule {
	rules := r.rules[preceptorID]

	if clerkshipID != "" && requirementType != "" {
		if rule, ok := findRule(rules, func(c models.CapacityRule) bool {
			return matches(c.ClerkshipID, clerkshipID) && matches(c.RequirementType, requirementType)
		}); ok {
			return fromRule(rule, SourceClerkshipRequirement)
		}
	}
	if clerkshipID != "" {
		if rule, ok := findRule(rules, func(c models.CapacityRule) bool {
			return matches(c.ClerkshipID, clerkshipID) && c.RequirementType == nil
		}); ok {
			return fromRule(rule, SourceClerkship)
		}
	}
	if requirementType != "" {
		if rule, ok := findRule(rules, func(c models.CapacityRule) bool {
			return c.ClerkshipID == nil && matches(c.RequirementType, requirementType)
		}); ok {
			return fromRule(rule, SourceRequirementType)
		}
	}
	if rule, ok := findRule(rules, func(c models.CapacityRule) bool {
		return c.ClerkshipID == nil && c.RequirementType == nil
	}); ok {
		return fromRule(rule, SourcePreceptorGeneral)
	}

	maxPerYear := r.defaults.MaxPerYear
	if p, ok := r.preceptors[preceptorID]; ok && p.MaxStudents != nil {
		maxPerYear = *p.MaxStudents
	}
	return ResolvedCapacityRule{
		MaxPerDay:  r.defaults.MaxPerDay,
		MaxPerYear: maxPerYear,
		Source:     SourceDefault,
	}
}

// CheckCapacity runs the daily, yearly and block checks in order against the
// assignments already in ledger, stopping at the first failure.
func (r *CapacityResolver) CheckCapacity(ledger *AssignmentLedger, preceptorID, date string, opts CapacityCheckOptions) CapacityCheckResult {
	rule := r.Resolve(preceptorID, opts.ClerkshipID, opts.RequirementType)

	daily := ledger.PreceptorCountOn(preceptorID, date)
	if daily >= rule.MaxPerDay {
		return CapacityCheckResult{
			Reason:       fmt.Sprintf("preceptor %s has reached daily capacity on %s", preceptorID, date),
			CurrentCount: daily,
			MaxAllowed:   rule.MaxPerDay,
			CheckType:    CheckDaily,
		}
	}

	yearly := ledger.PreceptorCountInYear(preceptorID, date)
	if yearly >= rule.MaxPerYear {
		return CapacityCheckResult{
			Reason:       fmt.Sprintf("preceptor %s has reached yearly capacity for %s", preceptorID, yearOf(date)),
			CurrentCount: yearly,
			MaxAllowed:   rule.MaxPerYear,
			CheckType:    CheckYearly,
		}
	}

	if opts.BlockNumber != nil && (rule.MaxPerBlock != nil || rule.MaxBlocksPerYear != nil) {
		if result, ok := checkBlock(ledger, rule, preceptorID, date, opts); !ok {
			return result
		}
	}
	return CapacityCheckResult{HasCapacity: true}
}

func checkBlock(ledger *AssignmentLedger, rule ResolvedCapacityRule, preceptorID, date string, opts CapacityCheckOptions) (CapacityCheckResult, bool) {
	block := *opts.BlockNumber
	if rule.MaxPerBlock != nil {
		students := ledger.PreceptorBlockStudents(preceptorID, block, date)
		if _, already := students[opts.StudentID]; !already && len(students) >= *rule.MaxPerBlock {
			return CapacityCheckResult{
				Reason:       fmt.Sprintf("preceptor %s block %d is full", preceptorID, block),
				CurrentCount: len(students),
				MaxAllowed:   *rule.MaxPerBlock,
				CheckType:    CheckBlock,
			}, false
		}
	}
	if rule.MaxBlocksPerYear != nil {
		blocks := ledger.PreceptorBlocksInYear(preceptorID, date)
		if len(blocks) >= *rule.MaxBlocksPerYear {
			return CapacityCheckResult{
				Reason:       fmt.Sprintf("preceptor %s has reached block limit for %s", preceptorID, yearOf(date)),
				CurrentCount: len(blocks),
				MaxAllowed:   *rule.MaxBlocksPerYear,
				CheckType:    CheckBlock,
			}, false
		}
	}
	return CapacityCheckResult{}, true
}

func findRule(rules []models.CapacityRule, match func(models.CapacityRule) bool) (models.CapacityRule, bool) {
	for _, rule := range rules {
		if match(rule) {
			return rule, true
		}
	}
	return models.CapacityRule{}, false
}

func matches(field *string, want string) bool {
	return field != nil && *field == want
}

func fromRule(rule models.CapacityRule, source string) ResolvedCapacityRule {
	return ResolvedCapacityRule{
		MaxPerDay:        rule.MaxStudentsPerDay,
		MaxPerYear:       rule.MaxStudentsPerYear,
		MaxPerBlock:      rule.MaxStudentsPerBlock,
		MaxBlocksPerYear: rule.MaxBlocksPerYear,
		Source:           source,
	}
}
