package scheduling

import (
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// RequirementFulfillment reports days added to a requirement by the gap filler.
type RequirementFulfillment struct {
	StudentID       string `json:"studentId"`
	ClerkshipID     string `json:"clerkshipId"`
	RequirementType string `json:"requirementType"`
	RequiredDays    int    `json:"requiredDays"`
	AssignedDays    int    `json:"assignedDays"`
	AddedDays       int    `json:"addedDays"`
	RemainingDays   int    `json:"remainingDays"`
}

// GapFillResult classifies the outcome of one gap-filling pass.
type GapFillResult struct {
	Assignments           []models.Assignment      `json:"assignments"`
	FulfilledRequirements []RequirementFulfillment `json:"fulfilledRequirements"`
	PartialFulfillments   []RequirementFulfillment `json:"partialFulfillments"`
	StillUnmet            []UnmetRequirement       `json:"stillUnmet"`
}

// GapFiller repairs requirements the primary pass left unmet using tiered
// fallback preceptors. It is a single greedy sweep with no backtracking.
type GapFiller struct {
	ctx         *Context
	resolver    *FallbackResolver
	constraints *ConstraintSet
	logger      *zap.Logger
}

// NewGapFiller wires the gap filler's collaborators.
func NewGapFiller(ctx *Context, capacity *CapacityResolver, resolver *FallbackResolver, logger *zap.Logger) *GapFiller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = NewFallbackResolver(ctx)
	}
	return &GapFiller{
		ctx:         ctx,
		resolver:    resolver,
		constraints: GapFillConstraintSet(capacity),
		logger:      logger,
	}
}

// FillGaps processes requirements largest remaining gap first, so students
// furthest from completion claim scarce fallback capacity before others. New
// assignments never reuse a date the student already holds in existing.
func (g *GapFiller) FillGaps(
	unmet []UnmetRequirement,
	existing []models.Assignment,
	configs map[string]models.RequirementConfiguration,
	dateRange DateRange,
) GapFillResult {
	result := GapFillResult{
		Assignments:           []models.Assignment{},
		FulfilledRequirements: []RequirementFulfillment{},
		PartialFulfillments:   []RequirementFulfillment{},
		StillUnmet:            []UnmetRequirement{},
	}
	dates := dateRange.Dates()
	ledger := NewAssignmentLedger(existing)
	// Placements are checked against existing plus this pass's assignments.
	view := *g.ctx
	view.Assignments = ledger
	tracker := NewViolationTracker()
	tried := make(map[string]map[string]bool)

	ordered := make([]UnmetRequirement, len(unmet))
	copy(ordered, unmet)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RemainingDays > ordered[j].RemainingDays
	})

	for _, req := range ordered {
		cfg, ok := configs[req.ClerkshipID]
		if !ok || !cfg.AllowFallbacks {
			g.logger.Debug("requirement skipped by gap filler",
				zap.String("student_id", req.StudentID),
				zap.String("clerkship_id", req.ClerkshipID),
				zap.Bool("configured", ok))
			result.StillUnmet = append(result.StillUnmet, req)
			continue
		}

		key := req.StudentID + "|" + req.ClerkshipID
		if tried[key] == nil {
			tried[key] = make(map[string]bool)
		}
		excluded := make(map[string]bool, len(tried[key]))
		for id := range tried[key] {
			excluded[id] = true
		}

		candidates := g.resolver.OrderedFallbackPreceptors(FallbackQuery{
			ClerkshipID:           req.ClerkshipID,
			PrimaryTeamID:         req.PrimaryTeamID,
			PrimaryHealthSystemID: req.PrimaryHealthSystemID,
			AllowCrossSystem:      cfg.FallbackAllowCrossSystem,
			ExcludedIDs:           excluded,
		})

		remaining := req.RemainingDays
		added := 0
		for _, candidate := range candidates {
			if remaining <= 0 {
				break
			}
			tried[key][candidate.PreceptorID] = true
			for _, date := range dates {
				if remaining <= 0 {
					break
				}
				placement := models.Assignment{
					StudentID:   req.StudentID,
					PreceptorID: candidate.PreceptorID,
					ClerkshipID: req.ClerkshipID,
					Date:        date,
				}
				if !g.constraints.Allows(placement, &view, tracker) {
					continue
				}
				teamID := candidate.TeamID
				a := placement
				a.Tier = candidate.Tier
				a.FallbackTeamID = &teamID
				a.OriginalTeamID = &teamID
				a.PendingApproval = cfg.FallbackRequiresApproval
				ledger.Add(a)
				g.ctx.RecordAssignment(a)
				result.Assignments = append(result.Assignments, a)
				remaining--
				added++
			}
		}

		g.logger.Debug("gap filled",
			zap.String("student_id", req.StudentID),
			zap.String("clerkship_id", req.ClerkshipID),
			zap.Int("candidates", len(candidates)),
			zap.Int("added_days", added),
			zap.Int("remaining_days", remaining))

		fulfillment := RequirementFulfillment{
			StudentID:       req.StudentID,
			ClerkshipID:     req.ClerkshipID,
			RequirementType: req.RequirementType,
			RequiredDays:    req.RequiredDays,
			AssignedDays:    req.AssignedDays + added,
			AddedDays:       added,
			RemainingDays:   remaining,
		}
		switch {
		case remaining <= 0:
			result.FulfilledRequirements = append(result.FulfilledRequirements, fulfillment)
		case added > 0:
			result.PartialFulfillments = append(result.PartialFulfillments, fulfillment)
		default:
			req.Reason = ReasonNoFallbackCapacity
			result.StillUnmet = append(result.StillUnmet, req)
		}
	}
	g.logger.Debug("gap fill rejections", zap.Any("by_constraint", tracker.Counts()))
	return result
}
