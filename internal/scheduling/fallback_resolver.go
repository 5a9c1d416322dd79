package scheduling

import "github.com/noah-isme/clerkship-scheduler/internal/models"

// FallbackCandidate is a substitute preceptor proposed for an unmet requirement.
type FallbackCandidate struct {
	PreceptorID string `json:"preceptorId"`
	TeamID      string `json:"teamId"`
	Tier        int    `json:"tier"`
	Priority    int    `json:"priority"`
}

// FallbackQuery parameterises OrderedFallbackPreceptors.
type FallbackQuery struct {
	ClerkshipID           string
	PrimaryTeamID         *string
	PrimaryHealthSystemID *string
	AllowCrossSystem      bool
	ExcludedIDs           map[string]bool
}

// FallbackResolver orders substitute preceptors by tier: same team, then same
// health system, then (optionally) any other team of the clerkship.
type FallbackResolver struct {
	ctx *Context
}

// NewFallbackResolver builds a resolver over the teams in ctx.
func NewFallbackResolver(ctx *Context) *FallbackResolver {
	return &FallbackResolver{ctx: ctx}
}

// TeamHealthSystem returns the health system of the team's highest-priority
// member, or false for a team with no members or an unknown team.
func (r *FallbackResolver) TeamHealthSystem(teamID string) (string, bool) {
	team, ok := r.ctx.Teams[teamID]
	if !ok || len(team.Members) == 0 {
		return "", false
	}
	lead := team.Members[0]
	for _, m := range team.Members[1:] {
		if m.Priority < lead.Priority {
			lead = m
		}
	}
	p, ok := r.ctx.Preceptor(lead.PreceptorID)
	if !ok || p.HealthSystemID == nil {
		return "", false
	}
	return *p.HealthSystemID, true
}

// OrderedFallbackPreceptors lists candidates tier by tier. A preceptor appears
// once, at the lowest tier they qualify for; within a tier, teams keep load
// order and members keep priority order.
func (r *FallbackResolver) OrderedFallbackPreceptors(q FallbackQuery) []FallbackCandidate {
	teams := r.ctx.TeamsForClerkship(q.ClerkshipID)
	included := make(map[string]bool)
	var out []FallbackCandidate

	take := func(team models.TeamWithMembers, tier int) {
		for _, m := range team.Members {
			if q.ExcludedIDs[m.PreceptorID] || included[m.PreceptorID] {
				continue
			}
			included[m.PreceptorID] = true
			out = append(out, FallbackCandidate{
				PreceptorID: m.PreceptorID,
				TeamID:      team.ID,
				Tier:        tier,
				Priority:    m.Priority,
			})
		}
	}

	primaryHS := q.PrimaryHealthSystemID
	if q.PrimaryTeamID != nil {
		if team, ok := r.ctx.Teams[*q.PrimaryTeamID]; ok {
			take(team, models.TierSameTeam)
			if primaryHS == nil {
				if hs, ok := r.TeamHealthSystem(team.ID); ok {
					primaryHS = &hs
				}
			}
		}
	}

	isPrimary := func(team models.TeamWithMembers) bool {
		return q.PrimaryTeamID != nil && team.ID == *q.PrimaryTeamID
	}

	var others []models.TeamWithMembers
	for _, team := range teams {
		if isPrimary(team) {
			continue
		}
		hs, ok := r.TeamHealthSystem(team.ID)
		if primaryHS != nil && ok && hs == *primaryHS {
			take(team, models.TierHealthSystem)
			continue
		}
		others = append(others, team)
	}

	if q.AllowCrossSystem {
		for _, team := range others {
			take(team, models.TierCrossSystem)
		}
	}
	return out
}
