package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
	"github.com/noah-isme/clerkship-scheduler/internal/repository"
	"github.com/noah-isme/clerkship-scheduler/internal/scheduling"
)

type studentReader interface {
	List(ctx context.Context, ids []string) ([]models.Student, error)
	ListOnboarding(ctx context.Context, ids []string) ([]models.StudentOnboarding, error)
}

type preceptorReader interface {
	List(ctx context.Context) ([]models.Preceptor, error)
	ListSiteClerkships(ctx context.Context) ([]models.PreceptorSiteClerkship, error)
	ListElectives(ctx context.Context) ([]models.PreceptorElective, error)
}

type clerkshipReader interface {
	List(ctx context.Context, ids []string) ([]models.Clerkship, error)
	ListSites(ctx context.Context) ([]models.ClerkshipSite, error)
}

type siteReader interface {
	ListHealthSystems(ctx context.Context) ([]models.HealthSystem, error)
	List(ctx context.Context) ([]models.Site, error)
	ListAvailabilityInRange(ctx context.Context, start, end string) ([]models.SiteAvailability, error)
	ListCapacityRules(ctx context.Context) ([]models.SiteCapacityRule, error)
}

type availabilityReader interface {
	ListInRange(ctx context.Context, start, end string) ([]models.PreceptorAvailability, error)
	ListBlackoutsInRange(ctx context.Context, start, end string) ([]models.BlackoutDate, error)
}

type teamReader interface {
	ListWithMembers(ctx context.Context, clerkshipID string) ([]models.TeamWithMembers, error)
}

type capacityRuleReader interface {
	List(ctx context.Context) ([]models.CapacityRule, error)
}

type requirementConfigReader interface {
	List(ctx context.Context) ([]models.RequirementConfiguration, error)
}

type assignmentReader interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
}

// SchedulingSources bundles the readers a run bulk-loads its facts from.
type SchedulingSources struct {
	Students      studentReader
	Preceptors    preceptorReader
	Clerkships    clerkshipReader
	Sites         siteReader
	Availability  availabilityReader
	Teams         teamReader
	CapacityRules capacityRuleReader
	Configs       requirementConfigReader
	Assignments   assignmentReader
}

// runFacts is everything one run reads before the engine starts.
type runFacts struct {
	context  *scheduling.Context
	rules    []models.CapacityRule
	configs  map[string]models.RequirementConfiguration
	existing []models.Assignment
}

// load reads every fact for [start, end] concurrently and builds the run
// context. Persisted assignments are replayed so remaining days reflect them.
// Assignments outside the range are loaded too since they count towards
// requirements and yearly capacity.
func (s SchedulingSources) load(ctx context.Context, start, end string, studentIDs, clerkshipIDs []string) (*runFacts, error) {
	var (
		students     []models.Student
		onboarding   []models.StudentOnboarding
		preceptors   []models.Preceptor
		siteLinks    []models.PreceptorSiteClerkship
		electives    []models.PreceptorElective
		clerkships   []models.Clerkship
		clerkSites   []models.ClerkshipSite
		systems      []models.HealthSystem
		sites        []models.Site
		siteDays     []models.SiteAvailability
		siteRules    []models.SiteCapacityRule
		availability []models.PreceptorAvailability
		blackouts    []models.BlackoutDate
		teams        []models.TeamWithMembers
		rules        []models.CapacityRule
		configs      []models.RequirementConfiguration
		existing     []models.Assignment
	)

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			return nil
		})
	}

	fetch("students", func(c context.Context) (err error) { students, err = s.Students.List(c, studentIDs); return })
	fetch("onboarding", func(c context.Context) (err error) { onboarding, err = s.Students.ListOnboarding(c, studentIDs); return })
	fetch("preceptors", func(c context.Context) (err error) { preceptors, err = s.Preceptors.List(c); return })
	fetch("preceptor sites", func(c context.Context) (err error) { siteLinks, err = s.Preceptors.ListSiteClerkships(c); return })
	fetch("electives", func(c context.Context) (err error) { electives, err = s.Preceptors.ListElectives(c); return })
	fetch("clerkships", func(c context.Context) (err error) { clerkships, err = s.Clerkships.List(c, clerkshipIDs); return })
	fetch("clerkship sites", func(c context.Context) (err error) { clerkSites, err = s.Clerkships.ListSites(c); return })
	fetch("health systems", func(c context.Context) (err error) { systems, err = s.Sites.ListHealthSystems(c); return })
	fetch("sites", func(c context.Context) (err error) { sites, err = s.Sites.List(c); return })
	fetch("site availability", func(c context.Context) (err error) { siteDays, err = s.Sites.ListAvailabilityInRange(c, start, end); return })
	fetch("site capacity", func(c context.Context) (err error) { siteRules, err = s.Sites.ListCapacityRules(c); return })
	fetch("availability", func(c context.Context) (err error) { availability, err = s.Availability.ListInRange(c, start, end); return })
	fetch("blackouts", func(c context.Context) (err error) { blackouts, err = s.Availability.ListBlackoutsInRange(c, start, end); return })
	fetch("teams", func(c context.Context) (err error) { teams, err = s.Teams.ListWithMembers(c, ""); return })
	fetch("capacity rules", func(c context.Context) (err error) { rules, err = s.CapacityRules.List(c); return })
	fetch("requirement configs", func(c context.Context) (err error) { configs, err = s.Configs.List(c); return })
	fetch("assignments", func(c context.Context) (err error) {
		existing, err = s.Assignments.List(c, models.AssignmentFilter{})
		return
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	blackoutDates := make([]string, len(blackouts))
	for i, b := range blackouts {
		blackoutDates[i] = b.Date
	}

	runCtx := scheduling.BuildSchedulingContext(students, preceptors, clerkships, blackoutDates, availability, start, end, &scheduling.OptionalData{
		HealthSystems:           systems,
		Sites:                   sites,
		Teams:                   teams,
		Onboarding:              onboarding,
		PreceptorElectives:      electives,
		PreceptorSiteClerkships: siteLinks,
		ClerkshipSites:          clerkSites,
		SiteAvailability:        siteDays,
		SiteCapacityRules:       siteRules,
	})
	for _, a := range existing {
		runCtx.RecordAssignment(a)
	}

	return &runFacts{context: runCtx, rules: rules, configs: repository.ByClerkship(configs), existing: existing}, nil
}

// annotateUnmet attaches the primary team and health system from the
// student's earliest assignment for the clerkship, and explains requirements
// the gap filler will not attempt.
func annotateUnmet(ctx *scheduling.Context, configs map[string]models.RequirementConfiguration, unmet []scheduling.UnmetRequirement) {
	for i := range unmet {
		req := &unmet[i]
		for _, a := range ctx.Assignments.ForStudent(req.StudentID) {
			if a.ClerkshipID != req.ClerkshipID {
				continue
			}
			if a.OriginalTeamID != nil {
				teamID := *a.OriginalTeamID
				req.PrimaryTeamID = &teamID
			} else if teamID, ok := ctx.PreceptorTeamFor(a.PreceptorID, a.ClerkshipID); ok {
				req.PrimaryTeamID = &teamID
			}
			if p, ok := ctx.Preceptor(a.PreceptorID); ok && p.HealthSystemID != nil {
				hs := *p.HealthSystemID
				req.PrimaryHealthSystemID = &hs
			}
			break
		}

		cfg, ok := configs[req.ClerkshipID]
		switch {
		case !ok || cfg.Source == models.ConfigSourceDefault:
			req.Reason = scheduling.ReasonNoConfiguration
		case !cfg.AllowFallbacks:
			req.Reason = scheduling.ReasonFallbacksDisabled
		}
	}
}
