package fixture

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
	"github.com/noah-isme/clerkship-scheduler/internal/service"
)

// Sources exposes the fixture as scheduling readers.
func (f *Fixture) Sources() service.SchedulingSources {
	return service.SchedulingSources{
		Students:      StudentSource{f},
		Preceptors:    PreceptorSource{f},
		Clerkships:    ClerkshipSource{f},
		Sites:         SiteSource{f},
		Availability:  AvailabilitySource{f},
		Teams:         TeamSource{f},
		CapacityRules: CapacityRuleSource{f},
		Configs:       RequirementSource{f},
		Assignments:   AssignmentSource{f},
	}
}

// TeamStore exposes the fixture teams for team validation and creation.
func (f *Fixture) TeamStore() TeamSource {
	return TeamSource{f}
}

func inRange(date, start, end string) bool {
	return (start == "" || date >= start) && (end == "" || date <= end)
}

func idSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func keep(set map[string]struct{}, id string) bool {
	if set == nil {
		return true
	}
	_, ok := set[id]
	return ok
}

// StudentSource serves students and onboarding.
type StudentSource struct{ f *Fixture }

func (s StudentSource) List(_ context.Context, ids []string) ([]models.Student, error) {
	set := idSet(ids)
	out := make([]models.Student, 0, len(s.f.Students))
	for _, st := range s.f.Students {
		if keep(set, st.ID) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s StudentSource) ListOnboarding(_ context.Context, ids []string) ([]models.StudentOnboarding, error) {
	set := idSet(ids)
	out := make([]models.StudentOnboarding, 0, len(s.f.Onboarding))
	for _, o := range s.f.Onboarding {
		if keep(set, o.StudentID) {
			out = append(out, o)
		}
	}
	return out, nil
}

// PreceptorSource serves preceptors and their teaching links.
type PreceptorSource struct{ f *Fixture }

func (s PreceptorSource) List(context.Context) ([]models.Preceptor, error) {
	return append([]models.Preceptor(nil), s.f.Preceptors...), nil
}

func (s PreceptorSource) ListSiteClerkships(context.Context) ([]models.PreceptorSiteClerkship, error) {
	return append([]models.PreceptorSiteClerkship(nil), s.f.SiteClerkships...), nil
}

func (s PreceptorSource) ListElectives(context.Context) ([]models.PreceptorElective, error) {
	return append([]models.PreceptorElective(nil), s.f.Electives...), nil
}

// ClerkshipSource serves clerkships and their sites.
type ClerkshipSource struct{ f *Fixture }

func (s ClerkshipSource) List(_ context.Context, ids []string) ([]models.Clerkship, error) {
	set := idSet(ids)
	out := make([]models.Clerkship, 0, len(s.f.Clerkships))
	for _, c := range s.f.Clerkships {
		if keep(set, c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s ClerkshipSource) ListSites(context.Context) ([]models.ClerkshipSite, error) {
	return append([]models.ClerkshipSite(nil), s.f.ClerkshipSites...), nil
}

// SiteSource serves sites with their calendars and limits.
type SiteSource struct{ f *Fixture }

func (s SiteSource) ListHealthSystems(context.Context) ([]models.HealthSystem, error) {
	return append([]models.HealthSystem(nil), s.f.HealthSystems...), nil
}

func (s SiteSource) List(context.Context) ([]models.Site, error) {
	return append([]models.Site(nil), s.f.Sites...), nil
}

func (s SiteSource) ListAvailabilityInRange(_ context.Context, start, end string) ([]models.SiteAvailability, error) {
	var out []models.SiteAvailability
	for _, a := range s.f.SiteAvailability {
		if inRange(a.Date, start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s SiteSource) ListCapacityRules(context.Context) ([]models.SiteCapacityRule, error) {
	return append([]models.SiteCapacityRule(nil), s.f.SiteCapacityRules...), nil
}

// AvailabilitySource serves preceptor availability and blackout dates.
type AvailabilitySource struct{ f *Fixture }

func (s AvailabilitySource) ListInRange(_ context.Context, start, end string) ([]models.PreceptorAvailability, error) {
	var out []models.PreceptorAvailability
	for _, a := range s.f.Availability {
		if inRange(a.Date, start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s AvailabilitySource) ListBlackoutsInRange(_ context.Context, start, end string) ([]models.BlackoutDate, error) {
	var out []models.BlackoutDate
	for _, b := range s.f.Blackouts {
		if inRange(b.Date, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

// TeamSource serves teams with their members.
type TeamSource struct{ f *Fixture }

func (s TeamSource) ListWithMembers(_ context.Context, clerkshipID string) ([]models.TeamWithMembers, error) {
	var out []models.TeamWithMembers
	for _, t := range s.f.Teams {
		if clerkshipID != "" && t.ClerkshipID != clerkshipID {
			continue
		}
		t.Members = append([]models.TeamMember(nil), t.Members...)
		out = append(out, t)
	}
	return out, nil
}

// CreateWithMembers appends a team to the fixture. The transaction is ignored.
func (s TeamSource) CreateWithMembers(_ context.Context, _ *sqlx.Tx, team *models.Team, members []models.TeamMember) error {
	if team.ID == "" {
		team.ID = fmt.Sprintf("team-%d", len(s.f.Teams)+1)
	}
	team.IsActive = true
	stored := models.TeamWithMembers{Team: *team, Members: make([]models.TeamMember, len(members))}
	for i, m := range members {
		m.TeamID = team.ID
		stored.Members[i] = m
	}
	s.f.Teams = append(s.f.Teams, stored)
	return nil
}

// CapacityRuleSource serves preceptor capacity rules.
type CapacityRuleSource struct{ f *Fixture }

func (s CapacityRuleSource) List(context.Context) ([]models.CapacityRule, error) {
	return append([]models.CapacityRule(nil), s.f.CapacityRules...), nil
}

// RequirementSource resolves one configuration per clerkship. Clerkships
// without a configured requirement get defaults with fallbacks disabled.
type RequirementSource struct{ f *Fixture }

func (s RequirementSource) List(context.Context) ([]models.RequirementConfiguration, error) {
	configured := make(map[string]models.RequirementConfiguration, len(s.f.Requirements))
	for _, r := range s.f.Requirements {
		configured[r.ClerkshipID] = r
	}

	out := make([]models.RequirementConfiguration, 0, len(s.f.Clerkships))
	for _, c := range s.f.Clerkships {
		if cfg, ok := configured[c.ID]; ok {
			if cfg.RequirementType == "" {
				cfg.RequirementType = string(c.ClerkshipType)
			}
			if cfg.RequiredDays == 0 {
				cfg.RequiredDays = c.RequiredDays
			}
			if cfg.AssignmentStrategy == "" {
				cfg.AssignmentStrategy = models.StrategyContinuous
			}
			if cfg.HealthSystemRule == "" {
				cfg.HealthSystemRule = models.HealthSystemNoPref
			}
			cfg.Source = models.ConfigSourceConfigured
			out = append(out, cfg)
			continue
		}
		out = append(out, models.RequirementConfiguration{
			ClerkshipID:        c.ID,
			RequirementType:    string(c.ClerkshipType),
			RequiredDays:       c.RequiredDays,
			AssignmentStrategy: models.StrategyContinuous,
			HealthSystemRule:   models.HealthSystemNoPref,
			Source:             models.ConfigSourceDefault,
		})
	}
	return out, nil
}

// AssignmentSource serves existing assignments.
type AssignmentSource struct{ f *Fixture }

func (s AssignmentSource) List(_ context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range s.f.Assignments {
		switch {
		case !inRange(a.Date, filter.StartDate, filter.EndDate):
		case filter.StudentID != "" && a.StudentID != filter.StudentID:
		case filter.PreceptorID != "" && a.PreceptorID != filter.PreceptorID:
		case filter.ClerkshipID != "" && a.ClerkshipID != filter.ClerkshipID:
		default:
			out = append(out, a)
		}
	}
	return out, nil
}
