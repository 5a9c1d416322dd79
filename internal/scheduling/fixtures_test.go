package scheduling

import (
	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func availabilityRows(preceptorID, siteID string, dates ...string) []models.PreceptorAvailability {
	rows := make([]models.PreceptorAvailability, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, models.PreceptorAvailability{PreceptorID: preceptorID, SiteID: strPtr(siteID), Date: d, IsAvailable: true})
	}
	return rows
}

func member(preceptorID string, priority int) models.TeamMember {
	return models.TeamMember{PreceptorID: preceptorID, Priority: priority}
}

func team(id, clerkshipID string, members ...models.TeamMember) models.TeamWithMembers {
	for i := range members {
		members[i].TeamID = id
	}
	return models.TeamWithMembers{Team: models.Team{ID: id, ClerkshipID: clerkshipID, Name: id, IsActive: true}, Members: members}
}

var decemberWeek = []string{"2025-12-01", "2025-12-02", "2025-12-03", "2025-12-04", "2025-12-05"}

type fixture struct {
	students     []models.Student
	preceptors   []models.Preceptor
	clerkships   []models.Clerkship
	availability []models.PreceptorAvailability
	rules        []models.CapacityRule
	teams        []models.TeamWithMembers
	blackouts    []string
}

func (f fixture) build() (*Context, *CapacityResolver) {
	ctx := BuildSchedulingContext(f.students, f.preceptors, f.clerkships, f.blackouts, f.availability,
		"2025-12-01", "2025-12-31", &OptionalData{Teams: f.teams})
	return ctx, NewCapacityResolver(f.preceptors, f.rules, CapacityDefaults{})
}

// sharedTeamFixture is two same-team preceptors, each available on the given
// dates with a daily capacity of one.
func sharedTeamFixture(dates []string) fixture {
	f := fixture{
		students: []models.Student{{ID: "student-1", Name: "Ada"}},
		preceptors: []models.Preceptor{
			{ID: "preceptor-1", Name: "Dr One", HealthSystemID: strPtr("hs-1"), SiteID: strPtr("site-1")},
			{ID: "preceptor-2", Name: "Dr Two", HealthSystemID: strPtr("hs-1"), SiteID: strPtr("site-1")},
		},
		clerkships: []models.Clerkship{{ID: "family-med", Name: "Family Medicine", ClerkshipType: models.ClerkshipTypeOutpatient, RequiredDays: 5}},
		rules: []models.CapacityRule{
			{ID: "rule-1", PreceptorID: "preceptor-1", MaxStudentsPerDay: 1, MaxStudentsPerYear: 50},
			{ID: "rule-2", PreceptorID: "preceptor-2", MaxStudentsPerDay: 1, MaxStudentsPerYear: 50},
		},
		teams: []models.TeamWithMembers{team("team-1", "family-med", member("preceptor-1", 1), member("preceptor-2", 2))},
	}
	f.availability = append(availabilityRows("preceptor-1", "site-1", dates...), availabilityRows("preceptor-2", "site-1", dates...)...)
	return f
}

func fallbackConfig(clerkshipID string) models.RequirementConfiguration {
	return models.RequirementConfiguration{
		ClerkshipID:      clerkshipID,
		RequirementType:  string(models.ClerkshipTypeOutpatient),
		RequiredDays:     5,
		AllowTeams:       true,
		AllowFallbacks:   true,
		HealthSystemRule: models.HealthSystemPreferSame,
	}
}
