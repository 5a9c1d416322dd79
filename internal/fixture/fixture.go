// Package fixture loads a complete scheduling dataset from YAML and serves it
// through the same reader interfaces the database repositories satisfy, so the
// engine can run offline.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/clerkship-scheduler/internal/dto"
	"github.com/noah-isme/clerkship-scheduler/internal/models"
	"github.com/noah-isme/clerkship-scheduler/internal/scheduling"
)

// Range is the default scheduling window of a fixture.
type Range struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Fixture is an in-memory copy of every table a run reads.
type Fixture struct {
	Range             Range                             `yaml:"range"`
	HealthSystems     []models.HealthSystem             `yaml:"health_systems"`
	Sites             []models.Site                     `yaml:"sites"`
	Students          []models.Student                  `yaml:"students"`
	Onboarding        []models.StudentOnboarding        `yaml:"onboarding"`
	Preceptors        []models.Preceptor                `yaml:"preceptors"`
	SiteClerkships    []models.PreceptorSiteClerkship   `yaml:"preceptor_site_clerkships"`
	Electives         []models.PreceptorElective        `yaml:"preceptor_electives"`
	Clerkships        []models.Clerkship                `yaml:"clerkships"`
	ClerkshipSites    []models.ClerkshipSite            `yaml:"clerkship_sites"`
	Availability      []models.PreceptorAvailability    `yaml:"availability"`
	SiteAvailability  []models.SiteAvailability         `yaml:"site_availability"`
	Blackouts         []models.BlackoutDate             `yaml:"blackouts"`
	Teams             []models.TeamWithMembers          `yaml:"teams"`
	CapacityRules     []models.CapacityRule             `yaml:"capacity_rules"`
	SiteCapacityRules []models.SiteCapacityRule         `yaml:"site_capacity_rules"`
	Requirements      []models.RequirementConfiguration `yaml:"requirements"`
	Assignments       []models.Assignment               `yaml:"assignments"`
}

// Load reads and validates the fixture at path.
func Load(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(bytes.NewReader(raw))
}

// Parse decodes a fixture. Unknown keys are rejected.
func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode fixture: empty document")
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	f.normalize()
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Team returns the team with id.
func (f *Fixture) Team(id string) (models.TeamWithMembers, bool) {
	for _, t := range f.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return models.TeamWithMembers{}, false
}

// TeamRequest converts a stored team into a validation request covering
// totalDates.
func TeamRequest(team models.TeamWithMembers, totalDates []string) dto.TeamRequest {
	members := make([]dto.TeamMemberRequest, len(team.Members))
	for i, m := range team.Members {
		members[i] = dto.TeamMemberRequest{
			PreceptorID:    m.PreceptorID,
			Priority:       m.Priority,
			Role:           m.Role,
			IsFallbackOnly: m.IsFallbackOnly,
		}
	}
	return dto.TeamRequest{
		ClerkshipID:             team.ClerkshipID,
		Name:                    team.Name,
		Members:                 members,
		RequireSameHealthSystem: team.RequireSameHealthSystem,
		RequireSameSite:         team.RequireSameSite,
		RequireSameSpecialty:    team.RequireSameSpecialty,
		RequiresAdminApproval:   team.RequiresAdminApproval,
		TotalDates:              totalDates,
	}
}

// normalize activates every team, stamps member team ids and orders members
// by priority.
func (f *Fixture) normalize() {
	for i := range f.Teams {
		team := &f.Teams[i]
		team.IsActive = true
		for j := range team.Members {
			team.Members[j].TeamID = team.ID
		}
		sort.SliceStable(team.Members, func(a, b int) bool {
			return team.Members[a].Priority < team.Members[b].Priority
		})
	}
	for i := range f.Assignments {
		if f.Assignments[i].ID == "" {
			f.Assignments[i].ID = fmt.Sprintf("fixture-%d", i+1)
		}
	}
}

// validate checks that references resolve. Every problem is reported.
func (f *Fixture) validate() error {
	students := make(map[string]struct{}, len(f.Students))
	for _, s := range f.Students {
		students[s.ID] = struct{}{}
	}
	preceptors := make(map[string]struct{}, len(f.Preceptors))
	for _, p := range f.Preceptors {
		preceptors[p.ID] = struct{}{}
	}
	clerkships := make(map[string]struct{}, len(f.Clerkships))
	for _, c := range f.Clerkships {
		clerkships[c.ID] = struct{}{}
	}

	var err error
	if (f.Range.Start == "") != (f.Range.End == "") {
		err = multierr.Append(err, fmt.Errorf("range needs both start and end"))
	}
	for _, d := range []string{f.Range.Start, f.Range.End} {
		if d == "" {
			continue
		}
		if _, perr := scheduling.ParseDate(d); perr != nil {
			err = multierr.Append(err, fmt.Errorf("range date %q: %w", d, perr))
		}
	}
	if f.Range.Start != "" && f.Range.End != "" && f.Range.End < f.Range.Start {
		err = multierr.Append(err, fmt.Errorf("range end %s precedes start %s", f.Range.End, f.Range.Start))
	}
	for _, t := range f.Teams {
		if _, ok := clerkships[t.ClerkshipID]; !ok {
			err = multierr.Append(err, fmt.Errorf("team %s: unknown clerkship %s", t.ID, t.ClerkshipID))
		}
		for _, m := range t.Members {
			if _, ok := preceptors[m.PreceptorID]; !ok {
				err = multierr.Append(err, fmt.Errorf("team %s: unknown preceptor %s", t.ID, m.PreceptorID))
			}
		}
	}
	for _, a := range f.Availability {
		if _, ok := preceptors[a.PreceptorID]; !ok {
			err = multierr.Append(err, fmt.Errorf("availability %s: unknown preceptor %s", a.Date, a.PreceptorID))
		}
	}
	for _, r := range f.Requirements {
		if _, ok := clerkships[r.ClerkshipID]; !ok {
			err = multierr.Append(err, fmt.Errorf("requirement: unknown clerkship %s", r.ClerkshipID))
		}
	}
	for _, a := range f.Assignments {
		if _, ok := students[a.StudentID]; !ok {
			err = multierr.Append(err, fmt.Errorf("assignment %s: unknown student %s", a.ID, a.StudentID))
		}
		if _, ok := preceptors[a.PreceptorID]; !ok {
			err = multierr.Append(err, fmt.Errorf("assignment %s: unknown preceptor %s", a.ID, a.PreceptorID))
		}
		if _, ok := clerkships[a.ClerkshipID]; !ok {
			err = multierr.Append(err, fmt.Errorf("assignment %s: unknown clerkship %s", a.ID, a.ClerkshipID))
		}
	}
	if err != nil {
		return fmt.Errorf("invalid fixture: %w", err)
	}
	return nil
}
