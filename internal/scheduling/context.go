package scheduling

import (
	"sort"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// Context is the read-model for one scheduling run. It is owned by a single
// run and mutated only through RecordAssignment.
type Context struct {
	Students      []models.Student
	Preceptors    []models.Preceptor
	Clerkships    []models.Clerkship
	BlackoutDates map[string]struct{}
	StartDate     string
	EndDate       string

	// Availability maps preceptor -> date -> site. Every known preceptor has an
	// inner map, so a missing date means the preceptor is unavailable.
	Availability map[string]map[string]string
	// StudentRequirements maps student -> clerkship -> days remaining.
	StudentRequirements map[string]map[string]int
	Assignments         *AssignmentLedger

	HealthSystems           map[string]models.HealthSystem
	Sites                   map[string]models.Site
	Teams                   map[string]models.TeamWithMembers
	TeamsByClerkship        map[string][]string
	PreceptorTeams          map[string][]string
	OnboardingCompleted     map[string]map[string]bool
	PreceptorElectives      map[string]map[string]bool
	PreceptorSiteClerkships map[string]map[string]map[string]bool
	ClerkshipSites          map[string]map[string]bool
	SiteAvailability        map[string]map[string]bool
	SiteCapacityRules       map[string][]models.SiteCapacityRule

	studentByID   map[string]models.Student
	preceptorByID map[string]models.Preceptor
	clerkshipByID map[string]models.Clerkship
}

// OptionalData carries associations folded into the context only when present.
type OptionalData struct {
	HealthSystems           []models.HealthSystem
	Sites                   []models.Site
	Teams                   []models.TeamWithMembers
	Onboarding              []models.StudentOnboarding
	PreceptorElectives      []models.PreceptorElective
	PreceptorSiteClerkships []models.PreceptorSiteClerkship
	ClerkshipSites          []models.ClerkshipSite
	SiteAvailability        []models.SiteAvailability
	SiteCapacityRules       []models.SiteCapacityRule
}

// BuildSchedulingContext transforms bulk-loaded rows into the indexed
// structures of a run. It performs no I/O.
func BuildSchedulingContext(
	students []models.Student,
	preceptors []models.Preceptor,
	clerkships []models.Clerkship,
	blackoutDates []string,
	availability []models.PreceptorAvailability,
	startDate, endDate string,
	optional *OptionalData,
) *Context {
	ctx := &Context{
		Students:            students,
		Preceptors:          preceptors,
		Clerkships:          clerkships,
		BlackoutDates:       make(map[string]struct{}, len(blackoutDates)),
		StartDate:           startDate,
		EndDate:             endDate,
		Availability:        make(map[string]map[string]string, len(preceptors)),
		StudentRequirements: InitializeStudentRequirements(students, clerkships),
		Assignments:         NewAssignmentLedger(nil),
		studentByID:         make(map[string]models.Student, len(students)),
		preceptorByID:       make(map[string]models.Preceptor, len(preceptors)),
		clerkshipByID:       make(map[string]models.Clerkship, len(clerkships)),
	}

	for _, date := range blackoutDates {
		ctx.BlackoutDates[date] = struct{}{}
	}
	for _, s := range students {
		ctx.studentByID[s.ID] = s
	}
	for _, c := range clerkships {
		ctx.clerkshipByID[c.ID] = c
	}
	for _, p := range preceptors {
		ctx.preceptorByID[p.ID] = p
		ctx.Availability[p.ID] = make(map[string]string)
	}
	for _, row := range availability {
		if !row.IsAvailable || row.SiteID == nil {
			continue
		}
		dates, ok := ctx.Availability[row.PreceptorID]
		if !ok {
			continue
		}
		dates[row.Date] = *row.SiteID
	}

	if optional != nil {
		ctx.foldOptional(optional)
	}
	return ctx
}

func (c *Context) foldOptional(opt *OptionalData) {
	if len(opt.HealthSystems) > 0 {
		c.HealthSystems = make(map[string]models.HealthSystem, len(opt.HealthSystems))
		for _, hs := range opt.HealthSystems {
			c.HealthSystems[hs.ID] = hs
		}
	}
	if len(opt.Sites) > 0 {
		c.Sites = make(map[string]models.Site, len(opt.Sites))
		for _, site := range opt.Sites {
			c.Sites[site.ID] = site
		}
	}
	if len(opt.Teams) > 0 {
		c.Teams = make(map[string]models.TeamWithMembers, len(opt.Teams))
		c.TeamsByClerkship = make(map[string][]string)
		c.PreceptorTeams = make(map[string][]string)
		for _, team := range opt.Teams {
			team.Members = sortedMembers(team.Members)
			c.Teams[team.ID] = team
			c.TeamsByClerkship[team.ClerkshipID] = append(c.TeamsByClerkship[team.ClerkshipID], team.ID)
			for _, m := range team.Members {
				c.PreceptorTeams[m.PreceptorID] = append(c.PreceptorTeams[m.PreceptorID], team.ID)
			}
		}
	}
	if len(opt.Onboarding) > 0 {
		c.OnboardingCompleted = make(map[string]map[string]bool)
		for _, row := range opt.Onboarding {
			if !row.IsCompleted {
				continue
			}
			setNested(c.OnboardingCompleted, row.StudentID, row.HealthSystemID)
		}
	}
	if len(opt.PreceptorElectives) > 0 {
		c.PreceptorElectives = make(map[string]map[string]bool)
		for _, row := range opt.PreceptorElectives {
			setNested(c.PreceptorElectives, row.PreceptorID, row.ElectiveID)
		}
	}
	if len(opt.PreceptorSiteClerkships) > 0 {
		c.PreceptorSiteClerkships = make(map[string]map[string]map[string]bool)
		for _, row := range opt.PreceptorSiteClerkships {
			sites := c.PreceptorSiteClerkships[row.PreceptorID]
			if sites == nil {
				sites = make(map[string]map[string]bool)
				c.PreceptorSiteClerkships[row.PreceptorID] = sites
			}
			setNested(sites, row.SiteID, row.ClerkshipID)
		}
	}
	if len(opt.ClerkshipSites) > 0 {
		c.ClerkshipSites = make(map[string]map[string]bool)
		for _, row := range opt.ClerkshipSites {
			setNested(c.ClerkshipSites, row.ClerkshipID, row.SiteID)
		}
	}
	if len(opt.SiteAvailability) > 0 {
		c.SiteAvailability = make(map[string]map[string]bool)
		for _, row := range opt.SiteAvailability {
			if c.SiteAvailability[row.SiteID] == nil {
				c.SiteAvailability[row.SiteID] = make(map[string]bool)
			}
			c.SiteAvailability[row.SiteID][row.Date] = row.IsAvailable
		}
	}
	if len(opt.SiteCapacityRules) > 0 {
		c.SiteCapacityRules = make(map[string][]models.SiteCapacityRule)
		for _, rule := range opt.SiteCapacityRules {
			c.SiteCapacityRules[rule.SiteID] = append(c.SiteCapacityRules[rule.SiteID], rule)
		}
	}
}

// Student looks up a student by id.
func (c *Context) Student(id string) (models.Student, bool) {
	s, ok := c.studentByID[id]
	return s, ok
}

// Preceptor looks up a preceptor by id.
func (c *Context) Preceptor(id string) (models.Preceptor, bool) {
	p, ok := c.preceptorByID[id]
	return p, ok
}

// Clerkship looks up a clerkship by id.
func (c *Context) Clerkship(id string) (models.Clerkship, bool) {
	cl, ok := c.clerkshipByID[id]
	return cl, ok
}

// IsBlackout reports whether date is a blackout date.
func (c *Context) IsBlackout(date string) bool {
	_, ok := c.BlackoutDates[date]
	return ok
}

// SiteFor returns the site a preceptor works at on date.
func (c *Context) SiteFor(preceptorID, date string) (string, bool) {
	site, ok := c.Availability[preceptorID][date]
	return site, ok
}

// TeamsForClerkship returns the clerkship's teams in load order.
func (c *Context) TeamsForClerkship(clerkshipID string) []models.TeamWithMembers {
	ids := c.TeamsByClerkship[clerkshipID]
	teams := make([]models.TeamWithMembers, 0, len(ids))
	for _, id := range ids {
		teams = append(teams, c.Teams[id])
	}
	return teams
}

// PreceptorTeamFor returns the first team the preceptor belongs to for the clerkship.
func (c *Context) PreceptorTeamFor(preceptorID, clerkshipID string) (string, bool) {
	for _, teamID := range c.PreceptorTeams[preceptorID] {
		if c.Teams[teamID].ClerkshipID == clerkshipID {
			return teamID, true
		}
	}
	return "", false
}

// RecordAssignment appends a to the ledger and decrements the student's
// remaining days for the clerkship, never below zero.
func (c *Context) RecordAssignment(a models.Assignment) {
	c.Assignments.Add(a)
	remaining, ok := c.StudentRequirements[a.StudentID]
	if !ok {
		return
	}
	if days, ok := remaining[a.ClerkshipID]; ok && days > 0 {
		remaining[a.ClerkshipID] = days - 1
	}
}

func setNested(m map[string]map[string]bool, outer, inner string) {
	if m[outer] == nil {
		m[outer] = make(map[string]bool)
	}
	m[outer][inner] = true
}

func sortedMembers(members []models.TeamMember) []models.TeamMember {
	out := make([]models.TeamMember, len(members))
	copy(out, members)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}
