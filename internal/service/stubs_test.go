package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
	appErrors "github.com/noah-isme/clerkship-scheduler/pkg/errors"
	"github.com/noah-isme/clerkship-scheduler/pkg/jobs"
)

func strPtr(v string) *string { return &v }

type stubStudents struct {
	rows       []models.Student
	onboarding []models.StudentOnboarding
	err        error
}

func (s *stubStudents) List(_ context.Context, ids []string) ([]models.Student, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(ids) == 0 {
		return s.rows, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Student
	for _, st := range s.rows {
		if want[st.ID] {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *stubStudents) ListOnboarding(context.Context, []string) ([]models.StudentOnboarding, error) {
	return s.onboarding, nil
}

type stubPreceptors struct {
	rows []models.Preceptor
}

func (s *stubPreceptors) List(context.Context) ([]models.Preceptor, error) { return s.rows, nil }

func (s *stubPreceptors) ListSiteClerkships(context.Context) ([]models.PreceptorSiteClerkship, error) {
	return nil, nil
}

func (s *stubPreceptors) ListElectives(context.Context) ([]models.PreceptorElective, error) {
	return nil, nil
}

type stubClerkships struct {
	rows []models.Clerkship
}

func (s *stubClerkships) List(_ context.Context, ids []string) ([]models.Clerkship, error) {
	if len(ids) == 0 {
		return s.rows, nil
	}
	var out []models.Clerkship
	for _, c := range s.rows {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (s *stubClerkships) ListSites(context.Context) ([]models.ClerkshipSite, error) { return nil, nil }

type stubSites struct{}

func (stubSites) ListHealthSystems(context.Context) ([]models.HealthSystem, error) { return nil, nil }
func (stubSites) List(context.Context) ([]models.Site, error)                      { return nil, nil }
func (stubSites) ListAvailabilityInRange(context.Context, string, string) ([]models.SiteAvailability, error) {
	return nil, nil
}
func (stubSites) ListCapacityRules(context.Context) ([]models.SiteCapacityRule, error) {
	return nil, nil
}

type stubAvailability struct {
	rows      []models.PreceptorAvailability
	blackouts []models.BlackoutDate
}

func (s *stubAvailability) ListInRange(_ context.Context, start, end string) ([]models.PreceptorAvailability, error) {
	var out []models.PreceptorAvailability
	for _, row := range s.rows {
		if row.Date >= start && row.Date <= end {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubAvailability) ListBlackoutsInRange(context.Context, string, string) ([]models.BlackoutDate, error) {
	return s.blackouts, nil
}

type stubTeams struct {
	rows      []models.TeamWithMembers
	created   *models.Team
	members   []models.TeamMember
	createErr error
}

func (s *stubTeams) ListWithMembers(_ context.Context, clerkshipID string) ([]models.TeamWithMembers, error) {
	if clerkshipID == "" {
		return s.rows, nil
	}
	var out []models.TeamWithMembers
	for _, t := range s.rows {
		if t.ClerkshipID == clerkshipID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTeams) CreateWithMembers(_ context.Context, _ *sqlx.Tx, team *models.Team, members []models.TeamMember) error {
	if s.createErr != nil {
		return s.createErr
	}
	team.ID = "team-new"
	s.created = team
	s.members = members
	return nil
}

type stubRules struct {
	rows []models.CapacityRule
}

func (s *stubRules) List(context.Context) ([]models.CapacityRule, error) { return s.rows, nil }

type stubConfigs struct {
	rows []models.RequirementConfiguration
}

func (s *stubConfigs) List(context.Context) ([]models.RequirementConfiguration, error) {
	return s.rows, nil
}

type stubAssignments struct {
	rows     []models.Assignment
	filters  []models.AssignmentFilter
	written  []models.Assignment
	runID    string
	writeErr error
}

func (s *stubAssignments) List(_ context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	s.filters = append(s.filters, filter)
	return s.rows, nil
}

func (s *stubAssignments) BulkCreateWithTx(_ context.Context, _ *sqlx.Tx, runID string, assignments []models.Assignment) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	for i := range assignments {
		assignments[i].ID = runID + "-" + assignments[i].Date
	}
	s.runID = runID
	s.written = append(s.written, assignments...)
	return nil
}

type txProviderMock struct {
	db   *sqlx.DB
	mock sqlmock.Sqlmock
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb, mock: mock}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	err   error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.items, key)
		}
	}
	return nil
}

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}

type recordingDispatcher struct {
	jobs []jobs.Job
	err  error
}

func (d *recordingDispatcher) Enqueue(job jobs.Job) error {
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, job)
	return nil
}

var decemberWeek = []string{"2025-12-01", "2025-12-02", "2025-12-03", "2025-12-04", "2025-12-05"}

func availabilityRows(preceptorID, siteID string, dates ...string) []models.PreceptorAvailability {
	rows := make([]models.PreceptorAvailability, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, models.PreceptorAvailability{PreceptorID: preceptorID, SiteID: strPtr(siteID), Date: d, IsAvailable: true})
	}
	return rows
}

func teamWith(id, clerkshipID string, preceptorIDs ...string) models.TeamWithMembers {
	members := make([]models.TeamMember, len(preceptorIDs))
	for i, pid := range preceptorIDs {
		members[i] = models.TeamMember{TeamID: id, PreceptorID: pid, Priority: i + 1}
	}
	return models.TeamWithMembers{Team: models.Team{ID: id, ClerkshipID: clerkshipID, Name: id, IsActive: true}, Members: members}
}

// schedulingWorld is one student who has started family medicine with
// preceptor-1 and needs five more days, plus an unconfigured surgery rotation.
type schedulingWorld struct {
	students     *stubStudents
	preceptors   *stubPreceptors
	clerkships   *stubClerkships
	availability *stubAvailability
	teams        *stubTeams
	rules        *stubRules
	configs      *stubConfigs
	assignments  *stubAssignments
}

func newSchedulingWorld() *schedulingWorld {
	return &schedulingWorld{
		students: &stubStudents{rows: []models.Student{{ID: "student-1", Name: "Ada"}}},
		preceptors: &stubPreceptors{rows: []models.Preceptor{
			{ID: "preceptor-1", Name: "Dr One", HealthSystemID: strPtr("hs-1"), SiteID: strPtr("site-1")},
			{ID: "preceptor-2", Name: "Dr Two", HealthSystemID: strPtr("hs-1"), SiteID: strPtr("site-1")},
		}},
		clerkships: &stubClerkships{rows: []models.Clerkship{
			{ID: "family-med", Name: "Family Medicine", ClerkshipType: models.ClerkshipTypeOutpatient, RequiredDays: 6},
			{ID: "surgery", Name: "Surgery", ClerkshipType: models.ClerkshipTypeInpatient, RequiredDays: 2},
		}},
		availability: &stubAvailability{rows: availabilityRows("preceptor-2", "site-1", decemberWeek...)},
		teams:        &stubTeams{rows: []models.TeamWithMembers{teamWith("team-1", "family-med", "preceptor-1", "preceptor-2")}},
		rules:        &stubRules{},
		configs: &stubConfigs{rows: []models.RequirementConfiguration{
			{ClerkshipID: "family-med", RequirementType: "outpatient", RequiredDays: 6, AllowTeams: true, AllowFallbacks: true, Source: models.ConfigSourceConfigured},
			{ClerkshipID: "surgery", RequirementType: "inpatient", RequiredDays: 2, Source: models.ConfigSourceDefault},
		}},
		assignments: &stubAssignments{rows: []models.Assignment{
			{ID: "prior-1", StudentID: "student-1", PreceptorID: "preceptor-1", ClerkshipID: "family-med", Date: "2025-11-28"},
		}},
	}
}

func (w *schedulingWorld) sources() SchedulingSources {
	return SchedulingSources{
		Students:      w.students,
		Preceptors:    w.preceptors,
		Clerkships:    w.clerkships,
		Sites:         stubSites{},
		Availability:  w.availability,
		Teams:         w.teams,
		CapacityRules: w.rules,
		Configs:       w.configs,
		Assignments:   w.assignments,
	}
}
