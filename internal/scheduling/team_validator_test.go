package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

func validatorFixture() *TeamValidator {
	preceptors := []models.Preceptor{
		{ID: "p1", HealthSystemID: strPtr("hs-1"), SiteID: strPtr("site-1")},
		{ID: "p2", HealthSystemID: strPtr("hs-1"), SiteID: strPtr("site-1")},
		{ID: "p3", HealthSystemID: strPtr("hs-2"), SiteID: strPtr("site-2")},
		{ID: "p4"},
	}
	availability := append(availabilityRows("p1", "site-1", "2025-12-01", "2025-12-02"),
		availabilityRows("p2", "site-1", "2025-12-03")...)
	ctx := BuildSchedulingContext(nil, preceptors, nil, nil, availability, "2025-12-01", "2025-12-31", nil)
	rules := []models.CapacityRule{{PreceptorID: "p1", MaxStudentsPerDay: 1, MaxStudentsPerYear: 10}}
	ctx.RecordAssignment(models.Assignment{StudentID: "s1", PreceptorID: "p1", Date: "2025-12-02"})
	return NewTeamValidator(ctx, NewCapacityResolver(preceptors, rules, CapacityDefaults{}))
}

func errorCodes(result TeamValidationResult) []string {
	codes := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		codes = append(codes, e.Code)
	}
	return codes
}

func TestValidateTeamValid(t *testing.T) {
	v := validatorFixture()
	result := v.ValidateTeam([]models.TeamMember{member("p1", 1), member("p2", 2)},
		TeamConfig{RequireSameHealthSystem: true, RequireSameSite: true},
		TeamValidationOptions{TotalDates: []string{"2025-12-01", "2025-12-03"}})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.NoError(t, result.Err())
	assert.False(t, result.RequiresApproval)
}

func TestValidateTeamRules(t *testing.T) {
	tests := []struct {
		name    string
		members []models.TeamMember
		cfg     TeamConfig
		opts    TeamValidationOptions
		want    []string
	}{
		{
			name:    "too small",
			members: []models.TeamMember{member("p1", 1)},
			want:    []string{CodeTeamTooSmall},
		},
		{
			name:    "too large",
			members: []models.TeamMember{member("p1", 1), member("p2", 2), member("p3", 3)},
			cfg:     TeamConfig{MaxMembers: 2},
			want:    []string{CodeTeamTooLarge},
		},
		{
			name:    "duplicate preceptor",
			members: []models.TeamMember{member("p1", 1), member("p1", 2)},
			want:    []string{CodeDuplicatePreceptor},
		},
		{
			name:    "health system mismatch",
			members: []models.TeamMember{member("p1", 1), member("p3", 2)},
			cfg:     TeamConfig{RequireSameHealthSystem: true},
			want:    []string{CodeHealthSystemMismatch},
		},
		{
			name:    "null health system never matches",
			members: []models.TeamMember{member("p1", 1), member("p4", 2)},
			cfg:     TeamConfig{RequireSameHealthSystem: true, RequireSameSite: true},
			want:    []string{CodeHealthSystemMismatch, CodeSiteMismatch},
		},
		{
			name:    "duplicate priority",
			members: []models.TeamMember{member("p1", 1), member("p2", 1)},
			want:    []string{CodeDuplicatePriority},
		},
		{
			name: "all fallback only",
			members: []models.TeamMember{
				{PreceptorID: "p1", Priority: 1, IsFallbackOnly: true},
				{PreceptorID: "p2", Priority: 2, IsFallbackOnly: true},
			},
			want: []string{CodeNoPrimaryMember},
		},
		{
			name:    "capacity exceeded",
			members: []models.TeamMember{member("p1", 1), member("p2", 2)},
			opts:    TeamValidationOptions{AssignedDates: map[string][]string{"p1": {"2025-12-01", "2025-12-02"}}},
			want:    []string{CodeCapacityExceeded},
		},
		{
			name:    "dates not covered",
			members: []models.TeamMember{member("p1", 1), member("p2", 2)},
			opts:    TeamValidationOptions{TotalDates: []string{"2025-12-01", "2025-12-04", "2025-12-05"}},
			want:    []string{CodeDatesNotCovered},
		},
	}

	v := validatorFixture()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidateTeam(tt.members, tt.cfg, tt.opts)
			assert.False(t, result.IsValid)
			assert.Equal(t, tt.want, errorCodes(result))
			assert.Error(t, result.Err())
		})
	}
}

func TestValidateTeamStopsOnMissingPreceptor(t *testing.T) {
	v := validatorFixture()
	result := v.ValidateTeam([]models.TeamMember{member("p1", 1), member("ghost", 1)},
		TeamConfig{RequireSameHealthSystem: true},
		TeamValidationOptions{TotalDates: []string{"2025-12-20"}})

	require.Equal(t, []string{CodePreceptorNotFound}, errorCodes(result))
	assert.Contains(t, result.Errors[0].Message, "ghost")
}

func TestValidateTeamCollectsMultipleErrors(t *testing.T) {
	v := validatorFixture()
	result := v.ValidateTeam([]models.TeamMember{member("p3", 1)},
		TeamConfig{RequiresAdminApproval: true},
		TeamValidationOptions{TotalDates: []string{"2025-12-01"}})

	assert.Equal(t, []string{CodeTeamTooSmall, CodeDatesNotCovered}, errorCodes(result))
	assert.True(t, result.RequiresApproval)
}

func TestTeamConfigFromTeam(t *testing.T) {
	cfg := TeamConfigFromTeam(models.Team{RequireSameSite: true, RequiresAdminApproval: true})
	assert.Equal(t, TeamConfig{RequireSameSite: true, RequiresAdminApproval: true}, cfg)
}
