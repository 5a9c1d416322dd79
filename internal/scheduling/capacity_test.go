package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

func TestCapacityResolverHierarchy(t *testing.T) {
	rules := []models.CapacityRule{
		{ID: "general", PreceptorID: "p1", MaxStudentsPerDay: 1, MaxStudentsPerYear: 10},
		{ID: "type", PreceptorID: "p1", RequirementType: strPtr("inpatient"), MaxStudentsPerDay: 2, MaxStudentsPerYear: 20},
		{ID: "clerkship", PreceptorID: "p1", ClerkshipID: strPtr("surgery"), MaxStudentsPerDay: 3, MaxStudentsPerYear: 30},
		{ID: "both", PreceptorID: "p1", ClerkshipID: strPtr("surgery"), RequirementType: strPtr("inpatient"), MaxStudentsPerDay: 4, MaxStudentsPerYear: 40},
	}
	resolver := NewCapacityResolver([]models.Preceptor{{ID: "p1"}}, rules, CapacityDefaults{})

	tests := []struct {
		name            string
		clerkshipID     string
		requirementType string
		wantDay         int
		wantSource      string
	}{
		{name: "clerkship and type", clerkshipID: "surgery", requirementType: "inpatient", wantDay: 4, wantSource: SourceClerkshipRequirement},
		{name: "clerkship only", clerkshipID: "surgery", requirementType: "outpatient", wantDay: 3, wantSource: SourceClerkship},
		{name: "type only", clerkshipID: "medicine", requirementType: "inpatient", wantDay: 2, wantSource: SourceRequirementType},
		{name: "general", clerkshipID: "medicine", requirementType: "elective", wantDay: 1, wantSource: SourcePreceptorGeneral},
		{name: "no context", wantDay: 1, wantSource: SourcePreceptorGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := resolver.Resolve("p1", tt.clerkshipID, tt.requirementType)
			assert.Equal(t, tt.wantDay, rule.MaxPerDay)
			assert.Equal(t, tt.wantSource, rule.Source)
		})
	}
}

func TestCapacityResolverDefaults(t *testing.T) {
	preceptors := []models.Preceptor{{ID: "p1", MaxStudents: intPtr(7)}, {ID: "p2"}}
	resolver := NewCapacityResolver(preceptors, nil, CapacityDefaults{})

	rule := resolver.Resolve("p1", "surgery", "inpatient")
	assert.Equal(t, ResolvedCapacityRule{MaxPerDay: 2, MaxPerYear: 7, Source: SourceDefault}, rule)

	rule = resolver.Resolve("p2", "", "")
	assert.Equal(t, 20, rule.MaxPerYear)

	custom := NewCapacityResolver(preceptors, nil, CapacityDefaults{MaxPerDay: 5, MaxPerYear: 99})
	rule = custom.Resolve("p2", "", "")
	assert.Equal(t, 5, rule.MaxPerDay)
	assert.Equal(t, 99, rule.MaxPerYear)
}

func TestCapacityResolverCachesResolution(t *testing.T) {
	rules := []models.CapacityRule{{PreceptorID: "p1", MaxStudentsPerDay: 1, MaxStudentsPerYear: 10}}
	resolver := NewCapacityResolver([]models.Preceptor{{ID: "p1"}}, rules, CapacityDefaults{})

	first := resolver.Resolve("p1", "surgery", "inpatient")
	resolver.rules["p1"][0].MaxStudentsPerDay = 9
	second := resolver.Resolve("p1", "surgery", "inpatient")

	assert.Equal(t, first, second)
	assert.Len(t, resolver.cache, 1)
}

func TestCheckCapacityDailyAndYearly(t *testing.T) {
	rules := []models.CapacityRule{{PreceptorID: "p1", MaxStudentsPerDay: 1, MaxStudentsPerYear: 2}}
	resolver := NewCapacityResolver([]models.Preceptor{{ID: "p1"}}, rules, CapacityDefaults{})
	ledger := NewAssignmentLedger(nil)

	assert.True(t, resolver.CheckCapacity(ledger, "p1", "2025-03-01", CapacityCheckOptions{}).HasCapacity)

	ledger.Add(models.Assignment{StudentID: "s1", PreceptorID: "p1", Date: "2025-03-01"})
	daily := resolver.CheckCapacity(ledger, "p1", "2025-03-01", CapacityCheckOptions{})
	assert.False(t, daily.HasCapacity)
	assert.Equal(t, CheckDaily, daily.CheckType)
	assert.Equal(t, 1, daily.CurrentCount)
	assert.Equal(t, 1, daily.MaxAllowed)

	ledger.Add(models.Assignment{StudentID: "s2", PreceptorID: "p1", Date: "2025-04-01"})
	yearly := resolver.CheckCapacity(ledger, "p1", "2025-05-01", CapacityCheckOptions{})
	assert.False(t, yearly.HasCapacity)
	assert.Equal(t, CheckYearly, yearly.CheckType)
	assert.Equal(t, 2, yearly.CurrentCount)

	nextYear := resolver.CheckCapacity(ledger, "p1", "2026-01-02", CapacityCheckOptions{})
	assert.True(t, nextYear.HasCapacity)
}

func TestCheckCapacityBlockLimits(t *testing.T) {
	ledger := NewAssignmentLedger([]models.Assignment{
		{StudentID: "s1", PreceptorID: "p1", Date: "2025-01-06", BlockNumber: intPtr(1)},
		{StudentID: "s2", PreceptorID: "p1", Date: "2025-02-03", BlockNumber: intPtr(2)},
	})

	perBlock := NewCapacityResolver([]models.Preceptor{{ID: "p1"}}, []models.CapacityRule{{
		PreceptorID:         "p1",
		MaxStudentsPerDay:   5,
		MaxStudentsPerYear:  100,
		MaxStudentsPerBlock: intPtr(1),
	}}, CapacityDefaults{})

	sameStudent := perBlock.CheckCapacity(ledger, "p1", "2025-01-07", CapacityCheckOptions{StudentID: "s1", BlockNumber: intPtr(1)})
	assert.True(t, sameStudent.HasCapacity)

	fullBlock := perBlock.CheckCapacity(ledger, "p1", "2025-01-07", CapacityCheckOptions{StudentID: "s3", BlockNumber: intPtr(1)})
	require.False(t, fullBlock.HasCapacity)
	assert.Equal(t, CheckBlock, fullBlock.CheckType)
	assert.Equal(t, 1, fullBlock.MaxAllowed)

	perYear := NewCapacityResolver([]models.Preceptor{{ID: "p1"}}, []models.CapacityRule{{
		PreceptorID:        "p1",
		MaxStudentsPerDay:  5,
		MaxStudentsPerYear: 100,
		MaxBlocksPerYear:   intPtr(2),
	}}, CapacityDefaults{})

	tooManyBlocks := perYear.CheckCapacity(ledger, "p1", "2025-03-03", CapacityCheckOptions{StudentID: "s3", BlockNumber: intPtr(3)})
	require.False(t, tooManyBlocks.HasCapacity)
	assert.Equal(t, CheckBlock, tooManyBlocks.CheckType)
	assert.Equal(t, 2, tooManyBlocks.CurrentCount)

	usedBlock := perYear.CheckCapacity(ledger, "p1", "2025-01-08", CapacityCheckOptions{StudentID: "s3", BlockNumber: intPtr(1)})
	require.False(t, usedBlock.HasCapacity, "a preceptor at the block limit takes no more students, even in a block already in use")
	assert.Equal(t, 2, usedBlock.CurrentCount)
	assert.Equal(t, 2, usedBlock.MaxAllowed)

	nextYear := perYear.CheckCapacity(ledger, "p1", "2026-01-05", CapacityCheckOptions{StudentID: "s3", BlockNumber: intPtr(1)})
	assert.True(t, nextYear.HasCapacity)

	noBlock := perYear.CheckCapacity(ledger, "p1", "2025-03-03", CapacityCheckOptions{StudentID: "s3"})
	assert.True(t, noBlock.HasCapacity)
}
