package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

func requirementContext() *Context {
	students := []models.Student{{ID: "s1", Name: "Ada"}, {ID: "s2", Name: "Grace"}}
	clerkships := []models.Clerkship{
		{ID: "fm", Name: "Family Medicine", ClerkshipType: models.ClerkshipTypeOutpatient, RequiredDays: 3},
		{ID: "im", Name: "Internal Medicine", ClerkshipType: models.ClerkshipTypeInpatient, RequiredDays: 3},
	}
	return BuildSchedulingContext(students, nil, clerkships, nil, nil, "2025-12-01", "2025-12-31", nil)
}

func TestInitializeStudentRequirements(t *testing.T) {
	reqs := InitializeStudentRequirements(
		[]models.Student{{ID: "s1"}},
		[]models.Clerkship{{ID: "fm", RequiredDays: 4}, {ID: "el", RequiredDays: 0}},
	)
	assert.Equal(t, map[string]map[string]int{"s1": {"fm": 4, "el": 0}}, reqs)

	assert.Panics(t, func() {
		InitializeStudentRequirements([]models.Student{{ID: "s1"}}, []models.Clerkship{{ID: "bad", RequiredDays: -1}})
	})
}

func TestMostNeededClerkship(t *testing.T) {
	ctx := requirementContext()

	id, ok := MostNeededClerkship("s1", ctx)
	require.True(t, ok)
	assert.Equal(t, "fm", id, "ties resolve to the first listed clerkship")

	ctx.RecordAssignment(models.Assignment{StudentID: "s1", ClerkshipID: "fm", Date: "2025-12-01"})
	id, ok = MostNeededClerkship("s1", ctx)
	require.True(t, ok)
	assert.Equal(t, "im", id)

	_, ok = MostNeededClerkship("nobody", ctx)
	assert.False(t, ok)

	ctx.StudentRequirements["s2"] = map[string]int{"fm": 0, "im": 0}
	_, ok = MostNeededClerkship("s2", ctx)
	assert.False(t, ok)
}

func TestStudentsNeedingAssignments(t *testing.T) {
	ctx := requirementContext()
	ctx.StudentRequirements["s2"] = map[string]int{"fm": 0, "im": 0}

	students := StudentsNeedingAssignments(ctx)
	require.Len(t, students, 1)
	assert.Equal(t, "s1", students[0].ID)
}

func TestCheckUnmetRequirements(t *testing.T) {
	ctx := requirementContext()
	ctx.RecordAssignment(models.Assignment{StudentID: "s1", ClerkshipID: "fm", Date: "2025-12-01"})
	ctx.StudentRequirements["s2"]["fm"] = 0
	ctx.StudentRequirements["s2"]["im"] = 0

	unmet := CheckUnmetRequirements(ctx)
	require.Len(t, unmet, 2)
	assert.Equal(t, UnmetRequirement{
		StudentID:       "s1",
		StudentName:     "Ada",
		ClerkshipID:     "fm",
		ClerkshipName:   "Family Medicine",
		RequirementType: "outpatient",
		RequiredDays:    3,
		AssignedDays:    1,
		RemainingDays:   2,
		Reason:          ReasonInsufficientAvailability,
	}, unmet[0])
	assert.Equal(t, "im", unmet[1].ClerkshipID)
	assert.Equal(t, "inpatient", unmet[1].RequirementType)
}
