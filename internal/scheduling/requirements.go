package scheduling

import (
	"fmt"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// InitializeStudentRequirements seeds every student with the required days of
// every clerkship. Negative required days are a contract violation.
func InitializeStudentRequirements(students []models.Student, clerkships []models.Clerkship) map[string]map[string]int {
	requirements := make(map[string]map[string]int, len(students))
	for _, s := range students {
		perClerkship := make(map[string]int, len(clerkships))
		for _, c := range clerkships {
			if c.RequiredDays < 0 {
				panic(fmt.Sprintf("scheduling: clerkship %s has negative required days", c.ID))
			}
			perClerkship[c.ID] = c.RequiredDays
		}
		requirements[s.ID] = perClerkship
	}
	return requirements
}

// MostNeededClerkship returns the clerkship with the strictly largest remaining
// days for the student. Ties go to the clerkship listed first in ctx.Clerkships;
// that order is an artifact of load order, not a business rule.
func MostNeededClerkship(studentID string, ctx *Context) (string, bool) {
	remaining, ok := ctx.StudentRequirements[studentID]
	if !ok {
		return "", false
	}
	best := ""
	bestDays := 0
	for _, c := range ctx.Clerkships {
		if days := remaining[c.ID]; days > bestDays {
			best = c.ID
			bestDays = days
		}
	}
	return best, bestDays > 0
}

// StudentsNeedingAssignments returns students with any clerkship days remaining.
func StudentsNeedingAssignments(ctx *Context) []models.Student {
	var out []models.Student
	for _, s := range ctx.Students {
		for _, days := range ctx.StudentRequirements[s.ID] {
			if days > 0 {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// CheckUnmetRequirements reports every student-clerkship pair with days remaining,
// in student then clerkship order.
func CheckUnmetRequirements(ctx *Context) []UnmetRequirement {
	var unmet []UnmetRequirement
	for _, s := range ctx.Students {
		remaining := ctx.StudentRequirements[s.ID]
		for _, c := range ctx.Clerkships {
			days := remaining[c.ID]
			if days <= 0 {
				continue
			}
			unmet = append(unmet, UnmetRequirement{
				StudentID:       s.ID,
				StudentName:     s.Name,
				ClerkshipID:     c.ID,
				ClerkshipName:   c.Name,
				RequirementType: string(c.ClerkshipType),
				RequiredDays:    c.RequiredDays,
				AssignedDays:    c.RequiredDays - days,
				RemainingDays:   days,
				Reason:          ReasonInsufficientAvailability,
			})
		}
	}
	return unmet
}
