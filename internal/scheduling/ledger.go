package scheduling

import "github.com/noah-isme/clerkship-scheduler/internal/models"

// AssignmentLedger indexes assignments already recorded in a run by date,
// student and preceptor. It is append-only and not safe for concurrent use.
type AssignmentLedger struct {
	all         []models.Assignment
	byDate      map[string][]int
	byStudent   map[string][]int
	byPreceptor map[string][]int
	studentDays map[string]map[string]bool
}

// NewAssignmentLedger seeds a ledger with existing assignments.
func NewAssignmentLedger(existing []models.Assignment) *AssignmentLedger {
	l := &AssignmentLedger{
		byDate:      make(map[string][]int),
		byStudent:   make(map[string][]int),
		byPreceptor: make(map[string][]int),
		studentDays: make(map[string]map[string]bool),
	}
	for _, a := range existing {
		l.Add(a)
	}
	return l
}

// Add records an assignment in every index.
func (l *AssignmentLedger) Add(a models.Assignment) {
	idx := len(l.all)
	l.all = append(l.all, a)
	l.byDate[a.Date] = append(l.byDate[a.Date], idx)
	l.byStudent[a.StudentID] = append(l.byStudent[a.StudentID], idx)
	l.byPreceptor[a.PreceptorID] = append(l.byPreceptor[a.PreceptorID], idx)
	if l.studentDays[a.StudentID] == nil {
		l.studentDays[a.StudentID] = make(map[string]bool)
	}
	l.studentDays[a.StudentID][a.Date] = true
}

// All returns every assignment in insertion order.
func (l *AssignmentLedger) All() []models.Assignment {
	out := make([]models.Assignment, len(l.all))
	copy(out, l.all)
	return out
}

// Len returns the number of recorded assignments.
func (l *AssignmentLedger) Len() int {
	return len(l.all)
}

// OnDate returns assignments recorded for date.
func (l *AssignmentLedger) OnDate(date string) []models.Assignment {
	return l.collect(l.byDate[date])
}

// ForStudent returns the student's assignments in insertion order.
func (l *AssignmentLedger) ForStudent(studentID string) []models.Assignment {
	return l.collect(l.byStudent[studentID])
}

// ForPreceptor returns the preceptor's assignments in insertion order.
func (l *AssignmentLedger) ForPreceptor(preceptorID string) []models.Assignment {
	return l.collect(l.byPreceptor[preceptorID])
}

// StudentHasDate reports whether the student already holds an assignment on date.
func (l *AssignmentLedger) StudentHasDate(studentID, date string) bool {
	return l.studentDays[studentID][date]
}

// PreceptorCountOn counts the preceptor's assignments on date.
func (l *AssignmentLedger) PreceptorCountOn(preceptorID, date string) int {
	count := 0
	for _, idx := range l.byPreceptor[preceptorID] {
		if l.all[idx].Date == date {
			count++
		}
	}
	return count
}

// PreceptorCountInYear counts the preceptor's assignments in the calendar year of date.
func (l *AssignmentLedger) PreceptorCountInYear(preceptorID, date string) int {
	year := yearOf(date)
	count := 0
	for _, idx := range l.byPreceptor[preceptorID] {
		if yearOf(l.all[idx].Date) == year {
			count++
		}
	}
	return count
}

// PreceptorBlocksInYear returns the distinct block numbers the preceptor holds
// in the calendar year of date.
func (l *AssignmentLedger) PreceptorBlocksInYear(preceptorID, date string) map[int]struct{} {
	year := yearOf(date)
	blocks := make(map[int]struct{})
	for _, idx := range l.byPreceptor[preceptorID] {
		a := l.all[idx]
		if a.BlockNumber == nil || yearOf(a.Date) != year {
			continue
		}
		blocks[*a.BlockNumber] = struct{}{}
	}
	return blocks
}

// PreceptorBlockStudents returns the distinct students the preceptor holds in
// block during the calendar year of date.
func (l *AssignmentLedger) PreceptorBlockStudents(preceptorID string, block int, date string) map[string]struct{} {
	year := yearOf(date)
	students := make(map[string]struct{})
	for _, idx := range l.byPreceptor[preceptorID] {
		a := l.all[idx]
		if a.BlockNumber == nil || *a.BlockNumber != block || yearOf(a.Date) != year {
			continue
		}
		students[a.StudentID] = struct{}{}
	}
	return students
}

func (l *AssignmentLedger) collect(indices []int) []models.Assignment {
	if len(indices) == 0 {
		return nil
	}
	out := make([]models.Assignment, 0, len(indices))
	for _, idx := range indices {
		out = append(out, l.all[idx])
	}
	return out
}
