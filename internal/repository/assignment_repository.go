package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// AssignmentRepository persists schedule assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `id, student_id, preceptor_id, clerkship_id, to_char(date, 'YYYY-MM-DD') AS date, tier,
        fallback_team_id, original_team_id, block_number, pending_approval, run_id, created_at`

// ListInRange returns assignments dated between start and end inclusive.
func (r *AssignmentRepository) ListInRange(ctx context.Context, start, end string) ([]models.Assignment, error) {
	return r.List(ctx, models.AssignmentFilter{StartDate: start, EndDate: end})
}

// List returns assignments matching filter ordered by date then student.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	var conditions []string
	var args []interface{}
	add := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}
	if filter.StartDate != "" {
		add("date >= $%d", filter.StartDate)
	}
	if filter.EndDate != "" {
		add("date <= $%d", filter.EndDate)
	}
	if filter.StudentID != "" {
		add("student_id = $%d", filter.StudentID)
	}
	if filter.PreceptorID != "" {
		add("preceptor_id = $%d", filter.PreceptorID)
	}
	if filter.ClerkshipID != "" {
		add("clerkship_id = $%d", filter.ClerkshipID)
	}

	query := `SELECT ` + assignmentColumns + ` FROM schedule_assignments`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, student_id, preceptor_id"

	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// BulkCreateWithTx inserts assignments inside tx, stamping ids and runID.
func (r *AssignmentRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, runID string, assignments []models.Assignment) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if len(assignments) == 0 {
		return nil
	}
	now := time.Now().UTC()
	const query = `INSERT INTO schedule_assignments (id, student_id, preceptor_id, clerkship_id, date, tier,
        fallback_team_id, original_team_id, block_number, pending_approval, run_id, created_at)
        VALUES (:id, :student_id, :preceptor_id, :clerkship_id, :date, :tier,
        :fallback_team_id, :original_team_id, :block_number, :pending_approval, :run_id, :created_at)`
	for i := range assignments {
		payload := &assignments[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if runID != "" {
			id := runID
			payload.RunID = &id
		}
		payload.CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, tx, query, payload); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	return nil
}
