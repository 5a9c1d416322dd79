package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// StudentRepository reads students and their onboarding status.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students ordered by name. A non-empty ids restricts the result.
func (r *StudentRepository) List(ctx context.Context, ids []string) ([]models.Student, error) {
	query := `SELECT id, name, email, created_at FROM students`
	args := []interface{}{}
	if len(ids) > 0 {
		var err error
		query, args, err = sqlx.In(query+` WHERE id IN (?)`, ids)
		if err != nil {
			return nil, fmt.Errorf("build student filter: %w", err)
		}
		query = r.db.Rebind(query)
	}
	query += ` ORDER BY name, id`

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListOnboarding returns onboarding rows for the given students, or all rows when ids is empty.
func (r *StudentRepository) ListOnboarding(ctx context.Context, ids []string) ([]models.StudentOnboarding, error) {
	var conditions []string
	args := []interface{}{}
	query := `SELECT student_id, health_system_id, is_completed FROM student_health_system_onboarding`
	if len(ids) > 0 {
		conditions = append(conditions, "student_id IN (?)")
		args = append(args, ids)
	}
	if len(conditions) > 0 {
		var err error
		query, args, err = sqlx.In(query+" WHERE "+strings.Join(conditions, " AND "), args...)
		if err != nil {
			return nil, fmt.Errorf("build onboarding filter: %w", err)
		}
		query = r.db.Rebind(query)
	}

	var rows []models.StudentOnboarding
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list onboarding: %w", err)
	}
	return rows, nil
}
