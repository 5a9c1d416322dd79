package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// PreceptorRepository reads preceptors and their teaching associations.
type PreceptorRepository struct {
	db *sqlx.DB
}

// NewPreceptorRepository constructs a PreceptorRepository.
func NewPreceptorRepository(db *sqlx.DB) *PreceptorRepository {
	return &PreceptorRepository{db: db}
}

// List returns every preceptor ordered by name.
func (r *PreceptorRepository) List(ctx context.Context) ([]models.Preceptor, error) {
	const query = `SELECT id, name, email, health_system_id, site_id, max_students, created_at FROM preceptors ORDER BY name, id`
	var preceptors []models.Preceptor
	if err := r.db.SelectContext(ctx, &preceptors, query); err != nil {
		return nil, fmt.Errorf("list preceptors: %w", err)
	}
	return preceptors, nil
}

// ListSiteClerkships returns the site-clerkship pairs each preceptor may teach.
func (r *PreceptorRepository) ListSiteClerkships(ctx context.Context) ([]models.PreceptorSiteClerkship, error) {
	const query = `SELECT preceptor_id, site_id, clerkship_id FROM preceptor_site_clerkships`
	var rows []models.PreceptorSiteClerkship
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list preceptor site clerkships: %w", err)
	}
	return rows, nil
}

// ListElectives returns the electives each preceptor supervises.
func (r *PreceptorRepository) ListElectives(ctx context.Context) ([]models.PreceptorElective, error) {
	const query = `SELECT preceptor_id, elective_id FROM preceptor_electives`
	var rows []models.PreceptorElective
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list preceptor electives: %w", err)
	}
	return rows, nil
}
