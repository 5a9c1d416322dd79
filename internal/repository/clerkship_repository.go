package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// ClerkshipRepository reads clerkships and the sites offering them.
type ClerkshipRepository struct {
	db *sqlx.DB
}

// NewClerkshipRepository constructs a ClerkshipRepository.
func NewClerkshipRepository(db *sqlx.DB) *ClerkshipRepository {
	return &ClerkshipRepository{db: db}
}

// List returns clerkships in a stable order. A non-empty ids restricts the result.
func (r *ClerkshipRepository) List(ctx context.Context, ids []string) ([]models.Clerkship, error) {
	query := `SELECT id, name, clerkship_type, required_days, created_at FROM clerkships`
	args := []interface{}{}
	if len(ids) > 0 {
		var err error
		query, args, err = sqlx.In(query+` WHERE id IN (?)`, ids)
		if err != nil {
			return nil, fmt.Errorf("build clerkship filter: %w", err)
		}
		query = r.db.Rebind(query)
	}
	query += ` ORDER BY name, id`

	var clerkships []models.Clerkship
	if err := r.db.SelectContext(ctx, &clerkships, query, args...); err != nil {
		return nil, fmt.Errorf("list clerkships: %w", err)
	}
	return clerkships, nil
}

// ListSites returns clerkship-site associations.
func (r *ClerkshipRepository) ListSites(ctx context.Context) ([]models.ClerkshipSite, error) {
	const query = `SELECT clerkship_id, site_id FROM clerkship_sites`
	var rows []models.ClerkshipSite
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list clerkship sites: %w", err)
	}
	return rows, nil
}
