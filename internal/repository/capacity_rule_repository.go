package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// CapacityRuleRepository reads preceptor capacity rules.
type CapacityRuleRepository struct {
	db *sqlx.DB
}

// NewCapacityRuleRepository constructs a CapacityRuleRepository.
func NewCapacityRuleRepository(db *sqlx.DB) *CapacityRuleRepository {
	return &CapacityRuleRepository{db: db}
}

// List returns every capacity rule. Rows are ordered so the most recently
// created rule of a given specificity wins when a preceptor has duplicates.
func (r *CapacityRuleRepository) List(ctx context.Context) ([]models.CapacityRule, error) {
	const query = `SELECT id, preceptor_id, clerkship_id, requirement_type, max_students_per_day, max_students_per_year,
        max_students_per_block, max_blocks_per_year
        FROM preceptor_capacity_rules ORDER BY preceptor_id, created_at DESC, id`
	var rules []models.CapacityRule
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, fmt.Errorf("list capacity rules: %w", err)
	}
	return rules, nil
}
