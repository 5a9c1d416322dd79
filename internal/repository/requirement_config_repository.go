package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// RequirementConfigRepository resolves clerkship requirement configurations.
type RequirementConfigRepository struct {
	db *sqlx.DB
}

// NewRequirementConfigRepository constructs a RequirementConfigRepository.
func NewRequirementConfigRepository(db *sqlx.DB) *RequirementConfigRepository {
	return &RequirementConfigRepository{db: db}
}

const requirementConfigQuery = `SELECT c.id AS clerkship_id,
        COALESCE(rc.requirement_type, c.clerkship_type) AS requirement_type,
        COALESCE(rc.required_days, c.required_days) AS required_days,
        COALESCE(rc.assignment_strategy, 'continuous_single') AS assignment_strategy,
        COALESCE(rc.health_system_rule, 'no_preference') AS health_system_rule,
        COALESCE(rc.max_students_per_day, 0) AS max_students_per_day,
        COALESCE(rc.max_students_per_year, 0) AS max_students_per_year,
        COALESCE(rc.allow_teams, false) AS allow_teams,
        COALESCE(rc.allow_fallbacks, false) AS allow_fallbacks,
        COALESCE(rc.fallback_requires_approval, false) AS fallback_requires_approval,
        COALESCE(rc.fallback_allow_cross_system, false) AS fallback_allow_cross_system,
        CASE WHEN rc.clerkship_id IS NULL THEN 'default' ELSE 'configured' END AS source
        FROM clerkships c
        LEFT JOIN clerkship_requirement_configs rc ON rc.clerkship_id = c.id AND rc.requirement_type = c.clerkship_type`

// List returns one resolved configuration per clerkship. Clerkships without a
// stored configuration get defaults with fallbacks disabled.
func (r *RequirementConfigRepository) List(ctx context.Context) ([]models.RequirementConfiguration, error) {
	var configs []models.RequirementConfiguration
	if err := r.db.SelectContext(ctx, &configs, requirementConfigQuery+` ORDER BY c.id`); err != nil {
		return nil, fmt.Errorf("list requirement configurations: %w", err)
	}
	return configs, nil
}

// ByClerkship indexes configurations by clerkship id for the gap filler.
func ByClerkship(configs []models.RequirementConfiguration) map[string]models.RequirementConfiguration {
	out := make(map[string]models.RequirementConfiguration, len(configs))
	for _, cfg := range configs {
		out[cfg.ClerkshipID] = cfg
	}
	return out
}
