package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// SiteRepository reads sites with their health systems and calendars.
type SiteRepository struct {
	db *sqlx.DB
}

// NewSiteRepository constructs a SiteRepository.
func NewSiteRepository(db *sqlx.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// ListHealthSystems returns every health system.
func (r *SiteRepository) ListHealthSystems(ctx context.Context) ([]models.HealthSystem, error) {
	const query = `SELECT id, name FROM health_systems ORDER BY name, id`
	var rows []models.HealthSystem
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list health systems: %w", err)
	}
	return rows, nil
}

// List returns every site.
func (r *SiteRepository) List(ctx context.Context) ([]models.Site, error) {
	const query = `SELECT id, name, health_system_id FROM sites ORDER BY name, id`
	var rows []models.Site
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return rows, nil
}

// ListAvailabilityInRange returns site open/closed rows between start and end inclusive.
func (r *SiteRepository) ListAvailabilityInRange(ctx context.Context, start, end string) ([]models.SiteAvailability, error) {
	const query = `SELECT site_id, to_char(date, 'YYYY-MM-DD') AS date, is_available
        FROM site_availability WHERE date BETWEEN $1 AND $2 ORDER BY date, site_id`
	var rows []models.SiteAvailability
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("list site availability: %w", err)
	}
	return rows, nil
}

// ListCapacityRules returns site capacity rules.
func (r *SiteRepository) ListCapacityRules(ctx context.Context) ([]models.SiteCapacityRule, error) {
	const query = `SELECT id, site_id, clerkship_id, max_students_per_day, max_students_per_year FROM site_capacity_rules`
	var rows []models.SiteCapacityRule
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list site capacity rules: %w", err)
	}
	return rows, nil
}
