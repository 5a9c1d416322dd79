package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// AvailabilityRepository reads preceptor calendars and blackout dates.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListInRange returns preceptor availability rows between start and end inclusive.
func (r *AvailabilityRepository) ListInRange(ctx context.Context, start, end string) ([]models.PreceptorAvailability, error) {
	const query = `SELECT id, preceptor_id, site_id, to_char(date, 'YYYY-MM-DD') AS date, is_available
        FROM preceptor_availability WHERE date BETWEEN $1 AND $2 ORDER BY date, preceptor_id`
	var rows []models.PreceptorAvailability
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("list preceptor availability: %w", err)
	}
	return rows, nil
}

// ListBlackoutsInRange returns blackout dates between start and end inclusive.
func (r *AvailabilityRepository) ListBlackoutsInRange(ctx context.Context, start, end string) ([]models.BlackoutDate, error) {
	const query = `SELECT id, to_char(date, 'YYYY-MM-DD') AS date, COALESCE(reason, '') AS reason
        FROM blackout_dates WHERE date BETWEEN $1 AND $2 ORDER BY date`
	var rows []models.BlackoutDate
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("list blackout dates: %w", err)
	}
	return rows, nil
}
