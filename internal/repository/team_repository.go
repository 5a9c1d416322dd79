package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
)

// TeamRepository persists preceptor teams and their members.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository constructs a TeamRepository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `id, clerkship_id, name, require_same_health_system, require_same_site, require_same_specialty,
        requires_admin_approval, is_active, created_at`

// ListWithMembers returns active teams with members ordered by priority. An
// empty clerkshipID returns teams for every clerkship.
func (r *TeamRepository) ListWithMembers(ctx context.Context, clerkshipID string) ([]models.TeamWithMembers, error) {
	query := `SELECT ` + teamColumns + ` FROM preceptor_teams WHERE is_active = TRUE`
	args := []interface{}{}
	if clerkshipID != "" {
		query += ` AND clerkship_id = $1`
		args = append(args, clerkshipID)
	}
	query += ` ORDER BY clerkship_id, name, id`

	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if len(teams) == 0 {
		return []models.TeamWithMembers{}, nil
	}

	ids := make([]string, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	memberQuery, memberArgs, err := sqlx.In(`SELECT id, team_id, preceptor_id, priority, role, is_fallback_only, created_at
        FROM preceptor_team_members WHERE team_id IN (?) ORDER BY team_id, priority`, ids)
	if err != nil {
		return nil, fmt.Errorf("build team member filter: %w", err)
	}
	var members []models.TeamMember
	if err := r.db.SelectContext(ctx, &members, r.db.Rebind(memberQuery), memberArgs...); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	byTeam := make(map[string][]models.TeamMember, len(teams))
	for _, m := range members {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], m)
	}

	result := make([]models.TeamWithMembers, 0, len(teams))
	for _, t := range teams {
		list := byTeam[t.ID]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Priority < list[j].Priority })
		if list == nil {
			list = []models.TeamMember{}
		}
		result = append(result, models.TeamWithMembers{Team: t, Members: list})
	}
	return result, nil
}

// CreateWithMembers inserts a team and its members inside tx.
func (r *TeamRepository) CreateWithMembers(ctx context.Context, tx *sqlx.Tx, team *models.Team, members []models.TeamMember) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	team.CreatedAt = now
	team.IsActive = true

	const teamQuery = `INSERT INTO preceptor_teams (id, clerkship_id, name, require_same_health_system, require_same_site,
        require_same_specialty, requires_admin_approval, is_active, created_at)
        VALUES (:id, :clerkship_id, :name, :require_same_health_system, :require_same_site,
        :require_same_specialty, :requires_admin_approval, :is_active, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, tx, teamQuery, team); err != nil {
		return fmt.Errorf("insert team: %w", err)
	}

	const memberQuery = `INSERT INTO preceptor_team_members (id, team_id, preceptor_id, priority, role, is_fallback_only, created_at)
        VALUES (:id, :team_id, :preceptor_id, :priority, :role, :is_fallback_only, :created_at)`
	for i := range members {
		member := &members[i]
		if member.ID == "" {
			member.ID = uuid.NewString()
		}
		member.TeamID = team.ID
		member.CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, tx, memberQuery, member); err != nil {
			return fmt.Errorf("insert team member: %w", err)
		}
	}
	return nil
}
