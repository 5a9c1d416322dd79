package service

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/clerkship-scheduler/internal/dto"
	"github.com/noah-isme/clerkship-scheduler/internal/models"
	"github.com/noah-isme/clerkship-scheduler/internal/scheduling"
	appErrors "github.com/noah-isme/clerkship-scheduler/pkg/errors"
)

type teamStore interface {
	teamReader
	CreateWithMembers(ctx context.Context, tx *sqlx.Tx, team *models.Team, members []models.TeamMember) error
}

type teamPreceptorReader interface {
	List(ctx context.Context) ([]models.Preceptor, error)
}

type teamClerkshipReader interface {
	List(ctx context.Context, ids []string) ([]models.Clerkship, error)
}

type teamAvailabilityReader interface {
	ListInRange(ctx context.Context, start, end string) ([]models.PreceptorAvailability, error)
}

// TeamService validates and stores preceptor teams.
type TeamService struct {
	teams        teamStore
	preceptors   teamPreceptorReader
	clerkships   teamClerkshipReader
	availability teamAvailabilityReader
	rules        capacityRuleReader
	assignments  assignmentReader
	tx           txProvider
	validator    *validator.Validate
	logger       *zap.Logger
	defaults     scheduling.CapacityDefaults
}

// NewTeamService wires team dependencies.
func NewTeamService(
	teams teamStore,
	preceptors teamPreceptorReader,
	clerkships teamClerkshipReader,
	availability teamAvailabilityReader,
	rules capacityRuleReader,
	assignments assignmentReader,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
	defaults scheduling.CapacityDefaults,
) *TeamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamService{
		teams:        teams,
		preceptors:   preceptors,
		clerkships:   clerkships,
		availability: availability,
		rules:        rules,
		assignments:  assignments,
		tx:           tx,
		validator:    validate,
		logger:       logger,
		defaults:     defaults,
	}
}

// Validate checks a proposed team against current preceptor data.
func (s *TeamService) Validate(ctx context.Context, req dto.TeamRequest) (*scheduling.TeamValidationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid team payload")
	}
	clerkship, err := s.findClerkship(ctx, req.ClerkshipID)
	if err != nil {
		return nil, err
	}

	preceptors, err := s.preceptors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preceptors")
	}
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load capacity rules")
	}

	var availability []models.PreceptorAvailability
	var existing []models.Assignment
	start, end, hasDates := dateSpan(req)
	if hasDates {
		availability, err = s.availability.ListInRange(ctx, start, end)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
		}
		existing, err = s.assignments.List(ctx, models.AssignmentFilter{StartDate: start[:4] + "-01-01", EndDate: end[:4] + "-12-31"})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
		}
	}

	runCtx := scheduling.BuildSchedulingContext(nil, preceptors, []models.Clerkship{*clerkship}, nil, availability, start, end, nil)
	for _, a := range existing {
		runCtx.RecordAssignment(a)
	}
	capacity := scheduling.NewCapacityResolver(preceptors, rules, s.defaults)

	requirementType := req.RequirementType
	if requirementType == "" {
		requirementType = string(clerkship.ClerkshipType)
	}
	result := scheduling.NewTeamValidator(runCtx, capacity).ValidateTeam(teamMembers(req.Members), teamConfig(req), scheduling.TeamValidationOptions{
		ClerkshipID:     req.ClerkshipID,
		RequirementType: requirementType,
		AssignedDates:   req.AssignedDates,
		TotalDates:      req.TotalDates,
	})
	return &result, nil
}

// Create validates and persists a team with its members. A rejected team
// returns the validation result alongside an ErrTeamRejected error.
func (s *TeamService) Create(ctx context.Context, req dto.TeamRequest) (*dto.TeamResponse, error) {
	result, err := s.Validate(ctx, req)
	if err != nil {
		return nil, err
	}
	resp := &dto.TeamResponse{Name: req.Name, Validation: *result}
	if !result.IsValid {
		return resp, appErrors.Wrap(result.Err(), appErrors.ErrTeamRejected.Code, appErrors.ErrTeamRejected.Status, appErrors.ErrTeamRejected.Message)
	}

	team := models.Team{
		ClerkshipID:             req.ClerkshipID,
		Name:                    req.Name,
		RequireSameHealthSystem: req.RequireSameHealthSystem,
		RequireSameSite:         req.RequireSameSite,
		RequireSameSpecialty:    req.RequireSameSpecialty,
		RequiresAdminApproval:   req.RequiresAdminApproval,
	}
	members := teamMembers(req.Members)

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	if err := s.teams.CreateWithMembers(ctx, tx, &team, members); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create team")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit team")
	}

	s.logger.Info("team created",
		zap.String("team_id", team.ID),
		zap.String("clerkship_id", team.ClerkshipID),
		zap.Int("members", len(members)),
		zap.Bool("requires_approval", result.RequiresApproval))
	resp.ID = team.ID
	return resp, nil
}

// Fallbacks previews the tiered fallback order for a clerkship.
func (s *TeamService) Fallbacks(ctx context.Context, q dto.FallbackQuery) ([]scheduling.FallbackCandidate, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fallback query")
	}
	teams, err := s.teams.ListWithMembers(ctx, q.ClerkshipID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teams")
	}
	preceptors, err := s.preceptors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preceptors")
	}

	runCtx := scheduling.BuildSchedulingContext(nil, preceptors, nil, nil, nil, "", "", &scheduling.OptionalData{Teams: teams})
	query := scheduling.FallbackQuery{ClerkshipID: q.ClerkshipID, AllowCrossSystem: q.AllowCrossSystem}
	if q.PrimaryTeamID != "" {
		query.PrimaryTeamID = &q.PrimaryTeamID
	}
	if q.PrimaryHealthSystemID != "" {
		query.PrimaryHealthSystemID = &q.PrimaryHealthSystemID
	}

	candidates := scheduling.NewFallbackResolver(runCtx).OrderedFallbackPreceptors(query)
	if candidates == nil {
		candidates = []scheduling.FallbackCandidate{}
	}
	return candidates, nil
}

func (s *TeamService) findClerkship(ctx context.Context, id string) (*models.Clerkship, error) {
	clerkships, err := s.clerkships.List(ctx, []string{id})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load clerkship")
	}
	for i := range clerkships {
		if clerkships[i].ID == id {
			return &clerkships[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "clerkship not found")
}

// IsTeamRejected reports whether err is a team validation rejection.
func IsTeamRejected(err error) bool {
	return appErrors.HasCode(err, appErrors.ErrTeamRejected.Code)
}

func teamMembers(in []dto.TeamMemberRequest) []models.TeamMember {
	out := make([]models.TeamMember, len(in))
	for i, m := range in {
		out[i] = models.TeamMember{
			PreceptorID:    m.PreceptorID,
			Priority:       m.Priority,
			Role:           m.Role,
			IsFallbackOnly: m.IsFallbackOnly,
		}
	}
	return out
}

func teamConfig(req dto.TeamRequest) scheduling.TeamConfig {
	return scheduling.TeamConfig{
		RequireSameHealthSystem: req.RequireSameHealthSystem,
		RequireSameSite:         req.RequireSameSite,
		RequireSameSpecialty:    req.RequireSameSpecialty,
		RequiresAdminApproval:   req.RequiresAdminApproval,
	}
}

// dateSpan returns the earliest and latest date named by the request.
func dateSpan(req dto.TeamRequest) (string, string, bool) {
	var dates []string
	dates = append(dates, req.TotalDates...)
	for _, assigned := range req.AssignedDates {
		dates = append(dates, assigned...)
	}
	if len(dates) == 0 {
		return "", "", false
	}
	sort.Strings(dates)
	return dates[0], dates[len(dates)-1], true
}
