package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/clerkship-scheduler/internal/dto"
	"github.com/noah-isme/clerkship-scheduler/internal/models"
	"github.com/noah-isme/clerkship-scheduler/internal/scheduling"
	appErrors "github.com/noah-isme/clerkship-scheduler/pkg/errors"
	"github.com/noah-isme/clerkship-scheduler/pkg/jobs"
)

// RunJobType tags gap-fill jobs on the scheduler queue.
const RunJobType = "gap_fill"

type assignmentWriter interface {
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, runID string, assignments []models.Assignment) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// SchedulingConfig governs run retention and capacity defaults.
type SchedulingConfig struct {
	RunTTL            time.Duration
	DefaultMaxPerDay  int
	DefaultMaxPerYear int
}

// SchedulingService orchestrates gap-fill runs: load, fill, persist, report.
type SchedulingService struct {
	sources   SchedulingSources
	writer    assignmentWriter
	tx        txProvider
	queue     jobDispatcher
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SchedulingConfig
	store     *runStore

	// runMu serialises runs; the engine assumes no concurrent writers.
	runMu sync.Mutex
	now   func() time.Time
}

// NewSchedulingService wires scheduling dependencies.
func NewSchedulingService(
	sources SchedulingSources,
	writer assignmentWriter,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg SchedulingConfig,
) *SchedulingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = time.Hour
	}
	return &SchedulingService{
		sources:   sources,
		writer:    writer,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		store:     newRunStore(cfg.RunTTL),
		now:       time.Now,
	}
}

// UseQueue attaches the dispatcher used by Submit. The queue handler should
// call HandleRunJob.
func (s *SchedulingService) UseQueue(queue jobDispatcher) {
	s.queue = queue
}

// GapFill runs the gap filler synchronously.
func (s *SchedulingService) GapFill(ctx context.Context, req dto.GapFillRequest) (*dto.GapFillResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	submitted := s.now().UTC()
	resp, err := s.execute(ctx, runID, req)
	s.finish(ctx, dto.RunStatus{ID: runID, Request: req, SubmittedAt: submitted}, resp, err)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Submit queues a run and returns its initial status.
func (s *SchedulingService) Submit(ctx context.Context, req dto.GapFillRequest) (*dto.RunStatus, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "asynchronous runs are disabled")
	}

	status := dto.RunStatus{
		ID:          uuid.NewString(),
		State:       dto.RunQueued,
		Request:     req,
		SubmittedAt: s.now().UTC(),
	}
	s.store.Save(status)

	if err := s.queue.Enqueue(jobs.Job{ID: status.ID, Type: RunJobType, Payload: req, Enqueued: status.SubmittedAt}); err != nil {
		s.store.Delete(status.ID)
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "scheduler is busy, retry later")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue run")
	}
	s.logger.Info("gap-fill run queued", zap.String("run_id", status.ID))
	return &status, nil
}

// HandleRunJob executes a queued run. It is the scheduler queue's handler.
func (s *SchedulingService) HandleRunJob(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.GapFillRequest)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}
	status, ok := s.store.Update(job.ID, func(st *dto.RunStatus) { st.State = dto.RunRunning })
	if !ok {
		status = dto.RunStatus{ID: job.ID, Request: req, SubmittedAt: job.Enqueued}
	}

	resp, err := s.execute(ctx, job.ID, req)
	s.finish(ctx, status, resp, err)
	return err
}

// DropRunJob marks a queued run that will never execute as failed. It is the
// scheduler queue's drop hook.
func (s *SchedulingService) DropRunJob(job jobs.Job, reason error) {
	status, ok := s.store.Get(job.ID)
	if !ok {
		req, _ := job.Payload.(dto.GapFillRequest)
		status = dto.RunStatus{ID: job.ID, Request: req, SubmittedAt: job.Enqueued}
	}
	s.logger.Warn("gap-fill run dropped", zap.String("run_id", job.ID), zap.Error(reason))
	s.finish(context.Background(), status, nil, fmt.Errorf("run dropped: %w", reason))
}

// GetRun returns a run's status from memory or the run cache.
func (s *SchedulingService) GetRun(ctx context.Context, id string) (*dto.RunStatus, error) {
	if status, ok := s.store.Get(id); ok {
		return &status, nil
	}
	var cached dto.RunStatus
	hit, err := s.cache.Get(ctx, runCacheKey(id), &cached)
	if err != nil {
		s.logger.Warn("run cache lookup failed", zap.String("run_id", id), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "run not found")
}

// Summary lists students still needing days and their most-needed clerkship.
func (s *SchedulingService) Summary(ctx context.Context, q dto.SummaryQuery) (*dto.RequirementSummary, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid summary query")
	}
	if q.EndDate < q.StartDate {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must not precede startDate")
	}

	key := summaryCacheKey(q)
	var cached dto.RequirementSummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	facts, err := s.sources.load(ctx, q.StartDate, q.EndDate, nil, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduling data")
	}
	runCtx := facts.context

	summary := &dto.RequirementSummary{
		StartDate:     q.StartDate,
		EndDate:       q.EndDate,
		TotalStudents: len(runCtx.Students),
		Needing:       []dto.StudentNeed{},
		Unmet:         scheduling.CheckUnmetRequirements(runCtx),
	}
	if summary.Unmet == nil {
		summary.Unmet = []scheduling.UnmetRequirement{}
	}
	annotateUnmet(runCtx, facts.configs, summary.Unmet)

	for _, student := range scheduling.StudentsNeedingAssignments(runCtx) {
		need := dto.StudentNeed{StudentID: student.ID, StudentName: student.Name, RemainingDays: map[string]int{}}
		if id, ok := scheduling.MostNeededClerkship(student.ID, runCtx); ok {
			need.MostNeededClerkship = id
		}
		for clerkshipID, days := range runCtx.StudentRequirements[student.ID] {
			if days > 0 {
				need.RemainingDays[clerkshipID] = days
			}
		}
		summary.Needing = append(summary.Needing, need)
	}
	_ = s.cache.Set(ctx, key, summary, s.cfg.RunTTL)
	return summary, nil
}

func (s *SchedulingService) validateRequest(req dto.GapFillRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid gap-fill request")
	}
	if req.EndDate < req.StartDate {
		return appErrors.Clone(appErrors.ErrValidation, "endDate must not precede startDate")
	}
	return nil
}

func (s *SchedulingService) execute(ctx context.Context, runID string, req dto.GapFillRequest) (*dto.GapFillResponse, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	started := time.Now()
	logger := s.logger.With(zap.String("run_id", runID), zap.Bool("dry_run", req.DryRun))

	facts, err := s.sources.load(ctx, req.StartDate, req.EndDate, req.StudentIDs, req.ClerkshipIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduling data")
	}
	runCtx := facts.context

	capacity := scheduling.NewCapacityResolver(runCtx.Preceptors, facts.rules, scheduling.CapacityDefaults{
		MaxPerDay:  s.cfg.DefaultMaxPerDay,
		MaxPerYear: s.cfg.DefaultMaxPerYear,
	})
	unmet := scheduling.CheckUnmetRequirements(runCtx)
	annotateUnmet(runCtx, facts.configs, unmet)

	filler := scheduling.NewGapFiller(runCtx, capacity, scheduling.NewFallbackResolver(runCtx), logger)
	result := filler.FillGaps(unmet, facts.existing, facts.configs, scheduling.DateRange{Start: req.StartDate, End: req.EndDate})

	if !req.DryRun && len(result.Assignments) > 0 {
		if err := s.persist(ctx, runID, result.Assignments); err != nil {
			return nil, err
		}
		// Committed assignments change every cached summary.
		if err := s.cache.Invalidate(ctx, summaryCachePattern); err != nil {
			logger.Warn("summary cache not invalidated", zap.Error(err))
		}
	}

	resp := &dto.GapFillResponse{
		RunID:                 runID,
		DryRun:                req.DryRun,
		Assignments:           result.Assignments,
		FulfilledRequirements: result.FulfilledRequirements,
		PartialFulfillments:   result.PartialFulfillments,
		StillUnmet:            result.StillUnmet,
		TierCounts:            tierCounts(result.Assignments),
		DurationMs:            time.Since(started).Milliseconds(),
	}
	s.metrics.ObserveGapFill(resp.TierCounts, len(resp.FulfilledRequirements), len(resp.PartialFulfillments), len(resp.StillUnmet), req.DryRun, time.Since(started))

	logger.Info("gap-fill run finished",
		zap.Int("unmet_in", len(unmet)),
		zap.Int("assignments", len(resp.Assignments)),
		zap.Int("fulfilled", len(resp.FulfilledRequirements)),
		zap.Int("partial", len(resp.PartialFulfillments)),
		zap.Int("still_unmet", len(resp.StillUnmet)),
		zap.Int64("duration_ms", resp.DurationMs))
	return resp, nil
}

func (s *SchedulingService) persist(ctx context.Context, runID string, assignments []models.Assignment) error {
	if s.tx == nil || s.writer == nil {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "assignment storage is not configured")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	if err := s.writer.BulkCreateWithTx(ctx, tx, runID, assignments); err != nil {
		_ = tx.Rollback()
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist assignments")
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit assignments")
	}
	return nil
}

// finish records the terminal state of a run in memory and in the cache.
func (s *SchedulingService) finish(ctx context.Context, status dto.RunStatus, resp *dto.GapFillResponse, runErr error) {
	finished := s.now().UTC()
	status.FinishedAt = &finished
	if runErr != nil {
		msg := runErr.Error()
		status.State = dto.RunFailed
		status.Error = &msg
		status.Result = nil
	} else {
		status.State = dto.RunFinished
		status.Result = resp
	}
	s.store.Save(status)
	if err := s.cache.Set(ctx, runCacheKey(status.ID), status, s.cfg.RunTTL); err != nil {
		s.logger.Warn("failed to cache run", zap.String("run_id", status.ID), zap.Error(err))
	}
}

func tierCounts(assignments []models.Assignment) map[int]int {
	counts := make(map[int]int)
	for _, a := range assignments {
		counts[a.Tier]++
	}
	return counts
}

const summaryCachePattern = "summary:*"

func runCacheKey(id string) string {
	return "runs:" + id
}

func summaryCacheKey(q dto.SummaryQuery) string {
	return "summary:" + q.StartDate + ":" + q.EndDate
}
