package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned by Enqueue when the buffer has no room.
	ErrQueueFull = errors.New("queue full")
	// ErrQueueStopped is passed to the drop hook for jobs discarded at shutdown.
	ErrQueueStopped = errors.New("queue stopped")
)

// Job represents a queued background task.
type Job struct {
	ID       string
	Type     string
	Payload  any
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job.
type Handler func(context.Context, Job) error

// DropHandler is told about jobs that will never run.
type DropHandler func(Job, error)

// QueueConfig configures worker pool behaviour. A negative MaxRetries disables
// retries; zero means the default of three. DrainTimeout bounds how long Stop
// waits for buffered jobs; zero waits until the buffer is empty.
type QueueConfig struct {
	Workers      int
	BufferSize   int
	MaxRetries   int
	RetryDelay   time.Duration
	DrainTimeout time.Duration
	OnDrop       DropHandler
	Logger       *zap.Logger
}

// Queue is an in-memory job dispatcher backed by a fixed set of goroutines.
// With one worker, jobs run strictly one at a time in enqueue order.
type Queue struct {
	name    string
	handler Handler

	workers      int
	maxRetries   int
	retryDelay   time.Duration
	drainTimeout time.Duration
	onDrop       DropHandler
	logger       *zap.Logger

	jobs      chan Job
	ctx       context.Context
	cancel    context.CancelFunc
	quit      chan struct{}
	workersWG sync.WaitGroup
	retryWG   sync.WaitGroup
	mu        sync.Mutex
	started   bool
}

// NewQueue builds a new queue with the provided handler.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	switch {
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue{
		name:         name,
		handler:      handler,
		workers:      cfg.Workers,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		drainTimeout: cfg.DrainTimeout,
		onDrop:       cfg.OnDrop,
		logger:       cfg.Logger.With(zap.String("queue", name)),
		jobs:         make(chan Job, cfg.BufferSize),
	}
}

// Start begins worker consumption. Calls after the first are no-ops.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	q.quit = make(chan struct{})
	for i := 0; i < q.workers; i++ {
		q.workersWG.Add(1)
		go q.worker(q.ctx, q.quit, i+1)
	}
	q.started = true
	q.logger.Info("queue started", zap.Int("workers", q.workers))
}

// Stop rejects new jobs and lets the workers finish what is buffered. Jobs
// still waiting when DrainTimeout expires, and pending retries, are handed to
// the drop hook.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.started = false
	close(q.quit)
	q.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		q.workersWG.Wait()
		close(drained)
	}()
	if q.drainTimeout > 0 {
		timer := time.NewTimer(q.drainTimeout)
		select {
		case <-drained:
		case <-timer.C:
			q.logger.Warn("queue drain timed out", zap.Duration("timeout", q.drainTimeout))
			q.cancel()
			<-drained
		}
		timer.Stop()
	} else {
		<-drained
	}
	q.cancel()
	q.retryWG.Wait()

	// Workers and retries are gone, so nothing else touches the buffer.
	dropped := 0
	for len(q.jobs) > 0 {
		q.drop(<-q.jobs, ErrQueueStopped)
		dropped++
	}
	q.logger.Info("queue stopped", zap.Int("dropped", dropped))
}

// Enqueue pushes a job onto the queue without blocking.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.started {
		return fmt.Errorf("queue %s not started", q.name)
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}

	select {
	case q.jobs <- job:
		return nil
	default:
		return fmt.Errorf("queue %s: %w", q.name, ErrQueueFull)
	}
}

// Pending returns the number of buffered jobs not yet picked up.
func (q *Queue) Pending() int {
	return len(q.jobs)
}

func (q *Queue) worker(ctx context.Context, quit <-chan struct{}, workerID int) {
	defer q.workersWG.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.run(ctx, workerID, job)
		case <-quit:
			for {
				if ctx.Err() != nil {
					return
				}
				select {
				case job := <-q.jobs:
					q.run(ctx, workerID, job)
				default:
					return
				}
			}
		}
	}
}

func (q *Queue) run(ctx context.Context, workerID int, job Job) {
	start := time.Now()
	if err := q.handler(ctx, job); err != nil {
		q.handleFailure(ctx, job, err)
		return
	}
	q.logger.Debug("job done",
		zap.Int("worker", workerID),
		zap.String("job_id", job.ID),
		zap.Duration("elapsed", time.Since(start)))
}

func (q *Queue) handleFailure(ctx context.Context, job Job, err error) {
	job.Attempt++
	if job.Attempt > q.maxRetries {
		q.logger.Error("job failed", zap.String("job_id", job.ID), zap.String("type", job.Type), zap.Int("attempts", job.Attempt), zap.Error(err))
		return
	}
	q.logger.Warn("job failed, retrying", zap.String("job_id", job.ID), zap.String("type", job.Type), zap.Int("attempt", job.Attempt), zap.Error(err))

	q.retryWG.Add(1)
	go func(j Job) {
		defer q.retryWG.Done()
		timer := time.NewTimer(q.retryDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			q.drop(j, ErrQueueStopped)
		case <-timer.C:
			if err := q.Enqueue(j); err != nil {
				q.logger.Error("failed to requeue job", zap.String("job_id", j.ID), zap.Error(err))
				q.drop(j, err)
			}
		}
	}(job)
}

func (q *Queue) drop(job Job, reason error) {
	q.logger.Warn("job dropped", zap.String("job_id", job.ID), zap.String("type", job.Type), zap.Error(reason))
	if q.onDrop != nil {
		q.onDrop(job, reason)
	}
}
