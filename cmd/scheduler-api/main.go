package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/clerkship-scheduler/api/swagger"
	"github.com/noah-isme/clerkship-scheduler/internal/handler"
	"github.com/noah-isme/clerkship-scheduler/internal/repository"
	"github.com/noah-isme/clerkship-scheduler/internal/scheduling"
	"github.com/noah-isme/clerkship-scheduler/internal/service"
	"github.com/noah-isme/clerkship-scheduler/pkg/cache"
	"github.com/noah-isme/clerkship-scheduler/pkg/config"
	"github.com/noah-isme/clerkship-scheduler/pkg/database"
	"github.com/noah-isme/clerkship-scheduler/pkg/jobs"
	"github.com/noah-isme/clerkship-scheduler/pkg/logger"
)

// @title Clerkship Scheduler API
// @version 1.0.0
// @description Gap filling and team validation for clinical clerkships.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	var redisClient redis.UniversalClient
	if client, err := cache.NewRedis(ctx, cfg.Redis); err != nil {
		logr.Warn("redis unavailable, run cache disabled", zap.Error(err))
	} else {
		redisClient = client
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.RunTTL, logr, redisClient != nil)

	students := repository.NewStudentRepository(db)
	preceptors := repository.NewPreceptorRepository(db)
	clerkships := repository.NewClerkshipRepository(db)
	sites := repository.NewSiteRepository(db)
	availability := repository.NewAvailabilityRepository(db)
	teams := repository.NewTeamRepository(db)
	rules := repository.NewCapacityRuleRepository(db)
	configs := repository.NewRequirementConfigRepository(db)
	assignments := repository.NewAssignmentRepository(db)

	schedulingSvc := service.NewSchedulingService(
		service.SchedulingSources{
			Students:      students,
			Preceptors:    preceptors,
			Clerkships:    clerkships,
			Sites:         sites,
			Availability:  availability,
			Teams:         teams,
			CapacityRules: rules,
			Configs:       configs,
			Assignments:   assignments,
		},
		assignments,
		db,
		cacheSvc,
		metricsSvc,
		validate,
		logr,
		service.SchedulingConfig{
			RunTTL:            cfg.Scheduler.RunTTL,
			DefaultMaxPerDay:  cfg.Scheduler.DefaultMaxPerDay,
			DefaultMaxPerYear: cfg.Scheduler.DefaultMaxPerYear,
		},
	)

	if cfg.Scheduler.Enabled {
		queue := jobs.NewQueue("gap-fill", schedulingSvc.HandleRunJob, jobs.QueueConfig{
			Workers:      cfg.Scheduler.Workers,
			MaxRetries:   -1,
			DrainTimeout: cfg.Scheduler.DrainTimeout,
			OnDrop:       schedulingSvc.DropRunJob,
			Logger:       logr,
		})
		// Runs outlive the signal context so buffered work drains after shutdown starts.
		queue.Start(context.WithoutCancel(ctx))
		defer queue.Stop()
		schedulingSvc.UseQueue(queue)
	}

	teamSvc := service.NewTeamService(teams, preceptors, clerkships, availability, rules, assignments, db, validate, logr,
		scheduling.CapacityDefaults{MaxPerDay: cfg.Scheduler.DefaultMaxPerDay, MaxPerYear: cfg.Scheduler.DefaultMaxPerYear})

	var exportHandler *handler.ExportHandler
	if cfg.Exports.Enabled {
		exportHandler = handler.NewExportHandler(service.NewExportService(assignments, students, preceptors, clerkships, validate, logr))
	}

	tokens := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Expiry: cfg.JWT.Expiration})

	r := newRouter(cfg, logr, routes{
		tokens:     tokens,
		metrics:    metricsSvc,
		scheduling: handler.NewSchedulingHandler(schedulingSvc),
		teams:      handler.NewTeamHandler(teamSvc),
		exports:    exportHandler,
		system: handler.NewMetricsHandler(metricsSvc, map[string]handler.ReadinessCheck{
			"database": db.PingContext,
			"cache":    cacheRepo.Ping,
		}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
