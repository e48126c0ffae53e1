package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"research-hub/internal/handler/http/respond"
	"research-hub/internal/infra/db"
	workerPkg "research-hub/internal/infra/worker"
	"research-hub/internal/observability/logging"
	"research-hub/internal/usecase/lifecycle"

	"research-hub/internal/infra/adapter/persistence/postgres"
)

// waitForMigrations blocks until the API process has created the schema.
// The worker never runs migrations itself.
func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM scheduled_jobs LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := db.Open()
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	waitForMigrations(logger, database)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	// A config file takes precedence over the env overlay when requested.
	var workerConfig *workerPkg.WorkerConfig
	var err error
	if path := os.Getenv("WORKER_CONFIG_FILE"); path != "" {
		workerConfig, err = workerPkg.LoadConfigFromFile(path)
	} else {
		workerConfig, err = workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	}
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("job_timeout", workerConfig.JobTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	svc := &lifecycle.Service{
		Contents: postgres.NewContentRepo(database),
		Jobs:     postgres.NewJobRepo(database),
	}

	startCronWorker(ctx, logger, svc, workerConfig, workerMetrics, healthServer)
}

// startCronWorker polls for due lifecycle jobs on the configured cron
// schedule until the process receives SIGINT or SIGTERM.
func startCronWorker(
	ctx context.Context,
	logger *slog.Logger,
	svc *lifecycle.Service,
	cfg *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
	healthServer *workerPkg.HealthServer,
) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runLifecycleJob(ctx, logger, svc, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down worker...")

	healthServer.SetReady(false)
	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info("worker stopped")
}

// runLifecycleJob executes one poll over due jobs with a timeout.
func runLifecycleJob(
	ctx context.Context,
	logger *slog.Logger,
	svc *lifecycle.Service,
	cfg *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
) {
	startTime := time.Now()
	metrics.RecordJobRun("started")

	jobCtx, cancel := context.WithTimeout(ctx, cfg.JobTimeout)
	defer cancel()

	stats, err := svc.RunDue(jobCtx, time.Now())
	if err != nil {
		logger.Error("lifecycle poll failed", slog.String("error", respond.SanitizeError(err)))
		metrics.RecordJobRun("failure")
		metrics.RecordJobDuration(time.Since(startTime).Seconds())
		return
	}

	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordJobsProcessed(stats.Completed)
	metrics.RecordLastSuccess()

	if stats.Due > 0 {
		logger.Info("lifecycle poll completed",
			slog.Int("due", stats.Due),
			slog.Int("completed", stats.Completed),
			slog.Int("skipped", stats.Skipped),
			slog.Int("failed", stats.Failed),
			slog.Duration("duration", time.Since(startTime)))
	}
}
