package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"research-hub/internal/infra/adapter/persistence/postgres"
	"research-hub/internal/infra/db"
	"research-hub/internal/infra/media"
	"research-hub/internal/infra/uploadstore"
	"research-hub/internal/observability/logging"
	"research-hub/internal/usecase/ingest"
	"research-hub/internal/usecase/lifecycle"
	"research-hub/internal/usecase/taxonomy"
	"research-hub/pkg/config"

	hhttp "research-hub/internal/handler/http"
	hcontent "research-hub/internal/handler/http/content"
	"research-hub/internal/handler/http/requestid"
	"research-hub/internal/infra/sheet"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := config.GetEnvString("VERSION", "dev")
	handler := setupServer(logger, database, version)

	runServer(logger, handler, version)
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if config.GetEnvBool("MIGRATE_ON_START", true) {
		if err := db.MigrateUp(database); err != nil {
			logger.Error("failed to migrate database", slog.Any("error", err))
			os.Exit(1)
		}
	}
	return database
}

// setupServer wires the import pipeline and returns the HTTP handler
// with all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, version string) http.Handler {
	contents := postgres.NewContentRepo(database)
	jobs := postgres.NewJobRepo(database)
	attachments := postgres.NewAttachmentRepo(database)

	// A nil attacher disables media acquisition; the assignment stays
	// inside the branch so the interface itself stays nil.
	var attacher ingest.MediaAttacher
	mediaCfg, err := media.LoadConfigFromEnv()
	switch {
	case err != nil:
		logger.Warn("invalid media configuration, media acquisition disabled",
			slog.Any("error", err))
	case !mediaCfg.Enabled:
		logger.Info("media acquisition disabled")
	default:
		attacher = media.NewStore(mediaCfg, attachments, contents)
		logger.Info("media acquisition enabled",
			slog.String("dir", mediaCfg.Dir),
			slog.Duration("timeout", mediaCfg.Timeout))
	}

	uploadDir := config.GetEnvString("UPLOAD_DIR", "data/uploads")
	archive := uploadstore.NewStore(uploadDir)

	resolver := &taxonomy.Resolver{
		NewsletterParentID: int64(config.GetEnvInt("NEWSLETTER_PARENT_CATEGORY_ID", 0)),
	}

	ingestSvc := &ingest.Service{
		Rows:      sheet.NewParser(),
		Tx:        postgres.NewTxManager(database),
		Taxonomy:  resolver,
		Media:     attacher,
		Lifecycle: &lifecycle.Service{Contents: contents, Jobs: jobs},
		Archive:   archive,
		Config:    ingest.DefaultConfig(),
	}

	mux := http.NewServeMux()
	hcontent.Register(mux, ingestSvc)
	mux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("/health/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/health/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, mux)
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost first): request ID, logging, recovery, body limit,
// metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	maxUpload := config.GetEnvInt("MAX_UPLOAD_BYTES", 32<<20)

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(int64(maxUpload))(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = requestid.Middleware(chain)
	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := ":" + config.GetEnvString("HTTP_PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownTimeout := config.GetEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
