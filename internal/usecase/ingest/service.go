package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"research-hub/internal/domain/entity"
	"research-hub/internal/observability/metrics"
	"research-hub/internal/observability/tracing"
	"research-hub/internal/repository"
)

// TaxonomyResolver maps a record's free-text classification fields to
// canonical categories, creating them on first use. Taxonomy is
// best-effort enrichment: failures come back as warnings, never errors.
// The resolver runs inside the batch transaction and must contain its
// own statement failures via savepoints.
type TaxonomyResolver interface {
	Apply(ctx context.Context, tx repository.Tx, content *entity.Content) []string
}

// MediaAttacher resolves an external image reference to a stored media
// attachment linked to the entity. It is called after the batch
// transaction commits so network I/O never extends lock hold time.
type MediaAttacher interface {
	Attach(ctx context.Context, imageRef string, contentID int64, title string) (int64, error)
}

// CallScheduler schedules the one-shot status transition for an open call.
type CallScheduler interface {
	ScheduleTransition(ctx context.Context, content *entity.Content) error
}

// FileArchiver moves the accepted input file into durable storage and
// returns the saved path. A failure here is structural for the run.
type FileArchiver interface {
	Archive(ctx context.Context, path string, kind entity.ContentKind) (string, error)
}

// Config holds the tunable parameters of the batch coordinator.
type Config struct {
	// Factory carries the position-inference settings.
	Factory FactoryConfig

	// MediaParallelism bounds concurrent post-commit media fetches.
	MediaParallelism int
}

// DefaultConfig returns coordinator defaults.
func DefaultConfig() Config {
	return Config{
		Factory:          DefaultFactoryConfig(),
		MediaParallelism: 4,
	}
}

// Service is the batch coordinator. It runs one uploaded file through
// parse, validate, dedup, build, persist, and enrichment inside a single
// transaction per run, then schedules lifecycle transitions and fetches
// media after the commit.
//
// Concurrent batches of the same kind racing on overlapping titles are
// an accepted limitation: no distributed lock is taken, last committed
// wins. The transaction must provide at least read-committed isolation
// so the title existence checks see previously committed batches.
type Service struct {
	Rows      RowSource
	Tx        repository.TxManager
	Taxonomy  TaxonomyResolver
	Media     MediaAttacher // nil disables media acquisition
	Lifecycle CallScheduler // nil disables transition scheduling
	Archive   FileArchiver
	Config    Config
}

// Input describes one ingestion run.
type Input struct {
	FilePath string
	Kind     entity.ContentKind
	// AutoPosition requests position inference for news rows without an
	// explicit position.
	AutoPosition bool
}

// rowSavepoint scopes one row's statements inside the batch transaction.
const rowSavepoint = "batch_row"

// mediaJob defers an image fetch until after the commit.
type mediaJob struct {
	contentID int64
	title     string
	imageRef  string
}

// Run executes one synchronous ingestion run. Structural and
// transactional failures return an error and no partial results;
// per-row failures are recorded in the result and do not abort the
// batch.
func (s *Service) Run(ctx context.Context, in Input) (*Result, error) {
	runID := uuid.NewString()
	logger := slog.Default().With(
		slog.String("run_id", runID),
		slog.String("kind", string(in.Kind)))
	start := time.Now()

	ctx, span := tracing.GetTracer().Start(ctx, "ingest.run",
		trace.WithAttributes(
			attribute.String("ingest.kind", string(in.Kind)),
			attribute.String("ingest.run_id", runID)))
	defer span.End()

	if !in.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, in.Kind)
	}

	rows, err := s.Rows.Read(ctx, in.FilePath, in.Kind)
	if err != nil {
		metrics.RecordImportRun(string(in.Kind), "structural_failure", time.Since(start))
		return nil, fmt.Errorf("parse input file: %w", err)
	}

	valid, invalid := ValidateRows(rows, in.Kind)
	result := &Result{}
	for _, re := range invalid {
		result.Failed = append(result.Failed, FailedRow{
			Row:   re.Row,
			Error: strings.Join(re.Reasons, "; "),
		})
		for _, reason := range re.Reasons {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %s", re.Row, reason))
		}
		metrics.RecordRowOutcome(string(in.Kind), "invalid")
	}
	if len(valid) == 0 {
		metrics.RecordImportRun(string(in.Kind), "structural_failure", time.Since(start))
		return nil, fmt.Errorf("%w (%d rows read)", ErrNoValidRows, len(rows))
	}

	savedPath, err := s.Archive.Archive(ctx, in.FilePath, in.Kind)
	if err != nil {
		metrics.RecordImportRun(string(in.Kind), "structural_failure", time.Since(start))
		return nil, fmt.Errorf("archive input file: %w", err)
	}
	result.SavedFilePath = savedPath

	factoryCfg := s.Config.Factory
	factoryCfg.AutoPosition = in.AutoPosition

	var mediaJobs []mediaJob
	var openCalls []*entity.Content

	// Duplicate checks run inside the batch transaction at read committed;
	// two same-kind batches racing on a title resolve last-committed-wins.
	tx, err := s.Tx.Begin(ctx)
	if err != nil {
		metrics.RecordImportRun(string(in.Kind), "tx_failure", time.Since(start))
		return nil, fmt.Errorf("begin batch transaction: %w", err)
	}

	// failTx abandons the whole batch when the savepoint protocol itself
	// breaks; per-row statement failures are contained by rowSavepoint.
	failTx := func(err error) (*Result, error) {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("rollback failed", slog.Any("error", rbErr))
		}
		metrics.RecordImportRun(string(in.Kind), "tx_failure", time.Since(start))
		return nil, err
	}

	now := time.Now()
	for _, row := range valid {
		// One savepoint per row: an errored INSERT aborts the enclosing
		// transaction on PostgreSQL, so the row's statements must be
		// discarded via ROLLBACK TO for later rows and the commit to
		// survive.
		if err := tx.Savepoint(ctx, rowSavepoint); err != nil {
			return failTx(fmt.Errorf("row savepoint: %w", err))
		}

		content, ok := s.processRow(ctx, logger, tx, row, factoryCfg, now, result)
		if !ok {
			if err := tx.RollbackTo(ctx, rowSavepoint); err != nil {
				return failTx(fmt.Errorf("row rollback: %w", err))
			}
			continue
		}
		if err := tx.Release(ctx, rowSavepoint); err != nil {
			return failTx(fmt.Errorf("row release: %w", err))
		}

		if content.Kind == entity.KindCall && content.Call.Status == entity.CallOpen {
			openCalls = append(openCalls, content)
		}
		if content.Kind == entity.KindNews && content.News.ImageRef != "" {
			mediaJobs = append(mediaJobs, mediaJob{
				contentID: content.ID,
				title:     content.Title,
				imageRef:  content.News.ImageRef,
			})
		}
	}

	if err := tx.Commit(); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("rollback after commit failure", slog.Any("error", rbErr))
		}
		metrics.RecordImportRun(string(in.Kind), "tx_failure", time.Since(start))
		return nil, fmt.Errorf("commit batch transaction: %w", err)
	}

	s.scheduleTransitions(ctx, logger, openCalls, result)
	s.fetchMedia(ctx, logger, mediaJobs, result)

	metrics.RecordImportRun(string(in.Kind), "committed", time.Since(start))
	logger.Info("import run completed",
		slog.Int("processed", len(result.Processed)),
		slog.Int("failed", len(result.Failed)),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("warnings", len(result.Warnings)),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

// processRow runs dedup, factory, persistence, and taxonomy for one row.
// Per-row failures are recorded in the result; they never abort the
// batch. Returns the persisted content and true on success.
func (s *Service) processRow(
	ctx context.Context,
	logger *slog.Logger,
	tx repository.Tx,
	row CoercedRow,
	factoryCfg FactoryConfig,
	now time.Time,
	result *Result,
) (*entity.Content, bool) {
	recordFailure := func(err error) {
		result.Failed = append(result.Failed, FailedRow{
			Row:        row.ReportIndex(),
			Title:      row.Title,
			ExternalID: row.ExternalID,
			Error:      err.Error(),
		})
		metrics.RecordRowOutcome(string(row.Kind), "failed")
		logger.Warn("row processing failed",
			slog.Int("row", row.ReportIndex()),
			slog.String("title", row.Title),
			slog.Any("error", err))
	}

	dup, reason, err := checkDuplicate(ctx, tx.Contents(), row)
	if err != nil {
		recordFailure(err)
		return nil, false
	}
	if dup {
		result.SkippedCount++
		result.Warnings = append(result.Warnings, reason)
		metrics.RecordRowOutcome(string(row.Kind), "skipped")
		return nil, false
	}

	content, err := BuildContent(row, factoryCfg, now)
	if err != nil {
		recordFailure(err)
		return nil, false
	}

	if err := tx.Contents().Create(ctx, content); err != nil {
		recordFailure(fmt.Errorf("persist entity: %w", err))
		return nil, false
	}

	if s.Taxonomy != nil {
		for _, w := range s.Taxonomy.Apply(ctx, tx, content) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %s", row.ReportIndex(), w))
		}
	}

	result.Processed = append(result.Processed, ProcessedRow{
		ID:         content.ID,
		Title:      content.Title,
		ExternalID: content.ExternalID,
	})
	metrics.RecordRowOutcome(string(row.Kind), "processed")
	return content, true
}

// scheduleTransitions schedules the one-shot status transition for every
// open call persisted by this run. Scheduling failures are warnings: the
// entities are already committed.
func (s *Service) scheduleTransitions(ctx context.Context, logger *slog.Logger, calls []*entity.Content, result *Result) {
	if s.Lifecycle == nil {
		return
	}
	for _, c := range calls {
		if err := s.Lifecycle.ScheduleTransition(ctx, c); err != nil {
			logger.Warn("failed to schedule call transition",
				slog.Int64("content_id", c.ID),
				slog.Any("error", err))
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("call %q: transition not scheduled: %v", c.Title, err))
		}
	}
}

// fetchMedia acquires images for persisted news entities after the
// transaction commits. Fetches run with bounded parallelism; any failure
// is logged and surfaced as a warning, the entity simply keeps no image.
func (s *Service) fetchMedia(ctx context.Context, logger *slog.Logger, jobs []mediaJob, result *Result) {
	if s.Media == nil || len(jobs) == 0 {
		return
	}

	parallelism := s.Config.MediaParallelism
	if parallelism < 1 {
		parallelism = 1
	}

	warnings := make([]string, len(jobs))
	var eg errgroup.Group
	eg.SetLimit(parallelism)
	for i, job := range jobs {
		eg.Go(func() error {
			attachmentID, err := s.Media.Attach(ctx, job.imageRef, job.contentID, job.title)
			if err != nil {
				metrics.RecordMediaFetch("failure")
				logger.Warn("media acquisition failed",
					slog.Int64("content_id", job.contentID),
					slog.String("image_ref", job.imageRef),
					slog.Any("error", err))
				warnings[i] = fmt.Sprintf("news %q: image not attached: %v", job.title, err)
				return nil
			}
			metrics.RecordMediaFetch("success")
			logger.Debug("media attached",
				slog.Int64("content_id", job.contentID),
				slog.Int64("attachment_id", attachmentID))
			return nil
		})
	}
	_ = eg.Wait()

	for _, w := range warnings {
		if w != "" {
			result.Warnings = append(result.Warnings, w)
		}
	}
}
