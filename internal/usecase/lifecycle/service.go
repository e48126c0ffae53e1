// Package lifecycle implements the time-driven status transition for
// funding calls: the only scheduled state change in the system. A call
// that is open at creation gets exactly one one-shot job, timed for one
// day after its closing date, which reloads the entity, recomputes the
// date-derived status, and persists the update.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"research-hub/internal/domain/entity"
	"research-hub/internal/observability/metrics"
	"research-hub/internal/repository"
)

// JobCallTransition is the scheduled job name for call status transitions.
const JobCallTransition = "call.status.transition"

// transitionDelay is how long after the closing date the transition runs.
const transitionDelay = 24 * time.Hour

// Service schedules and executes call lifecycle transitions.
type Service struct {
	Contents repository.ContentRepository
	Jobs     repository.JobRepository
}

// Stats summarizes one pass over due jobs.
type Stats struct {
	Due       int
	Completed int
	Skipped   int
	Failed    int
}

// ScheduleTransition schedules the one-shot status transition for an
// open call. Scheduling is idempotent: if a job for this entity already
// exists, no second job is created.
func (s *Service) ScheduleTransition(ctx context.Context, content *entity.Content) error {
	if content.Kind != entity.KindCall || content.Call == nil {
		return fmt.Errorf("%w: not a call entity", entity.ErrInvalidInput)
	}
	if content.Call.Status != entity.CallOpen {
		return nil
	}

	payload := strconv.FormatInt(content.ID, 10)
	scheduled, err := s.Jobs.IsScheduled(ctx, JobCallTransition, payload)
	if err != nil {
		return fmt.Errorf("check scheduled job: %w", err)
	}
	if scheduled {
		return nil
	}

	runAt := content.Call.ClosingDate.Add(transitionDelay)
	if err := s.Jobs.ScheduleOnce(ctx, runAt, JobCallTransition, payload); err != nil {
		return fmt.Errorf("schedule transition job: %w", err)
	}

	slog.Default().Info("call transition scheduled",
		slog.Int64("content_id", content.ID),
		slog.Time("run_at", runAt))
	return nil
}

// RunDue executes every pending job whose run time has passed. Each job
// runs independently; a failure marks that job failed and the pass
// continues. A job whose entity has been deleted, or already moved on,
// completes gracefully without an error.
func (s *Service) RunDue(ctx context.Context, now time.Time) (*Stats, error) {
	logger := slog.Default()
	stats := &Stats{}

	jobs, err := s.Jobs.ListDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list due jobs: %w", err)
	}
	stats.Due = len(jobs)

	for _, job := range jobs {
		if job.Name != JobCallTransition {
			logger.Warn("unknown scheduled job, skipping",
				slog.Int64("job_id", job.ID),
				slog.String("name", job.Name))
			stats.Skipped++
			if err := s.Jobs.MarkFailed(ctx, job.ID); err != nil {
				logger.Error("failed to mark job", slog.Int64("job_id", job.ID), slog.Any("error", err))
			}
			continue
		}

		if err := s.transition(ctx, job, now); err != nil {
			stats.Failed++
			metrics.RecordLifecycleJob("failure")
			logger.Error("call transition failed",
				slog.Int64("job_id", job.ID),
				slog.String("payload", job.Payload),
				slog.Any("error", err))
			if err := s.Jobs.MarkFailed(ctx, job.ID); err != nil {
				logger.Error("failed to mark job", slog.Int64("job_id", job.ID), slog.Any("error", err))
			}
			continue
		}

		stats.Completed++
		metrics.RecordLifecycleJob("success")
		if err := s.Jobs.MarkDone(ctx, job.ID); err != nil {
			logger.Error("failed to mark job done", slog.Int64("job_id", job.ID), slog.Any("error", err))
		}
	}

	return stats, nil
}

// transition reloads the call, recomputes its date-derived status, and
// persists the update when it changed. No lock is held on the entity
// between creation and this job: a deleted or already-transitioned
// entity is tolerated and treated as done.
func (s *Service) transition(ctx context.Context, job *entity.ScheduledJob, now time.Time) error {
	id, err := strconv.ParseInt(job.Payload, 10, 64)
	if err != nil {
		return fmt.Errorf("parse job payload %q: %w", job.Payload, err)
	}

	content, err := s.Contents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			slog.Default().Info("call no longer exists, skipping transition",
				slog.Int64("content_id", id))
			return nil
		}
		return fmt.Errorf("load call: %w", err)
	}
	if content.Kind != entity.KindCall || content.Call == nil {
		return nil
	}

	status := entity.CallStatusAt(content.Call.ClosingDate, now)
	if status == content.Call.Status {
		return nil
	}

	content.Call.Status = status
	if err := s.Contents.Update(ctx, content); err != nil {
		return fmt.Errorf("update call status: %w", err)
	}

	slog.Default().Info("call status transitioned",
		slog.Int64("content_id", content.ID),
		slog.String("status", string(status)))
	return nil
}
