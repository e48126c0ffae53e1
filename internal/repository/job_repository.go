package repository

import (
	"context"
	"time"

	"research-hub/internal/domain/entity"
)

// JobRepository is the scheduler collaborator contract. ScheduleOnce is
// idempotent over (name, payload): scheduling an already-scheduled job
// is a no-op regardless of the backing mechanism.
type JobRepository interface {
	ScheduleOnce(ctx context.Context, runAt time.Time, name, payload string) error
	IsScheduled(ctx context.Context, name, payload string) (bool, error)
	// ListDue returns pending jobs whose run time is at or before now, ordered by run time.
	ListDue(ctx context.Context, now time.Time) ([]*entity.ScheduledJob, error)
	MarkDone(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64) error
}
