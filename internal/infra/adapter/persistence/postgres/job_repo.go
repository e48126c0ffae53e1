package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"research-hub/internal/domain/entity"
	"research-hub/internal/repository"
)

type JobRepo struct {
	q querier
}

func NewJobRepo(db *sql.DB) repository.JobRepository {
	return &JobRepo{q: db}
}

// ScheduleOnce inserts a pending job. The unique index on (name, payload)
// makes scheduling idempotent: a second call for the same logical job is
// a no-op.
func (repo *JobRepo) ScheduleOnce(ctx context.Context, runAt time.Time, name, payload string) error {
	const query = `
INSERT INTO scheduled_jobs (name, payload, run_at, status, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (name, payload) DO NOTHING`

	if _, err := repo.q.ExecContext(ctx, query, name, payload, runAt, string(entity.JobPending), time.Now()); err != nil {
		return fmt.Errorf("ScheduleOnce: %w", err)
	}
	return nil
}

func (repo *JobRepo) IsScheduled(ctx context.Context, name, payload string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM scheduled_jobs WHERE name = $1 AND payload = $2)`
	var exists bool
	if err := repo.q.QueryRowContext(ctx, query, name, payload).Scan(&exists); err != nil {
		return false, fmt.Errorf("IsScheduled: %w", err)
	}
	return exists, nil
}

func (repo *JobRepo) ListDue(ctx context.Context, now time.Time) ([]*entity.ScheduledJob, error) {
	const query = `
SELECT id, name, payload, run_at, status, created_at
FROM scheduled_jobs
WHERE status = $1 AND run_at <= $2
ORDER BY run_at`

	rows, err := repo.q.QueryContext(ctx, query, string(entity.JobPending), now)
	if err != nil {
		return nil, fmt.Errorf("ListDue: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []*entity.ScheduledJob
	for rows.Next() {
		var job entity.ScheduledJob
		var status string
		if err := rows.Scan(&job.ID, &job.Name, &job.Payload, &job.RunAt, &status, &job.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListDue: Scan: %w", err)
		}
		job.Status = entity.JobStatus(status)
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}

func (repo *JobRepo) MarkDone(ctx context.Context, id int64) error {
	return repo.setStatus(ctx, id, entity.JobDone)
}

func (repo *JobRepo) MarkFailed(ctx context.Context, id int64) error {
	return repo.setStatus(ctx, id, entity.JobFailed)
}

func (repo *JobRepo) setStatus(ctx context.Context, id int64, status entity.JobStatus) error {
	const query = `UPDATE scheduled_jobs SET status = $1 WHERE id = $2`
	res, err := repo.q.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("setStatus: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setStatus: RowsAffected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("setStatus id=%d: %w", id, entity.ErrNotFound)
	}
	return nil
}
