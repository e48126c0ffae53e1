package entity

import "time"

// JobStatus is the execution state of a scheduled one-shot job.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// ScheduledJob is a one-shot deferred task. Name and Payload together
// identify the logical job; scheduling the same pair twice is a no-op.
type ScheduledJob struct {
	ID        int64
	Name      string
	Payload   string
	RunAt     time.Time
	Status    JobStatus
	CreatedAt time.Time
}
