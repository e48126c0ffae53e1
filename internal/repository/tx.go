package repository

import "context"

// TxManager opens the single persistence transaction that wraps one
// ingestion batch. A Begin or Commit failure is fatal to the whole
// batch; per-row errors inside the transaction are not.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one open batch transaction. The repositories it returns are
// bound to the transaction and see the effects of earlier rows in the
// same batch.
//
// Savepoint, RollbackTo, and Release scope a group of statements inside
// the transaction. On PostgreSQL a single errored statement aborts the
// whole transaction; rolling back to a savepoint is the only way to
// discard one row's failed statements and keep the batch alive.
type Tx interface {
	Contents() ContentRepository
	Categories() CategoryRepository
	Savepoint(ctx context.Context, name string) error
	RollbackTo(ctx context.Context, name string) error
	Release(ctx context.Context, name string) error
	Commit() error
	Rollback() error
}
