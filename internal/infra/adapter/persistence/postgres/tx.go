package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"research-hub/internal/repository"
)

// TxManager opens batch transactions over the shared connection pool.
// The default isolation level (read committed on PostgreSQL) is what the
// duplicate-title checks require.
type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) Begin(ctx context.Context) (repository.Tx, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &batchTx{tx: tx}, nil
}

// batchTx binds the repositories to one open transaction.
type batchTx struct {
	tx *sql.Tx
}

func (t *batchTx) Contents() repository.ContentRepository {
	return newContentRepoTx(t.tx)
}

func (t *batchTx) Categories() repository.CategoryRepository {
	return newCategoryRepoTx(t.tx)
}

// Savepoint names come from our own constants, never from input, so
// plain concatenation is safe here.
func (t *batchTx) Savepoint(ctx context.Context, name string) error {
	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("savepoint %s: %w", name, err)
	}
	return nil
}

func (t *batchTx) RollbackTo(ctx context.Context, name string) error {
	if _, err := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); err != nil {
		return fmt.Errorf("rollback to savepoint %s: %w", name, err)
	}
	return nil
}

func (t *batchTx) Release(ctx context.Context, name string) error {
	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("release savepoint %s: %w", name, err)
	}
	return nil
}

func (t *batchTx) Commit() error {
	return t.tx.Commit()
}

func (t *batchTx) Rollback() error {
	return t.tx.Rollback()
}
