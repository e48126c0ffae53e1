package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"research-hub/internal/domain/entity"
	"research-hub/internal/repository"
)

func TestAttachmentRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAttachmentRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO attachments`)).
		WithArgs(int64(7), "https://example.com/a.png", "data/media/7_x.png", "Banner", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	attachment := &repository.Attachment{
		ContentID: 7,
		SourceURL: "https://example.com/a.png",
		Path:      "data/media/7_x.png",
		Title:     "Banner",
	}
	if err := repo.Create(context.Background(), attachment); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if attachment.ID != 12 {
		t.Errorf("ID = %d, want 12", attachment.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestTxManager_CommitFlow(t *testing.T) {
	db, mock := newMock(t)
	manager := NewTxManager(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("news", "Title").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectCommit()

	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	exists, err := tx.Contents().ExistsByTitle(context.Background(), entity.KindNews, "Title")
	if err != nil {
		t.Fatalf("ExistsByTitle() error = %v", err)
	}
	if exists {
		t.Error("exists = true, want false")
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestBatchTx_SavepointProtocol(t *testing.T) {
	db, mock := newMock(t)
	manager := NewTxManager(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SAVEPOINT batch_row`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`ROLLBACK TO SAVEPOINT batch_row`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`SAVEPOINT batch_row`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`RELEASE SAVEPOINT batch_row`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	ctx := context.Background()
	if err := tx.Savepoint(ctx, "batch_row"); err != nil {
		t.Fatalf("Savepoint() error = %v", err)
	}
	if err := tx.RollbackTo(ctx, "batch_row"); err != nil {
		t.Fatalf("RollbackTo() error = %v", err)
	}
	if err := tx.Savepoint(ctx, "batch_row"); err != nil {
		t.Fatalf("Savepoint() error = %v", err)
	}
	if err := tx.Release(ctx, "batch_row"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestTxManager_Rollback(t *testing.T) {
	db, mock := newMock(t)
	manager := NewTxManager(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
