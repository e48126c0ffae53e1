package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"research-hub/internal/repository"
)

type AttachmentRepo struct {
	q querier
}

func NewAttachmentRepo(db *sql.DB) repository.AttachmentRepository {
	return &AttachmentRepo{q: db}
}

func (repo *AttachmentRepo) Create(ctx context.Context, attachment *repository.Attachment) error {
	const query = `
INSERT INTO attachments (content_id, source_url, path, title, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	err := repo.q.QueryRowContext(ctx, query,
		attachment.ContentID, attachment.SourceURL, attachment.Path, attachment.Title, time.Now()).
		Scan(&attachment.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
