package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"research-hub/internal/domain/entity"
	"research-hub/internal/repository"
)

const contentColumns = `
id, kind, external_id, title, post_status,
objective, summary, research_line,
opening_date, closing_date, contact, call_status,
body, bullets, image_ref, newsletter_batch, position,
featured_attachment_id, created_at, updated_at`

type ContentRepo struct {
	q querier
}

func NewContentRepo(db *sql.DB) repository.ContentRepository {
	return &ContentRepo{q: db}
}

// newContentRepoTx binds the repository to an open transaction.
func newContentRepoTx(tx *sql.Tx) repository.ContentRepository {
	return &ContentRepo{q: tx}
}

func (repo *ContentRepo) Get(ctx context.Context, id int64) (*entity.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE id = $1`
	content, err := scanContent(repo.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("Get id=%d: %w", id, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("Get: %w", err)
	}
	return content, nil
}

func (repo *ContentRepo) FindByExternalID(ctx context.Context, kind entity.ContentKind, externalID string) (*entity.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE kind = $1 AND external_id = $2`
	content, err := scanContent(repo.q.QueryRowContext(ctx, query, string(kind), externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("FindByExternalID %q: %w", externalID, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("FindByExternalID: %w", err)
	}
	return content, nil
}

func (repo *ContentRepo) ExistsByTitle(ctx context.Context, kind entity.ContentKind, title string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM contents WHERE kind = $1 AND title = $2)`
	var exists bool
	if err := repo.q.QueryRowContext(ctx, query, string(kind), title).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByTitle: %w", err)
	}
	return exists, nil
}

func (repo *ContentRepo) ExistsByExternalID(ctx context.Context, kind entity.ContentKind, externalID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM contents WHERE kind = $1 AND external_id = $2)`
	var exists bool
	if err := repo.q.QueryRowContext(ctx, query, string(kind), externalID).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByExternalID: %w", err)
	}
	return exists, nil
}

func (repo *ContentRepo) Create(ctx context.Context, content *entity.Content) error {
	const query = `
INSERT INTO contents (
  kind, external_id, title, post_status,
  objective, summary, research_line,
  opening_date, closing_date, contact, call_status,
  body, bullets, image_ref, newsletter_batch, position,
  created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
RETURNING id`

	now := time.Now()
	content.CreatedAt = now
	content.UpdatedAt = now
	args := contentArgs(content)
	args = append(args, now, now)

	if err := repo.q.QueryRowContext(ctx, query, args...).Scan(&content.ID); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ContentRepo) Update(ctx context.Context, content *entity.Content) error {
	const query = `
UPDATE contents SET
  kind = $1, external_id = $2, title = $3, post_status = $4,
  objective = $5, summary = $6, research_line = $7,
  opening_date = $8, closing_date = $9, contact = $10, call_status = $11,
  body = $12, bullets = $13, image_ref = $14, newsletter_batch = $15, position = $16,
  updated_at = $17
WHERE id = $18`

	now := time.Now()
	content.UpdatedAt = now
	args := contentArgs(content)
	args = append(args, now, content.ID)

	res, err := repo.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: RowsAffected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("Update id=%d: %w", content.ID, entity.ErrNotFound)
	}
	return nil
}

func (repo *ContentRepo) SetFeaturedAttachment(ctx context.Context, contentID, attachmentID int64) error {
	const query = `UPDATE contents SET featured_attachment_id = $1, updated_at = $2 WHERE id = $3`
	if _, err := repo.q.ExecContext(ctx, query, attachmentID, time.Now(), contentID); err != nil {
		return fmt.Errorf("SetFeaturedAttachment: %w", err)
	}
	return nil
}

// contentArgs flattens the tagged variant into the insert/update
// parameter list, NULLing the columns of the other kinds.
func contentArgs(content *entity.Content) []any {
	var (
		objective, summary, researchLine  sql.NullString
		openingDate, closingDate          sql.NullTime
		contact, callStatus               sql.NullString
		body, bullets, imageRef, position sql.NullString
		newsletterBatch                   sql.NullInt64
	)

	switch content.Kind {
	case entity.KindProject:
		if p := content.Project; p != nil {
			objective = nullString(p.Objective)
			summary = nullString(p.Summary)
			researchLine = nullString(p.ResearchLine)
		}
	case entity.KindCall:
		if c := content.Call; c != nil {
			openingDate = sql.NullTime{Time: c.OpeningDate, Valid: true}
			closingDate = sql.NullTime{Time: c.ClosingDate, Valid: true}
			contact = nullString(c.Contact)
			callStatus = nullString(string(c.Status))
		}
	case entity.KindNews:
		if n := content.News; n != nil {
			body = nullString(n.Body)
			bullets = nullString(strings.Join(n.Bullets, "\n"))
			imageRef = nullString(n.ImageRef)
			researchLine = nullString(n.ResearchLine)
			position = nullString(string(n.Position))
			if n.NewsletterBatch > 0 {
				newsletterBatch = sql.NullInt64{Int64: int64(n.NewsletterBatch), Valid: true}
			}
		}
	}

	return []any{
		string(content.Kind), content.ExternalID, content.Title, string(content.PostStatus),
		objective, summary, researchLine,
		openingDate, closingDate, contact, callStatus,
		body, bullets, imageRef, newsletterBatch, position,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (*entity.Content, error) {
	var (
		content                           entity.Content
		kind, postStatus                  string
		objective, summary, researchLine  sql.NullString
		openingDate, closingDate          sql.NullTime
		contact, callStatus               sql.NullString
		body, bullets, imageRef, position sql.NullString
		newsletterBatch                   sql.NullInt64
		featuredAttachmentID              sql.NullInt64
	)

	err := row.Scan(
		&content.ID, &kind, &content.ExternalID, &content.Title, &postStatus,
		&objective, &summary, &researchLine,
		&openingDate, &closingDate, &contact, &callStatus,
		&body, &bullets, &imageRef, &newsletterBatch, &position,
		&featuredAttachmentID, &content.CreatedAt, &content.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	content.Kind = entity.ContentKind(kind)
	content.PostStatus = entity.PostStatus(postStatus)
	if featuredAttachmentID.Valid {
		content.FeaturedAttachmentID = &featuredAttachmentID.Int64
	}

	switch content.Kind {
	case entity.KindProject:
		content.Project = &entity.ProjectFields{
			Objective:    objective.String,
			Summary:      summary.String,
			ResearchLine: researchLine.String,
		}
	case entity.KindCall:
		content.Call = &entity.CallFields{
			OpeningDate: openingDate.Time,
			ClosingDate: closingDate.Time,
			Contact:     contact.String,
			Status:      entity.CallStatus(callStatus.String),
		}
	case entity.KindNews:
		news := &entity.NewsFields{
			Body:            body.String,
			ImageRef:        imageRef.String,
			ResearchLine:    researchLine.String,
			NewsletterBatch: int(newsletterBatch.Int64),
			Position:        entity.NewsPosition(position.String),
		}
		if bullets.Valid && bullets.String != "" {
			news.Bullets = strings.Split(bullets.String, "\n")
		}
		content.News = news
	}

	return &content, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
