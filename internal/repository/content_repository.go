package repository

import (
	"context"

	"research-hub/internal/domain/entity"
)

// ContentRepository is the persistence contract for content records.
// Title uniqueness is enforced per kind, not globally; the ingestion
// pipeline depends only on this contract, never on a storage engine.
type ContentRepository interface {
	Get(ctx context.Context, id int64) (*entity.Content, error)
	FindByExternalID(ctx context.Context, kind entity.ContentKind, externalID string) (*entity.Content, error)
	ExistsByTitle(ctx context.Context, kind entity.ContentKind, title string) (bool, error)
	ExistsByExternalID(ctx context.Context, kind entity.ContentKind, externalID string) (bool, error)
	Create(ctx context.Context, content *entity.Content) error
	Update(ctx context.Context, content *entity.Content) error
	// SetFeaturedAttachment links a stored attachment as the record's primary visual.
	SetFeaturedAttachment(ctx context.Context, contentID, attachmentID int64) error
}

// CategoryRepository is the taxonomy collaborator contract.
type CategoryRepository interface {
	FindByName(ctx context.Context, axis entity.TaxonomyAxis, name string) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
	Assign(ctx context.Context, contentID, categoryID int64, axis entity.TaxonomyAxis) error
}

// Attachment is a fetched media resource stored on behalf of a content record.
type Attachment struct {
	ID        int64
	ContentID int64
	SourceURL string
	Path      string
	Title     string
}

// AttachmentRepository persists fetched media attachments.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *Attachment) error
}
