// Package entity defines the core domain entities and validation logic for the application.
// It contains the content record variants (Project, Call, News), taxonomy categories,
// scheduled jobs, and their validation rules and domain-specific errors.
package entity

import "time"

// ContentKind identifies which variant of content a record carries.
// The kind selects the ingestion schema, the factory rules, and the
// taxonomy axes applied to the record.
type ContentKind string

const (
	KindProject ContentKind = "project"
	KindCall    ContentKind = "call"
	KindNews    ContentKind = "news"
)

// Valid reports whether the kind is one of the three supported variants.
func (k ContentKind) Valid() bool {
	switch k {
	case KindProject, KindCall, KindNews:
		return true
	}
	return false
}

// PostStatus is the visibility state of a record in the content store.
// It is independent of the date-derived Call lifecycle status.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPending   PostStatus = "pending"
	StatusPublished PostStatus = "published"
	StatusPrivate   PostStatus = "private"
)

// CallStatus is the date-derived lifecycle state of a funding call.
// Scheduled and ClosingSoon are reserved for manual curation; the
// automatic transition only moves calls between Open and Expired.
type CallStatus string

const (
	CallScheduled   CallStatus = "scheduled"
	CallOpen        CallStatus = "open"
	CallClosingSoon CallStatus = "closing_soon"
	CallExpired     CallStatus = "expired"
)

// CallStatusAt computes the lifecycle status of a call as a pure function
// of its closing date and the given instant. A call is expired strictly
// after its closing date and open otherwise. Callers must recompute rather
// than cache this value.
func CallStatusAt(closing time.Time, now time.Time) CallStatus {
	if now.After(closing) {
		return CallExpired
	}
	return CallOpen
}

// NewsPosition controls where a news item is placed on the landing layout.
type NewsPosition string

const (
	PositionHighlight NewsPosition = "highlight"
	PositionGrid      NewsPosition = "grid"
	PositionNormal    NewsPosition = "normal"
)

// ValidNewsPosition reports whether p is one of the allowed placements.
func ValidNewsPosition(p NewsPosition) bool {
	switch p {
	case PositionHighlight, PositionGrid, PositionNormal:
		return true
	}
	return false
}

// Content is a durable content record. Kind selects which of the
// kind-specific field structs is populated; exactly one of Project,
// Call, or News is non-nil for a well-formed record.
type Content struct {
	ID         int64
	Kind       ContentKind
	ExternalID string
	Title      string
	PostStatus PostStatus

	// StatusLabel is the free-text domain status from the source sheet.
	// It feeds the status taxonomy axis for projects and news; calls use
	// their date-derived Status instead. Not stored as a column, the
	// assignment lives in the taxonomy relation.
	StatusLabel string

	Project *ProjectFields
	Call    *CallFields
	News    *NewsFields

	FeaturedAttachmentID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectFields holds the fields specific to research projects.
type ProjectFields struct {
	Objective    string
	Summary      string
	ResearchLine string
}

// CallFields holds the fields specific to funding calls.
type CallFields struct {
	OpeningDate time.Time
	ClosingDate time.Time
	Contact     string
	Status      CallStatus
}

// NewsFields holds the fields specific to news items.
type NewsFields struct {
	Body            string
	Bullets         []string
	ImageRef        string
	ResearchLine    string
	NewsletterBatch int
	Position        NewsPosition
}

// Validate checks the cross-field invariants of a content record.
// Title is the primary idempotency key and must be present; a call
// may not close before it opens.
func (c *Content) Validate() error {
	if !c.Kind.Valid() {
		return &ValidationError{Field: "kind", Message: "is not a supported content kind"}
	}
	if c.Title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if c.Kind == KindCall {
		if c.Call == nil {
			return &ValidationError{Field: "call", Message: "call fields are required"}
		}
		if c.Call.ClosingDate.Before(c.Call.OpeningDate) {
			return &ValidationError{Field: "closing_date", Message: "cannot be before opening date"}
		}
	}
	if c.Kind == KindNews && c.News != nil && c.News.Position != "" && !ValidNewsPosition(c.News.Position) {
		return &ValidationError{Field: "position", Message: "is not an allowed placement"}
	}
	return nil
}
