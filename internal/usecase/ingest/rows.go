package ingest

import (
	"context"
	"time"

	"research-hub/internal/domain/entity"
)

// headerRowOffset is the fixed number of header rows preceding the data
// in the input sheet. Row indexes in error messages and results are the
// 1-based data index plus this offset, so they match what a user sees
// when opening the file.
const headerRowOffset = 1

// Canonical field keys produced by the row parser. The kind-specific
// column-to-field mapping lives in the parser; everything downstream
// works on these keys only.
const (
	FieldTitle        = "title"
	FieldExternalID   = "external_id"
	FieldStatus       = "status"
	FieldObjective    = "objective"
	FieldSummary      = "summary"
	FieldResearchLine = "research_line"
	FieldOpeningDate  = "opening_date"
	FieldClosingDate  = "closing_date"
	FieldContact      = "contact"
	FieldBody         = "body"
	FieldBullets      = "bullets"
	FieldImage        = "image"
	FieldNewsletter   = "newsletter"
	FieldPosition     = "position"
)

// RawRow is one logical input record: a mapping from canonical field key
// to the raw cell text, plus the 1-based index of the row within the
// data section of the sheet.
type RawRow struct {
	Index  int
	Fields map[string]string
}

// ReportIndex returns the user-facing row number, offset by the header row.
func (r RawRow) ReportIndex() int {
	return r.Index + headerRowOffset
}

// RowSource reads an input file into an ordered sequence of raw rows.
// A non-tabular or unreadable file, or a missing required column, is a
// structural error that aborts the run before any persistence begins.
type RowSource interface {
	Read(ctx context.Context, path string, kind entity.ContentKind) ([]RawRow, error)
}

// CoercedRow is a validated row with types already coerced. Only the
// fields matching the row's kind are meaningful.
type CoercedRow struct {
	Index      int
	Kind       entity.ContentKind
	Title      string
	ExternalID string
	// StatusLabel is the free-text domain status used for the status taxonomy axis.
	StatusLabel string

	// Project
	Objective    string
	Summary      string
	ResearchLine string

	// Call
	OpeningDate time.Time
	ClosingDate time.Time
	Contact     string

	// News
	Body            string
	Bullets         []string
	ImageRef        string
	NewsletterBatch int
	Position        string
}

// ReportIndex returns the user-facing row number, offset by the header row.
func (r CoercedRow) ReportIndex() int {
	return r.Index + headerRowOffset
}
