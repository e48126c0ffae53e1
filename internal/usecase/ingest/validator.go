package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"research-hub/internal/domain/entity"
)

// dateLayouts are the accepted input date formats, tried in order.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// RowError records why one input row was rejected during validation.
// Row is the user-facing index (offset by the header row).
type RowError struct {
	Row     int
	Reasons []string
}

// ValidateRows applies the kind-specific schema rules to every raw row,
// partitioning the batch into coerced valid rows and rejected rows with
// reasons. Every input row maps to exactly one outcome; order is
// preserved. Validation is pure: no I/O, no side effects.
func ValidateRows(rows []RawRow, kind entity.ContentKind) ([]CoercedRow, []RowError) {
	valid := make([]CoercedRow, 0, len(rows))
	var invalid []RowError

	for _, raw := range rows {
		coerced, reasons := validateRow(raw, kind)
		if len(reasons) > 0 {
			invalid = append(invalid, RowError{Row: raw.ReportIndex(), Reasons: reasons})
			continue
		}
		valid = append(valid, coerced)
	}
	return valid, invalid
}

func validateRow(raw RawRow, kind entity.ContentKind) (CoercedRow, []string) {
	var reasons []string

	row := CoercedRow{
		Index:       raw.Index,
		Kind:        kind,
		Title:       strings.TrimSpace(raw.Fields[FieldTitle]),
		ExternalID:  strings.TrimSpace(raw.Fields[FieldExternalID]),
		StatusLabel: strings.TrimSpace(raw.Fields[FieldStatus]),
	}

	if row.Title == "" {
		reasons = append(reasons, "title is required")
	}

	switch kind {
	case entity.KindProject:
		row.Objective = strings.TrimSpace(raw.Fields[FieldObjective])
		row.Summary = strings.TrimSpace(raw.Fields[FieldSummary])
		row.ResearchLine = strings.TrimSpace(raw.Fields[FieldResearchLine])
		if row.Objective == "" {
			reasons = append(reasons, "objective is required")
		}

	case entity.KindCall:
		row.Contact = strings.TrimSpace(raw.Fields[FieldContact])
		opening, err := parseDate(raw.Fields[FieldOpeningDate])
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("opening date: %v", err))
		}
		closing, err := parseDate(raw.Fields[FieldClosingDate])
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("closing date: %v", err))
		}
		row.OpeningDate = opening
		row.ClosingDate = closing

	case entity.KindNews:
		row.Body = strings.TrimSpace(raw.Fields[FieldBody])
		row.ImageRef = strings.TrimSpace(raw.Fields[FieldImage])
		row.ResearchLine = strings.TrimSpace(raw.Fields[FieldResearchLine])
		row.Bullets = splitBullets(raw.Fields[FieldBullets])
		if row.Body == "" {
			reasons = append(reasons, "content body is required")
		}
		if v := strings.TrimSpace(raw.Fields[FieldNewsletter]); v != "" {
			batch, err := strconv.Atoi(v)
			if err != nil || batch < 0 {
				reasons = append(reasons, fmt.Sprintf("newsletter batch %q is not a valid number", v))
			} else {
				row.NewsletterBatch = batch
			}
		}
		if v := strings.TrimSpace(raw.Fields[FieldPosition]); v != "" {
			pos := entity.NewsPosition(strings.ToLower(v))
			if !entity.ValidNewsPosition(pos) {
				reasons = append(reasons, fmt.Sprintf("position %q is not one of highlight, grid, normal", v))
			} else {
				row.Position = string(pos)
			}
		}

	default:
		reasons = append(reasons, fmt.Sprintf("unsupported content kind %q", kind))
	}

	return row, reasons
}

func parseDate(raw string) (time.Time, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, fmt.Errorf("is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a valid date (expected YYYY-MM-DD or DD/MM/YYYY)", v)
}

func splitBullets(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	bullets := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			bullets = append(bullets, v)
		}
	}
	return bullets
}
