package ingest

import (
	"context"
	"fmt"

	"research-hub/internal/repository"
)

// checkDuplicate decides whether the logical entity behind a row already
// exists. The title check runs first and short-circuits: a title match
// skips the row before the external-id fallback is consulted. The
// fallback is reached only when the title is blank or unmatched. Title
// is the more reliable natural key in this domain; this ordering is
// deliberate and must be preserved.
//
// Returns (true, reason, nil) when the row is a duplicate to skip.
func checkDuplicate(ctx context.Context, contents repository.ContentRepository, row CoercedRow) (bool, string, error) {
	if row.Title != "" {
		exists, err := contents.ExistsByTitle(ctx, row.Kind, row.Title)
		if err != nil {
			return false, "", fmt.Errorf("check title existence: %w", err)
		}
		if exists {
			return true, fmt.Sprintf("row %d: %s %q already exists, skipped", row.ReportIndex(), row.Kind, row.Title), nil
		}
	}

	if row.ExternalID != "" {
		exists, err := contents.ExistsByExternalID(ctx, row.Kind, row.ExternalID)
		if err != nil {
			return false, "", fmt.Errorf("check external id existence: %w", err)
		}
		if exists {
			return true, fmt.Sprintf("row %d: %s with external id %q already exists, skipped", row.ReportIndex(), row.Kind, row.ExternalID), nil
		}
	}

	return false, "", nil
}
