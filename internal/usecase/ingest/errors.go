package ingest

import "errors"

// Sentinel errors for ingestion runs. All of these are structural: they
// abort the run before or outside the batch transaction and carry no
// partial results.
var (
	// ErrNoValidRows indicates that validation rejected every row of the batch.
	ErrNoValidRows = errors.New("no valid rows in input file")

	// ErrUnsupportedKind indicates an unknown content kind was requested.
	ErrUnsupportedKind = errors.New("unsupported content kind")
)
