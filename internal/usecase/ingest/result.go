package ingest

import "fmt"

// ProcessedRow identifies one persisted entity in the run result.
type ProcessedRow struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	ExternalID string `json:"external_id,omitempty"`
}

// FailedRow records one row that was rejected by validation or whose
// processing failed inside the batch. Row is the user-facing index
// (offset by the header row).
type FailedRow struct {
	Row        int    `json:"row"`
	Title      string `json:"title"`
	ExternalID string `json:"external_id,omitempty"`
	Error      string `json:"error"`
}

// Result aggregates the per-row outcomes of one ingestion run.
type Result struct {
	Processed     []ProcessedRow
	Failed        []FailedRow
	Warnings      []string
	SkippedCount  int
	SavedFilePath string
}

// RunResult is the caller-facing summary of a run.
type RunResult struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	ProcessedCount int      `json:"processed_count"`
	FailedCount    int      `json:"failed_count"`
	SkippedCount   int      `json:"skipped_count"`
	SavedFilePath  string   `json:"saved_file_path,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Summary condenses the aggregated outcomes into the caller-facing result.
func (r *Result) Summary() RunResult {
	return RunResult{
		Success: true,
		Message: fmt.Sprintf("processed %d, failed %d, skipped %d",
			len(r.Processed), len(r.Failed), r.SkippedCount),
		ProcessedCount: len(r.Processed),
		FailedCount:    len(r.Failed),
		SkippedCount:   r.SkippedCount,
		SavedFilePath:  r.SavedFilePath,
		Warnings:       r.Warnings,
	}
}
