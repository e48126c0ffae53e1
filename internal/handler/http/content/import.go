// Package content exposes the spreadsheet import endpoint.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"research-hub/internal/domain/entity"
	"research-hub/internal/handler/http/respond"
	"research-hub/internal/observability/logging"
	ingestUC "research-hub/internal/usecase/ingest"
)

// maxFormMemory bounds the in-memory portion of multipart parsing;
// larger uploads spill to disk.
const maxFormMemory = 8 << 20

// Runner executes one ingestion run.
type Runner interface {
	Run(ctx context.Context, in ingestUC.Input) (*ingestUC.Result, error)
}

// ImportHandler accepts a multipart upload of one xlsx file and runs it
// through the batch pipeline synchronously. The response reports per-row
// outcomes; a 4xx/5xx means the run produced nothing.
type ImportHandler struct{ Svc Runner }

func (h ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("invalid multipart form"))
		return
	}

	kind := entity.ContentKind(r.FormValue("kind"))
	if !kind.Valid() {
		respond.SafeError(w, http.StatusBadRequest,
			fmt.Errorf("%w: %q", ingestUC.ErrUnsupportedKind, r.FormValue("kind")))
		return
	}

	autoPosition := false
	if v := r.FormValue("auto_position"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("invalid auto_position value"))
			return
		}
		autoPosition = parsed
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("unsupported file type, expected .xlsx"))
		return
	}

	tmpPath, err := saveUpload(file)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	// Archive moves the file on success; this only cleans up failed runs.
	defer func() { _ = os.Remove(tmpPath) }()

	logger := logging.WithRequestID(r.Context(), slog.Default())
	logger.Info("ingestion run accepted",
		slog.String("kind", string(kind)),
		slog.String("filename", header.Filename))

	result, err := h.Svc.Run(r.Context(), ingestUC.Input{
		FilePath:     tmpPath,
		Kind:         kind,
		AutoPosition: autoPosition,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ingestUC.ErrNoValidRows) || errors.Is(err, ingestUC.ErrUnsupportedKind) {
			status = http.StatusBadRequest
		}
		respond.SafeError(w, status, err)
		return
	}

	respond.JSON(w, http.StatusOK, result.Summary())
}

// saveUpload spools the multipart part to a temp file so the parser can
// open it by path.
func saveUpload(file io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "import-*.xlsx")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp.Name(), nil
}
