// Package uploadstore archives accepted spreadsheet uploads on the
// local filesystem. Every committed batch keeps its input file so a run
// can be audited or replayed later.
package uploadstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"research-hub/internal/domain/entity"
)

// Store archives upload files under a date-partitioned directory tree:
//
//	{dir}/{YYYY-MM-DD}/{kind}_{HH-mm-ss}.xlsx
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Archive moves the file at path into the archive tree and returns the
// saved path. The move falls back to copy-and-remove for uploads that
// land on a different filesystem than the archive directory.
func (s *Store) Archive(_ context.Context, path string, kind entity.ContentKind) (string, error) {
	day := s.now()
	dir := filepath.Join(s.dir, day.Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create archive directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.xlsx", sanitizeKind(kind), day.Format("15-04-05"))
	dest := filepath.Join(dir, name)

	if err := os.Rename(path, dest); err != nil {
		if err := copyFile(path, dest); err != nil {
			return "", fmt.Errorf("archive upload: %w", err)
		}
		_ = os.Remove(path)
	}

	return dest, nil
}

func sanitizeKind(kind entity.ContentKind) string {
	return strings.ReplaceAll(string(kind), " ", "")
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
