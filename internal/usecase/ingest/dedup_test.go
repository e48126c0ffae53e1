package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"research-hub/internal/domain/entity"
	"research-hub/internal/repository"
)

// stubContentRepo implements repository.ContentRepository for dedup tests.
// Only the existence checks are meaningful; call counts record ordering.
type stubContentRepo struct {
	titleExists      bool
	titleErr         error
	externalIDExists bool
	externalIDErr    error

	titleCalls      int
	externalIDCalls int
}

func (s *stubContentRepo) Get(context.Context, int64) (*entity.Content, error) {
	return nil, entity.ErrNotFound
}

func (s *stubContentRepo) FindByExternalID(context.Context, entity.ContentKind, string) (*entity.Content, error) {
	return nil, entity.ErrNotFound
}

func (s *stubContentRepo) ExistsByTitle(context.Context, entity.ContentKind, string) (bool, error) {
	s.titleCalls++
	return s.titleExists, s.titleErr
}

func (s *stubContentRepo) ExistsByExternalID(context.Context, entity.ContentKind, string) (bool, error) {
	s.externalIDCalls++
	return s.externalIDExists, s.externalIDErr
}

func (s *stubContentRepo) Create(context.Context, *entity.Content) error { return nil }
func (s *stubContentRepo) Update(context.Context, *entity.Content) error { return nil }
func (s *stubContentRepo) SetFeaturedAttachment(context.Context, int64, int64) error {
	return nil
}

var _ repository.ContentRepository = (*stubContentRepo)(nil)

func TestCheckDuplicate_TitleMatchShortCircuits(t *testing.T) {
	repo := &stubContentRepo{titleExists: true, externalIDExists: true}
	row := CoercedRow{Index: 1, Kind: entity.KindProject, Title: "Existing", ExternalID: "EXT-1"}

	dup, reason, err := checkDuplicate(context.Background(), repo, row)

	if err != nil {
		t.Fatalf("checkDuplicate() error = %v", err)
	}
	if !dup {
		t.Fatal("expected duplicate")
	}
	if !strings.Contains(reason, "Existing") {
		t.Errorf("reason = %q, want the title", reason)
	}
	// the external-id fallback must not be consulted on a title match
	if repo.externalIDCalls != 0 {
		t.Errorf("externalIDCalls = %d, want 0", repo.externalIDCalls)
	}
}

func TestCheckDuplicate_ExternalIDFallback(t *testing.T) {
	repo := &stubContentRepo{titleExists: false, externalIDExists: true}
	row := CoercedRow{Index: 1, Kind: entity.KindNews, Title: "New Title", ExternalID: "EXT-1"}

	dup, reason, err := checkDuplicate(context.Background(), repo, row)

	if err != nil {
		t.Fatalf("checkDuplicate() error = %v", err)
	}
	if !dup {
		t.Fatal("expected duplicate via external id")
	}
	if !strings.Contains(reason, "EXT-1") {
		t.Errorf("reason = %q, want the external id", reason)
	}
	if repo.titleCalls != 1 {
		t.Errorf("titleCalls = %d, want 1", repo.titleCalls)
	}
}

func TestCheckDuplicate_BlankTitleSkipsTitleCheck(t *testing.T) {
	repo := &stubContentRepo{externalIDExists: true}
	row := CoercedRow{Index: 1, Kind: entity.KindNews, ExternalID: "EXT-1"}

	dup, _, err := checkDuplicate(context.Background(), repo, row)

	if err != nil {
		t.Fatalf("checkDuplicate() error = %v", err)
	}
	if !dup {
		t.Fatal("expected duplicate via external id")
	}
	if repo.titleCalls != 0 {
		t.Errorf("titleCalls = %d, want 0 for blank title", repo.titleCalls)
	}
}

func TestCheckDuplicate_NotDuplicate(t *testing.T) {
	repo := &stubContentRepo{}
	row := CoercedRow{Index: 1, Kind: entity.KindCall, Title: "Fresh", ExternalID: "EXT-2"}

	dup, reason, err := checkDuplicate(context.Background(), repo, row)

	if err != nil {
		t.Fatalf("checkDuplicate() error = %v", err)
	}
	if dup {
		t.Errorf("expected no duplicate, got reason %q", reason)
	}
	if repo.titleCalls != 1 || repo.externalIDCalls != 1 {
		t.Errorf("calls = (%d, %d), want both checks consulted", repo.titleCalls, repo.externalIDCalls)
	}
}

func TestCheckDuplicate_RepositoryError(t *testing.T) {
	repoErr := errors.New("connection lost")
	repo := &stubContentRepo{titleErr: repoErr}
	row := CoercedRow{Index: 1, Kind: entity.KindCall, Title: "Any"}

	_, _, err := checkDuplicate(context.Background(), repo, row)

	if !errors.Is(err, repoErr) {
		t.Errorf("expected wrapped repository error, got %v", err)
	}
}
