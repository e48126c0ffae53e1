// Package media downloads referenced images and stores them as
// attachments. Google Drive share links are rewritten to their direct
// download form before fetching.
package media

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"research-hub/internal/domain/entity"
	"research-hub/internal/repository"
	"research-hub/internal/resilience/circuitbreaker"
	"research-hub/internal/resilience/retry"
)

// Store fetches remote images and persists them on the local filesystem,
// recording an attachment row and linking it as the content's featured
// visual. It is safe for concurrent use.
type Store struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	attachments    repository.AttachmentRepository
	contents       repository.ContentRepository
	config         Config
}

// NewStore creates a media store with the given configuration.
// The HTTP client enforces TLS 1.2+ and the configured redirect limit.
func NewStore(cfg Config, attachments repository.AttachmentRepository, contents repository.ContentRepository) *Store {
	store := &Store{
		circuitBreaker: circuitbreaker.New(circuitbreaker.MediaFetchConfig()),
		retryConfig:    retry.MediaFetchConfig(),
		attachments:    attachments,
		contents:       contents,
		config:         cfg,
	}

	store.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", len(via))
			}
			return nil
		},
	}

	return store
}

// Attach downloads the referenced image and links it to the content
// record. It returns the stored attachment ID. Failures are reported to
// the caller, which treats them as warnings: the content row already
// exists by the time Attach runs.
func (s *Store) Attach(ctx context.Context, imageRef string, contentID int64, title string) (int64, error) {
	if !s.config.Enabled {
		return 0, fmt.Errorf("media acquisition disabled")
	}

	if err := entity.ValidateImageURL(imageRef); err != nil {
		return 0, err
	}

	fetchURL := RewriteShareLink(imageRef)
	if fetchURL != imageRef {
		slog.Debug("rewrote drive share link",
			slog.String("original", imageRef),
			slog.String("direct", fetchURL))
	}

	var body []byte
	var contentType string
	err := retry.WithBackoff(ctx, s.retryConfig, func() error {
		result, err := s.circuitBreaker.Execute(func() (interface{}, error) {
			return s.doFetch(ctx, fetchURL)
		})
		if err != nil {
			return err
		}
		fetched := result.(fetchResult)
		body = fetched.body
		contentType = fetched.contentType
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", fetchURL, err)
	}

	path, err := s.store(contentID, contentType, body)
	if err != nil {
		return 0, err
	}

	attachment := &repository.Attachment{
		ContentID: contentID,
		SourceURL: imageRef,
		Path:      path,
		Title:     title,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return 0, fmt.Errorf("record attachment: %w", err)
	}

	if err := s.contents.SetFeaturedAttachment(ctx, contentID, attachment.ID); err != nil {
		return 0, fmt.Errorf("link attachment: %w", err)
	}

	return attachment.ID, nil
}

type fetchResult struct {
	body        []byte
	contentType string
}

// doFetch performs the HTTP download with the size limit enforced while
// reading, not from the Content-Length header.
func (s *Store) doFetch(ctx context.Context, fetchURL string) (fetchResult, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return fetchResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "ResearchHubBot/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return fetchResult{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fetchResult{}, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	limitedReader := io.LimitReader(resp.Body, s.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return fetchResult{}, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > s.config.MaxBodySize {
		return fetchResult{}, fmt.Errorf("response size exceeds limit of %d bytes", s.config.MaxBodySize)
	}
	if len(body) == 0 {
		return fetchResult{}, fmt.Errorf("empty response body")
	}

	return fetchResult{body: body, contentType: resp.Header.Get("Content-Type")}, nil
}

// store writes the downloaded bytes under the media directory and
// returns the stored path.
func (s *Store) store(contentID int64, contentType string, body []byte) (string, error) {
	if err := os.MkdirAll(s.config.Dir, 0o750); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}

	name := fmt.Sprintf("%d_%s%s", contentID, uuid.New().String(), extensionFor(contentType))
	path := filepath.Join(s.config.Dir, name)
	if err := os.WriteFile(path, body, 0o640); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return path, nil
}

// extensionFor maps common image content types to file extensions.
// Drive downloads often omit the type, hence the generic fallback.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".img"
	}
}
