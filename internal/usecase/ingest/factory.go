package ingest

import (
	"fmt"
	"time"

	"research-hub/internal/domain/entity"
)

// Default body-length thresholds for news position inference. These are
// heuristic constants, overridable through FactoryConfig.
const (
	DefaultHighlightThreshold = 500
	DefaultGridThreshold      = 200
)

// FactoryConfig controls entity construction.
type FactoryConfig struct {
	// AutoPosition enables position inference for news rows that carry
	// no explicit position.
	AutoPosition bool

	// HighlightThreshold is the minimum body length for an illustrated
	// news item to be placed as a highlight.
	HighlightThreshold int

	// GridThreshold is the body length below which a short news item is
	// placed on the grid.
	GridThreshold int
}

// DefaultFactoryConfig returns the factory defaults used when the app
// config does not override the thresholds.
func DefaultFactoryConfig() FactoryConfig {
	return FactoryConfig{
		AutoPosition:       false,
		HighlightThreshold: DefaultHighlightThreshold,
		GridThreshold:      DefaultGridThreshold,
	}
}

// BuildContent builds an unsaved content record of the row's kind,
// applying defaulting and computed fields. It returns a domain error if
// a cross-field invariant fails; it performs no I/O.
func BuildContent(row CoercedRow, cfg FactoryConfig, now time.Time) (*entity.Content, error) {
	c := &entity.Content{
		Kind:        row.Kind,
		ExternalID:  row.ExternalID,
		Title:       row.Title,
		PostStatus:  entity.StatusPublished,
		StatusLabel: row.StatusLabel,
	}

	switch row.Kind {
	case entity.KindProject:
		c.Project = &entity.ProjectFields{
			Objective:    row.Objective,
			Summary:      row.Summary,
			ResearchLine: row.ResearchLine,
		}

	case entity.KindCall:
		if row.ClosingDate.Before(row.OpeningDate) {
			return nil, &entity.ValidationError{Field: "closing_date", Message: "cannot be before opening date"}
		}
		c.Call = &entity.CallFields{
			OpeningDate: row.OpeningDate,
			ClosingDate: row.ClosingDate,
			Contact:     row.Contact,
			Status:      entity.CallStatusAt(row.ClosingDate, now),
		}

	case entity.KindNews:
		news := &entity.NewsFields{
			Body:            row.Body,
			Bullets:         row.Bullets,
			ImageRef:        row.ImageRef,
			ResearchLine:    row.ResearchLine,
			NewsletterBatch: row.NewsletterBatch,
			Position:        entity.NewsPosition(row.Position),
		}
		if news.Position == "" && cfg.AutoPosition {
			news.Position = inferPosition(news, cfg)
		}
		c.News = news

	default:
		return nil, fmt.Errorf("%w: unsupported content kind %q", entity.ErrInvalidInput, row.Kind)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// inferPosition derives a display position for a news item that has none.
// The checks are ordered; the first match wins.
func inferPosition(news *entity.NewsFields, cfg FactoryConfig) entity.NewsPosition {
	bodyLen := len(news.Body)
	if news.ImageRef != "" && bodyLen > cfg.HighlightThreshold {
		return entity.PositionHighlight
	}
	if len(news.Bullets) > 0 || bodyLen < cfg.GridThreshold {
		return entity.PositionGrid
	}
	return entity.PositionNormal
}
