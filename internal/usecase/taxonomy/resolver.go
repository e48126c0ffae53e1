// Package taxonomy resolves free-text classification fields to canonical
// categories, creating them on first use. Resolution is best-effort
// enrichment: a failed lookup, create, or assignment is reported as a
// warning and never aborts entity creation.
package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"research-hub/internal/domain/entity"
	"research-hub/internal/repository"
)

// axisSavepoint isolates each axis inside the batch transaction, so a
// failed category statement can be discarded without aborting it.
const axisSavepoint = "taxonomy_axis"

// Resolver assigns taxonomy categories to content records.
type Resolver struct {
	// NewsletterParentID is the fixed parent category under which
	// newsletter-batch categories are created.
	NewsletterParentID int64
}

// axisValue is one (axis, display name) pair derived from an entity.
type axisValue struct {
	axis     entity.TaxonomyAxis
	name     string
	sequence *int
}

// Apply resolves and assigns every taxonomy axis the record carries.
// Each axis runs inside its own savepoint; a failed axis is rolled back
// and reported as a warning while the rest of the record stands.
func (r *Resolver) Apply(ctx context.Context, tx repository.Tx, content *entity.Content) []string {
	var warnings []string
	for _, av := range r.axisValues(content) {
		if err := tx.Savepoint(ctx, axisSavepoint); err != nil {
			warnings = append(warnings, fmt.Sprintf("taxonomy %s %q not assigned: %v", av.axis, av.name, err))
			break
		}
		if err := r.applyOne(ctx, tx.Categories(), content.ID, av); err != nil {
			if rbErr := tx.RollbackTo(ctx, axisSavepoint); rbErr != nil {
				warnings = append(warnings, fmt.Sprintf("taxonomy rollback failed: %v", rbErr))
			}
			slog.Default().Warn("taxonomy assignment failed",
				slog.Int64("content_id", content.ID),
				slog.String("axis", string(av.axis)),
				slog.String("name", av.name),
				slog.Any("error", err))
			warnings = append(warnings, fmt.Sprintf("taxonomy %s %q not assigned: %v", av.axis, av.name, err))
			continue
		}
		if err := tx.Release(ctx, axisSavepoint); err != nil {
			warnings = append(warnings, fmt.Sprintf("taxonomy %s %q not assigned: %v", av.axis, av.name, err))
		}
	}
	return warnings
}

// axisValues extracts the classification fields present on the record.
// The free-text status label drives the status axis for projects and
// news; calls use their date-derived status, which is authoritative.
func (r *Resolver) axisValues(content *entity.Content) []axisValue {
	var values []axisValue

	switch content.Kind {
	case entity.KindProject:
		if content.StatusLabel != "" {
			values = append(values, axisValue{axis: entity.AxisStatus, name: content.StatusLabel})
		}
		if content.Project != nil && content.Project.ResearchLine != "" {
			values = append(values, axisValue{axis: entity.AxisResearchLine, name: content.Project.ResearchLine})
		}
	case entity.KindCall:
		if content.Call != nil && content.Call.Status != "" {
			values = append(values, axisValue{axis: entity.AxisStatus, name: string(content.Call.Status)})
		}
	case entity.KindNews:
		if content.StatusLabel != "" {
			values = append(values, axisValue{axis: entity.AxisStatus, name: content.StatusLabel})
		}
		if content.News == nil {
			break
		}
		if content.News.ResearchLine != "" {
			values = append(values, axisValue{axis: entity.AxisResearchLine, name: content.News.ResearchLine})
		}
		if content.News.NewsletterBatch > 0 {
			seq := content.News.NewsletterBatch
			values = append(values, axisValue{
				axis:     entity.AxisNewsletter,
				name:     "Newsletter " + strconv.Itoa(seq),
				sequence: &seq,
			})
		}
	}

	return values
}

// applyOne finds or creates the category for one axis value and assigns
// it to the entity. Lookup is by exact display name within the axis.
func (r *Resolver) applyOne(ctx context.Context, categories repository.CategoryRepository, contentID int64, av axisValue) error {
	category, err := categories.FindByName(ctx, av.axis, av.name)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return fmt.Errorf("find category: %w", err)
	}

	if category == nil || errors.Is(err, entity.ErrNotFound) {
		category = &entity.Category{
			Axis:     av.axis,
			Name:     av.name,
			Sequence: av.sequence,
		}
		if av.axis == entity.AxisNewsletter && r.NewsletterParentID > 0 {
			parent := r.NewsletterParentID
			category.ParentID = &parent
		}
		if err := categories.Create(ctx, category); err != nil {
			return fmt.Errorf("create category: %w", err)
		}
	}

	if err := categories.Assign(ctx, contentID, category.ID, av.axis); err != nil {
		return fmt.Errorf("assign category: %w", err)
	}
	return nil
}
