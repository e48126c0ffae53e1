package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"research-hub/internal/domain/entity"
	"research-hub/internal/repository"
)

type CategoryRepo struct {
	q querier
}

func NewCategoryRepo(db *sql.DB) repository.CategoryRepository {
	return &CategoryRepo{q: db}
}

func newCategoryRepoTx(tx *sql.Tx) repository.CategoryRepository {
	return &CategoryRepo{q: tx}
}

func (repo *CategoryRepo) FindByName(ctx context.Context, axis entity.TaxonomyAxis, name string) (*entity.Category, error) {
	const query = `
SELECT id, axis, name, parent_id, sequence
FROM categories
WHERE axis = $1 AND name = $2`

	var (
		category entity.Category
		axisStr  string
		parentID sql.NullInt64
		sequence sql.NullInt64
	)
	err := repo.q.QueryRowContext(ctx, query, string(axis), name).
		Scan(&category.ID, &axisStr, &category.Name, &parentID, &sequence)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("FindByName %q: %w", name, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("FindByName: %w", err)
	}

	category.Axis = entity.TaxonomyAxis(axisStr)
	if parentID.Valid {
		category.ParentID = &parentID.Int64
	}
	if sequence.Valid {
		seq := int(sequence.Int64)
		category.Sequence = &seq
	}
	return &category, nil
}

func (repo *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	const query = `
INSERT INTO categories (axis, name, parent_id, sequence)
VALUES ($1, $2, $3, $4)
RETURNING id`

	var parentID sql.NullInt64
	if category.ParentID != nil {
		parentID = sql.NullInt64{Int64: *category.ParentID, Valid: true}
	}
	var sequence sql.NullInt64
	if category.Sequence != nil {
		sequence = sql.NullInt64{Int64: int64(*category.Sequence), Valid: true}
	}

	err := repo.q.QueryRowContext(ctx, query, string(category.Axis), category.Name, parentID, sequence).
		Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *CategoryRepo) Assign(ctx context.Context, contentID, categoryID int64, axis entity.TaxonomyAxis) error {
	const query = `
INSERT INTO content_categories (content_id, category_id, axis)
VALUES ($1, $2, $3)
ON CONFLICT (content_id, category_id) DO NOTHING`

	if _, err := repo.q.ExecContext(ctx, query, contentID, categoryID, string(axis)); err != nil {
		return fmt.Errorf("Assign: %w", err)
	}
	return nil
}
