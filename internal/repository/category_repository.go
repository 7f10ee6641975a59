package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
)

// CategoryRepository maps the flat case-category catalog.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a category and populates the generated id.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	const query = `INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, category.Name, category.Description).Scan(&category.ID); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// FindByID returns a single category.
func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	const query = `SELECT id, name, description FROM categories WHERE id = $1`
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return &category, nil
}

// FindByName returns a category by its unique name.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	const query = `SELECT id, name, description FROM categories WHERE name = $1`
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return &category, nil
}

// FindAll lists every category.
func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	const query = `SELECT id, name, description FROM categories ORDER BY id`
	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Update replaces the mutable columns.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	const query = `UPDATE categories SET name = $2, description = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, category.ID, category.Name, category.Description); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete physically removes the category row.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM categories WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
