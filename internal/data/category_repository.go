package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	DB *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// Insert stores a new category and sets its ID. A name or slug that is
// already taken yields ErrDuplicateRecord.
func (r *CategoryRepository) Insert(ctx context.Context, category *Category) error {
	query := `INSERT INTO categories (name, slug, views, likes) VALUES (:name, :slug, :views, :likes)`
	res, err := r.DB.NamedExecContext(ctx, query, category)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read category id: %w", err)
	}
	category.ID = id
	return nil
}

// GetBySlug finds a category by exact slug match.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	query := r.DB.Rebind(`SELECT id, name, slug, views, likes FROM categories WHERE slug = ?`)
	if err := r.DB.GetContext(ctx, &category, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}
	return &category, nil
}

// TopByLikes returns at most limit categories, most liked first.
func (r *CategoryRepository) TopByLikes(ctx context.Context, limit int) ([]*Category, error) {
	categories := []*Category{}
	query := r.DB.Rebind(`SELECT id, name, slug, views, likes FROM categories ORDER BY likes DESC, id ASC LIMIT ?`)
	if err := r.DB.SelectContext(ctx, &categories, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get top categories: %w", err)
	}
	return categories, nil
}

// GetAll retrieves all categories ordered by name.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*Category, error) {
	categories := []*Category{}
	if err := r.DB.SelectContext(ctx, &categories, `SELECT id, name, slug, views, likes FROM categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}
