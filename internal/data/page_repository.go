package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLPageRepository is a concrete implementation of the page repository using sqlx.
type SQLPageRepository struct {
	db *sqlx.DB
}

// NewSQLPageRepository creates a new SQLPageRepository.
func NewSQLPageRepository(db *sqlx.DB) *SQLPageRepository {
	return &SQLPageRepository{db: db}
}

// CreatePage inserts a new page into the database and sets its ID.
func (r *SQLPageRepository) CreatePage(ctx context.Context, page *Page) error {
	query := `INSERT INTO pages (category_id, title, url, views) VALUES (:category_id, :title, :url, :views)`
	res, err := r.db.NamedExecContext(ctx, query, page)
	if err != nil {
		return fmt.Errorf("failed to execute create page query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read page id: %w", err)
	}
	page.ID = id
	return nil
}

// GetPageByID retrieves a single page from the database by its ID.
func (r *SQLPageRepository) GetPageByID(ctx context.Context, id int64) (*Page, error) {
	var page Page
	query := r.db.Rebind(`SELECT id, category_id, title, url, views FROM pages WHERE id = ?`)
	if err := r.db.GetContext(ctx, &page, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get page by id: %w", err)
	}
	return &page, nil
}

// GetPagesByCategoryID retrieves all pages of a category in insertion order.
// The result is never nil.
func (r *SQLPageRepository) GetPagesByCategoryID(ctx context.Context, categoryID int64) ([]*Page, error) {
	pages := []*Page{}
	query := r.db.Rebind(`SELECT id, category_id, title, url, views FROM pages WHERE category_id = ? ORDER BY id`)
	if err := r.db.SelectContext(ctx, &pages, query, categoryID); err != nil {
		return nil, fmt.Errorf("failed to get pages by category id: %w", err)
	}
	return pages, nil
}

// TopByViews returns at most limit pages, most viewed first.
func (r *SQLPageRepository) TopByViews(ctx context.Context, limit int) ([]*Page, error) {
	pages := []*Page{}
	query := r.db.Rebind(`SELECT id, category_id, title, url, views FROM pages ORDER BY views DESC, id ASC LIMIT ?`)
	if err := r.db.SelectContext(ctx, &pages, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get top pages: %w", err)
	}
	return pages, nil
}

// IncrementViews adds one to the view counter of a page.
func (r *SQLPageRepository) IncrementViews(ctx context.Context, id int64) error {
	query := r.db.Rebind(`UPDATE pages SET views = views + 1 WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment page views: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
