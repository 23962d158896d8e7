//go:build integration

package data

import (
	"context"
	"errors"
	"testing"
)

func TestCategoryRepository_Insert(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewCategoryRepository(db)

	category := &Category{Name: "Python", Slug: "python"}
	if err := repo.Insert(context.Background(), category); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if category.ID == 0 {
		t.Error("expected non-zero id")
	}
}

func TestCategoryRepository_InsertDuplicate(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	if err := repo.Insert(ctx, &Category{Name: "Books", Slug: "books"}); err != nil {
		t.Fatal(err)
	}

	err := repo.Insert(ctx, &Category{Name: "books", Slug: "books"})
	if !errors.Is(err, ErrDuplicateRecord) {
		t.Errorf("expected ErrDuplicateRecord, got %v", err)
	}

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM categories"); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 category, got %d", count)
	}
}

func TestCategoryRepository_GetBySlug(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	if err := repo.Insert(ctx, &Category{Name: "Other Frameworks", Slug: "other-frameworks"}); err != nil {
		t.Fatal(err)
	}

	found, err := repo.GetBySlug(ctx, "other-frameworks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Name != "Other Frameworks" {
		t.Errorf("expected name 'Other Frameworks', got '%s'", found.Name)
	}

	// Test not found
	if _, err := repo.GetBySlug(ctx, "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}

	// Lookups are case-sensitive.
	if _, err := repo.GetBySlug(ctx, "Other-Frameworks"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for a differently cased slug, got %v", err)
	}
}

func TestCategoryRepository_TopByLikes(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	empty, err := repo.TopByLikes(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected an empty, non-nil slice, got %#v", empty)
	}

	for i, name := range []string{"a", "b", "c", "d", "e", "f"} {
		if err := repo.Insert(ctx, &Category{Name: name, Slug: name, Likes: i * 10}); err != nil {
			t.Fatal(err)
		}
	}

	top, err := repo.TopByLikes(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(top))
	}
	if top[0].Name != "f" || top[4].Name != "b" {
		t.Errorf("expected most liked first, got %s ... %s", top[0].Name, top[4].Name)
	}
}

func TestCategoryRepository_GetAll(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	if err := repo.Insert(ctx, &Category{Name: "Music", Slug: "music"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Insert(ctx, &Category{Name: "Books", Slug: "books"}); err != nil {
		t.Fatal(err)
	}

	categories, err := repo.GetAll(ctx)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "Books" {
		t.Errorf("expected categories ordered by name, got %s first", categories[0].Name)
	}
}
