package service

import (
	"context"
	"errors"
	"fmt"
	"go-rango-app/internal/data"
	"go-rango-app/internal/forms"
	"go-rango-app/internal/slug"
)

// TopListSize is the number of categories and pages on the index page.
const TopListSize = 5

// CategoryRepository defines the interface for database operations on categories.
type CategoryRepository interface {
	Insert(ctx context.Context, category *data.Category) error
	GetBySlug(ctx context.Context, slug string) (*data.Category, error)
	TopByLikes(ctx context.Context, limit int) ([]*data.Category, error)
	GetAll(ctx context.Context) ([]*data.Category, error)
}

// PageRepository defines the interface for database operations on pages.
type PageRepository interface {
	CreatePage(ctx context.Context, page *data.Page) error
	GetPageByID(ctx context.Context, id int64) (*data.Page, error)
	GetPagesByCategoryID(ctx context.Context, categoryID int64) ([]*data.Page, error)
	TopByViews(ctx context.Context, limit int) ([]*data.Page, error)
	IncrementViews(ctx context.Context, id int64) error
}

// DirectoryServicer defines the interface for browsing and adding content.
type DirectoryServicer interface {
	Index(ctx context.Context) ([]*data.Category, []*data.Page, error)
	ShowCategory(ctx context.Context, slug string) (*data.Category, []*data.Page, error)
	GetCategory(ctx context.Context, slug string) (*data.Category, error)
	AllCategories(ctx context.Context) ([]*data.Category, error)
	AddCategory(ctx context.Context, form *forms.CategoryForm) (*data.Category, error)
	AddPage(ctx context.Context, category *data.Category, form *forms.PageForm) (*data.Page, error)
	TrackPage(ctx context.Context, pageID int64) (string, error)
}

// DirectoryService provides business logic for categories and pages.
type DirectoryService struct {
	categories CategoryRepository
	pages      PageRepository
}

// NewDirectoryService creates a new DirectoryService with the given repositories.
func NewDirectoryService(categories CategoryRepository, pages PageRepository) *DirectoryService {
	return &DirectoryService{
		categories: categories,
		pages:      pages,
	}
}

// Index returns the most liked categories and the most viewed pages. Both
// slices are non-nil.
func (s *DirectoryService) Index(ctx context.Context) ([]*data.Category, []*data.Page, error) {
	categories, err := s.categories.TopByLikes(ctx, TopListSize)
	if err != nil {
		return nil, nil, err
	}
	pages, err := s.pages.TopByViews(ctx, TopListSize)
	if err != nil {
		return nil, nil, err
	}
	if categories == nil {
		categories = []*data.Category{}
	}
	if pages == nil {
		pages = []*data.Page{}
	}
	return categories, pages, nil
}

// GetCategory looks a category up by slug.
func (s *DirectoryService) GetCategory(ctx context.Context, slug string) (*data.Category, error) {
	return s.categories.GetBySlug(ctx, slug)
}

// ShowCategory returns a category and its pages. It returns ErrRecordNotFound
// when no category has the slug.
func (s *DirectoryService) ShowCategory(ctx context.Context, slug string) (*data.Category, []*data.Page, error) {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	pages, err := s.pages.GetPagesByCategoryID(ctx, category.ID)
	if err != nil {
		return nil, nil, err
	}
	if pages == nil {
		pages = []*data.Page{}
	}
	return category, pages, nil
}

// AllCategories returns every category.
func (s *DirectoryService) AllCategories(ctx context.Context) ([]*data.Category, error) {
	return s.categories.GetAll(ctx)
}

// AddCategory validates a bound form and stores the category it describes.
// On ErrFailedValidation the reasons are recorded on the form and nothing is
// stored.
func (s *DirectoryService) AddCategory(ctx context.Context, form *forms.CategoryForm) (*data.Category, error) {
	if !form.Valid() {
		return nil, ErrFailedValidation
	}

	category := &data.Category{Name: form.Name, Slug: slug.Make(form.Name)}
	if category.Slug == "" {
		form.Errors.Add("name", "Enter a name that contains letters or numbers.")
		return nil, ErrFailedValidation
	}

	if err := s.categories.Insert(ctx, category); err != nil {
		if errors.Is(err, data.ErrDuplicateRecord) {
			form.Errors.Add("name", "Category with this Name already exists.")
			return nil, ErrFailedValidation
		}
		return nil, fmt.Errorf("failed to add category: %w", err)
	}
	return category, nil
}

// AddPage validates a bound form and stores a new page under category with
// a view count of zero.
func (s *DirectoryService) AddPage(ctx context.Context, category *data.Category, form *forms.PageForm) (*data.Page, error) {
	if !form.Valid() {
		return nil, ErrFailedValidation
	}

	page := &data.Page{
		CategoryID: category.ID,
		Title:      form.Title,
		URL:        form.URL,
		Views:      0,
	}
	if err := s.pages.CreatePage(ctx, page); err != nil {
		return nil, fmt.Errorf("failed to add page: %w", err)
	}
	return page, nil
}

// TrackPage counts a visit to a page and returns the URL to send the
// visitor to.
func (s *DirectoryService) TrackPage(ctx context.Context, pageID int64) (string, error) {
	page, err := s.pages.GetPageByID(ctx, pageID)
	if err != nil {
		return "", err
	}
	if err := s.pages.IncrementViews(ctx, page.ID); err != nil {
		return "", err
	}
	return page.URL, nil
}
