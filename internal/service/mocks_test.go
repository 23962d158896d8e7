//go:build unit

package service

import (
	"context"
	"go-rango-app/internal/data"
	"go-rango-app/internal/upload"
	"time"
)

// mockCategoryRepository is a mock implementation of the CategoryRepository interface.
type mockCategoryRepository struct {
	categories []*data.Category
	insertErr   error
	errToReturn error

	insertCalled int
}

var _ CategoryRepository = (*mockCategoryRepository)(nil)

func (m *mockCategoryRepository) Insert(ctx context.Context, category *data.Category) error {
	m.insertCalled++
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, c := range m.categories {
		if c.Name == category.Name || c.Slug == category.Slug {
			return data.ErrDuplicateRecord
		}
	}
	category.ID = int64(len(m.categories) + 1)
	m.categories = append(m.categories, category)
	return nil
}

func (m *mockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*data.Category, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, data.ErrRecordNotFound
}

func (m *mockCategoryRepository) TopByLikes(ctx context.Context, limit int) ([]*data.Category, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if len(m.categories) > limit {
		return m.categories[:limit], nil
	}
	return m.categories, nil
}

func (m *mockCategoryRepository) GetAll(ctx context.Context) ([]*data.Category, error) {
	return m.categories, m.errToReturn
}

// mockPageRepository is a mock implementation of the PageRepository interface.
type mockPageRepository struct {
	pages       []*data.Page
	errToReturn error

	lastPagePassed *data.Page
}

var _ PageRepository = (*mockPageRepository)(nil)

func (m *mockPageRepository) CreatePage(ctx context.Context, page *data.Page) error {
	m.lastPagePassed = page
	if m.errToReturn != nil {
		return m.errToReturn
	}
	page.ID = int64(len(m.pages) + 1)
	m.pages = append(m.pages, page)
	return nil
}

func (m *mockPageRepository) GetPageByID(ctx context.Context, id int64) (*data.Page, error) {
	for _, p := range m.pages {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, data.ErrRecordNotFound
}

func (m *mockPageRepository) GetPagesByCategoryID(ctx context.Context, categoryID int64) ([]*data.Page, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	// Mirrors database/sql scanning into a nil slice when nothing matches.
	var pages []*data.Page
	for _, p := range m.pages {
		if p.CategoryID == categoryID {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

func (m *mockPageRepository) TopByViews(ctx context.Context, limit int) ([]*data.Page, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	return nil, nil
}

func (m *mockPageRepository) IncrementViews(ctx context.Context, id int64) error {
	for _, p := range m.pages {
		if p.ID == id {
			p.Views++
			return nil
		}
	}
	return data.ErrRecordNotFound
}

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	users    []*data.User
	profiles []*data.UserProfile
}

var _ UserRepository = (*mockUserRepository)(nil)

func (m *mockUserRepository) Insert(ctx context.Context, user *data.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return data.ErrDuplicateRecord
		}
		if user.OIDCSubject.Valid && u.OIDCIssuer == user.OIDCIssuer && u.OIDCSubject == user.OIDCSubject {
			return data.ErrDuplicateRecord
		}
	}
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, user)
	return nil
}

func (m *mockUserRepository) CreateWithProfile(ctx context.Context, user *data.User, profile *data.UserProfile) error {
	if err := m.Insert(ctx, user); err != nil {
		return err
	}
	profile.UserID = user.ID
	profile.ID = int64(len(m.profiles) + 1)
	m.profiles = append(m.profiles, profile)
	return nil
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*data.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, data.ErrRecordNotFound
}

func (m *mockUserRepository) GetByOIDCIdentity(ctx context.Context, issuer, subject string) (*data.User, error) {
	for _, u := range m.users {
		if u.OIDCIssuer.Valid && u.OIDCIssuer.String == issuer && u.OIDCSubject.String == subject {
			return u, nil
		}
	}
	return nil, data.ErrRecordNotFound
}

func (m *mockUserRepository) GetProfileByUserID(ctx context.Context, userID int64) (*data.UserProfile, error) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, data.ErrRecordNotFound
}

// mockStore is an in-memory upload.Store.
type mockStore struct {
	files map[string][]byte
}

var _ upload.Store = (*mockStore)(nil)

func (m *mockStore) Put(ctx context.Context, key string, contentType string, body []byte) error {
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[key] = body
	return nil
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	delete(m.files, key)
	return nil
}

func (m *mockStore) URL(key string) string { return "/media/" + key }

// mockCache is an in-memory ContentCache.
type mockCache struct {
	items    map[string][]byte
	setCalls int
}

func (m *mockCache) Get(key string) ([]byte, error) { return m.items[key], nil }

func (m *mockCache) Set(key string, value []byte, ttl time.Duration) error {
	if m.items == nil {
		m.items = map[string][]byte{}
	}
	m.setCalls++
	m.items[key] = value
	return nil
}

func (m *mockCache) TTL() time.Duration { return time.Minute }
