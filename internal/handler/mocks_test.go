//go:build unit

package handler

import (
	"context"
	"go-rango-app/internal/auth"
	"go-rango-app/internal/data"
	"go-rango-app/internal/forms"
	"go-rango-app/internal/service"
	"go-rango-app/internal/session"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// mockDirectoryService is a mock implementation of the DirectoryServicer interface.
type mockDirectoryService struct {
	categories  []*data.Category
	pages       []*data.Page
	addErr      error
	errToReturn error

	addedCategory *data.Category
	addedPage     *data.Page
	trackedID     int64
}

var _ service.DirectoryServicer = (*mockDirectoryService)(nil)

func (m *mockDirectoryService) Index(ctx context.Context) ([]*data.Category, []*data.Page, error) {
	if m.errToReturn != nil {
		return nil, nil, m.errToReturn
	}
	return append([]*data.Category{}, m.categories...), append([]*data.Page{}, m.pages...), nil
}

func (m *mockDirectoryService) ShowCategory(ctx context.Context, slug string) (*data.Category, []*data.Page, error) {
	category, err := m.GetCategory(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	pages := []*data.Page{}
	for _, p := range m.pages {
		if p.CategoryID == category.ID {
			pages = append(pages, p)
		}
	}
	return category, pages, nil
}

func (m *mockDirectoryService) GetCategory(ctx context.Context, slug string) (*data.Category, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, service.ErrRecordNotFound
}

func (m *mockDirectoryService) AllCategories(ctx context.Context) ([]*data.Category, error) {
	return m.categories, m.errToReturn
}

func (m *mockDirectoryService) AddCategory(ctx context.Context, form *forms.CategoryForm) (*data.Category, error) {
	if !form.Valid() {
		return nil, service.ErrFailedValidation
	}
	if m.addErr != nil {
		return nil, m.addErr
	}
	m.addedCategory = &data.Category{ID: 1, Name: form.Name, Slug: strings.ToLower(form.Name)}
	return m.addedCategory, nil
}

func (m *mockDirectoryService) AddPage(ctx context.Context, category *data.Category, form *forms.PageForm) (*data.Page, error) {
	if !form.Valid() {
		return nil, service.ErrFailedValidation
	}
	m.addedPage = &data.Page{ID: 1, CategoryID: category.ID, Title: form.Title, URL: form.URL}
	return m.addedPage, nil
}

func (m *mockDirectoryService) TrackPage(ctx context.Context, pageID int64) (string, error) {
	for _, p := range m.pages {
		if p.ID == pageID {
			m.trackedID = pageID
			return p.URL, nil
		}
	}
	return "", service.ErrRecordNotFound
}

// mockAccountService is a mock implementation of the AccountServicer interface.
type mockAccountService struct {
	user        *data.User
	profile     *service.Profile
	errToReturn error

	registerCalled bool
}

var _ service.AccountServicer = (*mockAccountService)(nil)

func (m *mockAccountService) Register(ctx context.Context, userForm *forms.UserForm, profileForm *forms.ProfileForm) (*data.User, error) {
	m.registerCalled = true
	userValid, profileValid := userForm.Valid(), profileForm.Valid()
	if !userValid || !profileValid {
		return nil, service.ErrFailedValidation
	}
	return &data.User{ID: 1, Username: userForm.Username}, m.errToReturn
}

func (m *mockAccountService) Authenticate(ctx context.Context, username, password string) (*data.User, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	return m.user, nil
}

func (m *mockAccountService) FindOrCreateSSOUser(ctx context.Context, claims auth.Claims) (*data.User, error) {
	return m.user, m.errToReturn
}

func (m *mockAccountService) Profile(ctx context.Context, userID int64) (*service.Profile, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.profile == nil {
		return nil, service.ErrRecordNotFound
	}
	return m.profile, nil
}

// mockSessionManager is a mock implementation of the session.Manager interface.
type mockSessionManager struct {
	values        map[string]interface{}
	renewCalled   bool
	destroyCalled bool
}

// Ensure mockSessionManager implements the session.Manager interface.
var _ session.Manager = (*mockSessionManager)(nil)

func newMockSessionManager() *mockSessionManager {
	return &mockSessionManager{values: map[string]interface{}{}}
}

func (m *mockSessionManager) LoadAndSave(next http.Handler) http.Handler { return next }
func (m *mockSessionManager) Put(ctx context.Context, key string, val interface{}) {
	m.values[key] = val
}
func (m *mockSessionManager) GetString(ctx context.Context, key string) string {
	s, _ := m.values[key].(string)
	return s
}
func (m *mockSessionManager) GetInt64(ctx context.Context, key string) int64 {
	n, _ := m.values[key].(int64)
	return n
}
func (m *mockSessionManager) Exists(ctx context.Context, key string) bool {
	_, ok := m.values[key]
	return ok
}
func (m *mockSessionManager) RenewToken(ctx context.Context) error {
	m.renewCalled = true
	return nil
}
func (m *mockSessionManager) Destroy(ctx context.Context) error {
	m.destroyCalled = true
	m.values = map[string]interface{}{}
	return nil
}

// recordingRenderer records the last template rendered instead of executing it.
type recordingRenderer struct {
	name string
	data map[string]interface{}
}

func (v *recordingRenderer) Render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) error {
	v.name = name
	v.data = data
	return nil
}

// staticContent is a fixed AboutContent.
type staticContent string

func (c staticContent) About() (template.HTML, error) { return template.HTML(c), nil }

// withURLParam attaches a chi URL parameter to r, as the router would.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
