//go:build unit

package handler

import (
	"errors"
	"go-rango-app/internal/data"
	"go-rango-app/internal/forms"
	"go-rango-app/internal/logger"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestDirectoryHandler(ds *mockDirectoryService) (*DirectoryHandler, *recordingRenderer) {
	view := &recordingRenderer{}
	return NewDirectoryHandler(ds, staticContent("<p>about</p>"), view, logger.Nop()), view
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndexHandler(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		h, view := newTestDirectoryHandler(&mockDirectoryService{})
		rr := httptest.NewRecorder()

		if appErr := h.indexHandler(rr, httptest.NewRequest("GET", "/rango/", nil)); appErr != nil {
			t.Fatalf("unexpected error: %v", appErr.Error)
		}

		if view.name != "index.html" {
			t.Errorf("want template index.html; got %s", view.name)
		}
		if view.data["BoldMessage"] != "Crunchy, creamy, cookie, candy, cupcake!" {
			t.Errorf("unexpected BoldMessage %v", view.data["BoldMessage"])
		}
		categories := view.data["Categories"].([]*data.Category)
		pages := view.data["Pages"].([]*data.Page)
		if categories == nil || len(categories) != 0 || pages == nil || len(pages) != 0 {
			t.Errorf("expected empty, non-nil lists; got %#v and %#v", categories, pages)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		h, _ := newTestDirectoryHandler(&mockDirectoryService{errToReturn: errors.New("db down")})
		appErr := h.indexHandler(httptest.NewRecorder(), httptest.NewRequest("GET", "/rango/", nil))
		if appErr == nil || appErr.Code != http.StatusInternalServerError {
			t.Fatalf("expected a 500 AppError, got %#v", appErr)
		}
	})
}

func TestAboutHandler(t *testing.T) {
	h, view := newTestDirectoryHandler(&mockDirectoryService{})

	if appErr := h.aboutHandler(httptest.NewRecorder(), httptest.NewRequest("GET", "/rango/about/", nil)); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr.Error)
	}
	if view.name != "about.html" {
		t.Errorf("want template about.html; got %s", view.name)
	}
	if view.data["BoldMessage"] != "This tutorial has been put together by Ashutosh Samal" {
		t.Errorf("unexpected BoldMessage %v", view.data["BoldMessage"])
	}
}

func TestShowCategoryHandler(t *testing.T) {
	ds := &mockDirectoryService{
		categories: []*data.Category{{ID: 1, Name: "Books", Slug: "books"}},
		pages:      []*data.Page{{ID: 1, CategoryID: 1, Title: "Go", URL: "https://go.dev"}},
	}

	t.Run("found", func(t *testing.T) {
		h, view := newTestDirectoryHandler(ds)
		req := withURLParam(httptest.NewRequest("GET", "/rango/category/books/", nil), "slug", "books")
		rr := httptest.NewRecorder()

		if appErr := h.showCategoryHandler(rr, req); appErr != nil {
			t.Fatalf("unexpected error: %v", appErr.Error)
		}
		if rr.Code != http.StatusOK {
			t.Errorf("want status 200; got %d", rr.Code)
		}
		if c := view.data["Category"].(*data.Category); c == nil || c.Slug != "books" {
			t.Errorf("unexpected category %#v", c)
		}
		if pages := view.data["Pages"].([]*data.Page); len(pages) != 1 {
			t.Errorf("expected 1 page, got %d", len(pages))
		}
	})

	t.Run("not found renders the absent state", func(t *testing.T) {
		h, view := newTestDirectoryHandler(ds)
		req := withURLParam(httptest.NewRequest("GET", "/rango/category/Books/", nil), "slug", "Books")
		rr := httptest.NewRecorder()

		if appErr := h.showCategoryHandler(rr, req); appErr != nil {
			t.Fatalf("unexpected error: %v", appErr.Error)
		}
		if rr.Code != http.StatusOK {
			t.Errorf("want status 200; got %d", rr.Code)
		}
		if view.name != "category.html" {
			t.Errorf("want template category.html; got %s", view.name)
		}
		if c := view.data["Category"].(*data.Category); c != nil {
			t.Errorf("expected no category, got %#v", c)
		}
		if pages := view.data["Pages"].([]*data.Page); pages != nil {
			t.Errorf("expected no pages, got %#v", pages)
		}
	})
}

func TestAddCategoryHandler(t *testing.T) {
	t.Run("GET renders an empty form", func(t *testing.T) {
		h, view := newTestDirectoryHandler(&mockDirectoryService{})
		if appErr := h.addCategoryHandler(httptest.NewRecorder(), httptest.NewRequest("GET", "/rango/add_category/", nil)); appErr != nil {
			t.Fatalf("unexpected error: %v", appErr.Error)
		}
		form := view.data["Form"].(*forms.CategoryForm)
		if form.Bound || form.Name != "" {
			t.Errorf("expected an unbound empty form, got %#v", form)
		}
	})

	t.Run("valid POST redirects to the index", func(t *testing.T) {
		ds := &mockDirectoryService{}
		h, view := newTestDirectoryHandler(ds)
		rr := httptest.NewRecorder()

		if appErr := h.addCategoryHandler(rr, postForm("/rango/add_category/", url.Values{"name": {"Books"}})); appErr != nil {
			t.Fatalf("unexpected error: %v", appErr.Error)
		}
		if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/rango/" {
			t.Errorf("want redirect to /rango/; got %d %q", rr.Code, rr.Header().Get("Location"))
		}
		if ds.addedCategory == nil || ds.addedCategory.Name != "Books" {
			t.Errorf("expected category Books to be added, got %#v", ds.addedCategory)
		}
		if view.name != "" {
			t.Errorf("expected no template to be rendered, got %s", view.name)
		}
	})

	t.Run("invalid POST re-renders the bound form", func(t *testing.T) {
		ds := &mockDirectoryService{}
		h, view := newTestDirectoryHandler(ds)
		rr := httptest.NewRecorder()

		if appErr := h.addCategoryHandler(rr, postForm("/rango/add_category/", url.Values{"name": {""}})); appErr != nil {
			t.Fatalf("unexpected error: %v", appErr.Error)
		}
		if rr.Code != http.StatusOK {
			t.Errorf("want status 200; got %d", rr.Code)
		}
		form := view.data["Form"].(*forms.CategoryForm)
		if !form.Bound || form.Errors.Get("name") == "" {
			t.Errorf("expected a bound form with a name error, got %#v", form)
		}
		if ds.addedCategory != nil {
			t.Error("expected no category to be added")
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		h, _ := newTestDirectoryHandler(&mockDirectoryService{addErr: errors.New("db down")})
		appErr := h.addCategoryHandler(httptest.NewRecorder(), postForm("/rango/add_category/", url.Values{"name": {"Books"}}))
		if appErr == nil || appErr.Code != http.StatusInternalServerError {
			t.Fatalf("expected a 500 AppError, got %#v", appErr)
		}
	})
}

func TestAddPageHandler(t *testing.T) {
	books := &data.Category{ID: 3, Name: "Books", Slug: "books"}

	t.Run("unknown category redirects regardless of fields", func(t *testing.T) {
		ds := &mockDirectoryService{categories: []*data.Category{books}}
		h, _ := newTestDirectoryHandler(ds)
		req := withURLParam(postForm("/rango/category/nope/add_page/", url.Values{"title": {"T"}, "url": {"http://x.com"}}), "slug", "nope")
		rr := httptest.NewRecorder()

		if appErr := h.addPageHandler(rr, req); appErr != nil {
			t.Fatalf("unexpected error: %v", appErr.Error)
		}
		if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/rango/" {
			t.Errorf("want redirect to /rango/; got %d %q", rr.Code, rr.Header().Get("Location"))
		}
		if ds.addedPage != nil {
			t.Error("expected no page to be added")
		}
	})

	t.Run("valid POST redirects to the category", func(t *testing.T) {
		ds := &mockDirectoryService{categories: []*data.Category{books}}
		h, _ := newTestDirectoryHandler(ds)
		req := withURLParam(postForm("/rango/category/books/add_page/", url.Values{"title": {"Example"}, "url": {"http://example.com"}}), "slug", "books")
		rr := httptest.NewRecorder()

		if appErr := h.addPageHandler(rr, req); appErr != nil {
			t.Fatalf("unexpected error: %v", appErr.Error)
		}
		if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/rango/category/books/" {
			t.Errorf("want redirect to /rango/category/books/; got %d %q", rr.Code, rr.Header().Get("Location"))
		}
		if ds.addedPage == nil || ds.addedPage.CategoryID != 3 {
			t.Errorf("expected page in category 3, got %#v", ds.addedPage)
		}
	})

	t.Run("GET renders the form with the category", func(t *testing.T) {
		ds := &mockDirectoryService{categories: []*data.Category{books}}
		h, view := newTestDirectoryHandler(ds)
		req := withURLParam(httptest.NewRequest("GET", "/rango/category/books/add_page/", nil), "slug", "books")

		if appErr := h.addPageHandler(httptest.NewRecorder(), req); appErr != nil {
			t.Fatalf("unexpected error: %v", appErr.Error)
		}
		if view.name != "add_page.html" || view.data["Category"] != books {
			t.Errorf("unexpected render %s %v", view.name, view.data)
		}
	})

	t.Run("invalid POST re-renders with errors", func(t *testing.T) {
		ds := &mockDirectoryService{categories: []*data.Category{books}}
		h, view := newTestDirectoryHandler(ds)
		req := withURLParam(postForm("/rango/category/books/add_page/", url.Values{"title": {"Example"}}), "slug", "books")

		if appErr := h.addPageHandler(httptest.NewRecorder(), req); appErr != nil {
			t.Fatalf("unexpected error: %v", appErr.Error)
		}
		form := view.data["Form"].(*forms.PageForm)
		if form.Errors.Get("url") == "" {
			t.Errorf("expected a url error, got %v", form.Errors)
		}
	})
}

func TestGotoHandler(t *testing.T) {
	ds := &mockDirectoryService{pages: []*data.Page{{ID: 5, URL: "https://go.dev"}}}
	h, _ := newTestDirectoryHandler(ds)

	testCases := []struct {
		name         string
		query        string
		wantLocation string
	}{
		{"known page", "page_id=5", "https://go.dev"},
		{"unknown page", "page_id=6", "/rango/"},
		{"malformed id", "page_id=abc", "/rango/"},
		{"missing id", "", "/rango/"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			if appErr := h.gotoHandler(rr, httptest.NewRequest("GET", "/rango/goto/?"+tc.query, nil)); appErr != nil {
				t.Fatalf("unexpected error: %v", appErr.Error)
			}
			if rr.Code != http.StatusFound || rr.Header().Get("Location") != tc.wantLocation {
				t.Errorf("want redirect to %q; got %d %q", tc.wantLocation, rr.Code, rr.Header().Get("Location"))
			}
		})
	}
	if ds.trackedID != 5 {
		t.Errorf("expected page 5 to be tracked, got %d", ds.trackedID)
	}
}
