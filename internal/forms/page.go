package forms

import (
	"net/url"
	"strings"
)

// PageForm collects the fields needed to add a page to a category.
type PageForm struct {
	Title  string `form:"title" validate:"required,max=128"`
	URL    string `form:"url" validate:"required,max=200,url"`
	Bound  bool   `validate:"-"`
	Errors Errors `validate:"-"`
}

// NewPageForm returns an unbound, empty form.
func NewPageForm() *PageForm {
	return &PageForm{Errors: Errors{}}
}

// BindPageForm binds submitted values to a new form. A URL without a scheme
// is assumed to be http.
func BindPageForm(values url.Values) *PageForm {
	return &PageForm{
		Title:  strings.TrimSpace(values.Get("title")),
		URL:    normalizeURL(strings.TrimSpace(values.Get("url"))),
		Bound:  true,
		Errors: Errors{},
	}
}

func normalizeURL(raw string) string {
	if raw == "" || strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "http://" + raw
}

// Valid validates a bound form and records its errors.
func (f *PageForm) Valid() bool {
	if !f.Bound {
		return false
	}
	f.Errors = check(f)
	return len(f.Errors) == 0
}
