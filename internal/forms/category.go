package forms

import (
	"net/url"
	"strings"
)

// CategoryForm collects the fields needed to create a category.
type CategoryForm struct {
	Name   string `form:"name" validate:"required,max=128"`
	Bound  bool   `validate:"-"`
	Errors Errors `validate:"-"`
}

// NewCategoryForm returns an unbound, empty form.
func NewCategoryForm() *CategoryForm {
	return &CategoryForm{Errors: Errors{}}
}

// BindCategoryForm binds submitted values to a new form.
func BindCategoryForm(values url.Values) *CategoryForm {
	return &CategoryForm{
		Name:   strings.TrimSpace(values.Get("name")),
		Bound:  true,
		Errors: Errors{},
	}
}

// Valid validates a bound form and records its errors. Unbound forms are
// never valid.
func (f *CategoryForm) Valid() bool {
	if !f.Bound {
		return false
	}
	f.Errors = check(f)
	return len(f.Errors) == 0
}
