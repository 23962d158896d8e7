package forms

import (
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// UserForm collects account fields at registration.
type UserForm struct {
	Username string `form:"username" validate:"required,max=150,username"`
	Email    string `form:"email" validate:"omitempty,max=254,email"`
	Password string `form:"password" validate:"required"`
	Bound    bool   `validate:"-"`
	Errors   Errors `validate:"-"`
}

// NewUserForm returns an unbound, empty form.
func NewUserForm() *UserForm {
	return &UserForm{Errors: Errors{}}
}

// BindUserForm binds submitted values to a new form. The password is kept
// verbatim.
func BindUserForm(values url.Values) *UserForm {
	return &UserForm{
		Username: strings.TrimSpace(values.Get("username")),
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
		Bound:    true,
		Errors:   Errors{},
	}
}

// Valid validates a bound form and records its errors.
func (f *UserForm) Valid() bool {
	if !f.Bound {
		return false
	}
	f.Errors = check(f)
	return len(f.Errors) == 0
}

// ProfileForm collects the optional profile fields at registration.
type ProfileForm struct {
	Website string                `form:"website" validate:"omitempty,max=200,url"`
	Picture *multipart.FileHeader `form:"picture" validate:"-"`
	Bound   bool                  `validate:"-"`
	Errors  Errors                `validate:"-"`
}

// NewProfileForm returns an unbound, empty form.
func NewProfileForm() *ProfileForm {
	return &ProfileForm{Errors: Errors{}}
}

// BindProfileForm binds a parsed request's values and its optional picture
// upload to a new form.
func BindProfileForm(r *http.Request) *ProfileForm {
	f := &ProfileForm{
		Website: normalizeURL(strings.TrimSpace(r.PostFormValue("website"))),
		Bound:   true,
		Errors:  Errors{},
	}
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["picture"]; len(files) > 0 {
			f.Picture = files[0]
		}
	}
	return f
}

// Valid validates a bound form and records its errors.
func (f *ProfileForm) Valid() bool {
	if !f.Bound {
		return false
	}
	f.Errors = check(f)
	return len(f.Errors) == 0
}
