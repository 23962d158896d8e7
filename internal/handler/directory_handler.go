package handler

import (
	"errors"
	"go-rango-app/internal/data"
	"go-rango-app/internal/forms"
	"go-rango-app/internal/logger"
	"go-rango-app/internal/middleware"
	"go-rango-app/internal/service"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	indexMessage = "Crunchy, creamy, cookie, candy, cupcake!"
	aboutMessage = "This tutorial has been put together by Ashutosh Samal"
)

// AboutContent renders the about page body.
type AboutContent interface {
	About() (template.HTML, error)
}

// DirectoryHandler holds the dependencies for browsing and adding
// categories and pages.
type DirectoryHandler struct {
	directory service.DirectoryServicer
	content   AboutContent
	view      middleware.Renderer
	log       logger.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler with the given dependencies.
func NewDirectoryHandler(ds service.DirectoryServicer, content AboutContent, v middleware.Renderer, log logger.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: ds,
		content:   content,
		view:      v,
		log:       log,
	}
}

// indexHandler lists the most liked categories and the most viewed pages.
func (h *DirectoryHandler) indexHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	categories, pages, err := h.directory.Index(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve categories", Code: http.StatusInternalServerError}
	}

	data := map[string]interface{}{
		"BoldMessage": indexMessage,
		"Categories":  categories,
		"Pages":       pages,
	}
	if err := h.view.Render(w, r, "index.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render index", Code: http.StatusInternalServerError}
	}
	return nil
}

func (h *DirectoryHandler) aboutHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	about, err := h.content.About()
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render about content", Code: http.StatusInternalServerError}
	}

	data := map[string]interface{}{
		"BoldMessage": aboutMessage,
		"About":       about,
	}
	if err := h.view.Render(w, r, "about.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render about page", Code: http.StatusInternalServerError}
	}
	return nil
}

// showCategoryHandler renders a category and its pages. An unknown slug
// renders the same template with no category rather than an error page.
func (h *DirectoryHandler) showCategoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	category, pages, err := h.directory.ShowCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil && !errors.Is(err, service.ErrRecordNotFound) {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve category", Code: http.StatusInternalServerError}
	}

	data := map[string]interface{}{
		"Category": category,
		"Pages":    pages,
	}
	if err := h.view.Render(w, r, "category.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render category", Code: http.StatusInternalServerError}
	}
	return nil
}

// addCategoryHandler shows the category form and handles its submission.
func (h *DirectoryHandler) addCategoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	form := forms.NewCategoryForm()
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			return &middleware.AppError{Error: err, Message: "Malformed form submission", Code: http.StatusBadRequest}
		}
		form = forms.BindCategoryForm(r.PostForm)

		_, err := h.directory.AddCategory(r.Context(), form)
		switch {
		case err == nil:
			http.Redirect(w, r, "/rango/", http.StatusFound)
			return nil
		case errors.Is(err, service.ErrFailedValidation):
			h.log.With(map[string]interface{}{"errors": form.Errors.String()}).Warn("Invalid category form")
		default:
			return &middleware.AppError{Error: err, Message: "Failed to add category", Code: http.StatusInternalServerError}
		}
	}

	data := map[string]interface{}{
		"Form": form,
	}
	if err := h.view.Render(w, r, "add_category.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render category form", Code: http.StatusInternalServerError}
	}
	return nil
}

// addPageHandler shows the page form for a category and handles its
// submission. Unknown categories send the visitor back to the index.
func (h *DirectoryHandler) addPageHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	category, err := h.directory.GetCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			http.Redirect(w, r, "/rango/", http.StatusFound)
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Failed to retrieve category", Code: http.StatusInternalServerError}
	}

	form := forms.NewPageForm()
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			return &middleware.AppError{Error: err, Message: "Malformed form submission", Code: http.StatusBadRequest}
		}
		form = forms.BindPageForm(r.PostForm)

		_, err := h.directory.AddPage(r.Context(), category, form)
		switch {
		case err == nil:
			http.Redirect(w, r, categoryURL(category), http.StatusFound)
			return nil
		case errors.Is(err, service.ErrFailedValidation):
			h.log.With(map[string]interface{}{"category": category.Slug, "errors": form.Errors.String()}).Warn("Invalid page form")
		default:
			return &middleware.AppError{Error: err, Message: "Failed to add page", Code: http.StatusInternalServerError}
		}
	}

	data := map[string]interface{}{
		"Form":     form,
		"Category": category,
	}
	if err := h.view.Render(w, r, "add_page.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page form", Code: http.StatusInternalServerError}
	}
	return nil
}

// gotoHandler counts a visit to a page and redirects to it.
func (h *DirectoryHandler) gotoHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pageID, err := strconv.ParseInt(r.URL.Query().Get("page_id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/rango/", http.StatusFound)
		return nil
	}

	target, err := h.directory.TrackPage(r.Context(), pageID)
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			http.Redirect(w, r, "/rango/", http.StatusFound)
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Failed to track page", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, target, http.StatusFound)
	return nil
}

func categoryURL(c *data.Category) string {
	return "/rango/category/" + c.Slug + "/"
}
