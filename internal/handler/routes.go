package handler

import (
	"go-rango-app/internal/middleware"
	"go-rango-app/internal/session"
	"go-rango-app/web"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Middlewares groups the application middleware installed by NewRouter.
type Middlewares struct {
	Authz     func(http.Handler) http.Handler
	Error     func(middleware.AppHandler) http.Handler
	Logger    func(http.Handler) http.Handler
	RateLimit func(http.Handler) http.Handler
}

// NewRouter creates and configures a new chi router. media serves uploaded
// files under /media/ and may be nil when uploads live elsewhere.
func NewRouter(dh *DirectoryHandler, ah *AccountHandler, sh *SeoHandler, sm session.Manager, mw Middlewares, media http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.RateLimit)
	r.Use(chimiddleware.Recoverer)

	// Assets bypass sessions and authorization.
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	if media != nil {
		r.Handle("/media/*", http.StripPrefix("/media/", media))
	}

	r.Group(func(r chi.Router) {
		r.Use(sm.LoadAndSave)
		r.Use(mw.Authz)

		e := mw.Error

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/rango/", http.StatusFound)
		})
		r.Get("/robots.txt", sh.robotsHandler)
		r.Get("/sitemap.xml", sh.sitemapHandler)

		r.Get("/rango/", e(dh.indexHandler).ServeHTTP)
		r.Get("/rango/about/", e(dh.aboutHandler).ServeHTTP)
		r.Get("/rango/category/{slug}/", e(dh.showCategoryHandler).ServeHTTP)
		r.Get("/rango/goto/", e(dh.gotoHandler).ServeHTTP)

		addCategory := e(dh.addCategoryHandler).ServeHTTP
		r.Get("/rango/add_category/", addCategory)
		r.Post("/rango/add_category/", addCategory)

		addPage := e(dh.addPageHandler).ServeHTTP
		r.Get("/rango/category/{slug}/add_page/", addPage)
		r.Post("/rango/category/{slug}/add_page/", addPage)

		register := e(ah.registerHandler).ServeHTTP
		r.Get("/rango/register/", register)
		r.Post("/rango/register/", register)

		login := e(ah.loginHandler).ServeHTTP
		r.Get("/rango/login/", login)
		r.Post("/rango/login/", login)

		r.Get("/rango/login/oidc/", e(ah.oidcLoginHandler).ServeHTTP)
		r.Get("/rango/login/oidc/callback/", e(ah.oidcCallbackHandler).ServeHTTP)

		r.Get("/rango/restricted/", e(ah.restrictedHandler).ServeHTTP)

		logout := e(ah.logoutHandler).ServeHTTP
		r.Get("/rango/logout/", logout)
		r.Post("/rango/logout/", logout)
	})

	return r
}
