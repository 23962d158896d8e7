package handler

import (
	"encoding/xml"
	"fmt"
	"go-rango-app/internal/service"
	"net/http"
	"strings"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	directory service.DirectoryServicer
	baseURL   string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin of
// the site, such as "https://rango.example.com".
func NewSeoHandler(ds service.DirectoryServicer, baseURL string) *SeoHandler {
	return &SeoHandler{directory: ds, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// robotsHandler serves a static robots.txt file.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Disallow: /rango/goto/")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates and serves a dynamic sitemap.xml.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := h.directory.AllCategories(r.Context())
	if err != nil {
		http.Error(w, "Failed to retrieve categories for sitemap", http.StatusInternalServerError)
		return
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: h.baseURL + "/rango/"},
			{Loc: h.baseURL + "/rango/about/"},
		},
	}
	for _, category := range categories {
		sitemap.URLs = append(sitemap.URLs, sitemapURL{Loc: h.baseURL + categoryURL(category)})
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		http.Error(w, "Failed to generate sitemap XML", http.StatusInternalServerError)
		return
	}
}
