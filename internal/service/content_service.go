package service

import (
	"bytes"
	"fmt"
	"go-rango-app/internal/logger"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// aboutCacheKey is the cache key of the rendered about text.
const aboutCacheKey = "content:about"

// ContentCache stores rendered content between requests.
type ContentCache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	TTL() time.Duration
}

// ContentService renders the site's static Markdown content.
type ContentService struct {
	about     []byte
	cache     ContentCache
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
	log       logger.Logger
}

// NewContentService creates a ContentService for the given about page
// Markdown source.
func NewContentService(about []byte, cache ContentCache, log logger.Logger) *ContentService {
	return &ContentService{
		about:     about,
		cache:     cache,
		markdown:  goldmark.New(),
		sanitizer: bluemonday.UGCPolicy(),
		log:       log,
	}
}

// About returns the about page text as sanitised HTML. Cache failures are
// logged and fall back to rendering.
func (s *ContentService) About() (template.HTML, error) {
	if cached, err := s.cache.Get(aboutCacheKey); err != nil {
		s.log.Error(err, "Failed to read about content from cache")
	} else if cached != nil {
		return template.HTML(cached), nil
	}

	var buf bytes.Buffer
	if err := s.markdown.Convert(s.about, &buf); err != nil {
		return "", fmt.Errorf("failed to render about content: %w", err)
	}
	rendered := s.sanitizer.SanitizeBytes(buf.Bytes())

	if err := s.cache.Set(aboutCacheKey, rendered, s.cache.TTL()); err != nil {
		s.log.Error(err, "Failed to store about content in cache")
	}
	return template.HTML(rendered), nil
}
