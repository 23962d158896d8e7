package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templateFS embed.FS

//go:embed all:static
var staticFS embed.FS

//go:embed content/about.md
var aboutMarkdown []byte

// TemplateFS provides access to the embedded template files.
var TemplateFS fs.FS = templateFS

// StaticFS provides access to the embedded static asset files.
var StaticFS fs.FS = staticFS

// AboutMarkdown is the Markdown source of the about page body.
func AboutMarkdown() []byte {
	return aboutMarkdown
}
