// Package web holds the upload form and result page.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	IndexTemplate  = "index.html"
	ResultTemplate = "result.html"
)

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}
