// Package web embeds the admin HTML pages.
package web

import (
	"embed"
	"html/template"
)

const (
	LoginTemplate     = "login.html"
	DashboardTemplate = "dashboard.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded admin pages.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}
