// Package web embeds the admin dashboard's templates and static assets so
// the server binary carries them without a runtime dependency on the
// working directory.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/albumart_placeholder.png
var PlaceholderPNG []byte

// Templates parses every embedded template into a single *template.Template,
// addressable by file name via ExecuteTemplate.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
