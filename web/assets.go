// Package web provides the embedded page templates, static assets and guide
// content of the dashboard.
package web

import (
	"embed"
	"io/fs"
)

// Assets embeds the server-rendered templates, the stylesheet and the
// markdown guide content. Templates are parsed once at startup:
//
//	templates/layout.html        shared navigation shell
//	templates/setup_layout.html  wizard shell with step progress
//	templates/<page>.html        page bodies
//
//go:embed templates/*.html static/* content/*.md
var Assets embed.FS

// TemplatesFS returns the templates subdirectory.
func TemplatesFS() (fs.FS, error) {
	return fs.Sub(Assets, "templates")
}

// StaticFS returns the static asset subdirectory for serving under /static/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(Assets, "static")
}

// Content returns the raw markdown of a guide document.
func Content(name string) ([]byte, error) {
	return fs.ReadFile(Assets, "content/"+name)
}
