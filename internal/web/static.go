package web

import (
	"net/http"

	plexweb "github.com/roasbeef/plexdash/web"
)

// StaticHandler serves the embedded stylesheet and other assets under
// /static/.
func StaticHandler() (http.Handler, error) {
	staticFS, err := plexweb.StaticFS()
	if err != nil {
		return nil, err
	}

	fileServer := http.StripPrefix(
		"/static/", http.FileServer(http.FS(staticFS)),
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Assets only change with the binary.
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	}), nil
}
