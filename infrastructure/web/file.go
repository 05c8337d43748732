package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"regexp"
)

// FileServerSPA serves a statically built single page app from the
// specified file system and directory inside that file system. Paths
// without a file extension fall back to index.html so client-side routes
// resolve.
func (wh *WebHandler) FileServerSPA(static embed.FS, dir string, path string) error {
	fileMatcher := regexp.MustCompile(`\.[a-zA-Z]*$`)

	fSys, err := fs.Sub(static, dir)
	if err != nil {
		return fmt.Errorf("switching to static folder: %w", err)
	}

	fileServer := http.StripPrefix(path, http.FileServer(http.FS(fSys)))

	h := func(w http.ResponseWriter, r *http.Request) {
		if !fileMatcher.MatchString(r.URL.Path) {
			p, err := static.ReadFile(fmt.Sprintf("%s/index.html", dir))
			if err != nil {
				if wh.log != nil {
					wh.log.ErrorContext(r.Context(), "FileServerSPA", "error", "index.html not found", "detail", err)
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(p)
			return
		}

		fileServer.ServeHTTP(w, r)
	}

	wh.mux.HandleFunc(fmt.Sprintf("GET %s", path), h)

	return nil
}
