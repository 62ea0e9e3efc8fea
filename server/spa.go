package server

import (
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// SPAHandler serves files out of a static root, falling back to the index
// document for any path that does not name a real file so client-side
// routes deep-link correctly.
type SPAHandler struct {
	Root  string
	Index string
}

func (h SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.resolve(r.URL.Path); ok {
		h.serveFile(w, r, p)
		return
	}
	h.serveFile(w, r, filepath.Join(h.Root, h.Index))
}

// resolve maps a request path onto a file under Root. Empty paths,
// directories, missing files, and anything that tries to climb out of the
// root all resolve to nothing.
func (h SPAHandler) resolve(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(urlPath, "/")
	if rel == "" {
		return "", false
	}
	// Rooting before Clean strips any ".." that would escape.
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	if rel == "" {
		return "", false
	}
	full := filepath.Join(h.Root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}

// serveFile answers with the file's bytes and a content type inferred from
// its extension. ServeContent rather than ServeFile keeps requests for
// "/index.html" off net/http's redirect path.
func (h SPAHandler) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	f, err := os.Open(name)
	if err != nil {
		log.Printf("server: open %s: %v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Printf("server: stat %s: %v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
