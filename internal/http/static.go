package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"polling-backend/internal/platform/apperr"
)

// handleStatic serves the client build. Paths that name no file get
// index.html so the client router can take over.
func (h *Handler) handleStatic(w http.ResponseWriter, r *http.Request) {
	if h.clientDir == "" {
		errorResponse(w, apperr.NotFound("not_found", "resource not found", nil))
		return
	}

	rel := path.Clean("/" + chi.URLParam(r, "*"))
	if serveFile(w, r, filepath.Join(h.clientDir, filepath.FromSlash(rel))) {
		return
	}
	if serveFile(w, r, filepath.Join(h.clientDir, "index.html")) {
		return
	}
	errorResponse(w, apperr.NotFound("not_found", "resource not found", nil))
}

func serveFile(w http.ResponseWriter, r *http.Request, name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}
