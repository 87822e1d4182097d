package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handlePage serves a post from the site directory with its table of contents.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	rel, ok := s.builder.SourceFor(chi.URLParam(r, "*"))
	if !ok {
		jsonError(w, "page not found", http.StatusNotFound)
		return
	}

	rendered, err := s.builder.Render(rel)
	if err != nil {
		s.log.Error("render page", "path", rel, "error", err)
		jsonError(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	etag := `"` + rendered.Hash[:16] + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if rendered.TOC {
		w.Header().Set("X-TOC", "applied")
	} else {
		w.Header().Set("X-TOC", "skipped")
	}
	w.Write(rendered.Body)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
