package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/pagetoc/internal/page"
	"github.com/dgallion1/pagetoc/internal/site"
	"github.com/dgallion1/pagetoc/internal/toc"
	"github.com/dgallion1/pagetoc/internal/tracker"
	"golang.org/x/net/html"
)

// handleTOC injects a table of contents into the posted HTML document.
func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var buf bytes.Buffer
	p, err := page.Process(r.Body, &buf, page.FromConfig(s.cfg), nil, s.log)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "document too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to process document: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if p != nil {
		w.Header().Set("X-TOC", "applied")
	} else {
		w.Header().Set("X-TOC", "skipped")
	}
	w.Write(buf.Bytes())
}

type outlineRequest struct {
	HTML    string             `json:"html"`
	Offsets map[string]float64 `json:"offsets"`
	ScrollY float64            `json:"scroll_y"`
	Click   string             `json:"click,omitempty"`
}

type outlineResponse struct {
	TOC      bool        `json:"toc"`
	Headings int         `json:"headings"`
	Active   string      `json:"active"`
	Fragment string      `json:"fragment,omitempty"`
	ScrollY  float64     `json:"scroll_y"`
	Entries  []toc.Entry `json:"entries"`
}

// handleOutline returns the navigation tree of a posted document and the section that
// would be active for the given heading offsets and scroll position.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req outlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.HTML) == "" {
		jsonError(w, "html is required", http.StatusBadRequest)
		return
	}

	doc, err := html.Parse(strings.NewReader(req.HTML))
	if err != nil {
		jsonError(w, "invalid html: "+err.Error(), http.StatusBadRequest)
		return
	}

	window := tracker.NewMemoryWindow(req.ScrollY)
	p, err := page.Attach(doc, page.FromConfig(s.cfg), tracker.StaticLayout(req.Offsets), window, s.log)
	if err != nil {
		jsonError(w, "failed to build outline: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := outlineResponse{Entries: []toc.Entry{}, ScrollY: req.ScrollY}
	if p != nil {
		defer p.Close()
		if req.Click != "" {
			p.Click(req.Click)
		}
		resp.TOC = true
		resp.Headings = len(p.Headings())
		resp.Active = p.Active()
		resp.Fragment = window.Fragment()
		resp.ScrollY = window.ScrollY()
		if entries := p.Tree().Outline(); entries != nil {
			resp.Entries = entries
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleBuild renders the whole site into the output directory.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	results, err := s.builder.Build(r.Context())
	if err != nil {
		s.log.Error("site build failed", "error", err)
		jsonError(w, "build failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"summary": site.Summarize(results),
		"results": results,
	})
}
