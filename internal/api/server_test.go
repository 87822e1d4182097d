package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/pagetoc/internal/config"
	"github.com/dgallion1/pagetoc/internal/site"
)

const post = `<html><body><article class="post detailed"><h1>T</h1>
<div class="entry"><h2>One</h2><h3>One A</h3><h2>Two</h2></div></article></body></html>`

func newTestServer(t *testing.T, apiKey string) (*Server, config.Config) {
	t.Helper()
	siteDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(siteDir, "posts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(siteDir, "posts", "a.html"), []byte(post), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := config.Load()
	cfg.SiteDir = siteDir
	cfg.OutDir = t.TempDir()
	cfg.Include = config.DefaultInclude
	cfg.APIKey = apiKey
	cfg.CORSOrigins = []string{"*"}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(site.NewBuilder(site.FromConfig(cfg), log), log, cfg), cfg
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, "")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestPage_ServesWithTOCAndETag(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/posts/posts/a.html", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-TOC") != "applied" {
		t.Errorf("expected X-TOC applied, got %q", w.Header().Get("X-TOC"))
	}
	if !strings.Contains(w.Body.String(), `class="table-of-contents"`) {
		t.Error("expected table of contents in page")
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag header")
	}

	req := httptest.NewRequest("GET", "/posts/posts/a.html", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Errorf("expected 304 for matching ETag, got %d", w.Code)
	}
}

func TestPage_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, "")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/posts/missing.html", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestTOC_InjectsAndSkips(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("POST", "/api/toc", strings.NewReader(post)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-TOC") != "applied" {
		t.Errorf("expected X-TOC applied, got %q", w.Header().Get("X-TOC"))
	}
	if !strings.Contains(w.Body.String(), `<a href="#heading-2" class="toc-link">Two</a>`) {
		t.Errorf("expected link for heading-2, got %s", w.Body.String())
	}

	short := `<div class="post detailed"><h2>a</h2><h2>b</h2></div>`
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("POST", "/api/toc", strings.NewReader(short)))
	if w.Header().Get("X-TOC") != "skipped" {
		t.Errorf("expected X-TOC skipped, got %q", w.Header().Get("X-TOC"))
	}
	if strings.Contains(w.Body.String(), "table-of-contents") {
		t.Error("expected no container for two headings")
	}
}

func TestTOC_TooLarge(t *testing.T) {
	srv, _ := newTestServer(t, "")
	srv.cfg.MaxBodyBytes = 16

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("POST", "/api/toc", strings.NewReader(post)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestOutline_TooLarge(t *testing.T) {
	srv, _ := newTestServer(t, "")
	srv.cfg.MaxBodyBytes = 32

	body, _ := json.Marshal(outlineRequest{HTML: post})
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("POST", "/api/outline", bytes.NewReader(body)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d: %s", w.Code, w.Body.String())
	}
}

func postOutline(t *testing.T, srv *Server, req outlineRequest) outlineResponse {
	t.Helper()
	body, _ := json.Marshal(req)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("POST", "/api/outline", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp outlineResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return resp
}

func TestOutline_ActiveSection(t *testing.T) {
	srv, _ := newTestServer(t, "")
	offsets := map[string]float64{"heading-0": 100, "heading-1": 500, "heading-2": 900}

	resp := postOutline(t, srv, outlineRequest{HTML: post, Offsets: offsets, ScrollY: 50})
	if !resp.TOC || resp.Headings != 3 {
		t.Fatalf("expected TOC with 3 headings, got %+v", resp)
	}
	if resp.Active != "heading-0" {
		t.Errorf("expected heading-0 active, got %q", resp.Active)
	}
	if len(resp.Entries) != 2 || len(resp.Entries[0].Children) != 1 {
		t.Errorf("unexpected outline %+v", resp.Entries)
	}

	resp = postOutline(t, srv, outlineRequest{HTML: post, Offsets: offsets, ScrollY: 850})
	if resp.Active != "heading-2" {
		t.Errorf("expected heading-2 active, got %q", resp.Active)
	}
}

func TestOutline_Click(t *testing.T) {
	srv, _ := newTestServer(t, "")
	offsets := map[string]float64{"heading-0": 100, "heading-1": 500, "heading-2": 900}

	resp := postOutline(t, srv, outlineRequest{HTML: post, Offsets: offsets, Click: "heading-2"})
	if resp.Active != "heading-2" {
		t.Errorf("expected heading-2 active after click, got %q", resp.Active)
	}
	if resp.Fragment != "#heading-2" {
		t.Errorf("expected fragment #heading-2, got %q", resp.Fragment)
	}
	if resp.ScrollY != 820 {
		t.Errorf("expected scroll to 820, got %v", resp.ScrollY)
	}
}

func TestOutline_BadRequest(t *testing.T) {
	srv, _ := newTestServer(t, "")
	for _, body := range []string{"not json", `{"html":"  "}`} {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest("POST", "/api/outline", strings.NewReader(body)))
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestBuild(t *testing.T) {
	srv, cfg := newTestServer(t, "")

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("POST", "/api/build", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Summary site.Summary `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Summary.Total != 1 || body.Summary.WithTOC != 1 {
		t.Errorf("unexpected summary %+v", body.Summary)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutDir, "posts", "a.html")); err != nil {
		t.Errorf("expected output file: %v", err)
	}
}

func TestAuth(t *testing.T) {
	srv, _ := newTestServer(t, "secret")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/toc", strings.NewReader(post))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}

	// Pages stay public.
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected public health check, got %d", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t, "")

	req := httptest.NewRequest("OPTIONS", "/api/outline", nil)
	req.Header.Set("Origin", "http://blog.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}
