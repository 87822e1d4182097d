package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/pagetoc/internal/config"
	"github.com/dgallion1/pagetoc/internal/page"
	"github.com/dgallion1/pagetoc/internal/source"
)

const htmlPost = `<html><body><article class="post detailed"><h1>T</h1>
<div class="entry"><h2>A</h2><h3>B</h3><h2>C</h2></div></article></body></html>`

const shortPost = `<html><body><article class="post detailed"><h2>A</h2><h2>B</h2></article></body></html>`

const mdPost = "# Notes\n\n## One\n\n### Two\n\n## Three\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func newSite(t *testing.T) (*Builder, string) {
	t.Helper()
	siteDir := t.TempDir()
	outDir := t.TempDir()
	writeFile(t, filepath.Join(siteDir, "posts", "a.html"), htmlPost)
	writeFile(t, filepath.Join(siteDir, "posts", "short.html"), shortPost)
	writeFile(t, filepath.Join(siteDir, "notes.md"), mdPost)
	writeFile(t, filepath.Join(siteDir, "style.css"), "body{}")

	b := NewBuilder(Config{
		SiteDir: siteDir,
		OutDir:  outDir,
		Include: "**/*",
		Workers: 2,
		Page:    page.DefaultConfig(),
	}, nil)
	return b, outDir
}

func TestBuilder_Files(t *testing.T) {
	b, _ := newSite(t)
	files, err := b.Files()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"notes.md", "posts/a.html", "posts/short.html"}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, files)
	}
}

func TestBuilder_Build(t *testing.T) {
	b, outDir := newSite(t)

	results, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	byPath := make(map[string]Result)
	for _, r := range results {
		byPath[r.Path] = r
		if r.Status != StatusWritten {
			t.Errorf("%s: expected written, got %s (%s)", r.Path, r.Status, r.Error)
		}
	}
	if !byPath["posts/a.html"].TOC || byPath["posts/a.html"].Headings != 3 {
		t.Errorf("expected TOC with 3 headings for a.html, got %+v", byPath["posts/a.html"])
	}
	if byPath["posts/short.html"].TOC {
		t.Error("expected no TOC for a page with two headings")
	}
	if md := byPath["notes.md"]; md.Output != "notes.html" || !md.TOC {
		t.Errorf("expected notes.md rendered to notes.html with TOC, got %+v", md)
	}

	out, err := os.ReadFile(filepath.Join(outDir, "notes.html"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(out), `<a href="#two" class="toc-link">Two</a>`) {
		t.Errorf("expected link to markdown heading id, got %s", out)
	}

	s := Summarize(results)
	if s.Total != 3 || s.Written != 3 || s.WithTOC != 2 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestBuilder_RebuildIsUnchanged(t *testing.T) {
	b, _ := newSite(t)
	if _, err := b.Build(context.Background()); err != nil {
		t.Fatalf("first build: %v", err)
	}
	results, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	for _, r := range results {
		if r.Status != StatusUnchanged {
			t.Errorf("%s: expected unchanged on rebuild, got %s", r.Path, r.Status)
		}
	}
}

func TestBuilder_Cancelled(t *testing.T) {
	b, _ := newSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Build(ctx); err == nil {
		t.Error("expected error for cancelled build")
	}
}

func TestBuilder_RenderMissingFile(t *testing.T) {
	b, _ := newSite(t)
	if _, err := b.Render("posts/missing.html"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := b.Render("style.css"); err == nil {
		t.Error("expected error for unsupported file")
	}
}

func TestContentHashHex(t *testing.T) {
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got := ContentHashHex([]byte("hello world")); got != want {
		t.Errorf("expected hash %q, got %q", want, got)
	}
}

func TestBuilder_SourceFor(t *testing.T) {
	b, _ := newSite(t)
	tests := []struct {
		req  string
		want string
		ok   bool
	}{
		{"posts/a.html", "posts/a.html", true},
		{"/posts/a.html", "posts/a.html", true},
		{"notes.html", "notes.md", true},
		{"../etc/passwd", "", false},
		{"posts/../../x.html", "", false},
		{"posts", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := b.SourceFor(tt.req)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SourceFor(%q) = %q, %v; want %q, %v", tt.req, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("SITE_DIR", "/srv/blog")
	t.Setenv("BUILD_WORKERS", "8")
	t.Setenv("CODE_STYLE", "")
	t.Setenv("TOC_MIN_HEADINGS", "2")

	sc := FromConfig(config.Load())
	if sc.SiteDir != "/srv/blog" || sc.Workers != 8 {
		t.Errorf("unexpected build settings %+v", sc)
	}
	if sc.CodeStyle != source.DefaultCodeStyle {
		t.Errorf("expected code style %q, got %q", source.DefaultCodeStyle, sc.CodeStyle)
	}
	if sc.Page.MinHeadings != 2 {
		t.Errorf("expected page settings to follow config, got %+v", sc.Page)
	}
}
