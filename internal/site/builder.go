package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dgallion1/pagetoc/internal/config"
	"github.com/dgallion1/pagetoc/internal/page"
	"github.com/dgallion1/pagetoc/internal/source"
)

// Config controls a site build.
type Config struct {
	SiteDir   string
	OutDir    string
	Include   string
	Workers   int
	CodeStyle string
	Page      page.Config
}

// FromConfig derives build settings from the environment configuration.
func FromConfig(c config.Config) Config {
	return Config{
		SiteDir:   c.SiteDir,
		OutDir:    c.OutDir,
		Include:   c.Include,
		Workers:   c.BuildWorkers,
		CodeStyle: c.CodeStyle,
		Page:      page.FromConfig(c),
	}
}

// Rendered is one processed page held in memory.
type Rendered struct {
	Body     []byte
	Hash     string
	TOC      bool
	Headings int
}

// Builder renders post pages with their table of contents.
type Builder struct {
	cfg      Config
	log      *slog.Logger
	markdown *source.MarkdownLoader
}

// NewBuilder creates a builder for cfg.
func NewBuilder(cfg Config, log *slog.Logger) *Builder {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		cfg:      cfg,
		log:      log,
		markdown: source.NewMarkdownLoader(cfg.CodeStyle),
	}
}

// Files lists source files under the site directory matching the include pattern,
// relative to the site directory, in sorted order.
func (b *Builder) Files() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(b.cfg.SiteDir), b.cfg.Include, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s in %s: %w", b.cfg.Include, b.cfg.SiteDir, err)
	}
	var files []string
	for _, m := range matches {
		if source.IsSupportedExtension(m) {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Render processes one source file, given relative to the site directory.
func (b *Builder) Render(rel string) (*Rendered, error) {
	loader, err := b.loader(rel)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(b.cfg.SiteDir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", rel, err)
	}
	defer f.Close()

	doc, err := loader.Load(f, rel)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	p, err := page.Inject(doc, &buf, b.cfg.Page, nil, b.log.With("path", rel))
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", rel, err)
	}

	out := &Rendered{Body: buf.Bytes(), Hash: ContentHashHex(buf.Bytes())}
	if p != nil {
		out.TOC = true
		out.Headings = len(p.Headings())
	}
	return out, nil
}

func (b *Builder) loader(rel string) (source.Loader, error) {
	l, err := source.ForFile(rel)
	if err != nil {
		return nil, err
	}
	if _, ok := l.(*source.MarkdownLoader); ok {
		return b.markdown, nil
	}
	return l, nil
}

// Build renders every matching file into the output directory using a fixed pool of
// workers. Outputs whose content hash has not changed are left untouched. Per-file
// failures are reported in the results; the error is reserved for listing failures and
// cancellation.
func (b *Builder) Build(ctx context.Context) ([]Result, error) {
	files, err := b.Files()
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(files))
	queue := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < b.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				results[i] = b.process(files[i])
			}
		}()
	}

	var cancelled error
feed:
	for i := range files {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case queue <- i:
		}
	}
	close(queue)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}

	s := Summarize(results)
	b.log.Info("site built",
		"files", s.Total,
		"written", s.Written,
		"unchanged", s.Unchanged,
		"failed", s.Failed,
		"with_toc", s.WithTOC,
	)
	return results, nil
}

func (b *Builder) process(rel string) Result {
	log := b.log.With("path", rel)
	res := Result{Path: rel, Output: source.OutputName(rel)}

	rendered, err := b.Render(rel)
	if err != nil {
		log.Error("render failed", "error", err)
		res.Status = StatusFailed
		res.Error = err.Error()
		return res
	}
	res.TOC = rendered.TOC
	res.Headings = rendered.Headings
	res.Hash = rendered.Hash

	dst := filepath.Join(b.cfg.OutDir, filepath.FromSlash(res.Output))
	if existing, err := os.ReadFile(dst); err == nil && ContentHashHex(existing) == rendered.Hash {
		res.Status = StatusUnchanged
		return res
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("could not read previous output, rewriting", "error", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		res.Status = StatusFailed
		res.Error = fmt.Sprintf("create output dir: %s", err)
		log.Error("write failed", "error", err)
		return res
	}
	if err := os.WriteFile(dst, rendered.Body, 0o644); err != nil {
		res.Status = StatusFailed
		res.Error = fmt.Sprintf("write output: %s", err)
		log.Error("write failed", "error", err)
		return res
	}
	res.Status = StatusWritten
	log.Debug("page written", "output", res.Output, "toc", res.TOC)
	return res
}
