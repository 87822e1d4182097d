// Package page wires heading indexing, tree construction, insertion and active-section
// tracking for one document.
package page

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/pagetoc/internal/config"
	"github.com/dgallion1/pagetoc/internal/heading"
	"github.com/dgallion1/pagetoc/internal/toc"
	"github.com/dgallion1/pagetoc/internal/tracker"
	"golang.org/x/net/html"
)

const DefaultMinHeadings = 3

// Config controls how a page gets its table of contents.
type Config struct {
	RegionClasses []string // classes identifying the post body
	MinHeadings   int
	Title         string
	FixedOffset   float64
	ScrollOffset  float64
	Settle        time.Duration
}

// DefaultConfig returns the settings used by the blog theme.
func DefaultConfig() Config {
	return Config{
		RegionClasses: heading.DefaultRegionClasses,
		MinHeadings:   DefaultMinHeadings,
		Title:         toc.DefaultTitle,
		FixedOffset:   tracker.DefaultFixedOffset,
		ScrollOffset:  tracker.DefaultScrollOffset,
		Settle:        tracker.DefaultSettle,
	}
}

// FromConfig derives page settings from the environment configuration.
func FromConfig(c config.Config) Config {
	cfg := DefaultConfig()
	cfg.Title = c.TOCTitle
	cfg.MinHeadings = c.MinHeadings
	cfg.FixedOffset = c.FixedOffset
	cfg.ScrollOffset = c.ScrollOffset
	cfg.Settle = c.Settle
	return cfg
}

// Page is one attached table of contents.
type Page struct {
	mu       sync.Mutex
	region   *html.Node
	headings []*heading.Heading
	tree     *toc.Tree
	nav      *toc.Container
	tracker  *tracker.Tracker
	debounce *tracker.Debouncer
	scrollY  float64
	closed   bool
}

// Attach builds and inserts a table of contents into doc. It returns nil without error
// when the page has no post body, the body already holds a table of contents, or it
// has fewer than cfg.MinHeadings headings.
func Attach(doc *html.Node, cfg Config, layout tracker.Layout, window tracker.Window, log *slog.Logger) (*Page, error) {
	if doc == nil {
		return nil, fmt.Errorf("attach: nil document")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.MinHeadings <= 0 {
		cfg.MinHeadings = DefaultMinHeadings
	}

	region := heading.FindRegion(doc, cfg.RegionClasses...)
	if region == nil {
		return nil, nil
	}
	if goquery.NewDocumentFromNode(region).Find("."+heading.ContainerClass).Length() > 0 {
		log.Debug("table of contents already present")
		return nil, nil
	}

	hs := heading.Index(region)
	if len(hs) < cfg.MinHeadings {
		log.Debug("too few headings for table of contents", "headings", len(hs), "min", cfg.MinHeadings)
		return nil, nil
	}

	tree := toc.Build(hs)
	nav := toc.Render(tree, toc.Options{Title: cfg.Title})
	nav.Insert(region)

	p := &Page{
		region:   region,
		headings: hs,
		tree:     tree,
		nav:      nav,
		debounce: tracker.NewDebouncer(cfg.Settle),
		tracker: tracker.New(hs, nav, layout, window, tracker.Config{
			FixedOffset:  cfg.FixedOffset,
			ScrollOffset: cfg.ScrollOffset,
		}, log),
	}
	p.scrollY = window.ScrollY()
	p.tracker.Evaluate(p.scrollY)
	return p, nil
}

// Scroll records a scroll position. Evaluation runs once scrolling has settled, using
// the latest recorded position.
func (p *Page) Scroll(y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.scrollY = y
	p.debounce.Trigger(p.evaluate)
}

func (p *Page) evaluate() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	y := p.scrollY
	p.mu.Unlock()
	p.tracker.Evaluate(y)
}

// Flush cancels a pending scroll evaluation and runs it now.
func (p *Page) Flush() string {
	p.debounce.Stop()
	p.evaluate()
	return p.tracker.Active()
}

// Click handles activation of the link for id.
func (p *Page) Click(id string) bool {
	return p.tracker.Click(id)
}

// Toggle flips the collapsed state of the container.
func (p *Page) Toggle() bool {
	return p.nav.Toggle()
}

// Active returns the active heading id.
func (p *Page) Active() string {
	return p.tracker.Active()
}

// Headings returns the indexed headings in document order.
func (p *Page) Headings() []*heading.Heading {
	return p.headings
}

// Tree returns the navigation tree.
func (p *Page) Tree() *toc.Tree {
	return p.tree
}

// Container returns the rendered navigation.
func (p *Page) Container() *toc.Container {
	return p.nav
}

// Close stops scroll tracking. The inserted markup stays in the document.
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.debounce.Stop()
}

// Process parses an HTML document from r, attaches a table of contents and writes the
// result to w. layout may be nil. The returned page is nil when no table of contents
// was added; the document is written either way.
func Process(r io.Reader, w io.Writer, cfg Config, layout tracker.Layout, log *slog.Logger) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return Inject(doc, w, cfg, layout, log)
}

// Inject attaches a table of contents to an already parsed document and renders it to
// w. Scroll tracking is stopped before returning; the page still reports its tree and
// the active heading for the layout given.
func Inject(doc *html.Node, w io.Writer, cfg Config, layout tracker.Layout, log *slog.Logger) (*Page, error) {
	if layout == nil {
		layout = tracker.StaticLayout{}
	}

	p, err := Attach(doc, cfg, layout, tracker.NewMemoryWindow(0), log)
	if err != nil {
		return nil, err
	}
	if p != nil {
		p.Close()
	}

	if err := html.Render(w, doc); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return p, nil
}
