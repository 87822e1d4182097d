// Package tracker keeps the table of contents in step with the reader: exactly one
// link is active, chosen from the scroll position or an explicit click.
package tracker

import (
	"log/slog"
	"sync"

	"github.com/dgallion1/pagetoc/internal/heading"
)

const (
	DefaultFixedOffset  = 100.0
	DefaultScrollOffset = 80.0
)

// Layout reports the vertical offset of a heading element. Offsets are read on every
// evaluation, never cached.
type Layout interface {
	Offset(id string) (float64, bool)
}

// Window is the scrollable viewport hosting the page.
type Window interface {
	ScrollY() float64
	ScrollTo(top float64)
	// PushFragment records "#id" in the history without navigating.
	PushFragment(fragment string)
}

// Links marks rendered navigation links active.
type Links interface {
	Has(id string) bool
	SetActive(id string) bool
}

// Config tunes the tracker.
type Config struct {
	// FixedOffset is added to the scroll position to compensate for a sticky header.
	FixedOffset float64
	// ScrollOffset is kept above a clicked heading when scrolling to it.
	ScrollOffset float64
}

// Tracker holds the active heading id. The zero state has no active heading.
type Tracker struct {
	mu       sync.Mutex
	headings []*heading.Heading
	links    Links
	layout   Layout
	window   Window
	cfg      Config
	log      *slog.Logger

	active string
}

// New creates a tracker over headings in document order.
func New(headings []*heading.Heading, links Links, layout Layout, window Window, cfg Config, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		headings: headings,
		links:    links,
		layout:   layout,
		window:   window,
		cfg:      cfg,
		log:      log,
	}
}

// Evaluate picks the last heading whose top has been scrolled past and makes its link
// active. When no heading qualifies the previous active link is left as is. It
// returns the active id after evaluation.
func (t *Tracker) Evaluate(scrollY float64) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos := scrollY + t.cfg.FixedOffset
	candidate := ""
	for _, h := range t.headings {
		if !t.links.Has(h.ID) {
			continue
		}
		top, ok := t.layout.Offset(h.ID)
		if !ok {
			continue
		}
		if pos >= top {
			candidate = h.ID
		}
	}

	if candidate != "" && candidate != t.active {
		t.setActive(candidate)
		t.log.Debug("active section changed", "id", candidate, "scroll_y", scrollY)
	}
	return t.active
}

// Click activates the link for id immediately, scrolls the window toward the heading
// and pushes "#id" as the location fragment. Unknown targets are ignored.
func (t *Tracker) Click(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	top, ok := t.layout.Offset(id)
	if !ok {
		return false
	}
	if !t.links.Has(id) {
		return false
	}

	t.window.ScrollTo(top - t.cfg.ScrollOffset)
	t.window.PushFragment("#" + id)
	t.setActive(id)
	return true
}

// Active returns the active heading id, or "" before any heading was activated.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Tracker) setActive(id string) {
	if t.links.SetActive(id) {
		t.active = id
	}
}
