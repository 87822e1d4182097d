package tracker

import "sync"

// StaticLayout is a Layout backed by known heading offsets, for pages laid out
// outside a browser.
type StaticLayout map[string]float64

func (l StaticLayout) Offset(id string) (float64, bool) {
	top, ok := l[id]
	return top, ok
}

// MemoryWindow is a Window that records scroll and history changes.
type MemoryWindow struct {
	mu       sync.Mutex
	scrollY  float64
	fragment string
	history  []string
}

// NewMemoryWindow returns a window scrolled to y.
func NewMemoryWindow(y float64) *MemoryWindow {
	return &MemoryWindow{scrollY: y}
}

func (w *MemoryWindow) ScrollY() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scrollY
}

func (w *MemoryWindow) ScrollTo(top float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scrollY = top
}

func (w *MemoryWindow) PushFragment(fragment string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fragment = fragment
	w.history = append(w.history, fragment)
}

// Fragment returns the current location fragment.
func (w *MemoryWindow) Fragment() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fragment
}

// History returns every fragment pushed so far.
func (w *MemoryWindow) History() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.history...)
}
