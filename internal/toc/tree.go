package toc

import "github.com/dgallion1/pagetoc/internal/heading"

// Tree is the nested navigation built from a heading sequence.
type Tree struct {
	Roots []*Node
}

// Node is one entry in the tree.
type Node struct {
	Heading  *heading.Heading
	Children []*Node
}

// Build walks the headings once, keeping a stack of indices into the lists opened so far.
//
// A heading deeper than the previous one opens a nested list under the last item of
// the current list. A shallower heading pops exactly one list, however many levels it
// skipped. A deeper heading with no item to nest under stays in the current list, and
// the base list is never popped, so every heading lands in the tree exactly once.
func Build(headings []*heading.Heading) *Tree {
	tree := &Tree{}
	lists := []*[]*Node{&tree.Roots}
	stack := []int{0}
	currentLevel := 2

	for _, h := range headings {
		top := lists[stack[len(stack)-1]]
		switch {
		case h.Level > currentLevel:
			if n := len(*top); n > 0 {
				parent := (*top)[n-1]
				lists = append(lists, &parent.Children)
				stack = append(stack, len(lists)-1)
			}
		case h.Level < currentLevel:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}

		list := lists[stack[len(stack)-1]]
		*list = append(*list, &Node{Heading: h})
		currentLevel = h.Level
	}
	return tree
}

// Walk visits every node depth-first in document order.
func (t *Tree) Walk(fn func(n *Node, depth int)) {
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(t.Roots, 0)
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*Node, int) { count++ })
	return count
}

// Entry is a serializable view of a tree node.
type Entry struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Level    int     `json:"level"`
	Children []Entry `json:"children,omitempty"`
}

// Outline converts the tree into entries.
func (t *Tree) Outline() []Entry {
	var conv func(nodes []*Node) []Entry
	conv = func(nodes []*Node) []Entry {
		if len(nodes) == 0 {
			return nil
		}
		out := make([]Entry, len(nodes))
		for i, n := range nodes {
			out[i] = Entry{
				ID:       n.Heading.ID,
				Text:     n.Heading.Text,
				Level:    n.Heading.Level,
				Children: conv(n.Children),
			}
		}
		return out
	}
	return conv(t.Roots)
}
