package toc

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/pagetoc/internal/dom"
	"github.com/dgallion1/pagetoc/internal/heading"
	"golang.org/x/net/html"
)

const (
	DefaultTitle = "Table of Contents"

	iconExpanded  = "−"
	iconCollapsed = "+"
)

// Options controls the rendered container.
type Options struct {
	Title string
}

// Container is a rendered table of contents: header with title and collapse toggle,
// followed by the nested link list.
type Container struct {
	Root *html.Node

	sel    *goquery.Selection
	toggle *goquery.Selection
	icon   *goquery.Selection
	links  map[string]*html.Node
	order  []string
}

// Render builds the navigation markup for tree. The result is detached until Insert.
func Render(tree *Tree, opts Options) *Container {
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	c := &Container{links: make(map[string]*html.Node)}
	c.Root = dom.Element("div", "class", heading.ContainerClass)

	header := dom.Element("div", "class", "toc-header")
	header.AppendChild(dom.ElementWithText("h3", title))
	toggle := dom.Element("button",
		"class", "toc-toggle",
		"aria-label", "Toggle table of contents",
		"aria-expanded", "true",
	)
	toggle.AppendChild(dom.ElementWithText("span", iconExpanded, "class", "toc-icon"))
	header.AppendChild(toggle)
	c.Root.AppendChild(header)

	nav := dom.Element("nav", "class", "toc-content")
	list := dom.Element("ul", "class", "toc-list")
	c.renderList(list, tree.Roots)
	nav.AppendChild(list)
	c.Root.AppendChild(nav)

	c.sel = goquery.NewDocumentFromNode(c.Root).Selection
	c.toggle = c.sel.Find("button.toc-toggle")
	c.icon = c.toggle.Find("span.toc-icon")
	return c
}

func (c *Container) renderList(ul *html.Node, nodes []*Node) {
	for _, n := range nodes {
		h := n.Heading
		li := dom.Element("li", "class", "toc-item toc-h"+strconv.Itoa(h.Level))
		a := dom.ElementWithText("a", h.Text, "href", "#"+h.ID, "class", "toc-link")
		li.AppendChild(a)
		ul.AppendChild(li)

		if _, dup := c.links[h.ID]; !dup {
			c.links[h.ID] = a
		}
		c.order = append(c.order, h.ID)

		if len(n.Children) > 0 {
			nested := dom.Element("ul", "class", "toc-list-nested")
			c.renderList(nested, n.Children)
			li.AppendChild(nested)
		}
	}
}

// Insert places the container into region. When the region has an .entry element,
// both are wrapped in a new div.post-container (TOC first); otherwise the container
// goes after the post metadata, the title, or at the top of the region.
func (c *Container) Insert(region *html.Node) {
	r := goquery.NewDocumentFromNode(region).Selection

	if entry := r.Find(".entry").First(); entry.Length() > 0 {
		entry.WrapNode(dom.Element("div", "class", "post-container"))
		entry.Parent().PrependNodes(c.Root)
		return
	}

	var at *goquery.Selection
	author := r.Find(".author_title").First()
	switch {
	case author.Length() > 0 && author.Next().Length() > 0:
		at = author
		if next := author.Next(); next.HasClass("author_title") {
			at = next
		}
	case r.Find(".date").Length() > 0:
		at = r.Find(".date").First()
	default:
		at = r.Find("h1").First()
	}

	if at.Length() > 0 {
		at.AfterNodes(c.Root)
		return
	}
	r.PrependNodes(c.Root)
}

// Link returns the anchor rendered for heading id.
func (c *Container) Link(id string) (*html.Node, bool) {
	a, ok := c.links[id]
	return a, ok
}

// Has reports whether a link was rendered for heading id.
func (c *Container) Has(id string) bool {
	_, ok := c.links[id]
	return ok
}

// linkIDs returns the heading ids of all links in document order.
func (c *Container) linkIDs() []string {
	return append([]string(nil), c.order...)
}

// SetActive marks the link for id active and clears every other link.
// It reports false, changing nothing, when no link exists for id.
func (c *Container) SetActive(id string) bool {
	target, ok := c.links[id]
	if !ok {
		return false
	}
	c.sel.Find("a.toc-link").RemoveClass("active")
	c.sel.FindNodes(target).AddClass("active")
	return true
}

// Toggle flips the collapsed state and reports whether the container is now collapsed.
func (c *Container) Toggle() bool {
	c.sel.ToggleClass("collapsed")
	collapsed := c.Collapsed()
	c.toggle.SetAttr("aria-expanded", strconv.FormatBool(!collapsed))
	if collapsed {
		c.icon.SetText(iconCollapsed)
	} else {
		c.icon.SetText(iconExpanded)
	}
	return collapsed
}

// Collapsed reports whether the container is collapsed.
func (c *Container) Collapsed() bool {
	return c.sel.HasClass("collapsed")
}
