package heading

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ContainerClass marks a rendered table of contents. Headings inside it are not indexed.
const ContainerClass = "table-of-contents"

// DefaultRegionClasses identify the post body on a page.
var DefaultRegionClasses = []string{"post", "detailed"}

// Heading is one h2/h3 element of the post body, captured in document order.
type Heading struct {
	Level int    // 2 or 3
	Text  string // display label
	ID    string // element id, generated when absent
	Index int    // ordinal among indexed headings
	Node  *html.Node
}

// FindRegion returns the first element at or under doc carrying all of classes.
// With no classes, DefaultRegionClasses are used.
func FindRegion(doc *html.Node, classes ...string) *html.Node {
	if doc == nil {
		return nil
	}
	if len(classes) == 0 {
		classes = DefaultRegionClasses
	}
	sel := "." + strings.Join(classes, ".")

	root := goquery.NewDocumentFromNode(doc).Selection
	if root.Is(sel) {
		return doc
	}
	if found := root.Find(sel).First(); found.Length() > 0 {
		return found.Get(0)
	}
	return nil
}

// Index collects every h2 and h3 inside region. Headings without an id get
// "heading-<ordinal>" written back onto the element; existing ids are kept.
func Index(region *html.Node) []*Heading {
	if region == nil {
		return nil
	}
	found := goquery.NewDocumentFromNode(region).
		Find("h2, h3").
		Not("." + ContainerClass + " *")

	headings := make([]*Heading, 0, found.Length())
	found.Each(func(i int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		if !ok || id == "" {
			id = "heading-" + strconv.Itoa(i)
			s.SetAttr("id", id)
		}
		n := s.Get(0)
		headings = append(headings, &Heading{
			Level: Level(n.Data),
			Text:  strings.TrimSpace(s.Text()),
			ID:    id,
			Index: i,
			Node:  n,
		})
	})
	return headings
}

// Level returns the heading level implied by a tag name, or 0.
func Level(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}
