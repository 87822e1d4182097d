// Package dom builds detached nodes for markup that is assembled in code rather than
// parsed. Queries and class handling go through goquery.
package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element builds a detached element. attrs are key/value pairs.
func Element(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// Text builds a detached text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// ElementWithText builds an element holding a single text child.
func ElementWithText(tag, text string, attrs ...string) *html.Node {
	n := Element(tag, attrs...)
	n.AppendChild(Text(text))
	return n
}
