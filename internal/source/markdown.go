package source

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

const DefaultCodeStyle = "github"

// MarkdownLoader renders Markdown posts into the theme's post page layout:
// the first top-level h1 becomes the page title, the rest goes into div.entry.
type MarkdownLoader struct {
	md goldmark.Markdown
}

// NewMarkdownLoader creates a loader highlighting fenced code with the given chroma style.
func NewMarkdownLoader(codeStyle string) *MarkdownLoader {
	if codeStyle == "" {
		codeStyle = DefaultCodeStyle
	}
	return &MarkdownLoader{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle(codeStyle),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
}

func (l *MarkdownLoader) Load(r io.Reader, filename string) (*html.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	doc := l.md.Parser().Parse(text.NewReader(src))

	title := titleFromFilename(filename)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = inlineText(h, src)
			doc.RemoveChild(doc, h)
			break
		}
	}

	var body bytes.Buffer
	if err := l.md.Renderer().Render(&body, src, doc); err != nil {
		return nil, fmt.Errorf("render markdown %s: %w", filename, err)
	}

	var page bytes.Buffer
	esc := html.EscapeString(title)
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", esc)
	fmt.Fprintf(&page, "<article class=\"post detailed\">\n<h1>%s</h1>\n<div class=\"entry\">\n", esc)
	page.Write(body.Bytes())
	page.WriteString("</div>\n</article>\n</body>\n</html>\n")

	out, err := html.Parse(&page)
	if err != nil {
		return nil, fmt.Errorf("parse rendered %s: %w", filename, err)
	}
	return out, nil
}

// inlineText gets the plain text of a goldmark inline subtree.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.WriteString(inlineText(c, src))
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}
