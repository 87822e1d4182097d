package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Loader turns a post source file into an HTML document.
type Loader interface {
	Load(r io.Reader, filename string) (*html.Node, error)
}

// SupportedExtensions lists file extensions a site build picks up.
var SupportedExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
}

// ForFile returns the appropriate loader for a filename.
func ForFile(filename string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".md", ".markdown":
		return NewMarkdownLoader(""), nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// OutputName maps a source path to the path of the page it produces.
func OutputName(filename string) string {
	ext := filepath.Ext(filename)
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return strings.TrimSuffix(filename, ext) + ".html"
	}
	return filename
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
