package site

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// SourceFor maps a requested page path to the source file that produces it, relative
// to the site directory. Paths escaping the site directory never resolve.
func (b *Builder) SourceFor(requested string) (string, bool) {
	rel := strings.TrimPrefix(path.Clean("/"+requested), "/")
	if rel == "" || rel == "." {
		return "", false
	}

	candidates := []string{rel}
	if ext := path.Ext(rel); strings.EqualFold(ext, ".html") {
		stem := strings.TrimSuffix(rel, ext)
		candidates = append(candidates, stem+".md", stem+".markdown")
	}
	for _, c := range candidates {
		fi, err := os.Stat(filepath.Join(b.cfg.SiteDir, filepath.FromSlash(c)))
		if err == nil && !fi.IsDir() {
			return c, true
		}
	}
	return "", false
}
