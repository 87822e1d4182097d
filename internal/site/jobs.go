package site

import (
	"crypto/sha256"
	"fmt"
)

// Status is the outcome of building one page.
type Status string

const (
	StatusWritten   Status = "written"
	StatusUnchanged Status = "unchanged"
	StatusFailed    Status = "failed"
)

// Result describes one processed source file.
type Result struct {
	Path     string `json:"path"`
	Output   string `json:"output"`
	Status   Status `json:"status"`
	TOC      bool   `json:"toc"`
	Headings int    `json:"headings"`
	Hash     string `json:"hash,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Summary counts results by outcome.
type Summary struct {
	Total     int `json:"total"`
	Written   int `json:"written"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
	WithTOC   int `json:"with_toc"`
}

// Summarize tallies a build.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		s.Total++
		switch r.Status {
		case StatusWritten:
			s.Written++
		case StatusUnchanged:
			s.Unchanged++
		case StatusFailed:
			s.Failed++
		}
		if r.TOC {
			s.WithTOC++
		}
	}
	return s
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
