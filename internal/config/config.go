package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

type Config struct {
	Port string

	// Site layout
	SiteDir string
	OutDir  string
	Include string

	// API
	APIKey       string
	CORSOrigins  []string
	MaxBodyBytes int64

	// Table of contents
	TOCTitle     string
	MinHeadings  int
	FixedOffset  float64
	ScrollOffset float64
	Settle       time.Duration

	// Build
	BuildWorkers int
	CodeStyle    string
}

// Defaults mirror the blog theme's table of contents behavior.
const (
	DefaultInclude      = "**/*.{html,htm,md,markdown}"
	DefaultTOCTitle     = "Table of Contents"
	DefaultMinHeadings  = 3
	DefaultFixedOffset  = 100.0
	DefaultScrollOffset = 80.0
	DefaultSettle       = 100 * time.Millisecond
	DefaultCodeStyle    = "github"
	DefaultWorkers      = 4
	DefaultMaxBodyBytes = 5242880 // 5MB
)

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		SiteDir: envOr("SITE_DIR", "site"),
		OutDir:  envOr("OUT_DIR", "public"),
		Include: envOr("INCLUDE", DefaultInclude),

		APIKey:       os.Getenv("PAGETOC_API_KEY"),
		CORSOrigins:  envList("CORS_ORIGINS", []string{"*"}),
		MaxBodyBytes: envInt64("MAX_BODY_BYTES", DefaultMaxBodyBytes),

		TOCTitle:     envOr("TOC_TITLE", DefaultTOCTitle),
		MinHeadings:  envInt("TOC_MIN_HEADINGS", DefaultMinHeadings),
		FixedOffset:  envFloat("TOC_FIXED_OFFSET", DefaultFixedOffset),
		ScrollOffset: envFloat("TOC_SCROLL_OFFSET", DefaultScrollOffset),
		Settle:       envDuration("TOC_DEBOUNCE", DefaultSettle),

		BuildWorkers: envInt("BUILD_WORKERS", DefaultWorkers),
		CodeStyle:    envOr("CODE_STYLE", DefaultCodeStyle),
	}

	if cfg.MinHeadings <= 0 {
		cfg.MinHeadings = DefaultMinHeadings
	}
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultSettle
	}
	if cfg.BuildWorkers <= 0 {
		cfg.BuildWorkers = DefaultWorkers
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return cfg
}

func (c Config) Validate() error {
	if c.SiteDir == "" {
		return fmt.Errorf("SITE_DIR is required")
	}
	if !doublestar.ValidatePattern(c.Include) {
		return fmt.Errorf("INCLUDE %q is not a valid glob pattern", c.Include)
	}
	if c.FixedOffset < 0 || c.ScrollOffset < 0 {
		return fmt.Errorf("TOC offsets must be non-negative")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
