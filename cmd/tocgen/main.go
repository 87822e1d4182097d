package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/pagetoc/internal/config"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	cfg     = config.Load()
)

var rootCmd = &cobra.Command{
	Use:   "tocgen",
	Short: "Add tables of contents to blog post pages",
	Long: `tocgen indexes the h2/h3 headings of each post body, builds a nested
table of contents and inserts it into the page. Settings come from the
environment (see SITE_DIR, OUT_DIR, TOC_*) and can be overridden by flags.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&cfg.TOCTitle, "title", cfg.TOCTitle, "table of contents heading")
	pf.IntVar(&cfg.MinHeadings, "min-headings", cfg.MinHeadings, "minimum headings before a table of contents is added")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
