package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/pagetoc/internal/page"
	"github.com/dgallion1/pagetoc/internal/source"
	"github.com/dgallion1/pagetoc/internal/toc"
	"github.com/dgallion1/pagetoc/internal/tracker"
	"github.com/spf13/cobra"
)

var outlineJSON bool

var outlineCmd = &cobra.Command{
	Use:   "outline FILE",
	Short: "Print the table of contents a post would get",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		loader, err := source.ForFile(path)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		doc, err := loader.Load(f, path)
		if err != nil {
			return err
		}
		p, err := page.Attach(doc, page.FromConfig(cfg), tracker.StaticLayout{}, tracker.NewMemoryWindow(0), newLogger())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if p == nil {
			fmt.Fprintf(out, "%s: no table of contents (needs a post body with at least %d headings)\n", path, cfg.MinHeadings)
			return nil
		}
		defer p.Close()

		entries := p.Tree().Outline()
		if outlineJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		printEntries(out, entries, 0)
		return nil
	},
}

func printEntries(w io.Writer, entries []toc.Entry, depth int) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s- %s (#%s)\n", strings.Repeat("  ", depth), e.Text, e.ID)
		printEntries(w, e.Children, depth+1)
	}
}

func init() {
	outlineCmd.Flags().BoolVar(&outlineJSON, "json", false, "print the outline as JSON")
	rootCmd.AddCommand(outlineCmd)
}
