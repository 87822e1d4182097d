package main

import (
	"fmt"

	"github.com/dgallion1/pagetoc/internal/site"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render every post in the site directory into the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		log := newLogger()
		results, err := site.NewBuilder(site.FromConfig(cfg), log).Build(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, r := range results {
			if r.Status == site.StatusFailed {
				fmt.Fprintf(out, "  FAIL %s: %s\n", r.Path, r.Error)
				continue
			}
			mark := "    "
			if r.TOC {
				mark = " toc"
			}
			fmt.Fprintf(out, "%s %-9s %s -> %s\n", mark, r.Status, r.Path, r.Output)
		}

		s := site.Summarize(results)
		fmt.Fprintf(out, "%d files: %d written, %d unchanged, %d failed (%d with table of contents)\n",
			s.Total, s.Written, s.Unchanged, s.Failed, s.WithTOC)
		if s.Failed > 0 {
			return fmt.Errorf("%d files failed", s.Failed)
		}
		return nil
	},
}

func init() {
	f := buildCmd.Flags()
	f.StringVar(&cfg.SiteDir, "site", cfg.SiteDir, "site source directory")
	f.StringVar(&cfg.OutDir, "out", cfg.OutDir, "output directory")
	f.StringVar(&cfg.Include, "include", cfg.Include, "glob of source files, relative to --site")
	f.IntVar(&cfg.BuildWorkers, "workers", cfg.BuildWorkers, "number of pages rendered concurrently")
	rootCmd.AddCommand(buildCmd)
}
