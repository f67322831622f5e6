package main

import (
	"fmt"
	"io"
	"time"

	"lens/internal/indexer"
	"lens/internal/media"

	"github.com/spf13/cobra"
)

func newDiscoverCmd(opts *rootOptions) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Walk the media directory once and update the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.IndexWorkers = workers
			}

			ctx := cmd.Context()
			db, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			idx := indexer.New(db, media.NewExtractorFromConfig(cfg.ExtractTaken), indexer.Config{
				MediaDir: cfg.MediaDir,
				Workers:  cfg.IndexWorkers,
			})

			stats, err := idx.Discover(ctx)
			if err != nil {
				return fmt.Errorf("discover: %w", err)
			}
			if err := db.SetLastDiscoveryRun(ctx, stats.StartedAt.Add(stats.Duration)); err != nil {
				return fmt.Errorf("record discovery run: %w", err)
			}

			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			printRunStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent extractions per directory (overrides LENS_INDEX_WORKERS)")

	return cmd
}

func printRunStats(w io.Writer, stats indexer.RunStats) {
	fmt.Fprintf(w, "Directories: %d\n", stats.Directories)
	fmt.Fprintf(w, "Images seen: %d\n", stats.ImagesSeen)
	fmt.Fprintf(w, "New:         %d\n", stats.New)
	fmt.Fprintf(w, "Updated:     %d\n", stats.Updated)
	fmt.Fprintf(w, "Unchanged:   %d\n", stats.Unchanged)
	fmt.Fprintf(w, "Skipped:     %d\n", stats.Skipped)
	fmt.Fprintf(w, "Duration:    %s\n", stats.Duration.Round(time.Millisecond))
}
