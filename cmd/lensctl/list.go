package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"lens/internal/database"

	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		fromStr string
		toStr   string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued images by capture time",
		Long: `List images whose taken time, or modification time when taken is absent,
falls within [from, to]. Results are ordered oldest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := time.Parse(time.RFC3339, fromStr)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			var to time.Time
			if toStr != "" {
				if to, err = time.Parse(time.RFC3339, toStr); err != nil {
					return fmt.Errorf("--to: %w", err)
				}
			}

			cfg, err := opts.config()
			if err != nil {
				return err
			}

			db, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			images, err := db.ListImages(cmd.Context(), from, to, limit)
			if err != nil {
				return fmt.Errorf("list images: %w", err)
			}

			if opts.jsonOut {
				if images == nil {
					images = []database.Image{}
				}
				return writeJSON(cmd.OutOrStdout(), images)
			}
			return printImages(cmd.OutOrStdout(), images)
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "start of the range, RFC 3339 (required)")
	cmd.Flags().StringVar(&toStr, "to", "", "end of the range, RFC 3339 (default now)")
	cmd.Flags().IntVar(&limit, "limit", database.DefaultListLimit, "maximum number of images")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func printImages(w io.Writer, images []database.Image) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATH\tSIZE\tBYTES\tTIME")
	for _, img := range images {
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%s\n",
			img.ID, img.Path, img.Width, img.Height, img.FileSize, displayTime(img))
	}
	return tw.Flush()
}

// displayTime picks the timestamp the image is ordered by.
func displayTime(img database.Image) string {
	switch {
	case img.Taken != nil:
		return img.Taken.Format(time.RFC3339)
	case img.Modified != nil:
		return img.Modified.Format(time.RFC3339)
	default:
		return "-"
	}
}
