package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"lens/internal/database"
	"lens/internal/startup"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	mediaDir string
	dataDir  string
	jsonOut  bool
}

// NewRootCmd builds the lensctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "lensctl",
		Short:         "Inspect and update a lens image catalog",
		Version:       startup.Version,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// A missing .env file is fine.
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.mediaDir, "media-dir", "", "media root (overrides LENS_MEDIA_DIR)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding lens.db (overrides LENS_DATA_DIR)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print JSON instead of a table")

	cmd.AddCommand(newDiscoverCmd(opts))
	cmd.AddCommand(newListCmd(opts))

	return cmd
}

// config reads LENS_* settings and applies flag overrides.
func (o *rootOptions) config() (*startup.Config, error) {
	cfg, err := startup.ReadConfig()
	if err != nil {
		return nil, err
	}
	if o.mediaDir != "" {
		if cfg.MediaDir, err = filepath.Abs(o.mediaDir); err != nil {
			return nil, fmt.Errorf("resolve media dir: %w", err)
		}
	}
	if o.dataDir != "" {
		if cfg.DataDir, err = filepath.Abs(o.dataDir); err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DatabasePath = filepath.Join(cfg.DataDir, startup.DatabaseFile)
	}
	return cfg, nil
}

func openDatabase(ctx context.Context, cfg *startup.Config) (*database.Database, error) {
	db, err := database.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}
	return db, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
