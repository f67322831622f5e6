package handlers

import (
	"context"
	"time"

	"lens/internal/database"
	"lens/internal/filesystem"
	"lens/internal/indexer"
	"lens/internal/startup"
	"lens/internal/streaming"
)

// Catalog is the read side of the record store.
type Catalog interface {
	ListImages(ctx context.Context, from, to time.Time, limit int) ([]database.Image, error)
	FindImageByID(ctx context.Context, id string) (*database.Image, error)
}

// Discoverer runs discovery and reports its state.
type Discoverer interface {
	Discover(ctx context.Context) (indexer.RunStats, error)
	IsReady() bool
	GetHealthStatus() indexer.HealthStatus
}

type Handlers struct {
	catalog  Catalog
	indexer  Discoverer
	mediaDir string
	retry    filesystem.RetryConfig
	stream   streaming.Config
}

func New(catalog Catalog, idx Discoverer, config *startup.Config) *Handlers {
	return &Handlers{
		catalog:  catalog,
		indexer:  idx,
		mediaDir: config.MediaDir,
		retry:    filesystem.DefaultRetryConfig(),
		stream:   streaming.DefaultConfig(),
	}
}
