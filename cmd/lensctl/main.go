// Command lensctl runs catalog operations against a lens database without
// starting the server.
//
//	lensctl discover                 walk LENS_MEDIA_DIR and update the catalog
//	lensctl list --from 2024-01-01T00:00:00Z --limit 20
//
// Configuration comes from the same LENS_* variables as the server. A .env
// file in the working directory is loaded first when present.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
