package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/almanac/pkg/datastore"
	"github.com/praetorian-inc/almanac/pkg/serve"
	"github.com/praetorian-inc/almanac/pkg/solver"
)

var (
	serveDatastore string
	serveWorkers   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming NDJSON server",
	Long: `Run Almanac as a long-lived streaming server that accepts solve and
remap requests on stdin and writes responses to stdout, one JSON object
per line.

The process handles requests until stdin closes, a "close" request
arrives, or SIGTERM/SIGINT is received.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveDatastore, "datastore", "", "Record runs in this datastore (directory, :memory: or postgres:// URL)")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", defaultWorkers(), "Parallel workers for range passes and batches")
}

func runServe(cmd *cobra.Command, args []string) error {
	opts := solver.Options{
		Logger:  logger,
		Workers: serveWorkers,
	}
	if serveDatastore != "" {
		ds, err := datastore.Open(serveDatastore, datastore.Options{})
		if err != nil {
			return fmt.Errorf("opening datastore: %w", err)
		}
		defer ds.Close()
		opts.Store = ds.Store
	}
	core := solver.NewCore(opts)

	// Set up signal handling
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := serve.NewServer(core, cmd.InOrStdin(), cmd.OutOrStdout(), serve.WithLogger(logger))
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
