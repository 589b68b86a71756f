package main

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/webkattle/wft/internal/logging"
	"github.com/webkattle/wft/internal/server"
	"github.com/webkattle/wft/internal/store"
)

func newServeCommand(dbPath *string, logLevel *string) *cobra.Command {
	var (
		addr             string
		watchInterval    time.Duration
		snapshotInterval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the feature table API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(*logLevel)
			if err != nil {
				return err
			}
			catalog, err := store.Open(*dbPath)
			if err != nil {
				return err
			}
			defer catalog.Close()
			srv, err := server.New(server.Config{
				Addr:          addr,
				WatchInterval: watchInterval,
			}, catalog, logger)
			if err != nil {
				return err
			}
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return srv.Run(ctx)
			})
			if snapshotInterval > 0 {
				g.Go(func() error {
					ticker := time.NewTicker(snapshotInterval)
					defer ticker.Stop()
					for {
						select {
						case <-ctx.Done():
							return nil
						case now := <-ticker.C:
							counts, err := recordGapSnapshots(ctx, catalog, now)
							if err != nil {
								logger.Error(err, "record gap snapshots")
								continue
							}
							logger.V(1).Info("recorded gap snapshots", "browsers", len(counts))
						}
					}
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address for the HTTP API")
	cmd.Flags().DurationVar(&watchInterval, "watch-interval", 3*time.Second, "How often the /api/watch stream polls the catalog")
	cmd.Flags().DurationVar(&snapshotInterval, "snapshot-interval", 24*time.Hour, "How often to record implementation-gap snapshots (0 disables)")
	return cmd
}
