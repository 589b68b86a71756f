package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/webkattle/wft/internal/feature"
	"github.com/webkattle/wft/internal/logging"
	"github.com/webkattle/wft/internal/store"
)

func newSnapshotCommand(dbPath *string, logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Record today's missing-one-implementation counts for every browser",
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
			counts, err := recordGapSnapshots(cmd.Context(), catalog, time.Now())
			if err != nil {
				return err
			}
			for browser, count := range counts {
				logger.Info("recorded implementation gap", "browser", browser, "missing", count)
			}
			return nil
		},
	}
	return cmd
}

// recordGapSnapshots computes and stores the missing-one-implementation
// count for each browser against the remaining three.
func recordGapSnapshots(ctx context.Context, catalog *store.Store, date time.Time) (map[feature.Browser]int, error) {
	browsers := feature.Browsers()
	counts := make(map[feature.Browser]int, len(browsers))
	for _, target := range browsers {
		others := make([]feature.Browser, 0, len(browsers)-1)
		for _, b := range browsers {
			if b != target {
				others = append(others, b)
			}
		}
		count, err := catalog.MissingOneImplCount(ctx, target, others)
		if err != nil {
			return nil, err
		}
		if err := catalog.RecordImplGapSnapshot(ctx, date, target, count); err != nil {
			return nil, err
		}
		counts[target] = count
	}
	return counts, nil
}
