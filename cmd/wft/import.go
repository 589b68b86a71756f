package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/webkattle/wft/internal/feature"
	"github.com/webkattle/wft/internal/store"
	"github.com/webkattle/wft/internal/ui"
)

// catalogFile is the on-disk import format: YAML or JSON, decoded through
// the feature JSON tags.
type catalogFile struct {
	Features []feature.Feature `json:"features"`
}

func newImportCommand(dbPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load a YAML or JSON feature catalog into the local database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read catalog file: %w", err)
			}
			feats, err := decodeCatalog(raw)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if len(feats) == 0 {
				return fmt.Errorf("%s contains no features", args[0])
			}
			if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
				return err
			}
			catalog, err := store.Open(*dbPath)
			if err != nil {
				return err
			}
			defer catalog.Close()
			stop := ui.StartSpinner(os.Stderr, fmt.Sprintf("importing %d features", len(feats)))
			err = catalog.UpsertFeatures(cmd.Context(), feats)
			stop(err == nil)
			if err != nil {
				return err
			}
			fmt.Printf("imported %d features into %s\n", len(feats), *dbPath)
			return nil
		},
	}
	return cmd
}

// decodeCatalog accepts either a {"features": [...]} document or a bare
// feature list.
func decodeCatalog(raw []byte) ([]feature.Feature, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(raw, &doc); err == nil && len(doc.Features) > 0 {
		return doc.Features, nil
	}
	var list []feature.Feature
	if err := yaml.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}
