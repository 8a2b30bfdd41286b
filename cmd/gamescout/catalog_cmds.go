// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tomtom215/gamescout/internal/catalog"
	"github.com/tomtom215/gamescout/internal/logging"
)

func newImportCmd(load configLoader) *cobra.Command {
	var batchSize int
	cmd := &cobra.Command{
		Use:   "import [dataset.json]",
		Short: "Load a Steam games dataset into the catalog",
		Long: "Load a Steam games dataset into the catalog. The file may be one JSON object\n" +
			"keyed by app ID or one such object per line. Without an argument the\n" +
			"configured catalog.import_path is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			path := cfg.Catalog.ImportPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no dataset path given and catalog.import_path is not set")
			}

			f, err := os.Open(path) //nolint:gosec // operator-supplied dataset path
			if err != nil {
				return fmt.Errorf("open dataset: %w", err)
			}
			defer func() { _ = f.Close() }()

			store, err := catalog.Open(&cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logging.Warn().Err(err).Msg("Error closing catalog")
				}
			}()

			start := time.Now()
			stats, err := catalog.NewImporter(store, batchSize).Import(cmd.Context(), f)
			logging.Info().
				Str("path", path).
				Int("read", stats.Read).
				Int("imported", stats.Imported).
				Int("skipped", stats.Skipped).
				Dur("duration", time.Since(start)).
				Msg("Catalog import finished")
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", catalog.DefaultBatchSize, "games upserted per transaction")
	return cmd
}

func newSchemaCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the catalog tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			// Open creates the schema.
			store, err := catalog.Open(&cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			count, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema ready at %s (%d games)\n", store.Path(), count)
			return err
		},
	}
}
