// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

// Package main is the gamescout command.
//
// Gamescout recommends Steam games similar to one or more seed titles. It
// loads the catalog from DuckDB, builds content vectors and a similarity
// index, and serves recommendations over HTTP or directly on the command
// line.
//
// # Commands
//
//	gamescout serve                       run the HTTP API under a supervisor tree
//	gamescout import games.json           load a Steam dataset into the catalog
//	gamescout recommend "Portal + Celeste" print recommendations as JSON
//	gamescout autocomplete port           print name suggestions
//	gamescout surprise                    recommendations for a random popular game
//	gamescout schema                      create the catalog tables
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (HTTP_PORT, DUCKDB_PATH, RECOMMEND_NLIST, ...)
//   - Config file (--config, CONFIG_PATH, or ./config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// serve stops on SIGINT and SIGTERM: the HTTP server drains in-flight
// requests, then the catalog and snapshot stores are closed.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tomtom215/gamescout/internal/config"
	"github.com/tomtom215/gamescout/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "gamescout",
		Short:         "Content-based game recommendations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	load := func() (*config.Config, error) {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		logging.Init(logging.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			Caller:    cfg.Logging.Caller,
			Timestamp: true,
		})
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(load),
		newImportCmd(load),
		newRecommendCmd(load),
		newAutocompleteCmd(load),
		newSurpriseCmd(load),
		newSchemaCmd(load),
	)
	return root
}

// configLoader loads configuration and initializes logging.
type configLoader func() (*config.Config, error)
