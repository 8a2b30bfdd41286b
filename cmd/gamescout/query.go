// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/tomtom215/gamescout/internal/logging"
	"github.com/tomtom215/gamescout/internal/recommend"
)

// withEngine builds and initializes an engine for a one-shot command.
func withEngine(ctx context.Context, load configLoader, fn func(*recommend.Engine) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	stack, err := buildEngine(cfg, logging.WithComponent("recommend"))
	if err != nil {
		return err
	}
	defer stack.Close()

	if err := stack.Engine.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	return fn(stack.Engine)
}

func writeJSON(w io.Writer, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(body))
	return err
}

func newRecommendCmd(load configLoader) *cobra.Command {
	var (
		n   int
		raw recommend.RawFilters
	)
	cmd := &cobra.Command{
		Use:   "recommend <game> [+ <game> ...]",
		Short: "Print recommendations for one or more games",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seeds := recommend.ParseSeeds(strings.Join(args, " "))
			if len(seeds) == 0 {
				return errors.New("no game names given")
			}
			filters, err := recommend.ParseFilters(raw)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), load, func(e *recommend.Engine) error {
				results, err := e.Recommend(cmd.Context(), recommend.Request{
					Seeds:     seeds,
					N:         n,
					Filters:   filters,
					RequestID: logging.GenerateRequestID(),
				})
				if err != nil {
					return err
				}
				if results == nil {
					results = []recommend.Result{}
				}
				return writeJSON(cmd.OutOrStdout(), results)
			})
		},
	}
	f := cmd.Flags()
	f.IntVarP(&n, "count", "n", 0, "number of results (0 uses the configured default)")
	f.StringVar(&raw.Genres, "genres", "", "comma-separated genres to require")
	f.StringVar(&raw.Exclude, "exclude", "", "comma-separated genres to penalize")
	f.StringVar(&raw.YearMin, "year-min", "", "earliest release year")
	f.StringVar(&raw.YearMax, "year-max", "", "latest release year")
	f.StringVar(&raw.PlaytimeMin, "playtime-min", "", "minimum median playtime in hours")
	f.StringVar(&raw.PlaytimeMax, "playtime-max", "", "maximum median playtime in hours")
	return cmd
}

func newAutocompleteCmd(load configLoader) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "autocomplete <prefix>",
		Short: "Print game name suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), load, func(e *recommend.Engine) error {
				names := e.Autocomplete(cmd.Context(), args[0], limit)
				if names == nil {
					names = []string{}
				}
				return writeJSON(cmd.OutOrStdout(), names)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum suggestions (0 uses the configured default)")
	return cmd
}

func newSurpriseCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "surprise",
		Short: "Print recommendations for a random popular game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), load, func(e *recommend.Engine) error {
				seed, ok := e.RandomSeed()
				if !ok {
					return errors.New("no game is popular enough for a surprise")
				}
				results, err := e.Recommend(cmd.Context(), recommend.Request{
					Seeds:     []string{seed.Name},
					RequestID: logging.GenerateRequestID(),
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), struct {
					Source  recommend.Seed     `json:"source"`
					Results []recommend.Result `json:"results"`
				}{seed, results})
			})
		},
	}
}
