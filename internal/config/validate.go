// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tomtom215/gamescout/internal/validation"
)

// Validate checks struct tags on every section, then the cross-field rules
// tags cannot express, then the engine configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.validateSnapshot(); err != nil {
		return err
	}
	if err := c.validateEmbedder(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

func (c *Config) validateSnapshot() error {
	if c.Snapshot.Dir == "" && !c.Snapshot.InMemory {
		return errors.New("snapshot.dir is required unless snapshot.in_memory is set")
	}
	if c.Snapshot.Retain < 1 {
		return fmt.Errorf("snapshot.retain must be at least 1, got %d", c.Snapshot.Retain)
	}
	return nil
}

func (c *Config) validateEmbedder() error {
	if !c.Embedder.Enabled {
		return nil
	}
	o := c.Embedder.ONNX
	if o.ModelPath == "" || o.TokenizerPath == "" {
		return errors.New("embedder.onnx.model_path and tokenizer_path are required when the ONNX embedder is enabled")
	}
	if o.MaxSeqLen < 2 || o.Dimensions < 1 {
		return fmt.Errorf("embedder.onnx: max_seq_len %d and dimensions %d must be positive", o.MaxSeqLen, o.Dimensions)
	}
	return nil
}

// validateCORS rejects a wildcard origin in production.
func (c *Config) validateCORS() error {
	if c.IsProduction() && slices.Contains(c.API.CORSOrigins, "*") {
		return errors.New("api.cors_origins must not contain * in production")
	}
	return nil
}
