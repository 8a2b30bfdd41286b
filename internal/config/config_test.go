// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() = %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:5000" {
		t.Errorf("Server.Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Database.Path != "/data/gamescout.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Snapshot.Retain != 3 {
		t.Errorf("Snapshot.Retain = %d, want 3", cfg.Snapshot.Retain)
	}
	if cfg.API.MaxCommentLength != 500 {
		t.Errorf("API.MaxCommentLength = %d, want 500", cfg.API.MaxCommentLength)
	}
	if cfg.Engine.Limits.DefaultN != 15 {
		t.Errorf("Engine.Limits.DefaultN = %d, want 15", cfg.Engine.Limits.DefaultN)
	}
	if cfg.Embedder.ONNX.Dimensions != 384 {
		t.Errorf("Embedder.ONNX.Dimensions = %d, want 384", cfg.Embedder.ONNX.Dimensions)
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "Port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "Port"},
		{"empty host", func(c *Config) { c.Server.Host = "" }, "Host"},
		{"unknown environment", func(c *Config) { c.Server.Environment = "staging" }, "Environment"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "Timeout"},
		{"empty database path", func(c *Config) { c.Database.Path = "" }, "Path"},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, "Threads"},
		{"breaker ratio", func(c *Config) { c.Catalog.Breaker.FailureRatio = 1.5 }, "FailureRatio"},
		{"negative refresh", func(c *Config) { c.Catalog.RefreshInterval = -time.Second }, "RefreshInterval"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "Level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "Format"},
		{"zero rebuild rate", func(c *Config) { c.API.RebuildPerHour = 0 }, "RebuildPerHour"},
		{"snapshot location", func(c *Config) { c.Snapshot.Dir = ""; c.Snapshot.InMemory = false }, "snapshot.dir"},
		{"snapshot retain", func(c *Config) { c.Snapshot.Retain = 0 }, "snapshot.retain"},
		{"onnx without model", func(c *Config) { c.Embedder.Enabled = true }, "model_path"},
		{"production wildcard cors", func(c *Config) { c.Server.Environment = "production" }, "cors"},
		{"engine", func(c *Config) { c.Engine.Limits.MaxN = 0 }, "engine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_InMemorySnapshotNeedsNoDir(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Snapshot.Dir = ""
	cfg.Snapshot.InMemory = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"SNAPSHOT_DIR", "snapshot.dir"},
		{"RECOMMEND_NLIST", "engine.index.nlist"},
		{"RECOMMEND_GENRE_LAMBDA", "engine.diversity.genre_lambda"},
		{"log_level", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
