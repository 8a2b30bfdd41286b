// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/gamescout/internal/recommend"
	"github.com/tomtom215/gamescout/internal/recommend/resolver/onnx"
	"github.com/tomtom215/gamescout/internal/recommend/storage"
)

// Config holds all application configuration.
//
// Configuration Loading Order:
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (config.yaml)
//  3. Environment Variables: override any mapped setting
//
// The Engine section uses the recommendation engine's own tags (json) so
// the engine package stays free of loader concerns; every other section
// uses koanf tags.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Snapshot storage.Config `koanf:"snapshot"`
	Embedder EmbedderConfig `koanf:"embedder"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`

	// Engine holds every recommendation tunable.
	Engine recommend.Config `koanf:"-"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	Environment     string        `koanf:"environment" validate:"oneof=development production test"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DatabaseConfig holds DuckDB settings for the catalog store.
type DatabaseConfig struct {
	// Path is the DuckDB file. ":memory:" opens an in-memory database.
	Path string `koanf:"path" validate:"required"`

	// MaxMemory is DuckDB's memory limit, e.g. "1GB".
	MaxMemory string `koanf:"max_memory" validate:"required"`

	// Threads is DuckDB's worker count; 0 uses runtime.NumCPU().
	Threads int `koanf:"threads" validate:"gte=0"`

	PreserveInsertionOrder bool `koanf:"preserve_insertion_order"`
}

// CatalogConfig holds catalog access and refresh settings.
type CatalogConfig struct {
	// ImportPath is a Steam dataset file loaded by `gamescout import`.
	ImportPath string `koanf:"import_path"`

	// FetchTimeout bounds a single catalog fetch.
	FetchTimeout time.Duration `koanf:"fetch_timeout" validate:"gt=0"`

	// RefreshInterval rebuilds the engine periodically; 0 disables it.
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gte=0"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker around catalog fetches.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxRequests is allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests" validate:"gte=1"`

	// Interval clears counts while closed.
	Interval time.Duration `koanf:"interval" validate:"gt=0"`

	// Timeout is how long the breaker stays open.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// MinRequests and FailureRatio decide when to trip.
	MinRequests  uint32  `koanf:"min_requests" validate:"gte=1"`
	FailureRatio float64 `koanf:"failure_ratio" validate:"gt=0,lte=1"`
}

// EmbedderConfig selects the resolver's name embedder.
type EmbedderConfig struct {
	// Enabled switches from the hashed n-gram embedder to ONNX.
	Enabled bool        `koanf:"enabled"`
	ONNX    onnx.Config `koanf:"onnx"`
}

// APIConfig holds HTTP API settings.
type APIConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// RebuildPerHour and RebuildBurst throttle the admin rebuild trigger.
	RebuildPerHour float64 `koanf:"rebuild_per_hour" validate:"gt=0"`
	RebuildBurst   int     `koanf:"rebuild_burst" validate:"gte=1"`

	// MaxCommentLength caps comment content.
	MaxCommentLength int `koanf:"max_comment_length" validate:"gte=1"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// String summarizes the configuration for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("server=%s database=%s snapshot_dir=%q embedder_onnx=%v",
		c.Server.Addr(), c.Database.Path, c.Snapshot.Dir, c.Embedder.Enabled)
}
