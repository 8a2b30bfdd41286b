// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/gamescout/internal/recommend"
	"github.com/tomtom215/gamescout/internal/recommend/resolver/onnx"
	"github.com/tomtom215/gamescout/internal/recommend/storage"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/gamescout/config.yaml",
	"/etc/gamescout/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// engineKey is the koanf path of the engine section.
const engineKey = "engine"

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:                   "/data/gamescout.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
		},
		Catalog: CatalogConfig{
			FetchTimeout:    2 * time.Minute,
			RefreshInterval: 0,
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MinRequests:  3,
				FailureRatio: 0.6,
			},
		},
		Snapshot: storage.Config{
			Dir:    "/data/snapshots",
			Retain: storage.DefaultRetain,
		},
		Embedder: EmbedderConfig{
			Enabled: false,
			ONNX:    onnx.DefaultConfig(),
		},
		API: APIConfig{
			RateLimitReqs:    100,
			RateLimitWindow:  time.Minute,
			CORSOrigins:      []string{"*"},
			RebuildPerHour:   6,
			RebuildBurst:     1,
			MaxCommentLength: 500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Engine: *recommend.DefaultConfig(),
	}
}

// Load loads configuration with layered sources:
//  1. Defaults
//  2. Config file (if one exists)
//  3. Environment variables
//
// Precedence is ENV > File > Defaults.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile loads configuration from an explicit YAML path, then applies
// environment overrides.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Load()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults. The engine section carries json tags.
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	engineDefaults := struct {
		Engine recommend.Config `json:"engine"`
	}{Engine: defaults.Engine}
	if err := k.Load(structs.Provider(engineDefaults, "json"), nil); err != nil {
		return nil, fmt.Errorf("failed to load engine defaults: %w", err)
	}

	// Layer 2: config file.
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := k.UnmarshalWithConf(engineKey, &cfg.Engine, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal engine configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns CONFIG_PATH when it exists, else the first
// existing default path, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when they come
// from the environment.
var sliceConfigPaths = []string{
	"api.cors_origins",
	"engine.genres",
	"engine.catalog.content_blacklist",
	"engine.scoring.rare_genres",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Catalog
	"catalog_import_path":      "catalog.import_path",
	"catalog_fetch_timeout":    "catalog.fetch_timeout",
	"catalog_refresh_interval": "catalog.refresh_interval",
	"catalog_breaker_enabled":  "catalog.breaker.enabled",
	"catalog_breaker_timeout":  "catalog.breaker.timeout",

	// Snapshots
	"snapshot_dir":       "snapshot.dir",
	"snapshot_in_memory": "snapshot.in_memory",
	"snapshot_retain":    "snapshot.retain",

	// Embedder
	"embedder_onnx":       "embedder.enabled",
	"onnx_library_path":   "embedder.onnx.shared_library_path",
	"onnx_model_path":     "embedder.onnx.model_path",
	"onnx_tokenizer_path": "embedder.onnx.tokenizer_path",
	"onnx_max_seq_len":    "embedder.onnx.max_seq_len",
	"onnx_dimensions":     "embedder.onnx.dimensions",
	"onnx_output_name":    "embedder.onnx.output_name",
	"onnx_token_type_ids": "embedder.onnx.token_type_ids",

	// API
	"api_rate_limit_requests": "api.rate_limit_reqs",
	"api_rate_limit_window":   "api.rate_limit_window",
	"disable_rate_limit":      "api.rate_limit_disabled",
	"cors_origins":            "api.cors_origins",
	"api_rebuild_per_hour":    "api.rebuild_per_hour",
	"api_rebuild_burst":       "api.rebuild_burst",
	"api_max_comment_length":  "api.max_comment_length",

	// Engine
	"recommend_seed":           "engine.seed",
	"recommend_genres":         "engine.genres",
	"recommend_min_popularity": "engine.catalog.min_popularity",
	"recommend_blacklist":      "engine.catalog.content_blacklist",
	"recommend_components":     "engine.vectorizer.components",
	"recommend_max_features":   "engine.vectorizer.max_features",
	"recommend_nlist":          "engine.index.nlist",
	"recommend_nprobe":         "engine.index.nprobe",
	"recommend_min_similarity": "engine.scoring.min_similarity",
	"recommend_tag_mode":       "engine.scoring.tag_mode",
	"recommend_rare_genres":    "engine.scoring.rare_genres",
	"recommend_genre_lambda":   "engine.diversity.genre_lambda",
	"recommend_default_n":      "engine.limits.default_n",
	"recommend_max_n":          "engine.limits.max_n",
	"recommend_cache_enabled":  "engine.cache.enabled",
	"recommend_cache_entries":  "engine.cache.max_entries",
	"recommend_init_attempts":  "engine.init.retry_attempts",
	"recommend_init_timeout":   "engine.init.timeout",
	"resolver_threshold":       "engine.resolver.threshold",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - RECOMMEND_NLIST -> engine.index.nlist
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
