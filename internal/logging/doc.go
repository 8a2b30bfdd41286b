// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

// Package logging provides zerolog-based structured logging for Gamescout.
//
// A process-wide logger is configured once at startup with Init and read
// through Logger or the level helpers. Long-lived components (the engine,
// the catalog store, HTTP handlers) derive a sub-logger with WithComponent
// and keep it, rather than calling the globals on hot paths.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logger := logging.WithComponent("catalog")
//	logger.Info().Int("records", n).Msg("catalog loaded")
//
// # Configuration
//
// Environment variables (through internal/config):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json or console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Request Scoping
//
// The API's request ID middleware stores the ID in the request context.
// Ctx returns a logger carrying it:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("search failed")
//
// # Supervisor Integration
//
// Suture reports service events through slog. SlogHandler forwards slog
// records to zerolog so supervisor events share the application's format:
//
//	handler := &sutureslog.Handler{Logger: slog.New(logging.NewSlogHandler())}
//
// # Thread Safety
//
// All functions are safe for concurrent use. Init may be called again to
// reconfigure the global logger.
package logging
