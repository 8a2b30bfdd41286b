// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

/*
Package services adapts gamescout components to suture's Serve(ctx) model.

# Available Services

Engine (EngineService):
  - Initializes the recommendation engine when first started
  - Rebuilds on a fixed refresh interval, if configured
  - Accepts coalesced rebuild requests through Trigger

HTTP API (HTTPService):
  - Runs an *http.Server until the serve context is canceled
  - Drains connections for a bounded shutdown timeout
  - Returns listener failures so the supervisor restarts it

# Usage

	engineSvc := services.NewEngineService(engine, services.EngineServiceConfig{
	    RefreshInterval: cfg.Catalog.RefreshInterval,
	}, logging.Logger())
	tree.AddEngineService(engineSvc)

	server := &http.Server{Addr: cfg.Server.Addr(), Handler: router}
	tree.AddAPIService(services.NewHTTPService(server, server.Addr, cfg.Server.ShutdownTimeout, logging.Logger()))

Every service implements fmt.Stringer so supervisor events name it.
*/
package services
