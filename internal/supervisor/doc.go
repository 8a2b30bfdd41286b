// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

/*
Package supervisor runs gamescout's long-lived services under a suture v4
supervision tree.

# Tree

	gamescout (root)
	├── engine-layer
	│   └── EngineService: initialize, scheduled and requested rebuilds
	└── api-layer
	    └── HTTPService: HTTP API with graceful drain

Each layer restarts its own failing services. Because the engine keeps
serving the previous generation while a rebuild runs or after one fails,
a crash in the engine layer does not interrupt the API.

# Usage

	tree, err := supervisor.NewSupervisorTree(slog.New(logging.NewSlogHandler()), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddEngineService(engineSvc)
	tree.AddAPIService(httpSvc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tree.Serve(ctx)

# Restart Behavior

Failures are counted with exponential decay (FailureDecay seconds). When
the count exceeds FailureThreshold the supervisor waits FailureBackoff
before the next restart. A service that returns nil is not restarted.

The catalog database is not supervised; it is an embedded library whose
connections live in the catalog package.

# Shutdown

Each service gets ShutdownTimeout to return after cancellation.
UnstoppedServiceReport lists the ones that did not.
*/
package supervisor
