// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

/*
Package supervisor runs NutriCoach's long-lived services under a suture v4
supervisor tree.

Services that panic or return an error are restarted with exponential
backoff. Each layer has its own supervisor so failures stay contained:

	nutricoach
	├── maintenance-layer  (services.MaintenanceService)
	├── events-layer       (services.EventLogService)
	└── api-layer          (services.HTTPServerService)

Supervisor events are logged through log/slog using sutureslog; main wires
the slog handler to zerolog via logging.NewSlogLogger.

Usage:

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMaintenanceService(services.NewMaintenanceService(time.Hour, logger, tasks...))
	tree.AddAPIService(services.NewHTTPServerService(srv, 15*time.Second, logger))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
