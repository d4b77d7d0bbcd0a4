// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

/*
Package main is the entry point for the NutriCoach server.

NutriCoach turns a user's food records, health goals and improvement plans
into a short ranked list of nutrition recommendations, and tracks plan
progress, achievements, points and challenges on top of them.

# Application Architecture

Services run under a Suture v4 supervisor tree:

	RootSupervisor ("nutricoach")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── Maintenance (challenge, recommendation and cache purges)
	│   └── Store GC (BadgerDB value log, on-disk stores only)
	├── EventsSupervisor ("events-layer")
	│   ├── Event log consumer (optional, notify.log_events)
	│   ├── WebSocket hub (optional, notify.stream_events)
	│   └── Event relay (notifier to hub)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with JSON or console output
 3. Store: BadgerDB repositories for goals, records, plans, recommendations
    and gamification state
 4. Snapshot aggregator and recommendation engine
 5. Plan tracker, progression and challenges, publishing on the event bus
 6. Supervisor tree and HTTP server

# Configuration

Sources, highest priority first:

	Environment variables > Config file > Defaults

Common environment variables:

	NUTRICOACH_SERVER_PORT=8080
	NUTRICOACH_LOGGING_LEVEL=info          # trace, debug, info, warn, error
	NUTRICOACH_LOGGING_FORMAT=json         # json or console
	NUTRICOACH_STORE_PATH=/data/nutricoach
	NUTRICOACH_STORE_IN_MEMORY=false
	NUTRICOACH_ENGINE_MAX_RESULTS=10
	NUTRICOACH_SECURITY_CORS_ORIGINS=https://app.example.com
	NUTRICOACH_NOTIFY_LOG_EVENTS=true

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests within server.shutdown_timeout, then the notifier and
the store are closed.
*/
package main
