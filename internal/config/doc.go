// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

/*
Package config loads and validates the NutriCoach configuration.

# Sources

Configuration is layered with koanf. Later layers override earlier ones:

 1. Struct defaults (defaultConfig)
 2. A YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml or
    /etc/nutricoach/config.yaml
 3. Environment variables prefixed with NUTRICOACH_

Environment names map to config keys by dropping the prefix, lowercasing and
splitting section from key at the first underscore:

	NUTRICOACH_SERVER_PORT=9000          server.port
	NUTRICOACH_ENGINE_MAX_RESULTS=5      engine.max_results
	NUTRICOACH_STORE_IN_MEMORY=true      store.in_memory
	NUTRICOACH_SECURITY_CORS_ORIGINS=https://a.example,https://b.example

Durations accept Go syntax (30s, 10m). Slice values are comma separated.

# Example file

	server:
	  port: 8480
	  environment: production
	store:
	  path: /var/lib/nutricoach
	engine:
	  max_results: 8
	  cache_ttl: 5m
	  fetch_timeout: 1500ms
	plan:
	  daily_task_quota: 4
	security:
	  cors_origins: [https://app.example.com]

# Validation

Field constraints are validator tags checked through internal/validation.
Validate adds the rules that span fields: a positive cache TTL when caching
is enabled, today_limit within max_results, no wildcard CORS in production
and rate limit bounds.
*/
package config
