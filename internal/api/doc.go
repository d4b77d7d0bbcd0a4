// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

/*
Package api exposes the NutriCoach engine over HTTP using the chi router.

Every response uses the models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "..."}}
	{"status": "error", "data": null, "error": {"code": "NOT_FOUND", "message": "..."}}

Routes (all under /api/v1):

	GET  /health
	GET  /users/{userID}/recommendations        ?type=&priority=&limit=&location=&meal_type=
	GET  /users/{userID}/recommendations/today  ?n=
	GET  /users/{userID}/recommendations/history ?limit=
	POST /users/{userID}/recommendations/check-new
	POST /users/{userID}/recommendations/{id}/read
	POST /users/{userID}/recommendations/{id}/applied
	GET  /users/{userID}/scenario
	POST /users/{userID}/goals, GET /users/{userID}/goals
	POST /users/{userID}/records
	POST /users/{userID}/plans, GET /users/{userID}/plans, GET /users/{userID}/plans/stats
	GET  /plans/{planID}
	POST /plans/{planID}/{activate|pause|resume|complete|cancel}
	POST /plans/{planID}/progress
	POST /plans/{planID}/weeks/{week}/complete
	GET  /users/{userID}/achievements, POST /users/{userID}/achievements/evaluate
	GET  /users/{userID}/level
	GET  /users/{userID}/challenges
	POST /users/{userID}/challenges/daily, POST /users/{userID}/challenges/weekly
	POST /challenges/{id}/progress, POST /challenges/{id}/complete

GET /metrics serves Prometheus metrics outside the versioned API.

Mutations of one plan, challenge or user are serialized with a keyed mutex
so concurrent requests for the same entity apply in order while requests
for different entities proceed in parallel.
*/
package api
