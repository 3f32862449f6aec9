// Package api provides the HTTP API layer for the scenario knowledge base.
//
// This package wires the reusable pkg/server package to the scenario domain:
// it loads the catalog, builds the search index, and registers the route
// handlers the scend daemon serves. Catalog authoring and export are not
// exposed over HTTP; use the scenctl CLI for those operations.
//
// # Usage
//
// To start the API server:
//
//	package main
//
//	import (
//	    "log"
//	    "github.com/kubescenarios/kubescenarios/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Architecture
//
// The API layer is responsible for:
//   - Configuring structured logging with application name and version
//   - Loading the scenario catalog and keeping it fresh (fsnotify watch on
//     SCENARIOS_DATA_DIR with debounced atomic swaps)
//   - Holding quiz sessions server-side so answers never precede grading
//   - Setting up route handlers and delegating lifecycle to pkg/server
//
// The pkg/server package handles:
//   - HTTP server setup and graceful shutdown
//   - Middleware (rate limiting, logging, metrics, panic recovery)
//   - Health and readiness endpoints
//   - Prometheus metrics
//
// # Endpoints
//
// Application Endpoints (with rate limiting):
//   - GET  /v1/scenarios           - List scenario summaries (filterable)
//   - GET  /v1/scenarios/{id}      - Full scenario document as JSON
//   - GET  /v1/scenarios/{id}/html - Scenario rendered as HTML
//   - GET  /v1/search              - Full-text search over the catalog
//   - GET  /v1/lint                - Lint report for the served catalog
//   - POST /v1/quizzes             - Create a quiz session
//   - POST /v1/quizzes/{id}/grade  - Grade and consume a quiz session
//
// System Endpoints (no rate limiting):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
//
// # Query Parameters (GET /v1/scenarios)
//
//   - category: scenario category (networking, workloads, storage,
//     configuration, security, scheduling, operations, observability, any)
//   - difficulty: beginner, intermediate, advanced, any
//   - kind: Kubernetes object kind (e.g. Service, Deployment)
//   - k8s: cluster version; scenarios requiring newer minimums are dropped
//   - keyword: front matter keyword
//
// # Query Parameters (GET /v1/search)
//
//   - q: search terms (required)
//   - limit: maximum hits to return (default 10, capped at 100)
//
// # Request Body (POST /v1/quizzes)
//
// Quiz creation accepts parameters in the request body as JSON
// (application/json) or YAML (application/x-yaml). An empty body builds a
// default five-question quiz over all categories.
//
//	count: 3
//	category: networking
//	seed: 42
//
// Grading accepts the session's responses keyed by question id:
//
//	curl -X POST http://localhost:8080/v1/quizzes/<sessionId>/grade \
//	  -H "Content-Type: application/json" \
//	  -d '{"responses": {"1": 2, "2": 0, "3": 1}}'
//
// # Configuration
//
// The server is configured via environment variables:
//   - PORT: HTTP server port (default: 8080)
//   - LOG_LEVEL: Logging level (debug, info, warn, error)
//   - SCENARIOS_DATA_DIR: external scenario directory layered over the
//     embedded catalog, watched for changes
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/kubescenarios/kubescenarios/pkg/api.version=1.0.0'"
package api
