// Copyright (c) 2025, The Kubescenarios Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server is the HTTP chassis for the Kubescenarios API daemon.
// Callers register route handlers; the server wraps each one in the shared
// middleware stack and owns the listener lifecycle.
//
//	s := server.New(
//		server.WithName("scend"),
//		server.WithVersion(version),
//		server.WithHandler(map[string]http.HandlerFunc{
//			"/v1/scenarios": h.HandleScenarios,
//		}),
//	)
//	err := s.Run(ctx) // blocks until SIGINT/SIGTERM
//
// The middleware gives every registered route, in order: Prometheus
// RED metrics, API version negotiation (Accept:
// application/vnd.kubescenarios.v1+json, echoed as X-API-Version),
// request IDs (X-Request-Id, generated when absent or malformed), panic
// recovery, token bucket rate limiting (golang.org/x/time/rate, state in
// X-RateLimit-* headers, rejections as 429 with Retry-After), and debug
// request logging.
//
// Three system routes bypass the stack: /health always answers 200 for
// the liveness probe, /ready flips between 200 and 503 with the server
// lifecycle for the readiness probe, and /metrics serves the Prometheus
// exposition format. A default root route lists all registered paths
// unless the caller claims "/" itself.
//
// Errors share one JSON envelope (ErrorResponse) carrying a code from
// pkg/errors, a message, optional details, the request ID, and a
// retryable hint. Handlers call WriteError directly or WriteErrorFromErr
// to derive everything from a structured error.
//
// Deployment knobs come from the environment: PORT moves the listener
// and SHUTDOWN_TIMEOUT_SECONDS bounds the graceful drain, which should
// match the pod termination grace period.
package server
