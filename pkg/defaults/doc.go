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

// Package defaults provides centralized configuration constants for kubescenarios.
//
// This package defines timeout values, TTLs, and other configuration defaults
// used across the codebase. Centralizing these values ensures consistency
// and makes tuning easier.
//
// # Timeout Categories
//
// Timeouts are organized by component:
//
//   - Catalog timeouts: For document loading and hot reload
//   - Handler timeouts: For HTTP request processing
//   - Server timeouts: For HTTP server configuration
//   - HTTP client timeouts: For outbound HTTP requests
//   - CLI timeouts: For command-line operations
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/kubescenarios/kubescenarios/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CatalogLoadTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
// When choosing timeout values:
//
//   - Catalog loads: 10s default, respects parent context deadline
//   - HTTP handlers: 30s for scenario reads, 60s for lint runs
//   - Server shutdown: 30s for graceful shutdown
//   - Quiz sessions: 30m gradable window
package defaults
