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

package defaults

import "time"

// Catalog loading.
const (
	// CatalogLoadTimeout bounds a full catalog load, embedded documents and
	// external directory together. Loaders still honor a shorter parent
	// context deadline.
	CatalogLoadTimeout = 10 * time.Second

	// CatalogReloadDebounce is the quiet period after a filesystem event
	// before the watcher reloads an external catalog directory. Editors
	// fire several events per save; one reload should cover them all.
	CatalogReloadDebounce = 500 * time.Millisecond
)

// Request handling in the daemon.
const (
	// ScenarioHandlerTimeout bounds scenario reads and searches.
	ScenarioHandlerTimeout = 30 * time.Second

	// LintHandlerTimeout bounds lint report requests, which re-check every
	// document and therefore get twice the scenario budget.
	LintHandlerTimeout = 60 * time.Second

	// QuizSessionTTL is how long an open quiz session remains gradable.
	QuizSessionTTL = 30 * time.Minute

	// QuizSessionSweep is the eviction interval for expired quiz sessions.
	QuizSessionSweep = 5 * time.Minute

	// ScenarioCacheTTL is the max-age advertised on scenario responses.
	ScenarioCacheTTL = 5 * time.Minute
)

// HTTP server limits, applied to the daemon's listener.
const (
	// ServerReadTimeout caps reading an entire request, body included.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout caps the header read alone, cutting off
	// slow-header clients before they tie up a connection.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout caps writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is how long a keep-alive connection may sit between
	// requests.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the drain budget for graceful shutdown. Keep
	// it inside the pod termination grace period.
	ServerShutdownTimeout = 30 * time.Second
)

// Outbound HTTP, used when fetching catalog documents from URLs.
const (
	// HTTPClientTimeout caps one request end to end.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout caps dialing the remote host.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout caps the TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout caps the wait for response headers after
	// the request is written.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is how long pooled connections stay open unused.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the TCP keep-alive probe interval.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the wait for a 100 Continue before the
	// body is sent anyway.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// Kubernetes API calls.
const (
	// ConfigMapWriteTimeout bounds a ConfigMap apply. The client-go rate
	// limiter can hold the request first, so this is deliberately generous.
	ConfigMapWriteTimeout = 30 * time.Second
)

// Command-line operations.
const (
	// CLIExportTimeout bounds a catalog export, OCI push included.
	CLIExportTimeout = 5 * time.Minute

	// CLILintTimeout bounds a lint run over the whole catalog.
	CLILintTimeout = 2 * time.Minute
)
