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

// Package lint provides editorial validation of scenario documents.
//
// # Overview
//
// The lint package evaluates a fixed set of rules against scenario documents
// and the catalog registry: front matter completeness, section structure,
// YAML and shell snippet hygiene, Kubernetes version sanity, and registry
// coverage. It is what keeps the catalog publishable: CI runs it over the
// embedded data, and authors run it over external catalogs before layering
// them onto a server.
//
// # Rules
//
// Each rule has a stable id and a severity:
//
//	front-matter        error    required fields, valid enums, id matches file name
//	heading-structure   error    one Scenario and one Solution section, in order
//	yaml-snippets       error    every yaml fence parses
//	manifest-fields     error    kind and apiVersion declared together
//	shell-snippets      warning  non-empty, no TODO placeholders
//	kubernetes-version  warning  plausible version when present
//	registry            error    registry and documents cover each other, unique ids
//
// Failed error rules fail the report. Failed warnings or skipped rules
// demote it to partial.
//
// # Usage
//
// Lint the active catalog:
//
//	l := lint.New(lint.WithVersion("v1.2.3"))
//	report, err := l.Run(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Status: %s\n", report.Summary.Status)
//	for _, f := range report.Failures() {
//	    fmt.Printf("  %s %s: %s\n", f.Rule, f.Document, f.Message)
//	}
//
// Rule violations are reported as findings, never as errors; Run returns an
// error only when the context is canceled or the target cannot be read at
// all.
package lint
