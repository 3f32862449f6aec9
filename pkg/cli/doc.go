// Package cli implements the scenctl command-line interface for the
// Kubernetes troubleshooting scenario catalog.
//
// # Overview
//
// The scenctl CLI browses, searches, lints, quizzes on, and exports a
// catalog of Kubernetes "scenario and solution" documents. It is designed
// for platform teams that maintain troubleshooting runbooks and for
// engineers learning Kubernetes operations.
//
// # Commands
//
// list - List scenario summaries:
//
//	scenctl list [--category networking] [--difficulty beginner] [--kind Deployment] [--k8s 1.27] [--keyword probe]
//
// Lists scenario summaries, optionally filtered by category, difficulty,
// resource kind, Kubernetes version, or keyword. Filters combine with AND
// semantics.
//
// show - Show one scenario:
//
//	scenctl show <scenario-id> [--raw]
//
// Shows a single scenario document with its problem statement, solution
// walkthrough, and snippets. The --raw flag emits the original markdown.
//
// search - Rank scenarios by free-text relevance:
//
//	scenctl search <term> [term...] [--limit N]
//
// Searches titles, keywords, kinds, summaries, and bodies, returning scored
// hits with match fragments. Misspelled terms get a "did you mean"
// suggestion.
//
// lint - Check documents against the editorial rules:
//
//	scenctl lint [path...] [--rule ID] [--fail-on-error]
//
// Lints the catalog, a layered data directory, or explicit files. Findings
// are reported per rule and document; --fail-on-error makes error-severity
// failures fatal for CI.
//
// quiz - Generate and grade quizzes:
//
//	scenctl quiz new [--count N] [--category C] [--seed N] [--include-answers]
//	scenctl quiz grade --sheet FILE --responses FILE
//
// Builds reproducible multiple-choice sheets from the catalog and grades
// responses against answered sheets.
//
// export - Produce a distributable bundle:
//
//	scenctl export --output DIR
//	scenctl export --output oci://registry/repository[:tag]
//
// Exports every scenario plus a README index, registry manifest, and
// index.json to a directory, or packages and pushes the bundle as an OCI
// artifact.
//
// # Global Flags
//
//	--output, -o   Output file path or cm://namespace/name URI (default: stdout)
//	--format, -t   Output format: yaml, json, table (default: yaml)
//	--data         Scenario directory layered over the embedded catalog
//	--log-level    Logging verbosity: debug, info, warn, error
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Output Formats
//
// YAML (default):
//   - Human-readable, preserves structure
//   - Suitable for version control
//
// JSON:
//   - Machine-parseable, compact
//   - Suitable for programmatic consumption
//
// Table:
//   - Hierarchical text representation
//   - Suitable for terminal viewing
//
// # Usage Examples
//
// List networking scenarios as JSON:
//
//	scenctl list --category networking --format json
//
// Search for ingress routing problems:
//
//	scenctl search ingress 404 --limit 3
//
// Lint a document set before publishing:
//
//	scenctl lint --data ./my-scenarios --fail-on-error
//
// Publish the catalog to a registry:
//
//	scenctl export --output oci://ghcr.io/kubescenarios/catalog:v1.4.0
//
// # Environment Variables
//
//	LOG_LEVEL           Set logging verbosity (debug, info, warn, error)
//	SCENARIOS_DATA_DIR  Default value for --data
//	KUBECONFIG          Default kubeconfig path for cm:// URIs
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure, failed lint gate)
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized packages:
//   - pkg/catalog - Catalog loading and layering
//   - pkg/search - Relevance-ranked full-text search
//   - pkg/lint - Editorial rule checks
//   - pkg/quiz - Quiz generation and grading
//   - pkg/bundle - Bundle export
//   - pkg/oci - OCI packaging and push
//   - pkg/serializer - Output formatting
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/kubescenarios/kubescenarios/pkg/cli.version=1.0.0'"
package cli
