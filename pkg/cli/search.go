/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/kubescenarios/kubescenarios/pkg/search"
)

// searchOutput is the serialized result of a search command run.
type searchOutput struct {
	Query      string       `json:"query" yaml:"query"`
	Total      int          `json:"total" yaml:"total"`
	Hits       []search.Hit `json:"hits" yaml:"hits"`
	Suggestion string       `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

func searchCmd() *cli.Command {
	return &cli.Command{
		Name:                  "search",
		EnableShellCompletion: true,
		Usage:                 "Search scenarios by free-text terms",
		ArgsUsage:             "<term> [term...]",
		Description: `Search the catalog with free-text terms and rank scenarios by relevance.

Terms are matched case-insensitively against titles, keywords, resource
kinds, summaries, and document bodies, with title matches weighted
highest. Each hit carries a score and a short fragment showing the match
in context. When nothing matches, the command suggests the closest
spelling it knows.

# Examples

Find ingress routing problems:
  scenctl search ingress 404

Top three matches as JSON:
  scenctl search crashloop --limit 3 --format json

Search an external document set:
  scenctl search quota --data ./my-scenarios`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of hits to return",
				Value: search.DefaultLimit,
			},
			dataFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			terms := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
			if terms == "" {
				return fmt.Errorf("search requires at least one term (e.g. %s search ingress 404)", name)
			}

			limit := cmd.Int("limit")
			if limit < 1 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}

			cat, err := loadCatalog(ctx, cmd)
			if err != nil {
				return err
			}

			index := search.NewIndex(cat.Scenarios())
			hits := index.Search(terms, limit)

			out := searchOutput{
				Query: terms,
				Total: len(hits),
				Hits:  hits,
			}
			if len(hits) == 0 {
				out.Hits = []search.Hit{}
				if suggestion, ok := index.DidYouMean(terms); ok {
					out.Suggestion = suggestion
					fmt.Fprintln(os.Stderr, color.YellowString("No results for %q. Did you mean %q?", terms, suggestion))
				}
			}

			slog.Debug("search completed", "query", terms, "hits", len(hits))

			return writeResult(ctx, cmd, out)
		},
	}
}
