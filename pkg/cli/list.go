/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kubescenarios/kubescenarios/pkg/scenario"
	ver "github.com/kubescenarios/kubescenarios/pkg/version"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:                  "list",
		EnableShellCompletion: true,
		Usage:                 "List catalog scenarios",
		Description: `List scenario summaries from the catalog, optionally filtered.

Filters combine with AND semantics: a scenario must match every filter
to be listed. The --k8s filter keeps scenarios whose minimum Kubernetes
version is at or below the given version, plus scenarios that declare
no minimum.

# Examples

List everything:
  scenctl list

Networking scenarios for beginners:
  scenctl list --category networking --difficulty beginner

Scenarios that touch Deployments and apply to Kubernetes 1.27:
  scenctl list --kind Deployment --k8s 1.27

Keyword filter over titles, keywords, and summaries:
  scenctl list --keyword probe --format json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: fmt.Sprintf("Filter by category, one of: %v", scenario.SupportedCategories()),
			},
			&cli.StringFlag{
				Name:  "difficulty",
				Usage: fmt.Sprintf("Filter by difficulty, one of: %v", scenario.SupportedDifficulties()),
			},
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Filter by Kubernetes resource kind (e.g. Deployment, Ingress)",
			},
			&cli.StringFlag{
				Name:  "k8s",
				Usage: "Filter by Kubernetes version the cluster runs (e.g. 1.27)",
			},
			&cli.StringFlag{
				Name:  "keyword",
				Usage: "Filter by keyword over titles, keywords, and summaries",
			},
			dataFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			q, err := buildQueryFromCmd(cmd)
			if err != nil {
				return fmt.Errorf("error parsing list filter: %w", err)
			}

			cat, err := loadCatalog(ctx, cmd)
			if err != nil {
				return err
			}

			scenarios := cat.List(q)
			summaries := make([]scenario.Summary, 0, len(scenarios))
			for _, s := range scenarios {
				summaries = append(summaries, s.Summarize())
			}

			slog.Debug("list completed", "filter", q.String(), "matched", len(summaries))

			return writeResult(ctx, cmd, summaries)
		},
	}
}

// buildQueryFromCmd constructs a scenario.Query from CLI flags.
func buildQueryFromCmd(cmd *cli.Command) (*scenario.Query, error) {
	q := &scenario.Query{}

	if cat := cmd.String("category"); cat != "" {
		q.Category = scenario.Category(strings.ToLower(cat))
		if !q.Category.IsValid() {
			return nil, fmt.Errorf("category: %q, supported values: %v", cat, scenario.SupportedCategories())
		}
	}
	if diff := cmd.String("difficulty"); diff != "" {
		q.Difficulty = scenario.Difficulty(strings.ToLower(diff))
		if !q.Difficulty.IsValid() {
			return nil, fmt.Errorf("difficulty: %q, supported values: %v", diff, scenario.SupportedDifficulties())
		}
	}
	if kind := cmd.String("kind"); kind != "" {
		q.Kind = strings.TrimSpace(kind)
	}
	if k8s := cmd.String("k8s"); k8s != "" {
		v, err := ver.ParseVersion(k8s)
		if err != nil {
			if errors.Is(err, ver.ErrNegativeComponent) {
				return nil, fmt.Errorf("kubernetes version cannot contain negative numbers: %s", k8s)
			}
			return nil, fmt.Errorf("invalid kubernetes version %q: %w", k8s, err)
		}
		q.K8s = &v
	}
	if keyword := cmd.String("keyword"); keyword != "" {
		q.Keyword = strings.TrimSpace(keyword)
	}

	return q, nil
}
