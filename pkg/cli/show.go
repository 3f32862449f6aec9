/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/urfave/cli/v3"

	"github.com/kubescenarios/kubescenarios/pkg/catalog"
)

// maxIDSuggestDistance bounds how far an id suggestion may be from the input.
const maxIDSuggestDistance = 3

func showCmd() *cli.Command {
	return &cli.Command{
		Name:                  "show",
		EnableShellCompletion: true,
		Usage:                 "Show a single scenario by id",
		ArgsUsage:             "<scenario-id>",
		Description: `Show one scenario document, including its problem statement, solution
walkthrough, and code snippets.

The default output is the parsed scenario in YAML, JSON, or table form.
Use --raw to emit the original markdown instead, for piping into pagers
or markdown renderers.

# Examples

Show a scenario as YAML:
  scenctl show service-loadbalancer

Raw markdown through a pager:
  scenctl show pod-crashloop --raw | less

Write the parsed form to a file:
  scenctl show hpa-cpu --format json --output hpa-cpu.json`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Emit the original markdown document instead of the parsed form",
			},
			dataFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("show requires a scenario id argument (e.g. %s show service-loadbalancer)", name)
			}
			if cmd.Args().Len() > 1 {
				return fmt.Errorf("show takes exactly one scenario id, got %d arguments", cmd.Args().Len())
			}

			cat, err := loadCatalog(ctx, cmd)
			if err != nil {
				return err
			}

			s, ok := cat.Get(id)
			if !ok {
				if closest, found := closestID(cat, id); found {
					return fmt.Errorf("scenario %q not found, did you mean %q?", id, closest)
				}
				return fmt.Errorf("scenario %q not found (run '%s list' to see available scenarios)", id, name)
			}

			if cmd.Bool("raw") {
				data, err := s.Markdown()
				if err != nil {
					return fmt.Errorf("failed to render scenario %q: %w", id, err)
				}
				return writeRaw(cmd.String("output"), data)
			}

			return writeResult(ctx, cmd, s)
		},
	}
}

// closestID returns the catalog id nearest to the input, within
// maxIDSuggestDistance edits.
func closestID(cat *catalog.Catalog, id string) (string, bool) {
	best := ""
	bestDist := maxIDSuggestDistance + 1
	for _, s := range cat.Scenarios() {
		d := levenshtein.ComputeDistance(strings.ToLower(id), s.ID)
		if d < bestDist {
			best = s.ID
			bestDist = d
		}
	}
	return best, bestDist <= maxIDSuggestDistance
}

// writeRaw writes already-rendered bytes to the output path, or stdout when
// the path is empty. Raw output bypasses the format serializers.
func writeRaw(path string, data []byte) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(trimmed, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", trimmed, err)
	}
	return nil
}
