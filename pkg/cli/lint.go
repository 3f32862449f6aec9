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
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/kubescenarios/kubescenarios/pkg/catalog"
	"github.com/kubescenarios/kubescenarios/pkg/defaults"
	"github.com/kubescenarios/kubescenarios/pkg/lint"
)

func lintCmd() *cli.Command {
	return &cli.Command{
		Name:                  "lint",
		EnableShellCompletion: true,
		Usage:                 "Lint scenario documents",
		ArgsUsage:             "[path...]",
		Description: `Lint scenario documents against the editorial rules: front matter
completeness, heading structure, YAML snippet validity, manifest field
pairing, shell snippet hygiene, Kubernetes version plausibility, and
registry coverage.

Without arguments the whole catalog is linted, including the registry
itself. With file arguments only those documents are checked; registry
coverage needs a catalog, so its rule is skipped for loose files.

Rule violations are findings in the report, not command errors. Use
--fail-on-error to exit non-zero when any error-severity rule fails,
for CI pipelines.

# Examples

Lint the embedded catalog:
  scenctl lint

Lint a local document set before publishing:
  scenctl lint --data ./my-scenarios --fail-on-error

Lint two files with only the snippet rules:
  scenctl lint --rule yaml-snippets --rule shell-snippets draft1.md draft2.md

Full report as JSON for tooling:
  scenctl lint --format json --output lint-report.json`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "rule",
				Usage: "Run only the named rule (can be repeated)",
			},
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit with an error when any error-severity rule fails",
			},
			dataFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, defaults.CLILintTimeout)
			defer cancel()

			ruleIDs, err := parseRuleFilter(cmd.StringSlice("rule"))
			if err != nil {
				return err
			}

			linter := lint.New(
				lint.WithVersion(version),
				lint.WithRules(ruleIDs...),
			)

			var report *lint.Report
			if paths := cmd.Args().Slice(); len(paths) > 0 {
				report, err = linter.RunFiles(ctx, paths)
			} else {
				var provider catalog.DataProvider
				if dir := cmd.String("data"); dir != "" {
					if provider, err = catalog.NewDefaultLayeredProvider(dir); err != nil {
						return fmt.Errorf("failed to layer data directory %q: %w", dir, err)
					}
				}
				report, err = linter.Run(ctx, provider)
			}
			if err != nil {
				return fmt.Errorf("lint failed: %w", err)
			}

			if err := writeResult(ctx, cmd, report); err != nil {
				return err
			}

			printLintSummary(report)

			if cmd.Bool("fail-on-error") && report.Summary.Status == lint.LintStatusFail {
				return fmt.Errorf("lint failed: %d finding(s) did not pass", report.Summary.Failed)
			}
			return nil
		},
	}
}

// parseRuleFilter validates --rule values against the built-in rule set.
func parseRuleFilter(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rules := lint.Rules()
	known := make(map[string]bool, len(rules))
	supported := make([]string, 0, len(rules))
	for _, r := range rules {
		known[r.ID] = true
		supported = append(supported, r.ID)
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if !known[id] {
			return nil, fmt.Errorf("rule: %q, supported values: %s", id, strings.Join(supported, ", "))
		}
		out = append(out, id)
	}
	return out, nil
}

// printLintSummary writes a one-line colored status to stderr, keeping it
// out of piped report output.
func printLintSummary(report *lint.Report) {
	var status string
	switch report.Summary.Status {
	case lint.LintStatusPass:
		status = color.GreenString("PASS")
	case lint.LintStatusPartial:
		status = color.YellowString("PARTIAL")
	default:
		status = color.RedString("FAIL")
	}

	fmt.Fprintf(os.Stderr, "%s: %d passed, %d failed, %d skipped in %v\n",
		status,
		report.Summary.Passed,
		report.Summary.Failed,
		report.Summary.Skipped,
		report.Summary.Duration.Round(time.Millisecond))
}
