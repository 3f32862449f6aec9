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

	"github.com/kubescenarios/kubescenarios/pkg/quiz"
	"github.com/kubescenarios/kubescenarios/pkg/scenario"
	"github.com/kubescenarios/kubescenarios/pkg/serializer"
)

// gradeSubmission is the on-disk shape of a responses file: question id to
// chosen option index.
type gradeSubmission struct {
	Responses map[int]int `json:"responses" yaml:"responses"`
}

func quizCmd() *cli.Command {
	return &cli.Command{
		Name:                  "quiz",
		EnableShellCompletion: true,
		Usage:                 "Generate and grade scenario quizzes",
		Description: `Generate multiple-choice quizzes from the scenario catalog and grade
completed ones. Each question presents a scenario's problem statement;
the options are solution summaries drawn from the catalog, one of which
belongs to the scenario.`,
		Commands: []*cli.Command{
			quizNewCmd(),
			quizGradeCmd(),
		},
		Action: commandLister,
	}
}

func quizNewCmd() *cli.Command {
	return &cli.Command{
		Name:                  "new",
		EnableShellCompletion: true,
		Usage:                 "Generate a quiz sheet",
		Description: `Generate a quiz sheet from the catalog.

Question selection and option shuffling are driven by the seed, so the
same seed over the same catalog reproduces the same sheet. By default
the sheet is redacted: answers and explanations are withheld so it can
be handed to a learner. Graders regenerate the answered sheet with the
same seed and --include-answers.

# Examples

Five questions over the whole catalog:
  scenctl quiz new

Three networking questions with answers, reproducibly:
  scenctl quiz new --count 3 --category networking --seed 42 --include-answers

Store a sheet in a ConfigMap for a workshop:
  scenctl quiz new --seed 7 --output cm://training/quiz-week1`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of questions on the sheet",
				Value: quiz.DefaultQuestionCount,
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: fmt.Sprintf("Restrict questions to one category, one of: %v", scenario.SupportedCategories()),
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Random seed for reproducible sheets (0 picks one)",
			},
			&cli.BoolFlag{
				Name:  "include-answers",
				Usage: "Keep answers and explanations on the sheet",
			},
			dataFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			params, err := buildQuizParams(cmd)
			if err != nil {
				return fmt.Errorf("error parsing quiz parameter: %w", err)
			}

			cat, err := loadCatalog(ctx, cmd)
			if err != nil {
				return err
			}

			sheet, err := quiz.New(quiz.WithVersion(version)).Build(ctx, cat, *params)
			if err != nil {
				return fmt.Errorf("error building quiz: %w", err)
			}

			slog.Debug("quiz built", "questions", len(sheet.Questions), "seed", sheet.Seed)

			if !params.IncludeAnswers {
				fmt.Fprintf(os.Stderr, "Answer key withheld. Regenerate with --seed %d --include-answers to grade.\n", sheet.Seed)
			}

			return writeResult(ctx, cmd, sheet)
		},
	}
}

func quizGradeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "grade",
		EnableShellCompletion: true,
		Usage:                 "Grade quiz responses against an answered sheet",
		Description: `Grade a set of responses against an answered quiz sheet.

The sheet must carry its answer key, i.e. it was generated with
--include-answers. The responses file maps question id to the chosen
option index (options count from 0):

  responses:
    1: 2
    2: 0

Both inputs accept file paths or cm://namespace/name ConfigMap URIs, so
sheets distributed through a cluster can be graded in place.

# Examples

Grade local files:
  scenctl quiz grade --sheet sheet.yaml --responses answers.yaml

Grade a submission stored in a ConfigMap:
  scenctl quiz grade --sheet cm://training/quiz-week1-key --responses cm://training/alice-answers`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "sheet",
				Aliases:  []string{"s"},
				Usage:    "Answered sheet: file path or cm://namespace/name URI",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "responses",
				Aliases:  []string{"r"},
				Usage:    "Responses: file path or cm://namespace/name URI",
				Required: true,
			},
			kubeconfigFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			kubeconfig := cmd.String("kubeconfig")

			sheetPath := cmd.String("sheet")
			slog.Debug("loading quiz sheet", "uri", sheetPath)
			sheet, err := serializer.FromFileWithKubeconfig[quiz.Sheet](sheetPath, kubeconfig)
			if err != nil {
				return fmt.Errorf("failed to load quiz sheet from %q: %w", sheetPath, err)
			}

			responsesPath := cmd.String("responses")
			slog.Debug("loading responses", "uri", responsesPath)
			submission, err := serializer.FromFileWithKubeconfig[gradeSubmission](responsesPath, kubeconfig)
			if err != nil {
				return fmt.Errorf("failed to load responses from %q: %w", responsesPath, err)
			}
			if len(submission.Responses) == 0 {
				return fmt.Errorf("responses file %q has no responses", responsesPath)
			}

			result, err := quiz.Grade(sheet, submission.Responses)
			if err != nil {
				return fmt.Errorf("grading failed: %w", err)
			}

			if err := writeResult(ctx, cmd, result); err != nil {
				return err
			}

			printQuizSummary(result)
			return nil
		},
	}
}

// buildQuizParams constructs quiz.Params from CLI flags.
func buildQuizParams(cmd *cli.Command) (*quiz.Params, error) {
	params := &quiz.Params{
		Count:          cmd.Int("count"),
		Seed:           cmd.Int64("seed"),
		IncludeAnswers: cmd.Bool("include-answers"),
	}

	if cat := cmd.String("category"); cat != "" {
		params.Category = scenario.Category(strings.ToLower(cat))
		if !params.Category.IsValid() {
			return nil, fmt.Errorf("category: %q, supported values: %v", cat, scenario.SupportedCategories())
		}
	}

	return params, nil
}

// printQuizSummary writes a one-line colored score to stderr, keeping it out
// of piped result output.
func printQuizSummary(result *quiz.Result) {
	score := fmt.Sprintf("%.0f%%", result.Score)
	switch {
	case result.Correct == result.Total:
		score = color.GreenString(score)
	case result.Score >= 50:
		score = color.YellowString(score)
	default:
		score = color.RedString(score)
	}

	fmt.Fprintf(os.Stderr, "Score: %s (%d/%d correct)\n", score, result.Correct, result.Total)
}
