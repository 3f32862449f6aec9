/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/

package quiz

import (
	"fmt"
	"log/slog"

	apperrors "github.com/kubescenarios/kubescenarios/pkg/errors"
	"github.com/kubescenarios/kubescenarios/pkg/header"
)

// QuestionResult is the graded outcome of one question.
type QuestionResult struct {
	// ID is the question number.
	ID int `json:"id" yaml:"id"`

	// ScenarioID names the scenario the question was drawn from.
	ScenarioID string `json:"scenarioId" yaml:"scenarioId"`

	// Expected is the correct option index.
	Expected int `json:"expected" yaml:"expected"`

	// ExpectedOption is the correct option text.
	ExpectedOption string `json:"expectedOption" yaml:"expectedOption"`

	// Got is the chosen option index, -1 when unanswered.
	Got int `json:"got" yaml:"got"`

	// GotOption is the chosen option text, empty when unanswered or out
	// of range.
	GotOption string `json:"gotOption,omitempty" yaml:"gotOption,omitempty"`

	// Correct reports whether the response matched the answer.
	Correct bool `json:"correct" yaml:"correct"`

	// Explanation is the scenario summary, for review.
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Result is a graded sheet.
type Result struct {
	header.Header `json:",inline" yaml:",inline"`

	// Seed identifies the sheet that was graded.
	Seed int64 `json:"seed" yaml:"seed"`

	// Correct is the number of correct responses.
	Correct int `json:"correct" yaml:"correct"`

	// Total is the number of questions.
	Total int `json:"total" yaml:"total"`

	// Score is the percentage of correct responses.
	Score float64 `json:"score" yaml:"score"`

	// Questions holds per-question outcomes in sheet order.
	Questions []QuestionResult `json:"questions" yaml:"questions"`
}

// Grade scores responses against an answered sheet. Responses map question
// id to the chosen option index; missing entries count as unanswered and
// wrong. The sheet must carry its answers: redacted sheets cannot be graded.
func Grade(sheet *Sheet, responses map[int]int) (*Result, error) {
	if sheet == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "sheet cannot be nil")
	}
	if len(sheet.Questions) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "sheet has no questions")
	}
	if !sheet.Answered() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			"sheet does not include answers; grade the authored sheet, not the redacted copy")
	}

	result := &Result{
		Seed:      sheet.Seed,
		Total:     len(sheet.Questions),
		Questions: make([]QuestionResult, 0, len(sheet.Questions)),
	}
	result.Init(header.KindQuizResult, APIVersion, sheet.Metadata["version"])

	for _, q := range sheet.Questions {
		answer := *q.Answer
		if answer < 0 || answer >= len(q.Options) {
			return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("question %d answer index %d is out of range", q.ID, answer))
		}

		qr := QuestionResult{
			ID:             q.ID,
			ScenarioID:     q.ScenarioID,
			Expected:       answer,
			ExpectedOption: q.Options[answer],
			Got:            -1,
			Explanation:    q.Explanation,
		}

		if got, ok := responses[q.ID]; ok {
			qr.Got = got
			if got >= 0 && got < len(q.Options) {
				qr.GotOption = q.Options[got]
			}
			qr.Correct = got == answer
		}

		if qr.Correct {
			result.Correct++
		}
		result.Questions = append(result.Questions, qr)
	}

	result.Score = 100 * float64(result.Correct) / float64(result.Total)

	slog.Debug("quiz graded",
		"correct", result.Correct,
		"total", result.Total,
		"score", result.Score)

	return result, nil
}
