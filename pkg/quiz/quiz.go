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

// Package quiz turns the scenario catalog into multiple-choice quizzes.
//
// A Builder draws scenarios from a catalog, uses each scenario's problem
// statement as the question prompt and its title as the correct option, and
// fills the remaining options with titles of other scenarios in the pool.
// Sheets are reproducible: the same catalog, parameters, and seed always
// yield the same sheet. Grade scores a set of responses against an answered
// sheet.
package quiz

import (
	"github.com/kubescenarios/kubescenarios/pkg/header"
	"github.com/kubescenarios/kubescenarios/pkg/scenario"
)

const (
	// APIVersion is the API version for quiz artifacts.
	APIVersion = "kubescenarios.dev/v1alpha1"
)

// Question is one multiple-choice question on a sheet.
type Question struct {
	// ID is the 1-based question number.
	ID int `json:"id" yaml:"id"`

	// Prompt is the scenario's problem statement.
	Prompt string `json:"prompt" yaml:"prompt"`

	// Options are the candidate solutions (scenario titles), one correct.
	Options []string `json:"options" yaml:"options"`

	// Answer is the index of the correct option. Nil on redacted sheets.
	Answer *int `json:"answer,omitempty" yaml:"answer,omitempty"`

	// ScenarioID names the scenario the question was drawn from.
	ScenarioID string `json:"scenarioId" yaml:"scenarioId"`

	// Explanation is the scenario summary, shown after grading.
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Sheet is a generated quiz.
type Sheet struct {
	header.Header `json:",inline" yaml:",inline"`

	// Seed is the random seed the sheet was generated with. The same
	// catalog, parameters, and seed reproduce the same sheet.
	Seed int64 `json:"seed" yaml:"seed"`

	// Category is the category filter used, if any.
	Category scenario.Category `json:"category,omitempty" yaml:"category,omitempty"`

	// Questions are the sheet's questions in presentation order.
	Questions []Question `json:"questions" yaml:"questions"`
}

// Answered reports whether every question carries its answer.
func (s *Sheet) Answered() bool {
	for _, q := range s.Questions {
		if q.Answer == nil {
			return false
		}
	}
	return len(s.Questions) > 0
}

// Redact returns a copy of the sheet with answers and explanations removed,
// suitable for handing to quiz takers.
func (s *Sheet) Redact() *Sheet {
	out := &Sheet{
		Header:    s.Header,
		Seed:      s.Seed,
		Category:  s.Category,
		Questions: make([]Question, len(s.Questions)),
	}
	copy(out.Questions, s.Questions)
	for i := range out.Questions {
		out.Questions[i].Answer = nil
		out.Questions[i].Explanation = ""
	}
	return out
}

// Key is the answers-only companion to a redacted sheet.
type Key struct {
	header.Header `json:",inline" yaml:",inline"`

	// Seed identifies the sheet the key belongs to.
	Seed int64 `json:"seed" yaml:"seed"`

	// Answers maps question id to the correct option index.
	Answers map[int]int `json:"answers" yaml:"answers"`
}

// Key extracts the answer key from an answered sheet. The second return is
// false when the sheet is redacted.
func (s *Sheet) Key() (*Key, bool) {
	if !s.Answered() {
		return nil, false
	}

	k := &Key{
		Seed:    s.Seed,
		Answers: make(map[int]int, len(s.Questions)),
	}
	k.Header = s.Header
	k.Header.Kind = header.KindQuizKey
	for _, q := range s.Questions {
		k.Answers[q.ID] = *q.Answer
	}
	return k, true
}
