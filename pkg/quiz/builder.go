/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/

package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/kubescenarios/kubescenarios/pkg/catalog"
	apperrors "github.com/kubescenarios/kubescenarios/pkg/errors"
	"github.com/kubescenarios/kubescenarios/pkg/header"
	"github.com/kubescenarios/kubescenarios/pkg/scenario"
)

const (
	// DefaultQuestionCount is used when Params.Count is not positive.
	DefaultQuestionCount = 5

	// maxOptions is the option count per question, pool size permitting.
	maxOptions = 4
)

// Params controls sheet generation.
type Params struct {
	// Count is the number of questions. Non-positive means
	// DefaultQuestionCount; larger than the pool clamps to the pool.
	Count int `json:"count,omitempty" yaml:"count,omitempty"`

	// Category restricts the scenario pool. Empty or "any" means all.
	Category scenario.Category `json:"category,omitempty" yaml:"category,omitempty"`

	// Seed makes sheets reproducible. Zero picks a time-based seed; the
	// seed actually used is recorded on the sheet either way.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// IncludeAnswers keeps answers and explanations on the returned
	// sheet. Leave false when the sheet goes straight to quiz takers.
	IncludeAnswers bool `json:"includeAnswers,omitempty" yaml:"includeAnswers,omitempty"`
}

// Builder generates quiz sheets from a catalog.
type Builder struct {
	// Version is the builder version (typically the CLI version).
	Version string
}

// Option is a functional option for configuring Builder instances.
type Option func(*Builder)

// WithVersion returns an Option that sets the Builder version string.
func WithVersion(version string) Option {
	return func(b *Builder) {
		b.Version = version
	}
}

// New creates a new Builder with the provided options.
func New(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build generates a quiz sheet from the catalog. Each selected scenario
// contributes one question: its problem statement as the prompt, its title
// as the correct option, and titles of other scenarios in the pool as
// distractors.
func (b *Builder) Build(ctx context.Context, cat *catalog.Catalog, params Params) (*Sheet, error) {
	if cat == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "catalog cannot be nil")
	}
	if params.Category != "" && !params.Category.IsValid() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown category %q", params.Category))
	}

	pool := cat.List(&scenario.Query{Category: params.Category})
	if len(pool) < 2 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("quiz needs at least 2 matching scenarios, found %d", len(pool)))
	}

	count := params.Count
	if count <= 0 {
		count = DefaultQuestionCount
	}
	if count > len(pool) {
		count = len(pool)
	}

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	optionCount := maxOptions
	if len(pool) < optionCount {
		optionCount = len(pool)
	}

	sheet := &Sheet{
		Seed:      seed,
		Category:  params.Category,
		Questions: make([]Question, 0, count),
	}
	sheet.Init(header.KindQuizSheet, APIVersion, b.Version)

	order := rng.Perm(len(pool))
	for i := 0; i < count; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		sheet.Questions = append(sheet.Questions,
			buildQuestion(rng, pool, order[i], i+1, optionCount))
	}

	slog.Debug("quiz sheet built",
		"questions", len(sheet.Questions),
		"pool", len(pool),
		"seed", seed,
		"category", params.Category)

	if !params.IncludeAnswers {
		return sheet.Redact(), nil
	}
	return sheet, nil
}

// buildQuestion assembles one question around pool[correct].
func buildQuestion(rng *rand.Rand, pool []*scenario.Scenario, correct, id, optionCount int) Question {
	s := pool[correct]

	prompt := s.Problem
	if prompt == "" {
		prompt = s.Summary
	}

	options := make([]string, 0, optionCount)
	options = append(options, s.Title)

	others := make([]int, 0, len(pool)-1)
	for j := range pool {
		if j != correct {
			others = append(others, j)
		}
	}
	rng.Shuffle(len(others), func(a, b int) {
		others[a], others[b] = others[b], others[a]
	})
	for _, j := range others {
		if len(options) == optionCount {
			break
		}
		options = append(options, pool[j].Title)
	}

	rng.Shuffle(len(options), func(a, b int) {
		options[a], options[b] = options[b], options[a]
	})

	answer := 0
	for i, opt := range options {
		if opt == s.Title {
			answer = i
			break
		}
	}

	return Question{
		ID:          id,
		Prompt:      prompt,
		Options:     options,
		Answer:      &answer,
		ScenarioID:  s.ID,
		Explanation: s.Summary,
	}
}
