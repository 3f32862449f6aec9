/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/

package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubescenarios/kubescenarios/pkg/catalog"
	"github.com/kubescenarios/kubescenarios/pkg/header"
	"github.com/kubescenarios/kubescenarios/pkg/scenario"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(context.Background(), catalog.Options{})
	require.NoError(t, err)
	return cat
}

func TestBuildReproducible(t *testing.T) {
	cat := loadCatalog(t)
	b := New(WithVersion("test"))
	params := Params{Count: 6, Seed: 42, IncludeAnswers: true}

	first, err := b.Build(context.Background(), cat, params)
	require.NoError(t, err)
	second, err := b.Build(context.Background(), cat, params)
	require.NoError(t, err)

	assert.Equal(t, first.Seed, second.Seed)
	assert.Equal(t, first.Questions, second.Questions)
}

func TestBuildQuestionShape(t *testing.T) {
	cat := loadCatalog(t)
	sheet, err := New().Build(context.Background(), cat, Params{
		Count:          5,
		Seed:           7,
		IncludeAnswers: true,
	})
	require.NoError(t, err)
	require.Len(t, sheet.Questions, 5)

	assert.Equal(t, header.KindQuizSheet, sheet.Kind)
	assert.True(t, sheet.Answered())

	seen := make(map[string]bool)
	for i, q := range sheet.Questions {
		assert.Equal(t, i+1, q.ID)
		assert.NotEmpty(t, q.Prompt)
		assert.Len(t, q.Options, 4)
		require.NotNil(t, q.Answer)
		require.True(t, *q.Answer >= 0 && *q.Answer < len(q.Options))

		// The correct option is the source scenario's title.
		s, ok := cat.Get(q.ScenarioID)
		require.True(t, ok, "scenario %s not in catalog", q.ScenarioID)
		assert.Equal(t, s.Title, q.Options[*q.Answer])
		assert.Equal(t, s.Summary, q.Explanation)

		// No scenario is asked twice.
		assert.False(t, seen[q.ScenarioID], "scenario %s repeated", q.ScenarioID)
		seen[q.ScenarioID] = true

		// Options are distinct.
		opts := make(map[string]bool)
		for _, o := range q.Options {
			assert.False(t, opts[o], "duplicate option %q", o)
			opts[o] = true
		}
	}
}

func TestBuildDefaultsAndClamping(t *testing.T) {
	cat := loadCatalog(t)
	b := New()

	sheet, err := b.Build(context.Background(), cat, Params{Seed: 1, IncludeAnswers: true})
	require.NoError(t, err)
	assert.Len(t, sheet.Questions, DefaultQuestionCount)

	sheet, err = b.Build(context.Background(), cat, Params{Count: 500, Seed: 1, IncludeAnswers: true})
	require.NoError(t, err)
	assert.Len(t, sheet.Questions, cat.Len())
}

func TestBuildCategoryFilter(t *testing.T) {
	cat := loadCatalog(t)
	sheet, err := New().Build(context.Background(), cat, Params{
		Count:          10,
		Category:       scenario.CategoryWorkloads,
		Seed:           3,
		IncludeAnswers: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, sheet.Questions)
	assert.Equal(t, scenario.CategoryWorkloads, sheet.Category)

	for _, q := range sheet.Questions {
		s, ok := cat.Get(q.ScenarioID)
		require.True(t, ok)
		assert.Equal(t, scenario.CategoryWorkloads, s.Category)
	}
}

func TestBuildPoolTooSmall(t *testing.T) {
	cat := loadCatalog(t)

	// Only one storage scenario ships, so no distractors exist.
	_, err := New().Build(context.Background(), cat, Params{Category: scenario.CategoryStorage})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2")
}

func TestBuildInvalidInputs(t *testing.T) {
	cat := loadCatalog(t)
	b := New()

	_, err := b.Build(context.Background(), nil, Params{})
	require.Error(t, err)

	_, err = b.Build(context.Background(), cat, Params{Category: scenario.Category("bogus")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestBuildCanceledContext(t *testing.T) {
	cat := loadCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Build(ctx, cat, Params{Seed: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildRedactsByDefault(t *testing.T) {
	cat := loadCatalog(t)
	sheet, err := New().Build(context.Background(), cat, Params{Count: 3, Seed: 9})
	require.NoError(t, err)

	assert.False(t, sheet.Answered())
	for _, q := range sheet.Questions {
		assert.Nil(t, q.Answer)
		assert.Empty(t, q.Explanation)
	}
}

func TestSheetKey(t *testing.T) {
	cat := loadCatalog(t)
	sheet, err := New().Build(context.Background(), cat, Params{Count: 3, Seed: 9, IncludeAnswers: true})
	require.NoError(t, err)

	key, ok := sheet.Key()
	require.True(t, ok)
	assert.Equal(t, header.KindQuizKey, key.Kind)
	assert.Equal(t, sheet.Seed, key.Seed)
	assert.Len(t, key.Answers, 3)
	for _, q := range sheet.Questions {
		assert.Equal(t, *q.Answer, key.Answers[q.ID])
	}

	_, ok = sheet.Redact().Key()
	assert.False(t, ok)
}

func TestGrade(t *testing.T) {
	cat := loadCatalog(t)
	sheet, err := New(WithVersion("test")).Build(context.Background(), cat, Params{
		Count:          4,
		Seed:           11,
		IncludeAnswers: true,
	})
	require.NoError(t, err)

	responses := make(map[int]int, len(sheet.Questions))
	for _, q := range sheet.Questions {
		responses[q.ID] = *q.Answer
	}

	// Flip one answer wrong, leave one unanswered.
	wrongID := sheet.Questions[0].ID
	responses[wrongID] = (*sheet.Questions[0].Answer + 1) % len(sheet.Questions[0].Options)
	missingID := sheet.Questions[1].ID
	delete(responses, missingID)

	result, err := Grade(sheet, responses)
	require.NoError(t, err)

	assert.Equal(t, header.KindQuizResult, result.Kind)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, result.Correct)
	assert.Equal(t, 50.0, result.Score)
	assert.Equal(t, sheet.Seed, result.Seed)

	for _, qr := range result.Questions {
		switch qr.ID {
		case wrongID:
			assert.False(t, qr.Correct)
			assert.NotEqual(t, qr.Expected, qr.Got)
			assert.NotEmpty(t, qr.GotOption)
		case missingID:
			assert.False(t, qr.Correct)
			assert.Equal(t, -1, qr.Got)
			assert.Empty(t, qr.GotOption)
		default:
			assert.True(t, qr.Correct)
			assert.Equal(t, qr.ExpectedOption, qr.GotOption)
		}
	}
}

func TestGradePerfectScore(t *testing.T) {
	cat := loadCatalog(t)
	sheet, err := New().Build(context.Background(), cat, Params{Count: 3, Seed: 2, IncludeAnswers: true})
	require.NoError(t, err)

	responses := make(map[int]int)
	for _, q := range sheet.Questions {
		responses[q.ID] = *q.Answer
	}

	result, err := Grade(sheet, responses)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, result.Total, result.Correct)
}

func TestGradeInvalidInputs(t *testing.T) {
	cat := loadCatalog(t)

	_, err := Grade(nil, nil)
	require.Error(t, err)

	_, err = Grade(&Sheet{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no questions")

	sheet, err := New().Build(context.Background(), cat, Params{Count: 2, Seed: 5})
	require.NoError(t, err)
	_, err = Grade(sheet, map[int]int{1: 0, 2: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not include answers")
}
