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

// Package search provides full-text search over a loaded scenario catalog.
//
// An Index is built once from the catalog's scenarios and is immutable
// afterwards, so it is safe for concurrent queries. Terms are Unicode
// case-folded and matched against an inverted index with per-field weights
// (a hit in the title outranks the same hit in the body). When a query term
// matches nothing, Suggest proposes the closest vocabulary term by edit
// distance for "did you mean" responses.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/kubescenarios/kubescenarios/pkg/scenario"
)

// Field weights. A title hit is worth five body hits.
const (
	weightTitle   = 5.0
	weightKeyword = 4.0
	weightKind    = 3.0
	weightSummary = 2.0
	weightBody    = 1.0
)

// maxSuggestDistance is the largest edit distance Suggest will bridge.
const maxSuggestDistance = 2

// DefaultLimit caps result counts when the caller does not.
const DefaultLimit = 10

// stopWords are dropped during tokenization. Deliberately small: scenario
// text is technical and most words carry signal.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "the": true,
	"to": true, "with": true,
}

// Hit is a single search result.
type Hit struct {
	// ID is the matching scenario id.
	ID string `json:"id" yaml:"id"`

	// Title is the scenario title.
	Title string `json:"title" yaml:"title"`

	// Score is the accumulated field-weighted relevance.
	Score float64 `json:"score" yaml:"score"`

	// Fragment is a short excerpt for result lists.
	Fragment string `json:"fragment,omitempty" yaml:"fragment,omitempty"`
}

// Index is an immutable inverted index over scenario text.
type Index struct {
	postings map[string]map[string]float64 // term -> id -> weight
	docFreq  map[string]int                // term -> number of docs
	titles   map[string]string             // id -> title
	excerpts map[string]string             // id -> fragment source
	vocab    []string                      // sorted terms
}

// NewIndex builds an index over the given scenarios.
func NewIndex(scenarios []*scenario.Scenario) *Index {
	ix := &Index{
		postings: make(map[string]map[string]float64),
		docFreq:  make(map[string]int),
		titles:   make(map[string]string, len(scenarios)),
		excerpts: make(map[string]string, len(scenarios)),
	}

	for _, s := range scenarios {
		ix.titles[s.ID] = s.Title
		ix.excerpts[s.ID] = excerpt(s)

		ix.add(s.ID, s.Title, weightTitle)
		for _, kw := range s.Keywords {
			ix.add(s.ID, kw, weightKeyword)
		}
		for _, k := range s.Kinds {
			ix.add(s.ID, k, weightKind)
		}
		ix.add(s.ID, s.Summary, weightSummary)
		ix.add(s.ID, s.Body, weightBody)
	}

	ix.vocab = make([]string, 0, len(ix.postings))
	for term, docs := range ix.postings {
		ix.vocab = append(ix.vocab, term)
		ix.docFreq[term] = len(docs)
	}
	sort.Strings(ix.vocab)

	return ix
}

// add tokenizes text and records each term against id with the field weight.
// Repeated terms within one field accumulate, so a body that mentions
// "ingress" five times outranks a body that mentions it once.
func (ix *Index) add(id, text string, weight float64) {
	for _, term := range Tokenize(text) {
		docs, ok := ix.postings[term]
		if !ok {
			docs = make(map[string]float64)
			ix.postings[term] = docs
		}
		docs[id] += weight
	}
}

// Search returns scenarios matching the query, best first. Results are
// ordered by score descending with id ascending as the tiebreak, so equal
// inputs always produce equal output. A non-positive limit applies
// DefaultLimit.
func (ix *Index) Search(query string, limit int) []Hit {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	scores := make(map[string]float64)
	matched := make(map[string]int)
	for _, term := range terms {
		for id, w := range ix.postings[term] {
			scores[id] += w
			matched[id]++
		}
	}

	hits := make([]Hit, 0, len(scores))
	for id, score := range scores {
		// Docs matching more distinct query terms rank above docs that
		// match one term heavily.
		score *= float64(matched[id])
		hits = append(hits, Hit{
			ID:       id,
			Title:    ix.titles[id],
			Score:    score,
			Fragment: ix.excerpts[id],
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Suggest returns the closest vocabulary term within maxSuggestDistance
// edits of term, preferring terms that appear in more documents. The second
// return is false when nothing is close enough or the term is already known.
func (ix *Index) Suggest(term string) (string, bool) {
	term = Fold(term)
	if term == "" {
		return "", false
	}
	if _, known := ix.postings[term]; known {
		return "", false
	}

	best := ""
	bestDist := maxSuggestDistance + 1
	bestFreq := 0
	for _, candidate := range ix.vocab {
		// Length difference is a lower bound on edit distance.
		if diff := len(candidate) - len(term); diff > maxSuggestDistance || diff < -maxSuggestDistance {
			continue
		}
		dist := levenshtein.ComputeDistance(term, candidate)
		if dist > maxSuggestDistance {
			continue
		}
		freq := ix.docFreq[candidate]
		if dist < bestDist || (dist == bestDist && freq > bestFreq) {
			best = candidate
			bestDist = dist
			bestFreq = freq
		}
	}

	return best, best != ""
}

// DidYouMean rewrites a query whose terms missed the index. Known terms are
// kept; unknown terms are replaced with their closest suggestion. It returns
// false when every term is already known (no rewrite needed) or some unknown
// term has no close neighbor (no useful rewrite exists).
func (ix *Index) DidYouMean(query string) (string, bool) {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return "", false
	}

	rewritten := make([]string, 0, len(terms))
	replaced := false
	for _, term := range terms {
		if _, known := ix.postings[term]; known {
			rewritten = append(rewritten, term)
			continue
		}
		suggestion, ok := ix.Suggest(term)
		if !ok {
			return "", false
		}
		rewritten = append(rewritten, suggestion)
		replaced = true
	}

	if !replaced {
		return "", false
	}
	return strings.Join(rewritten, " "), true
}

// Terms returns the vocabulary size.
func (ix *Index) Terms() int {
	return len(ix.vocab)
}

// Fold normalizes a string for matching using Unicode case folding.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Tokenize splits text into folded index terms, dropping stop words and
// single-rune fragments.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// excerpt picks the fragment shown in result lists: the summary when
// present, otherwise the start of the problem statement.
func excerpt(s *scenario.Scenario) string {
	if s.Summary != "" {
		return s.Summary
	}
	const max = 140
	problem := strings.TrimSpace(s.Problem)
	if len(problem) <= max {
		return problem
	}
	cut := strings.LastIndexByte(problem[:max], ' ')
	if cut <= 0 {
		cut = max
	}
	return problem[:cut] + "…"
}
