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

package lint

import (
	"time"

	"github.com/kubescenarios/kubescenarios/pkg/header"
)

// LintStatus represents the overall lint outcome.
type LintStatus string

const (
	// LintStatusPass indicates every rule passed.
	LintStatusPass LintStatus = "pass"

	// LintStatusFail indicates one or more error-severity rules failed.
	LintStatusFail LintStatus = "fail"

	// LintStatusPartial indicates only warnings failed or some rules
	// couldn't be evaluated.
	LintStatusPartial LintStatus = "partial"
)

// FindingStatus represents the outcome of one rule against one target.
type FindingStatus string

const (
	// FindingStatusPassed indicates the rule was satisfied.
	FindingStatusPassed FindingStatus = "passed"

	// FindingStatusFailed indicates the rule was not satisfied.
	FindingStatusFailed FindingStatus = "failed"

	// FindingStatusSkipped indicates the rule couldn't be evaluated.
	FindingStatusSkipped FindingStatus = "skipped"
)

// Report represents the complete lint outcome.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	// Target describes what was linted (embedded catalog, external dir,
	// or explicit files).
	Target string `json:"target" yaml:"target"`

	// Summary contains aggregate lint statistics.
	Summary Summary `json:"summary" yaml:"summary"`

	// Findings contains per-rule, per-document details.
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Summary contains aggregate statistics about the lint run.
type Summary struct {
	// Passed is the count of findings that were satisfied.
	Passed int `json:"passed" yaml:"passed"`

	// Failed is the count of findings that were not satisfied.
	Failed int `json:"failed" yaml:"failed"`

	// Skipped is the count of findings that couldn't be evaluated.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Total is the total number of findings.
	Total int `json:"total" yaml:"total"`

	// Status is the overall lint status.
	Status LintStatus `json:"status" yaml:"status"`

	// Duration is how long the lint run took.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Finding represents the result of evaluating a single rule against a
// single document (or against the catalog as a whole for catalog-level
// rules, in which case Document is empty).
type Finding struct {
	// Rule is the rule id (e.g. "front-matter").
	Rule string `json:"rule" yaml:"rule"`

	// Severity is the rule severity.
	Severity Severity `json:"severity" yaml:"severity"`

	// Document is the document the finding applies to, empty for
	// catalog-level findings.
	Document string `json:"document,omitempty" yaml:"document,omitempty"`

	// Status is the outcome of this rule evaluation.
	Status FindingStatus `json:"status" yaml:"status"`

	// Message provides additional context, especially for failures.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// NewReport creates a new Report with initialized slices.
func NewReport() *Report {
	return &Report{
		Findings: make([]Finding, 0),
	}
}

// HasErrors reports whether any error-severity finding failed. This is what
// --fail-on-error keys off: warnings alone never fail a build.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Status == FindingStatusFailed && f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Failures returns the failed findings, in report order.
func (r *Report) Failures() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Status == FindingStatusFailed {
			out = append(out, f)
		}
	}
	return out
}
