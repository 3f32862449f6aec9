/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/

package lint

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kubescenarios/kubescenarios/pkg/catalog"
	apperrors "github.com/kubescenarios/kubescenarios/pkg/errors"
	"github.com/kubescenarios/kubescenarios/pkg/header"
	"github.com/kubescenarios/kubescenarios/pkg/scenario"
)

const (
	// APIVersion is the API version for lint reports.
	APIVersion = "kubescenarios.dev/v1alpha1"
)

// Linter evaluates editorial rules against scenario documents.
type Linter struct {
	// Version is the linter version (typically the CLI version).
	Version string

	rules []Rule
}

// Option is a functional option for configuring Linter instances.
type Option func(*Linter)

// WithVersion returns an Option that sets the Linter version string.
func WithVersion(version string) Option {
	return func(l *Linter) {
		l.Version = version
	}
}

// WithRules returns an Option that restricts the Linter to the named rule
// ids. An empty list keeps the full built-in set; unknown ids are dropped.
func WithRules(ids ...string) Option {
	return func(l *Linter) {
		if len(ids) == 0 {
			return
		}
		keep := make(map[string]bool, len(ids))
		for _, id := range ids {
			keep[id] = true
		}
		filtered := make([]Rule, 0, len(l.rules))
		for _, r := range l.rules {
			if keep[r.ID] {
				filtered = append(filtered, r)
			}
		}
		l.rules = filtered
	}
}

// New creates a new Linter with the built-in rule set.
func New(opts ...Option) *Linter {
	l := &Linter{
		rules: builtinRules,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run lints every document the provider's registry names, plus the registry
// itself. A nil provider lints the active catalog (the embedded data unless
// an external directory has been layered on).
//
// Rule violations surface as failed findings, not errors; Run returns an
// error only for canceled contexts.
func (l *Linter) Run(ctx context.Context, provider catalog.DataProvider) (*Report, error) {
	start := time.Now()

	if provider == nil {
		provider = catalog.GetDataProvider()
	}

	report := NewReport()
	report.Init(header.KindLintReport, APIVersion, l.Version)
	report.Target = fmt.Sprintf("catalog (%s)", provider.Source(catalog.RegistryFileName))

	regFinding := Finding{Rule: RuleRegistry, Severity: SeverityError}

	// The registry is read even when its rule is filtered out; it is the only
	// way to enumerate the documents to lint.
	regData, err := provider.ReadFile(catalog.RegistryFileName)
	if err != nil {
		regFinding.Status = FindingStatusFailed
		regFinding.Message = fmt.Sprintf("registry is not readable: %v", err)
		l.appendRegistryFinding(report, regFinding)
		l.finalize(report, start)
		return report, nil
	}

	reg, err := catalog.ParseRegistry(regData)
	if err != nil {
		regFinding.Status = FindingStatusFailed
		regFinding.Message = fmt.Sprintf("registry does not parse: %v", err)
		l.appendRegistryFinding(report, regFinding)
		l.finalize(report, start)
		return report, nil
	}

	// ids maps each effective scenario id to the documents claiming it.
	ids := make(map[string][]string)

	var regProblems []string

	for _, doc := range reg.Documents {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		raw, err := provider.ReadFile(doc)
		if err != nil {
			regProblems = append(regProblems, fmt.Sprintf("registered document %s does not resolve: %v", doc, err))
			l.skipDocument(report, doc, "document is not readable")
			continue
		}

		d := newDocument(doc, doc, raw)
		l.lintDocument(report, d)

		if d.scen != nil {
			id := d.scen.ID
			if id == "" {
				id = catalog.DocumentID(doc)
			}
			ids[id] = append(ids[id], doc)
		}
	}

	regProblems = append(regProblems, unregisteredDocuments(provider, reg)...)
	regProblems = append(regProblems, duplicateIDs(ids)...)

	if len(regProblems) == 0 {
		regFinding.Status = FindingStatusPassed
	} else {
		regFinding.Status = FindingStatusFailed
		regFinding.Message = strings.Join(regProblems, "; ")
	}
	l.appendRegistryFinding(report, regFinding)

	l.finalize(report, start)
	return report, nil
}

// appendRegistryFinding records the catalog-level finding unless the registry
// rule was filtered out.
func (l *Linter) appendRegistryFinding(report *Report, f Finding) {
	for _, r := range l.rules {
		if r.ID == RuleRegistry {
			report.Findings = append(report.Findings, f)
			return
		}
	}
}

// RunFiles lints explicit document paths. Registry coverage cannot be
// evaluated without a catalog, so the registry rule reports skipped.
func (l *Linter) RunFiles(ctx context.Context, paths []string) (*Report, error) {
	start := time.Now()

	if len(paths) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "no documents to lint")
	}

	report := NewReport()
	report.Init(header.KindLintReport, APIVersion, l.Version)
	report.Target = strings.Join(paths, ", ")

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeNotFound,
				fmt.Sprintf("reading document %s", path), err)
		}

		d := newDocument(path, filepath.Base(path), raw)
		l.lintDocument(report, d)
	}

	l.appendRegistryFinding(report, Finding{
		Rule:     RuleRegistry,
		Severity: SeverityError,
		Status:   FindingStatusSkipped,
		Message:  "registry checks require a catalog target",
	})

	l.finalize(report, start)
	return report, nil
}

// newDocument parses raw content into the unit rules operate on. Parse
// failures are carried on the document so the front-matter rule can report
// them.
func newDocument(name, base string, raw []byte) *document {
	d := &document{name: name, base: base}
	d.scen, d.parseErr = scenario.Parse(name, raw)
	return d
}

// lintDocument evaluates every per-document rule against d, appending one
// finding per rule.
func (l *Linter) lintDocument(report *Report, d *document) {
	for _, rule := range l.rules {
		if rule.check == nil {
			continue
		}

		f := Finding{
			Rule:     rule.ID,
			Severity: rule.Severity,
			Document: d.name,
		}

		if d.parseErr != nil && rule.ID != RuleFrontMatter {
			f.Status = FindingStatusSkipped
			f.Message = "document failed to parse"
			report.Findings = append(report.Findings, f)
			continue
		}

		if problems := rule.check(d); len(problems) > 0 {
			f.Status = FindingStatusFailed
			f.Message = strings.Join(problems, "; ")
			slog.Debug("rule failed",
				"rule", rule.ID,
				"document", d.name,
				"problems", len(problems))
		} else {
			f.Status = FindingStatusPassed
		}
		report.Findings = append(report.Findings, f)
	}
}

// skipDocument records a skipped finding for every per-document rule, used
// when a registered document cannot be read at all.
func (l *Linter) skipDocument(report *Report, name, reason string) {
	for _, rule := range l.rules {
		if rule.check == nil {
			continue
		}
		report.Findings = append(report.Findings, Finding{
			Rule:     rule.ID,
			Severity: rule.Severity,
			Document: name,
			Status:   FindingStatusSkipped,
			Message:  reason,
		})
	}
}

// finalize computes summary counts and the overall status.
func (l *Linter) finalize(report *Report, start time.Time) {
	errorFailed := false
	for _, f := range report.Findings {
		switch f.Status {
		case FindingStatusPassed:
			report.Summary.Passed++
		case FindingStatusFailed:
			report.Summary.Failed++
			if f.Severity == SeverityError {
				errorFailed = true
			}
		case FindingStatusSkipped:
			report.Summary.Skipped++
		}
	}

	report.Summary.Total = len(report.Findings)
	report.Summary.Duration = time.Since(start)

	switch {
	case errorFailed:
		report.Summary.Status = LintStatusFail
	case report.Summary.Failed > 0 || report.Summary.Skipped > 0:
		report.Summary.Status = LintStatusPartial
	default:
		report.Summary.Status = LintStatusPass
	}

	slog.Debug("lint completed",
		"passed", report.Summary.Passed,
		"failed", report.Summary.Failed,
		"skipped", report.Summary.Skipped,
		"status", report.Summary.Status,
		"duration", report.Summary.Duration)
}

// unregisteredDocuments reports markdown files the provider can see that the
// registry does not list.
func unregisteredDocuments(provider catalog.DataProvider, reg *catalog.Registry) []string {
	var problems []string
	err := provider.WalkDir("", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		if !reg.HasDocument(path) {
			problems = append(problems, fmt.Sprintf("document %s exists but is not registered", path))
		}
		return nil
	})
	if err != nil {
		problems = append(problems, fmt.Sprintf("walking catalog data: %v", err))
	}
	sort.Strings(problems)
	return problems
}

// duplicateIDs reports ids claimed by more than one document.
func duplicateIDs(ids map[string][]string) []string {
	var problems []string
	for id, docs := range ids {
		if len(docs) > 1 {
			sort.Strings(docs)
			problems = append(problems, fmt.Sprintf("id %q is used by multiple documents: %s", id, strings.Join(docs, ", ")))
		}
	}
	sort.Strings(problems)
	return problems
}
