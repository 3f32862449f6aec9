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
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kubescenarios/kubescenarios/pkg/catalog"
	"github.com/kubescenarios/kubescenarios/pkg/scenario"
)

// Severity classifies how a failed rule affects the overall status. Failed
// error rules fail the report; failed warnings only demote it to partial.
type Severity string

const (
	// SeverityError marks rules whose failure fails the lint run.
	SeverityError Severity = "error"

	// SeverityWarning marks advisory rules.
	SeverityWarning Severity = "warning"
)

// Built-in rule ids.
const (
	RuleFrontMatter       = "front-matter"
	RuleHeadingStructure  = "heading-structure"
	RuleYAMLSnippets      = "yaml-snippets"
	RuleManifestFields    = "manifest-fields"
	RuleShellSnippets     = "shell-snippets"
	RuleKubernetesVersion = "kubernetes-version"
	RuleRegistry          = "registry"
)

// Rule describes a single lint rule.
type Rule struct {
	// ID is the stable rule identifier shown in findings.
	ID string `json:"id" yaml:"id"`

	// Severity is the rule severity.
	Severity Severity `json:"severity" yaml:"severity"`

	// Description is a one-line summary of what the rule checks.
	Description string `json:"description" yaml:"description"`

	// check evaluates the rule against one document. Nil for
	// catalog-level rules, which the Linter evaluates itself.
	check func(d *document) []string
}

// builtinRules in evaluation order. The registry rule has no per-document
// check; Linter.Run evaluates it against the catalog as a whole.
var builtinRules = []Rule{
	{
		ID:          RuleFrontMatter,
		Severity:    SeverityError,
		Description: "front matter parses, required fields are present, enums are valid, and the id matches the document name",
		check:       checkFrontMatter,
	},
	{
		ID:          RuleHeadingStructure,
		Severity:    SeverityError,
		Description: "document has exactly one Scenario and one Solution section, in order, both with prose",
		check:       checkHeadingStructure,
	},
	{
		ID:          RuleYAMLSnippets,
		Severity:    SeverityError,
		Description: "every yaml code fence parses as valid YAML",
		check:       checkYAMLSnippets,
	},
	{
		ID:          RuleManifestFields,
		Severity:    SeverityError,
		Description: "yaml fences that declare kind also declare apiVersion, and vice versa",
		check:       checkManifestFields,
	},
	{
		ID:          RuleShellSnippets,
		Severity:    SeverityWarning,
		Description: "shell fences are non-empty and contain no unresolved TODO placeholders",
		check:       checkShellSnippets,
	},
	{
		ID:          RuleKubernetesVersion,
		Severity:    SeverityWarning,
		Description: "front matter kubernetesVersion, when present, is a plausible Kubernetes version",
		check:       checkKubernetesVersion,
	},
	{
		ID:          RuleRegistry,
		Severity:    SeverityError,
		Description: "every registry entry resolves to a document, every document is registered, and ids are unique",
	},
}

// Rules returns the built-in rule set, for display purposes.
func Rules() []Rule {
	out := make([]Rule, len(builtinRules))
	copy(out, builtinRules)
	return out
}

// document is the unit the per-document rules operate on.
type document struct {
	// name is the display name: a registry document name or a file path.
	name string

	// base is the file base name, used for id matching.
	base string

	// scen is the parsed scenario, nil when parsing failed.
	scen *scenario.Scenario

	// parseErr is the parse failure, if any.
	parseErr error
}

func checkFrontMatter(d *document) []string {
	if d.parseErr != nil {
		return []string{d.parseErr.Error()}
	}

	s := d.scen
	var problems []string

	if s.ID == "" {
		problems = append(problems, "front matter is missing id")
	} else if want := catalog.DocumentID(d.base); s.ID != want {
		problems = append(problems, fmt.Sprintf("id %q does not match document name (want %q)", s.ID, want))
	}
	if s.Title == "" {
		problems = append(problems, "front matter is missing title")
	}
	if s.Summary == "" {
		problems = append(problems, "front matter is missing summary")
	}
	if len(s.Kinds) == 0 {
		problems = append(problems, "front matter lists no kinds")
	}

	switch {
	case s.Category == "":
		problems = append(problems, "front matter is missing category")
	case !s.Category.IsValid():
		problems = append(problems, fmt.Sprintf("unknown category %q", s.Category))
	case s.Category == scenario.CategoryAny:
		problems = append(problems, "category must name a concrete category, not the wildcard")
	}

	switch {
	case s.Difficulty == "":
		problems = append(problems, "front matter is missing difficulty")
	case !s.Difficulty.IsValid():
		problems = append(problems, fmt.Sprintf("unknown difficulty %q", s.Difficulty))
	case s.Difficulty == scenario.DifficultyAny:
		problems = append(problems, "difficulty must name a concrete level, not the wildcard")
	}

	return problems
}

func checkHeadingStructure(d *document) []string {
	s := d.scen
	var problems []string

	scenarioIdx, solutionIdx := -1, -1
	scenarioCount, solutionCount := 0, 0
	for i, h := range s.Headings {
		switch h {
		case scenario.SectionScenario:
			scenarioCount++
			scenarioIdx = i
		case scenario.SectionSolution:
			solutionCount++
			solutionIdx = i
		}
	}

	if scenarioCount != 1 {
		problems = append(problems, fmt.Sprintf("document must have exactly one %q heading, found %d", scenario.SectionScenario, scenarioCount))
	}
	if solutionCount != 1 {
		problems = append(problems, fmt.Sprintf("document must have exactly one %q heading, found %d", scenario.SectionSolution, solutionCount))
	}
	if scenarioCount == 1 && solutionCount == 1 && scenarioIdx > solutionIdx {
		problems = append(problems, fmt.Sprintf("%q heading must come before %q", scenario.SectionScenario, scenario.SectionSolution))
	}
	if scenarioCount == 1 && s.Problem == "" {
		problems = append(problems, fmt.Sprintf("%q section has no prose", scenario.SectionScenario))
	}
	if solutionCount == 1 && s.Solution == "" {
		problems = append(problems, fmt.Sprintf("%q section has no prose", scenario.SectionSolution))
	}

	return problems
}

func checkYAMLSnippets(d *document) []string {
	var problems []string
	for i, sn := range d.scen.SnippetsByLang(scenario.LangYAML) {
		if err := decodeAllYAML([]byte(sn.Code)); err != nil {
			problems = append(problems, fmt.Sprintf("yaml snippet %d (section %q) does not parse: %v", i, sn.Section, err))
		}
	}
	return problems
}

func checkManifestFields(d *document) []string {
	var problems []string
	for i, sn := range d.scen.SnippetsByLang(scenario.LangYAML) {
		dec := yaml.NewDecoder(bytes.NewReader([]byte(sn.Code)))
		for {
			var m map[string]any
			err := dec.Decode(&m)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				// Reported by the yaml-snippets rule.
				break
			}
			_, hasKind := m["kind"]
			_, hasAPIVersion := m["apiVersion"]
			if hasKind != hasAPIVersion {
				problems = append(problems, fmt.Sprintf("yaml snippet %d (section %q) declares kind and apiVersion asymmetrically", i, sn.Section))
			}
		}
	}
	return problems
}

func checkShellSnippets(d *document) []string {
	var problems []string
	for i, sn := range d.scen.SnippetsByLang(scenario.LangShell) {
		if strings.TrimSpace(sn.Code) == "" {
			problems = append(problems, fmt.Sprintf("shell snippet %d (section %q) is empty", i, sn.Section))
			continue
		}
		if strings.Contains(sn.Code, "TODO") {
			problems = append(problems, fmt.Sprintf("shell snippet %d (section %q) contains an unresolved TODO placeholder", i, sn.Section))
		}
	}
	return problems
}

func checkKubernetesVersion(d *document) []string {
	v := d.scen.MinKubernetes
	if v == nil {
		return nil
	}

	var problems []string
	if !v.IsValid() {
		problems = append(problems, fmt.Sprintf("kubernetesVersion %q is not a valid version", v.String()))
	} else if v.Major < 1 {
		problems = append(problems, fmt.Sprintf("kubernetesVersion %s predates Kubernetes 1.0", v.String()))
	}
	return problems
}

// decodeAllYAML consumes every document in a YAML stream, returning the
// first syntax error. A fence holding several manifests separated by "---"
// is still valid YAML.
func decodeAllYAML(b []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
