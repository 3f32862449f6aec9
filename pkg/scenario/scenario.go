package scenario

import (
	"strings"

	"github.com/kubescenarios/kubescenarios/pkg/version"
)

// Scenario is a single parsed scenario document: a problem statement paired
// with a worked solution, plus the front matter that classifies it.
type Scenario struct {
	// ID is the stable kebab-case identifier, matching the document file name.
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable scenario title.
	Title string `json:"title" yaml:"title"`

	// Category classifies the scenario (e.g. networking, scheduling).
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`

	// Difficulty indicates the expected operator experience level.
	Difficulty Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`

	// Kinds lists the Kubernetes object kinds the solution works with.
	Kinds []string `json:"kinds,omitempty" yaml:"kinds,omitempty"`

	// MinKubernetes is the minimum cluster version the solution assumes.
	MinKubernetes *version.Version `json:"kubernetesVersion,omitempty" yaml:"kubernetesVersion,omitempty"`

	// Keywords aid search and quiz pooling.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Summary is the one-sentence description from the front matter.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Problem is the prose of the "## Scenario" section.
	Problem string `json:"problem,omitempty" yaml:"problem,omitempty"`

	// Solution is the prose of the "## Solution" section, snippets excluded.
	Solution string `json:"solution,omitempty" yaml:"solution,omitempty"`

	// Snippets holds every fenced code block in document order.
	Snippets []Snippet `json:"snippets,omitempty" yaml:"snippets,omitempty"`

	// Headings lists the level-2 headings in document order.
	Headings []string `json:"-" yaml:"-"`

	// Body is the raw markdown after the front matter block.
	Body string `json:"-" yaml:"-"`

	// Source is the document name the scenario was parsed from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Snippet is a fenced code block extracted from a scenario document.
type Snippet struct {
	// Lang is the normalized snippet language.
	Lang SnippetLang `json:"lang" yaml:"lang"`

	// Info is the original fence info string (e.g. "yaml", "bash").
	Info string `json:"info,omitempty" yaml:"info,omitempty"`

	// Code is the fence content.
	Code string `json:"code" yaml:"code"`

	// Section is the level-2 heading the snippet appears under.
	Section string `json:"section,omitempty" yaml:"section,omitempty"`
}

// SnippetLang classifies fence info strings into the languages the
// toolchain understands.
type SnippetLang string

const (
	LangYAML  SnippetLang = "yaml"
	LangShell SnippetLang = "shell"
	LangOther SnippetLang = "other"
)

// String returns the string representation of the snippet language.
func (l SnippetLang) String() string {
	return string(l)
}

// ParseSnippetLang normalizes a fence info string into a SnippetLang.
// An empty info string maps to LangOther.
func ParseSnippetLang(info string) SnippetLang {
	lang := info
	if i := strings.IndexAny(info, " \t"); i >= 0 {
		lang = info[:i]
	}
	switch strings.ToLower(lang) {
	case "yaml", "yml":
		return LangYAML
	case "bash", "sh", "shell", "console":
		return LangShell
	default:
		return LangOther
	}
}

// Summary is the compact list representation of a scenario.
type Summary struct {
	ID            string           `json:"id" yaml:"id"`
	Title         string           `json:"title" yaml:"title"`
	Category      Category         `json:"category,omitempty" yaml:"category,omitempty"`
	Difficulty    Difficulty       `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Kinds         []string         `json:"kinds,omitempty" yaml:"kinds,omitempty"`
	MinKubernetes *version.Version `json:"kubernetesVersion,omitempty" yaml:"kubernetesVersion,omitempty"`
	Summary       string           `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Summarize returns the compact list representation of the scenario.
func (s *Scenario) Summarize() Summary {
	return Summary{
		ID:            s.ID,
		Title:         s.Title,
		Category:      s.Category,
		Difficulty:    s.Difficulty,
		Kinds:         s.Kinds,
		MinKubernetes: s.MinKubernetes,
		Summary:       s.Summary,
	}
}

// HasKind reports whether the scenario declares the given Kubernetes kind,
// compared case-insensitively.
func (s *Scenario) HasKind(kind string) bool {
	for _, k := range s.Kinds {
		if strings.EqualFold(k, kind) {
			return true
		}
	}
	return false
}

// SnippetsByLang returns the scenario snippets with the given language,
// in document order.
func (s *Scenario) SnippetsByLang(lang SnippetLang) []Snippet {
	var out []Snippet
	for _, sn := range s.Snippets {
		if sn.Lang == lang {
			out = append(out, sn)
		}
	}
	return out
}
