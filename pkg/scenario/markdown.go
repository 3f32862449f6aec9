package scenario

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/kubescenarios/kubescenarios/pkg/version"
)

// Section titles recognized in scenario documents. Every document pairs a
// problem statement under SectionScenario with a worked answer under
// SectionSolution.
const (
	SectionScenario = "Scenario"
	SectionSolution = "Solution"
)

// markdown is the shared GFM-enabled converter. Safe for concurrent use.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// frontMatter is the YAML block between the leading "---" delimiters.
type frontMatter struct {
	ID                string           `yaml:"id"`
	Title             string           `yaml:"title"`
	Category          Category         `yaml:"category,omitempty"`
	Difficulty        Difficulty       `yaml:"difficulty,omitempty"`
	Kinds             []string         `yaml:"kinds,omitempty"`
	KubernetesVersion *version.Version `yaml:"kubernetesVersion,omitempty"`
	Keywords          []string         `yaml:"keywords,omitempty"`
	Summary           string           `yaml:"summary,omitempty"`
}

// Parse parses a scenario document: a YAML front matter block followed by a
// markdown body with "## Scenario" and "## Solution" sections.
//
// Parse is deliberately tolerant about content problems (missing sections,
// unknown categories, malformed snippets) so the linter can report them as
// findings. It fails only on structural defects: a missing or unterminated
// front matter block, invalid front matter YAML, or an empty body.
func Parse(source string, raw []byte) (*Scenario, error) {
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	var fm frontMatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return nil, fmt.Errorf("parsing %s front matter: %w", source, err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("parsing %s: document has no body", source)
	}

	s := &Scenario{
		ID:            fm.ID,
		Title:         fm.Title,
		Category:      fm.Category,
		Difficulty:    fm.Difficulty,
		Kinds:         fm.Kinds,
		MinKubernetes: fm.KubernetesVersion,
		Keywords:      fm.Keywords,
		Summary:       fm.Summary,
		Body:          string(body),
		Source:        source,
	}

	s.extractSections(body)
	return s, nil
}

// splitFrontMatter separates the YAML metadata block from the markdown body.
// The document must open with "---" on the first line and close the block
// with another "---" line.
func splitFrontMatter(raw []byte) (meta, body []byte, err error) {
	if !bytes.HasPrefix(raw, []byte("---\n")) {
		return nil, nil, fmt.Errorf("missing front matter open delimiter")
	}

	rest := raw[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, nil, fmt.Errorf("missing front matter close delimiter")
	}

	meta = rest[:end+1]
	body = rest[end+len("\n---"):]
	body = bytes.TrimLeft(body, "\n")
	return meta, body, nil
}

// extractSections walks the markdown AST collecting level-2 headings, the
// prose under the Scenario and Solution sections, and every fenced code
// block with the section it appears under.
func (s *Scenario) extractSections(body []byte) {
	doc := markdown.Parser().Parse(text.NewReader(body))

	var current string
	var problem, solution []string

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			if n.Level == 2 {
				current = nodeText(n, body)
				s.Headings = append(s.Headings, current)
			}
		case *ast.FencedCodeBlock:
			info := ""
			if n.Info != nil {
				info = strings.TrimSpace(string(n.Info.Value(body)))
			}
			s.Snippets = append(s.Snippets, Snippet{
				Lang:    ParseSnippetLang(info),
				Info:    info,
				Code:    fenceCode(n, body),
				Section: current,
			})
		default:
			txt := nodeText(node, body)
			if txt == "" {
				continue
			}
			switch current {
			case SectionScenario:
				problem = append(problem, txt)
			case SectionSolution:
				solution = append(solution, txt)
			}
		}
	}

	s.Problem = strings.Join(problem, "\n\n")
	s.Solution = strings.Join(solution, "\n\n")
}

// nodeText flattens a node subtree to plain text.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	collectText(n, source, &sb)
	return strings.TrimSpace(sb.String())
}

func collectText(n ast.Node, source []byte, sb *strings.Builder) {
	switch t := n.(type) {
	case *ast.Text:
		sb.Write(t.Segment.Value(source))
		if t.SoftLineBreak() || t.HardLineBreak() {
			sb.WriteByte('\n')
		}
		return
	case *ast.String:
		sb.Write(t.Value)
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		collectText(c, source, sb)
		if c.Type() == ast.TypeBlock {
			sb.WriteByte('\n')
		}
	}
}

// fenceCode returns the content of a fenced code block.
func fenceCode(n *ast.FencedCodeBlock, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(source))
	}
	return sb.String()
}

// RenderHTML converts the scenario body to HTML using GitHub Flavored Markdown.
func (s *Scenario) RenderHTML(w io.Writer) error {
	return markdown.Convert([]byte(s.Body), w)
}

// Markdown re-serializes the scenario to its canonical document form:
// regenerated front matter followed by the original body. Exporters use
// this to normalize documents regardless of their source formatting.
func (s *Scenario) Markdown() ([]byte, error) {
	fm := frontMatter{
		ID:                s.ID,
		Title:             s.Title,
		Category:          s.Category,
		Difficulty:        s.Difficulty,
		Kinds:             s.Kinds,
		KubernetesVersion: s.MinKubernetes,
		Keywords:          s.Keywords,
		Summary:           s.Summary,
	}

	meta, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s front matter: %w", s.ID, err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimLeft(s.Body, "\n"))
	if !strings.HasSuffix(s.Body, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
