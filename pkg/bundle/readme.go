/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/

package bundle

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kubescenarios/kubescenarios/pkg/catalog"
	"github.com/kubescenarios/kubescenarios/pkg/scenario"
)

// renderReadme regenerates the catalog's single-file rendition: a numbered
// index followed by every scenario's full body with demoted headings.
func renderReadme(reg *catalog.Registry, ordered []*scenario.Scenario) []byte {
	titleCaser := cases.Title(language.English)
	var b bytes.Buffer

	fmt.Fprintf(&b, "# %s\n\n", titleCaser.String(strings.ReplaceAll(reg.Name, "-", " ")))
	b.WriteString("Practical Kubernetes scenarios, each pairing a problem statement with a worked solution.\n\n")
	fmt.Fprintf(&b, "Catalog %s %s, %d scenarios.\n\n", reg.Name, reg.Version, len(ordered))

	b.WriteString("## Contents\n\n")
	for i, s := range ordered {
		n := i + 1
		fmt.Fprintf(&b, "%d. [%s](#%d-%s) (%s, %s)\n",
			n, s.Title, n, anchorize(s.Title),
			s.Category, s.Difficulty)
	}
	b.WriteString("\n")

	for i, s := range ordered {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, s.Title)

		meta := fmt.Sprintf("*Category: %s | Difficulty: %s",
			titleCaser.String(string(s.Category)),
			titleCaser.String(string(s.Difficulty)))
		if len(s.Kinds) > 0 {
			meta += " | Kinds: " + strings.Join(s.Kinds, ", ")
		}
		if s.MinKubernetes != nil {
			meta += fmt.Sprintf(" | Kubernetes %s+", s.MinKubernetes)
		}
		b.WriteString(meta + "*\n\n")

		b.WriteString(strings.TrimRight(demoteHeadings(s.Body), "\n"))
		b.WriteString("\n\n")
	}

	return b.Bytes()
}

// demoteHeadings pushes every level-2 heading down one level so scenario
// sections nest under the per-scenario heading. Fenced code blocks are left
// alone.
func demoteHeadings(body string) string {
	lines := strings.Split(body, "\n")
	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if !inFence && strings.HasPrefix(line, "## ") {
			lines[i] = "#" + line
		}
	}
	return strings.Join(lines, "\n")
}

// anchorize converts a heading title to its GitHub-style anchor fragment.
func anchorize(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('-')
		}
	}
	return b.String()
}
