/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"strings"
	"testing"

	"github.com/kubescenarios/kubescenarios/pkg/lint"
)

func TestLintCmd_CommandStructure(t *testing.T) {
	cmd := lintCmd()

	if cmd.Name != "lint" {
		t.Errorf("Name = %v, want lint", cmd.Name)
	}
	if cmd.Usage == "" {
		t.Error("Usage should not be empty")
	}
	if cmd.Description == "" {
		t.Error("Description should not be empty")
	}

	requiredFlags := []string{"rule", "fail-on-error", "data", "output", "format"}
	for _, flagName := range requiredFlags {
		found := false
		for _, flag := range cmd.Flags {
			if hasName(flag, flagName) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("required flag %q not found", flagName)
		}
	}

	if cmd.Action == nil {
		t.Error("Action should not be nil")
	}
}

func TestParseRuleFilter(t *testing.T) {
	tests := []struct {
		name      string
		ids       []string
		want      []string
		wantError bool
		errMsg    string
	}{
		{
			name: "empty keeps all",
			ids:  nil,
			want: nil,
		},
		{
			name: "single rule",
			ids:  []string{lint.RuleFrontMatter},
			want: []string{lint.RuleFrontMatter},
		},
		{
			name: "normalizes case and spacing",
			ids:  []string{" Front-Matter "},
			want: []string{lint.RuleFrontMatter},
		},
		{
			name: "multiple rules",
			ids:  []string{lint.RuleYAMLSnippets, lint.RuleShellSnippets},
			want: []string{lint.RuleYAMLSnippets, lint.RuleShellSnippets},
		},
		{
			name:      "unknown rule",
			ids:       []string{"no-such-rule"},
			wantError: true,
			errMsg:    "supported values",
		},
		{
			name:      "valid then unknown",
			ids:       []string{lint.RuleRegistry, "bogus"},
			wantError: true,
			errMsg:    `"bogus"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRuleFilter(tt.ids)

			if tt.wantError {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want error containing %v", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseRuleFilter() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseRuleFilter()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPrintLintSummary(_ *testing.T) {
	for _, status := range []lint.LintStatus{lint.LintStatusPass, lint.LintStatusPartial, lint.LintStatusFail} {
		report := lint.NewReport()
		report.Summary.Status = status
		printLintSummary(report)
	}
}
