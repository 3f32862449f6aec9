/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/kubescenarios/kubescenarios/pkg/scenario"
)

func TestBuildQueryFromCmd(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantError bool
		errMsg    string
		validate  func(*testing.T, *scenario.Query)
	}{
		{
			name: "valid category",
			args: []string{"cmd", "--category", "networking"},
			validate: func(t *testing.T, q *scenario.Query) {
				if q.Category != scenario.CategoryNetworking {
					t.Errorf("Category = %v, want %v", q.Category, scenario.CategoryNetworking)
				}
			},
		},
		{
			name: "category is case-insensitive",
			args: []string{"cmd", "--category", "Networking"},
			validate: func(t *testing.T, q *scenario.Query) {
				if q.Category != scenario.CategoryNetworking {
					t.Errorf("Category = %v, want %v", q.Category, scenario.CategoryNetworking)
				}
			},
		},
		{
			name:      "invalid category",
			args:      []string{"cmd", "--category", "nonsense"},
			wantError: true,
			errMsg:    "category",
		},
		{
			name: "valid difficulty",
			args: []string{"cmd", "--difficulty", "beginner"},
			validate: func(t *testing.T, q *scenario.Query) {
				if q.Difficulty != scenario.DifficultyBeginner {
					t.Errorf("Difficulty = %v, want %v", q.Difficulty, scenario.DifficultyBeginner)
				}
			},
		},
		{
			name:      "invalid difficulty",
			args:      []string{"cmd", "--difficulty", "expert"},
			wantError: true,
			errMsg:    "difficulty",
		},
		{
			name: "kind is trimmed",
			args: []string{"cmd", "--kind", " Deployment "},
			validate: func(t *testing.T, q *scenario.Query) {
				if q.Kind != "Deployment" {
					t.Errorf("Kind = %q, want Deployment", q.Kind)
				}
			},
		},
		{
			name: "valid k8s version",
			args: []string{"cmd", "--k8s", "1.27"},
			validate: func(t *testing.T, q *scenario.Query) {
				if q.K8s == nil {
					t.Fatal("expected non-nil K8s version")
				}
				if q.K8s.Major != 1 || q.K8s.Minor != 27 {
					t.Errorf("K8s = %v, want 1.27", q.K8s)
				}
			},
		},
		{
			name:      "invalid k8s version",
			args:      []string{"cmd", "--k8s", "not-a-version"},
			wantError: true,
			errMsg:    "invalid kubernetes version",
		},
		{
			name:      "negative k8s version",
			args:      []string{"cmd", "--k8s=-1.27"},
			wantError: true,
			errMsg:    "cannot contain negative numbers",
		},
		{
			name: "keyword is trimmed",
			args: []string{"cmd", "--keyword", " probe "},
			validate: func(t *testing.T, q *scenario.Query) {
				if q.Keyword != "probe" {
					t.Errorf("Keyword = %q, want probe", q.Keyword)
				}
			},
		},
		{
			name: "complete filter",
			args: []string{
				"cmd",
				"--category", "scheduling",
				"--difficulty", "intermediate",
				"--kind", "Node",
				"--k8s", "1.29",
				"--keyword", "taint",
			},
			validate: func(t *testing.T, q *scenario.Query) {
				if q.Category != scenario.CategoryScheduling {
					t.Errorf("Category = %v, want %v", q.Category, scenario.CategoryScheduling)
				}
				if q.Difficulty != scenario.DifficultyIntermediate {
					t.Errorf("Difficulty = %v, want %v", q.Difficulty, scenario.DifficultyIntermediate)
				}
				if q.Kind != "Node" {
					t.Errorf("Kind = %q, want Node", q.Kind)
				}
				if q.K8s == nil {
					t.Fatal("expected non-nil K8s version")
				}
				if q.Keyword != "taint" {
					t.Errorf("Keyword = %q, want taint", q.Keyword)
				}
			},
		},
		{
			name: "empty filter is valid",
			args: []string{"cmd"},
			validate: func(t *testing.T, q *scenario.Query) {
				if q == nil {
					t.Error("expected non-nil query")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedQuery *scenario.Query
			var capturedErr error

			testCmd := &cli.Command{
				Name: "test",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category"},
					&cli.StringFlag{Name: "difficulty"},
					&cli.StringFlag{Name: "kind"},
					&cli.StringFlag{Name: "k8s"},
					&cli.StringFlag{Name: "keyword"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					capturedQuery, capturedErr = buildQueryFromCmd(cmd)
					return capturedErr
				},
			}

			err := testCmd.Run(context.Background(), tt.args)

			if tt.wantError {
				if err == nil && capturedErr == nil {
					t.Error("expected error but got nil")
					return
				}
				errToCheck := err
				if capturedErr != nil {
					errToCheck = capturedErr
				}
				if tt.errMsg != "" && !strings.Contains(errToCheck.Error(), tt.errMsg) {
					t.Errorf("error = %v, want error containing %v", errToCheck, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if capturedErr != nil {
				t.Errorf("unexpected captured error: %v", capturedErr)
				return
			}

			if capturedQuery == nil {
				t.Error("expected non-nil query")
				return
			}

			if tt.validate != nil {
				tt.validate(t, capturedQuery)
			}
		})
	}
}

func TestListCmd_CommandStructure(t *testing.T) {
	cmd := listCmd()

	if cmd.Name != "list" {
		t.Errorf("Name = %v, want list", cmd.Name)
	}
	if cmd.Usage == "" {
		t.Error("Usage should not be empty")
	}
	if cmd.Description == "" {
		t.Error("Description should not be empty")
	}

	requiredFlags := []string{"category", "difficulty", "kind", "k8s", "keyword", "data", "output", "format"}
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
