/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kubescenarios/kubescenarios/pkg/catalog"
)

func TestShowCmd_CommandStructure(t *testing.T) {
	cmd := showCmd()

	if cmd.Name != "show" {
		t.Errorf("Name = %v, want show", cmd.Name)
	}
	if cmd.Usage == "" {
		t.Error("Usage should not be empty")
	}
	if cmd.Description == "" {
		t.Error("Description should not be empty")
	}
	if cmd.ArgsUsage == "" {
		t.Error("ArgsUsage should not be empty")
	}

	requiredFlags := []string{"raw", "data", "output", "format"}
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

func TestClosestID(t *testing.T) {
	cat, err := catalog.Load(context.Background(), catalog.Options{})
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	tests := []struct {
		name     string
		id       string
		want     string
		wantHint bool
	}{
		{
			name:     "single typo",
			id:       "service-loadbalancr",
			want:     "service-loadbalancer",
			wantHint: true,
		},
		{
			name:     "case folded",
			id:       "Pod-Crashloop-Triage",
			want:     "pod-crashloop-triage",
			wantHint: true,
		},
		{
			name:     "transposed characters",
			id:       "hpa-cpu-scalign",
			want:     "hpa-cpu-scaling",
			wantHint: true,
		},
		{
			name:     "nothing close",
			id:       "completely-unrelated-thing",
			wantHint: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := closestID(cat, tt.id)
			if found != tt.wantHint {
				t.Fatalf("closestID(%q) found = %v, want %v (got %q)", tt.id, found, tt.wantHint, got)
			}
			if tt.wantHint && got != tt.want {
				t.Errorf("closestID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestWriteRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	content := []byte("# Scenario\n\nSomething is wrong.\n")

	if err := writeRaw(path, content); err != nil {
		t.Fatalf("writeRaw() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("written content = %q, want %q", got, content)
	}
}

func TestWriteRawBadPath(t *testing.T) {
	err := writeRaw(filepath.Join(t.TempDir(), "missing", "out.md"), []byte("x"))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
