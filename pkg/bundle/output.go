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

package bundle

import (
	"fmt"
	"time"
)

// Artifact types appearing in Result.Type.
const (
	TypeScenario = "scenario"
	TypeReadme   = "readme"
	TypeCatalog  = "catalog"
	TypeIndex    = "index"
)

// Result is the outcome of writing one export artifact.
type Result struct {
	// Type is the artifact type (scenario, readme, catalog, index).
	Type string `json:"type" yaml:"type"`

	// Success indicates whether the artifact was written.
	Success bool `json:"success" yaml:"success"`

	// Files are the paths written, relative to the output directory.
	Files []string `json:"files" yaml:"files"`

	// Size is the number of bytes written.
	Size int64 `json:"size_bytes" yaml:"size_bytes"`

	// Duration is how long the write took.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Error describes the failure, empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Output contains the aggregated results of an export.
type Output struct {
	// Results contains individual artifact results.
	Results []*Result `json:"results" yaml:"results"`

	// TotalSize is the total size in bytes of all written files.
	TotalSize int64 `json:"total_size_bytes" yaml:"total_size_bytes"`

	// TotalFiles is the total count of written files.
	TotalFiles int `json:"total_files" yaml:"total_files"`

	// TotalDuration is the wall-clock time of the export.
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`

	// OutputDir is the directory the export was written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// HasErrors returns true if any artifact failed.
func (o *Output) HasErrors() bool {
	return o.FailureCount() > 0
}

// SuccessCount returns the number of artifacts written successfully.
func (o *Output) SuccessCount() int {
	count := 0
	for _, r := range o.Results {
		if r.Success {
			count++
		}
	}
	return count
}

// FailureCount returns the number of failed artifacts.
func (o *Output) FailureCount() int {
	return len(o.Results) - o.SuccessCount()
}

// Failed returns the failed results, in output order.
func (o *Output) Failed() []*Result {
	var failed []*Result
	for _, r := range o.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summary returns a human-readable summary of the export.
func (o *Output) Summary() string {
	return fmt.Sprintf(
		"Exported %d files (%s) to %s in %v. Success: %d/%d artifacts.",
		o.TotalFiles,
		formatBytes(o.TotalSize),
		o.OutputDir,
		o.TotalDuration.Round(time.Millisecond),
		o.SuccessCount(),
		len(o.Results),
	)
}

// formatBytes formats bytes into human-readable form.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
