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

// Package header provides common header types for kubescenarios data structures.
//
// This package defines the Header type embedded in catalogs, lint reports,
// quiz sheets, and other serialized resources to provide consistent metadata
// and versioning information.
//
// # Header Structure
//
// The Header contains standard fields for API versioning and metadata:
//
//	type Header struct {
//	    Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
//	    APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
//	    Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
//	}
//
// # Usage
//
// Initialize a header on a resource:
//
//	var report Report
//	report.Header.Init(header.KindLintReport, "kubescenarios.dev/v1alpha1", version)
//
// Or construct one with options:
//
//	h := header.New(
//	    header.WithKind(header.KindCatalog),
//	    header.WithAPIVersion("kubescenarios.dev/v1alpha1"),
//	    header.WithMetadata("source", "embedded"),
//	)
//
// # Serialization
//
// Headers serialize consistently to JSON and YAML:
//
//	{
//	  "kind": "Catalog",
//	  "apiVersion": "kubescenarios.dev/v1alpha1",
//	  "metadata": {
//	    "timestamp": "2025-12-30T10:30:00Z",
//	    "version": "v1.0.0"
//	  }
//	}
//
// # Kind Field
//
// The Kind field identifies the resource type:
//   - Catalog: the full scenario catalog
//   - Scenario: a single scenario document
//   - LintReport: editorial lint findings
//   - QuizSheet / QuizResult: generated quizzes and grades
//   - Bundle: exported catalog artifact metadata
//
// # Timestamps
//
// Init records the creation time in RFC3339 format under the
// "timestamp" metadata key, with the tool version under "version".
package header
