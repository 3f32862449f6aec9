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

package catalog

import (
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/kubescenarios/kubescenarios/pkg/errors"
)

const (
	// RegistryKind is the expected kind field in registry.yaml.
	RegistryKind = "catalogRegistry"

	// APIVersion is the schema version for catalog resources.
	APIVersion = "kubescenarios.dev/v1alpha1"
)

// Registry describes the catalog: its name, content version, and the
// document files that make it up. It is the root object of registry.yaml.
//
// Example:
//
//	kind: catalogRegistry
//	apiVersion: kubescenarios.dev/v1alpha1
//	name: kubernetes-scenarios
//	version: v1.0.0
//	documents:
//	  - service-loadbalancer.md
//	  - hpa-cpu-scaling.md
type Registry struct {
	// Kind identifies the resource type. Must be RegistryKind.
	Kind string `json:"kind" yaml:"kind"`

	// APIVersion is the registry schema version.
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`

	// Name is the catalog name (e.g. "kubernetes-scenarios").
	Name string `json:"name" yaml:"name"`

	// Version is the catalog content version (e.g. "v1.0.0").
	Version string `json:"version" yaml:"version"`

	// Documents lists the scenario document file names, relative to the
	// data root, in presentation order.
	Documents []string `json:"documents" yaml:"documents"`
}

// ParseRegistry parses and validates registry.yaml content.
func ParseRegistry(data []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to parse registry", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Validate checks the registry for structural problems: wrong kind, missing
// name, duplicate or non-markdown document entries.
func (r *Registry) Validate() error {
	if r.Kind != RegistryKind {
		return apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid registry kind: got %q, want %q", r.Kind, RegistryKind))
	}
	if r.Name == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "registry name is required")
	}
	if len(r.Documents) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "registry lists no documents")
	}

	seen := make(map[string]bool, len(r.Documents))
	for _, doc := range r.Documents {
		if doc == "" {
			return apperrors.New(apperrors.ErrCodeInvalidRequest, "registry contains an empty document entry")
		}
		if path.Ext(doc) != ".md" {
			return apperrors.New(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("registry document %q is not a markdown file", doc))
		}
		if strings.Contains(doc, "..") {
			return apperrors.New(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("registry document %q escapes the data root", doc))
		}
		if seen[doc] {
			return apperrors.New(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("registry lists document %q more than once", doc))
		}
		seen[doc] = true
	}
	return nil
}

// HasDocument reports whether the registry lists the given file name.
func (r *Registry) HasDocument(name string) bool {
	for _, doc := range r.Documents {
		if doc == name {
			return true
		}
	}
	return false
}

// DocumentID derives the scenario id a document file name implies:
// the base name without the .md extension.
func DocumentID(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}
