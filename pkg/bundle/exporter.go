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

// Package bundle exports a loaded catalog to a distributable directory
// layout: one normalized document per scenario, a regenerated README, and
// machine-readable catalog manifests. The exported directory is what
// pkg/oci packages into an OCI artifact.
package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/kubescenarios/kubescenarios/pkg/catalog"
	apperrors "github.com/kubescenarios/kubescenarios/pkg/errors"
	"github.com/kubescenarios/kubescenarios/pkg/header"
	"github.com/kubescenarios/kubescenarios/pkg/scenario"
)

const (
	// APIVersion is the API version for bundle manifests.
	APIVersion = "kubescenarios.dev/v1alpha1"

	// ScenariosDir is the subdirectory holding per-scenario documents.
	ScenariosDir = "scenarios"

	readmeFile  = "README.md"
	catalogFile = "catalog.yaml"
	indexFile   = "index.json"

	dirPerm  = 0o755
	filePerm = 0o600
)

// Manifest is the machine-readable catalog description written as
// catalog.yaml and index.json.
type Manifest struct {
	header.Header `json:",inline" yaml:",inline"`

	// Name is the catalog name from the registry.
	Name string `json:"name" yaml:"name"`

	// Version is the catalog version from the registry.
	Version string `json:"version" yaml:"version"`

	// Documents lists the exported document files under ScenariosDir.
	Documents []string `json:"documents" yaml:"documents"`

	// Count is the number of scenarios.
	Count int `json:"count" yaml:"count"`

	// Scenarios are the per-scenario summaries, in document order.
	Scenarios []scenario.Summary `json:"scenarios" yaml:"scenarios"`
}

// Exporter writes catalog exports.
type Exporter struct {
	// Version is the exporter version (typically the CLI version).
	Version string
}

// Option is a functional option for configuring Exporter instances.
type Option func(*Exporter)

// WithVersion returns an Option that sets the Exporter version string.
func WithVersion(version string) Option {
	return func(e *Exporter) {
		e.Version = version
	}
}

// New creates a new Exporter with the provided options.
func New(opts ...Option) *Exporter {
	e := &Exporter{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes the catalog to dir:
//
//	scenarios/<id>.md  one normalized document per scenario
//	README.md          regenerated single-file rendition with index
//	catalog.yaml       manifest (header, registry info, summaries)
//	index.json         the same manifest as JSON
//
// Scenario documents are written concurrently. Per-artifact failures are
// collected on the Output rather than aborting the export; Export returns
// an error only for invalid input, an unusable output directory, or a
// canceled context.
func (e *Exporter) Export(ctx context.Context, cat *catalog.Catalog, dir string) (*Output, error) {
	start := time.Now()

	if cat == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "catalog cannot be nil")
	}
	if cat.Len() == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "catalog has no scenarios")
	}
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(filepath.Join(dir, ScenariosDir), dirPerm); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal,
			"failed to create output directory", err)
	}

	ordered := e.orderedScenarios(cat)

	g, gctx := errgroup.WithContext(ctx)
	resultChan := make(chan *Result, len(ordered)+3)

	for _, s := range ordered {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			resultChan <- e.writeScenario(dir, s)
			return nil
		})
	}

	g.Go(func() error {
		select {
		case <-gctx.Done():
			return gctx.Err()
		default:
		}
		resultChan <- e.writeReadme(dir, cat, ordered)
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return gctx.Err()
		default:
		}
		resultChan <- e.writeManifest(dir, catalogFile, TypeCatalog, e.buildManifest(cat, ordered), yaml.Marshal)
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return gctx.Err()
		default:
		}
		resultChan <- e.writeManifest(dir, indexFile, TypeIndex, e.buildManifest(cat, ordered), marshalJSON)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(resultChan)

	output := &Output{
		Results:   make([]*Result, 0, len(ordered)+3),
		OutputDir: dir,
	}
	for res := range resultChan {
		output.Results = append(output.Results, res)
		if res.Success {
			output.TotalFiles += len(res.Files)
			output.TotalSize += res.Size
		}
	}

	// Channel drain order is nondeterministic.
	sort.Slice(output.Results, func(i, j int) bool {
		a, b := output.Results[i], output.Results[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Files[0] < b.Files[0]
	})

	output.TotalDuration = time.Since(start)

	slog.Debug("catalog export complete",
		"dir", dir,
		"files", output.TotalFiles,
		"size_bytes", output.TotalSize,
		"failed", output.FailureCount(),
		"duration", output.TotalDuration)

	return output, nil
}

// orderedScenarios returns the catalog's scenarios in registry document
// order, which is the presentation order for the README.
func (e *Exporter) orderedScenarios(cat *catalog.Catalog) []*scenario.Scenario {
	bySource := make(map[string]*scenario.Scenario, cat.Len())
	for _, s := range cat.Scenarios() {
		bySource[s.Source] = s
	}

	ordered := make([]*scenario.Scenario, 0, cat.Len())
	seen := make(map[string]bool, cat.Len())
	for _, doc := range cat.Registry().Documents {
		if s, ok := bySource[doc]; ok {
			ordered = append(ordered, s)
			seen[s.ID] = true
		}
	}
	// Load only admits registered documents, so this is normally a no-op;
	// any scenario without a registry source keeps its sorted order at the end.
	for _, s := range cat.Scenarios() {
		if !seen[s.ID] {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

// writeScenario writes one normalized scenario document.
func (e *Exporter) writeScenario(dir string, s *scenario.Scenario) *Result {
	start := time.Now()
	rel := filepath.Join(ScenariosDir, s.ID+".md")
	res := &Result{Type: TypeScenario, Files: []string{rel}}

	data, err := s.Markdown()
	if err != nil {
		res.Error = fmt.Sprintf("serializing scenario %s: %v", s.ID, err)
		res.Duration = time.Since(start)
		return res
	}

	if err := os.WriteFile(filepath.Join(dir, rel), data, filePerm); err != nil {
		res.Error = fmt.Sprintf("writing %s: %v", rel, err)
		res.Duration = time.Since(start)
		return res
	}

	res.Success = true
	res.Size = int64(len(data))
	res.Duration = time.Since(start)
	return res
}

// writeReadme writes the regenerated single-file rendition.
func (e *Exporter) writeReadme(dir string, cat *catalog.Catalog, ordered []*scenario.Scenario) *Result {
	start := time.Now()
	res := &Result{Type: TypeReadme, Files: []string{readmeFile}}

	data := renderReadme(cat.Registry(), ordered)
	if err := os.WriteFile(filepath.Join(dir, readmeFile), data, filePerm); err != nil {
		res.Error = fmt.Sprintf("writing %s: %v", readmeFile, err)
		res.Duration = time.Since(start)
		return res
	}

	res.Success = true
	res.Size = int64(len(data))
	res.Duration = time.Since(start)
	return res
}

// buildManifest assembles the catalog manifest in document order.
func (e *Exporter) buildManifest(cat *catalog.Catalog, ordered []*scenario.Scenario) *Manifest {
	m := &Manifest{
		Name:      cat.Registry().Name,
		Version:   cat.Registry().Version,
		Count:     len(ordered),
		Documents: make([]string, 0, len(ordered)),
		Scenarios: make([]scenario.Summary, 0, len(ordered)),
	}
	m.Init(header.KindCatalog, APIVersion, e.Version)

	for _, s := range ordered {
		m.Documents = append(m.Documents, filepath.Join(ScenariosDir, s.ID+".md"))
		m.Scenarios = append(m.Scenarios, s.Summarize())
	}
	return m
}

// writeManifest writes the manifest through the given codec.
func (e *Exporter) writeManifest(dir, name, typ string, m *Manifest, marshal func(any) ([]byte, error)) *Result {
	start := time.Now()
	res := &Result{Type: typ, Files: []string{name}}

	data, err := marshal(m)
	if err != nil {
		res.Error = fmt.Sprintf("serializing %s: %v", name, err)
		res.Duration = time.Since(start)
		return res
	}

	if err := os.WriteFile(filepath.Join(dir, name), data, filePerm); err != nil {
		res.Error = fmt.Sprintf("writing %s: %v", name, err)
		res.Duration = time.Since(start)
		return res
	}

	res.Success = true
	res.Size = int64(len(data))
	res.Duration = time.Since(start)
	return res
}

func marshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
