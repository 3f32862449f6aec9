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

package oci

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/kubescenarios/kubescenarios/pkg/errors"
)

// URIScheme prefixes registry output targets, as in
// "oci://ghcr.io/kubescenarios/catalog:v1.0.0".
const URIScheme = "oci://"

// Reference is a parsed output target. Export destinations are either an
// OCI registry reference or a local directory, and IsOCI selects which
// fields carry the value.
type Reference struct {
	// IsOCI is true for registry references and false for local paths.
	IsOCI bool
	// Registry is the registry host, such as "ghcr.io" or "localhost:5000".
	Registry string
	// Repository is the path within the registry, such as "kubescenarios/catalog".
	Repository string
	// Tag is the image tag. An empty tag means the target did not name one
	// and the caller should substitute a default.
	Tag string
	// LocalPath holds the directory path when IsOCI is false.
	LocalPath string
}

// ParseOutputTarget classifies an output target string. Targets prefixed
// with oci:// are parsed as image references; anything else is taken to be
// a local directory path.
//
// A missing tag is reported as an empty Tag rather than an error, so that
// the caller can fill in a version of its own.
func ParseOutputTarget(target string) (*Reference, error) {
	name, isOCI := strings.CutPrefix(target, URIScheme)
	if !isOCI {
		return &Reference{LocalPath: target}, nil
	}

	ref, err := reference.ParseNormalizedNamed(name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	out := &Reference{
		IsOCI:      true,
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
	}
	if tagged, ok := ref.(reference.Tagged); ok {
		out.Tag = tagged.Tag()
	}

	if err := ValidateRegistryReference(out.Registry, out.Repository); err != nil {
		return nil, err
	}
	return out, nil
}

// String renders the reference the way the user wrote it: local paths come
// back verbatim, registry references carry the oci:// scheme.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	return URIScheme + r.ImageReference()
}

// ImageReference renders the docker-style name, "registry/repository" with
// an optional ":tag". It returns "" for local references.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	name := r.Registry + "/" + r.Repository
	if r.Tag != "" {
		name += ":" + r.Tag
	}
	return name
}

// WithTag returns a copy of the reference carrying tag. Local references
// have no tag and are returned unchanged.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	clone := *r
	clone.Tag = tag
	return &clone
}

// OutputConfig wires the package and push phases of a registry export.
type OutputConfig struct {
	// SourceDir holds the exported bundle to package.
	SourceDir string
	// OutputDir receives the intermediate OCI Image Layout store.
	OutputDir string
	// Reference is the parsed registry target.
	Reference *Reference
	// Version becomes the org.opencontainers.image.version annotation.
	Version string
	// PlainHTTP talks to the registry over HTTP.
	PlainHTTP bool
	// InsecureTLS accepts registry certificates that fail verification.
	InsecureTLS bool
	// Annotations overrides the default manifest annotations when non-nil.
	Annotations map[string]string
}

// PackageAndPushResult reports where a pushed artifact ended up.
type PackageAndPushResult struct {
	// Digest is the manifest digest of the pushed artifact.
	Digest string
	// Reference is the image reference the artifact was tagged with.
	Reference string
	// StorePath is the local OCI Image Layout the push was staged from.
	StorePath string
}

// defaultAnnotations are the manifest annotations attached to catalog
// artifacts when the caller supplies none.
func defaultAnnotations(version string) map[string]string {
	return map[string]string{
		"org.opencontainers.image.version": version,
		"org.opencontainers.image.vendor":  "The Kubescenarios Authors",
		"org.opencontainers.image.title":   "Kubernetes Scenario Catalog",
		"org.opencontainers.image.source":  "https://github.com/kubescenarios/kubescenarios",
	}
}

// PackageAndPush stages a directory as an OCI artifact in a local layout
// store, then copies it to the registry named by cfg.Reference. The result
// carries the pushed digest alongside the staging store path.
func PackageAndPush(ctx context.Context, cfg OutputConfig) (*PackageAndPushResult, error) {
	if cfg.Reference == nil || !cfg.Reference.IsOCI {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI reference is required for PackageAndPush")
	}
	if cfg.Reference.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	}

	sourceDir, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve source directory", err)
	}
	outputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve output directory", err)
	}

	annotations := cfg.Annotations
	if annotations == nil {
		annotations = defaultAnnotations(cfg.Version)
	}

	slog.Info("packaging catalog as OCI artifact",
		"registry", cfg.Reference.Registry,
		"repository", cfg.Reference.Repository,
		"tag", cfg.Reference.Tag,
	)

	packaged, err := Package(ctx, PackageOptions{
		SourceDir:   sourceDir,
		OutputDir:   outputDir,
		Registry:    cfg.Reference.Registry,
		Repository:  cfg.Reference.Repository,
		Tag:         cfg.Reference.Tag,
		Annotations: annotations,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to package OCI artifact", err)
	}
	slog.Info("catalog staged in local layout store",
		"digest", packaged.Digest,
		"store_path", packaged.StorePath,
	)

	pushed, err := PushFromStore(ctx, packaged.StorePath, PushOptions{
		Registry:    cfg.Reference.Registry,
		Repository:  cfg.Reference.Repository,
		Tag:         cfg.Reference.Tag,
		PlainHTTP:   cfg.PlainHTTP,
		InsecureTLS: cfg.InsecureTLS,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to push OCI artifact to registry", err)
	}
	slog.Info("catalog pushed", "reference", pushed.Reference, "digest", pushed.Digest)

	return &PackageAndPushResult{
		Digest:    pushed.Digest,
		Reference: pushed.Reference,
		StorePath: packaged.StorePath,
	}, nil
}
