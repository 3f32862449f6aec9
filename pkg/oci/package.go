/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/content/oci"
)

// ArtifactType is the manifest artifact type for catalog bundles, letting
// registries and clients tell them apart from runnable container images.
const ArtifactType = "application/vnd.kubescenarios.catalog"

// storeDirName is the directory created under OutputDir for the layout store.
const storeDirName = "oci-store"

// PackageOptions configures local OCI packaging.
type PackageOptions struct {
	// SourceDir is the bundle directory to package.
	SourceDir string
	// OutputDir receives the OCI Image Layout store.
	OutputDir string
	// Registry is the registry host the artifact is destined for. Package
	// validates it but pushes nothing; the reference travels in the result.
	Registry string
	// Repository is the path within the registry.
	Repository string
	// Tag is recorded in the layout index and addresses the artifact later.
	Tag string
	// Annotations are attached to the manifest. Fixing ociv1.AnnotationCreated
	// to a constant value makes repeated runs produce the same digest.
	Annotations map[string]string
}

// PackageResult reports a completed packaging run.
type PackageResult struct {
	// Digest is the manifest digest of the packaged artifact.
	Digest string
	// Reference is the image reference the artifact was tagged with.
	Reference string
	// StorePath is the OCI Image Layout directory holding the artifact.
	StorePath string
}

// Package stages a source directory as a single-layer OCI artifact in an
// OCI Image Layout store under opts.OutputDir. The store can be pushed with
// PushFromStore, inspected with standard layout tooling, or archived as-is.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	switch {
	case opts.Tag == "":
		return nil, fmt.Errorf("tag is required for OCI packaging")
	case opts.Registry == "":
		return nil, fmt.Errorf("registry is required for OCI packaging")
	case opts.Repository == "":
		return nil, fmt.Errorf("repository is required for OCI packaging")
	}

	host := stripScheme(opts.Registry)
	refString := fmt.Sprintf("%s/%s:%s", host, opts.Repository, opts.Tag)
	if _, err := reference.ParseNormalizedNamed(refString); err != nil {
		return nil, fmt.Errorf("invalid image reference '%s': %w", refString, err)
	}

	// ORAS resolves file store paths against the working directory, so pin
	// both sides to absolute paths.
	sourceDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for source dir: %w", err)
	}
	outputDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for output dir: %w", err)
	}

	storePath := filepath.Join(outputDir, storeDirName)
	store, err := oci.New(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCI layout store: %w", err)
	}

	fs, err := file.New(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()
	fs.TarReproducible = true

	// The whole bundle travels as one gzipped tar layer.
	layerDesc, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to add source directory to store: %w", err)
	}

	packOpts := oras.PackManifestOptions{Layers: []ociv1.Descriptor{layerDesc}}
	if len(opts.Annotations) > 0 {
		packOpts.ManifestAnnotations = opts.Annotations
	}
	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, packOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to pack manifest: %w", err)
	}

	// Tagging makes the manifest addressable for the copy below.
	if err := fs.Tag(ctx, manifestDesc, opts.Tag); err != nil {
		return nil, fmt.Errorf("failed to tag manifest in local store: %w", err)
	}

	desc, err := oras.Copy(ctx, fs, opts.Tag, store, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to copy artifact to OCI layout: %w", err)
	}

	return &PackageResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
		StorePath: storePath,
	}, nil
}

// ValidateRegistryReference checks that registry and repository form a
// parseable image reference. A scheme prefix on the registry is tolerated
// and no tag is required.
func ValidateRegistryReference(registry, repository string) error {
	ref := stripScheme(registry) + "/" + repository
	if _, err := reference.ParseNormalizedNamed(ref); err != nil {
		return fmt.Errorf("invalid registry reference '%s': %w", ref, err)
	}
	return nil
}
