/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
)

// writeTree materializes files (path to content) under dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func blobPath(storePath, digest string) string {
	return filepath.Join(storePath, "blobs", "sha256", strings.TrimPrefix(digest, "sha256:"))
}

// readManifest loads and decodes a manifest blob from a layout store.
func readManifest(t *testing.T, storePath, digest string) ociv1.Manifest {
	t.Helper()
	raw, err := os.ReadFile(blobPath(storePath, digest))
	if err != nil {
		t.Fatalf("read manifest blob: %v", err)
	}
	var manifest ociv1.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	return manifest
}

// extractLayer decompresses a gzipped tar layer blob and returns its regular
// files keyed by path.
func extractLayer(t *testing.T, storePath, digest string) map[string]string {
	t.Helper()
	blob, err := os.Open(blobPath(storePath, digest))
	if err != nil {
		t.Fatalf("open layer blob: %v", err)
	}
	defer blob.Close()

	gzr, err := gzip.NewReader(blob)
	if err != nil {
		t.Fatalf("gunzip layer: %v", err)
	}
	defer gzr.Close()

	files := make(map[string]string)
	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return files
		}
		if err != nil {
			t.Fatalf("walk layer tar: %v", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			t.Fatalf("read %s from layer: %v", header.Name, err)
		}
		files[header.Name] = string(content)
	}
}

func TestStripScheme(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://ghcr.io", "ghcr.io"},
		{"http://localhost:5000", "localhost:5000"},
		{"registry.example.com", "registry.example.com"},
		{"localhost:5000", "localhost:5000"},
		{"https://ghcr.io/kubescenarios", "ghcr.io/kubescenarios"},
	}
	for _, tt := range tests {
		if got := stripScheme(tt.in); got != tt.want {
			t.Errorf("stripScheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPushFromStore_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("empty tag", func(t *testing.T) {
		_, err := PushFromStore(ctx, "/nonexistent", PushOptions{
			Registry:   "localhost:5000",
			Repository: "training/catalog",
		})
		if err == nil || err.Error() != "tag is required to push OCI image" {
			t.Errorf("PushFromStore() error = %v, want tag error", err)
		}
	})

	t.Run("invalid registry", func(t *testing.T) {
		_, err := PushFromStore(ctx, "/nonexistent", PushOptions{
			Registry:   "registry with spaces",
			Repository: "training/catalog",
			Tag:        "v1.0.0",
		})
		if err == nil {
			t.Error("PushFromStore() accepted an unparseable registry")
		}
	})

	t.Run("missing store", func(t *testing.T) {
		_, err := PushFromStore(ctx, filepath.Join(t.TempDir(), "absent"), PushOptions{
			Registry:   "localhost:5000",
			Repository: "training/catalog",
			Tag:        "v1.0.0",
		})
		if err == nil {
			t.Fatal("PushFromStore() did not notice the missing store")
		}
		if !strings.Contains(err.Error(), "OCI store path is not readable") {
			t.Errorf("PushFromStore() error = %q, want store path error", err)
		}
	})
}

func TestValidateRegistryReference(t *testing.T) {
	accepted := []struct{ registry, repository string }{
		{"ghcr.io", "kubescenarios/catalog"},
		{"localhost:5000", "training/catalog"},
		{"https://ghcr.io", "kubescenarios/catalog"},
		{"registry.example.com:5000", "org/platform/training"},
	}
	for _, tt := range accepted {
		if err := ValidateRegistryReference(tt.registry, tt.repository); err != nil {
			t.Errorf("ValidateRegistryReference(%q, %q) = %v, want nil", tt.registry, tt.repository, err)
		}
	}

	rejected := []struct{ registry, repository string }{
		{"registry with spaces", "training/catalog"},
		{"ghcr.io", "Kubescenarios/Catalog"},
		{"ghcr.io", "training/catalog@latest"},
	}
	for _, tt := range rejected {
		if err := ValidateRegistryReference(tt.registry, tt.repository); err == nil {
			t.Errorf("ValidateRegistryReference(%q, %q) accepted a malformed reference", tt.registry, tt.repository)
		}
	}
}

func TestPackage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		opts    PackageOptions
		wantErr string
	}{
		{
			name:    "missing tag",
			opts:    PackageOptions{SourceDir: ".", Registry: "ghcr.io", Repository: "training/catalog"},
			wantErr: "tag is required for OCI packaging",
		},
		{
			name:    "missing registry",
			opts:    PackageOptions{SourceDir: ".", Repository: "training/catalog", Tag: "v1.0.0"},
			wantErr: "registry is required for OCI packaging",
		},
		{
			name:    "missing repository",
			opts:    PackageOptions{SourceDir: ".", Registry: "ghcr.io", Tag: "v1.0.0"},
			wantErr: "repository is required for OCI packaging",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.OutputDir = t.TempDir()
			_, err := Package(context.Background(), tt.opts)
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Package() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestPackage_CreatesLayoutStore(t *testing.T) {
	sourceDir := t.TempDir()
	writeTree(t, sourceDir, map[string]string{"registry.yaml": "kind: catalogRegistry"})

	result, err := Package(context.Background(), PackageOptions{
		SourceDir:  sourceDir,
		OutputDir:  t.TempDir(),
		Registry:   "ghcr.io",
		Repository: "kubescenarios/catalog",
		Tag:        "v1.0.0",
	})
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}

	if result.Digest == "" {
		t.Error("Package() returned an empty digest")
	}
	if want := "ghcr.io/kubescenarios/catalog:v1.0.0"; result.Reference != want {
		t.Errorf("Package() reference = %q, want %q", result.Reference, want)
	}

	// An OCI Image Layout is recognizable by these two files.
	for _, name := range []string{"oci-layout", "index.json"} {
		if _, err := os.Stat(filepath.Join(result.StorePath, name)); err != nil {
			t.Errorf("Package() layout store is missing %s: %v", name, err)
		}
	}
}

func TestPackage_ArtifactStructure(t *testing.T) {
	bundle := map[string]string{
		"README.md":                           "# Scenario Catalog\n",
		"registry.yaml":                       "kind: catalogRegistry\n",
		"index.json":                          `{"count": 3}`,
		"scenarios/pod-crashloop-triage.md":   "---\nid: pod-crashloop-triage\n---\nbody",
		"scenarios/hpa-cpu-scaling.md":        "---\nid: hpa-cpu-scaling\n---\nbody",
		"scenarios/node-drain-maintenance.md": "---\nid: node-drain-maintenance\n---\nbody",
	}
	sourceDir := t.TempDir()
	writeTree(t, sourceDir, bundle)

	result, err := Package(context.Background(), PackageOptions{
		SourceDir:   sourceDir,
		OutputDir:   t.TempDir(),
		Registry:    "ghcr.io",
		Repository:  "kubescenarios/catalog",
		Tag:         "v1.4.0",
		Annotations: map[string]string{"org.opencontainers.image.version": "v1.4.0"},
	})
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}

	manifest := readManifest(t, result.StorePath, result.Digest)
	if manifest.ArtifactType != ArtifactType {
		t.Errorf("manifest artifact type = %q, want %q", manifest.ArtifactType, ArtifactType)
	}
	if got := manifest.Annotations["org.opencontainers.image.version"]; got != "v1.4.0" {
		t.Errorf("version annotation = %q, want %q", got, "v1.4.0")
	}
	if len(manifest.Layers) != 1 {
		t.Fatalf("manifest has %d layers, want 1", len(manifest.Layers))
	}
	if got := manifest.Layers[0].MediaType; got != ociv1.MediaTypeImageLayerGzip {
		t.Errorf("layer media type = %q, want %q", got, ociv1.MediaTypeImageLayerGzip)
	}

	extracted := extractLayer(t, result.StorePath, manifest.Layers[0].Digest.String())
	if len(extracted) != len(bundle) {
		t.Errorf("layer holds %d files, want %d", len(extracted), len(bundle))
	}
	for path, want := range bundle {
		got, ok := extracted[path]
		if !ok {
			t.Errorf("layer is missing %q", path)
			continue
		}
		if got != want {
			t.Errorf("layer content for %q = %q, want %q", path, got, want)
		}
	}
}

func TestPackage_ReproducibleDigest(t *testing.T) {
	sourceDir := t.TempDir()
	writeTree(t, sourceDir, map[string]string{
		"registry.yaml":                     "kind: catalogRegistry\n",
		"scenarios/secret-credentials.md":   "---\nid: secret-credentials\n---\n",
		"scenarios/configmap-app-config.md": "---\nid: configmap-app-config\n---\n",
	})

	pack := func() string {
		result, err := Package(context.Background(), PackageOptions{
			SourceDir:  sourceDir,
			OutputDir:  t.TempDir(),
			Registry:   "localhost:5000",
			Repository: "training/catalog",
			Tag:        "repro",
			// A pinned created timestamp keeps the manifest bytes stable.
			Annotations: map[string]string{
				ociv1.AnnotationCreated: "2000-01-01T00:00:00Z",
			},
		})
		if err != nil {
			t.Fatalf("Package() error = %v", err)
		}
		return result.Digest
	}

	first, second := pack(), pack()
	if first != second {
		t.Errorf("two runs over the same source produced digests %s and %s", first, second)
	}
}
