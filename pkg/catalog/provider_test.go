/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const externalDoc = `---
id: external-scenario
title: An externally supplied scenario
category: operations
difficulty: beginner
kinds:
  - Pod
summary: Supplied by the external data directory.
---

## Scenario

Externally defined problem.

## Solution

Externally defined answer.
`

const externalRegistry = `kind: catalogRegistry
apiVersion: kubescenarios.dev/v1alpha1
name: external-catalog
documents:
  - external-scenario.md
`

func writeExternalDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestEmbeddedProviderReadFile(t *testing.T) {
	p := NewEmbeddedDataProvider(dataFS, "data")

	data, err := p.ReadFile(RegistryFileName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kubernetes-scenarios")
	assert.Equal(t, sourceEmbedded, p.Source(RegistryFileName))

	_, err = p.ReadFile("does-not-exist.md")
	assert.Error(t, err)
}

func TestLayeredProviderRequiresRegistry(t *testing.T) {
	dir := writeExternalDir(t, map[string]string{
		"external-scenario.md": externalDoc,
	})

	embedded := NewEmbeddedDataProvider(dataFS, "data")
	_, err := NewLayeredDataProvider(embedded, LayeredProviderConfig{ExternalDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), RegistryFileName)
}

func TestLayeredProviderMissingDir(t *testing.T) {
	embedded := NewEmbeddedDataProvider(dataFS, "data")
	_, err := NewLayeredDataProvider(embedded, LayeredProviderConfig{
		ExternalDir: filepath.Join(t.TempDir(), "nope"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLayeredProviderMergesRegistry(t *testing.T) {
	dir := writeExternalDir(t, map[string]string{
		RegistryFileName:       externalRegistry,
		"external-scenario.md": externalDoc,
	})

	embedded := NewEmbeddedDataProvider(dataFS, "data")
	layered, err := NewLayeredDataProvider(embedded, LayeredProviderConfig{ExternalDir: dir})
	require.NoError(t, err)

	merged, err := layered.ReadFile(RegistryFileName)
	require.NoError(t, err)

	var reg Registry
	require.NoError(t, yaml.Unmarshal(merged, &reg))

	// External name overrides, external documents are appended.
	assert.Equal(t, "external-catalog", reg.Name)
	assert.True(t, reg.HasDocument("external-scenario.md"))
	assert.True(t, reg.HasDocument("service-loadbalancer.md"), "embedded documents survive the merge")
	assert.Len(t, reg.Documents, 15)
}

func TestLayeredProviderOverridesDocument(t *testing.T) {
	// Same file name as an embedded document: external wins.
	override := `---
id: service-loadbalancer
title: Overridden title
category: networking
difficulty: beginner
kinds:
  - Service
summary: Overridden.
---

## Scenario

Overridden problem.

## Solution

Overridden answer.
`
	dir := writeExternalDir(t, map[string]string{
		RegistryFileName:           externalRegistry,
		"service-loadbalancer.md":  override,
	})

	embedded := NewEmbeddedDataProvider(dataFS, "data")
	layered, err := NewLayeredDataProvider(embedded, LayeredProviderConfig{ExternalDir: dir})
	require.NoError(t, err)

	data, err := layered.ReadFile("service-loadbalancer.md")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Overridden title")
	assert.Equal(t, sourceExternal, layered.Source("service-loadbalancer.md"))
	assert.Equal(t, sourceEmbedded, layered.Source("hpa-cpu-scaling.md"))
}

func TestLayeredProviderLoadEndToEnd(t *testing.T) {
	dir := writeExternalDir(t, map[string]string{
		RegistryFileName:       externalRegistry,
		"external-scenario.md": externalDoc,
	})

	embedded := NewEmbeddedDataProvider(dataFS, "data")
	layered, err := NewLayeredDataProvider(embedded, LayeredProviderConfig{ExternalDir: dir})
	require.NoError(t, err)

	cat, err := Load(context.Background(), Options{Provider: layered})
	require.NoError(t, err)

	assert.Equal(t, 15, cat.Len())
	s, ok := cat.Get("external-scenario")
	require.True(t, ok)
	assert.Equal(t, "An externally supplied scenario", s.Title)
}

func TestLayeredProviderRejectsOversizedFile(t *testing.T) {
	dir := writeExternalDir(t, map[string]string{
		RegistryFileName:       externalRegistry,
		"external-scenario.md": externalDoc,
	})

	embedded := NewEmbeddedDataProvider(dataFS, "data")
	_, err := NewLayeredDataProvider(embedded, LayeredProviderConfig{
		ExternalDir: dir,
		MaxFileSize: 8, // bytes; everything in the dir exceeds this
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file too large")
}

func TestLayeredProviderRejectsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	dir := writeExternalDir(t, map[string]string{
		RegistryFileName:       externalRegistry,
		"external-scenario.md": externalDoc,
	})
	require.NoError(t, os.Symlink(
		filepath.Join(dir, "external-scenario.md"),
		filepath.Join(dir, "link.md"),
	))

	embedded := NewEmbeddedDataProvider(dataFS, "data")
	_, err := NewLayeredDataProvider(embedded, LayeredProviderConfig{ExternalDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlinks not allowed")

	// Allowed when explicitly enabled.
	_, err = NewLayeredDataProvider(embedded, LayeredProviderConfig{
		ExternalDir:   dir,
		AllowSymlinks: true,
	})
	assert.NoError(t, err)
}

func TestDataProviderGeneration(t *testing.T) {
	before := GetDataProviderGeneration()

	SetDataProvider(NewEmbeddedDataProvider(dataFS, "data"))
	after := GetDataProviderGeneration()

	assert.Equal(t, before+1, after)
}
