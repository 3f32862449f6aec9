/*
Copyright © 2025 The Kubescenarios Authors
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strings"

	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

// PushOptions names the registry target for a push.
type PushOptions struct {
	// Registry is the registry host, such as "ghcr.io" or "localhost:5000".
	Registry string
	// Repository is the path within the registry, such as "kubescenarios/catalog".
	Repository string
	// Tag is the tag to push under.
	Tag string
	// PlainHTTP talks to the registry over HTTP.
	PlainHTTP bool
	// InsecureTLS accepts registry certificates that fail verification.
	InsecureTLS bool
}

// PushResult reports a completed push.
type PushResult struct {
	// Digest is the manifest digest of the pushed artifact.
	Digest string
	// Reference is the image reference the artifact was tagged with.
	Reference string
}

// PushFromStore copies a tagged artifact out of a local OCI Image Layout
// store into a remote repository. The store is usually the StorePath left
// behind by Package.
func PushFromStore(ctx context.Context, storePath string, opts PushOptions) (*PushResult, error) {
	if opts.Tag == "" {
		return nil, fmt.Errorf("tag is required to push OCI image")
	}
	if err := ValidateRegistryReference(opts.Registry, opts.Repository); err != nil {
		return nil, err
	}
	if _, err := os.Stat(storePath); err != nil {
		return nil, fmt.Errorf("OCI store path is not readable: %w", err)
	}

	src, err := oci.New(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open OCI layout store: %w", err)
	}

	host := stripScheme(opts.Registry)
	dst, err := remote.NewRepository(host + "/" + opts.Repository)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote repository: %w", err)
	}
	dst.PlainHTTP = opts.PlainHTTP
	dst.Client = registryClient(opts.PlainHTTP, opts.InsecureTLS)

	desc, err := oras.Copy(ctx, src, opts.Tag, dst, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to push artifact to registry: %w", err)
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: fmt.Sprintf("%s/%s:%s", host, opts.Repository, opts.Tag),
	}, nil
}

// stripScheme drops an http:// or https:// prefix so the registry value can
// be used in a docker-style reference.
func stripScheme(registry string) string {
	for _, scheme := range []string{"https://", "http://"} {
		if host, ok := strings.CutPrefix(registry, scheme); ok {
			return host
		}
	}
	return registry
}

// registryClient builds the ORAS auth client for registry calls. Credentials
// come from the ambient Docker configuration when one exists.
func registryClient(plainHTTP, insecureTLS bool) *auth.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureTLS && !plainHTTP {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{}
		}
		transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
	}

	store, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(store),
	}
}
