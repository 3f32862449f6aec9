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

package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kubescenarios/kubescenarios/pkg/defaults"
	"github.com/kubescenarios/kubescenarios/pkg/header"
	"github.com/kubescenarios/kubescenarios/pkg/k8s/client"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"
	restclient "k8s.io/client-go/rest"
)

// ConfigMapURIScheme prefixes Kubernetes ConfigMap targets, written as
// cm://namespace/name.
const ConfigMapURIScheme = "cm://"

// kindFallback labels ConfigMaps whose document carries no header.
const kindFallback = "document"

// parseConfigMapURI splits cm://namespace/name into its parts. Only the
// first separator counts, so names containing slashes pass through intact
// for the API server to judge.
func parseConfigMapURI(uri string) (namespace, name string, err error) {
	target, ok := strings.CutPrefix(uri, ConfigMapURIScheme)
	if !ok {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	namespace, name, ok = strings.Cut(target, "/")
	if !ok {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(namespace)
	name = strings.TrimSpace(name)
	switch {
	case namespace == "":
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	case name == "":
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}
	return namespace, name, nil
}

// ConfigMapWriter publishes serialized documents into a Kubernetes
// ConfigMap, creating it on first write and updating it afterwards.
type ConfigMapWriter struct {
	namespace string
	name      string
	format    Format
}

// NewConfigMapWriter targets namespace/name with the given format. Unknown
// formats degrade to JSON the same way file writers do.
func NewConfigMapWriter(namespace, name string, format Format) *ConfigMapWriter {
	return &ConfigMapWriter{
		namespace: namespace,
		name:      name,
		format:    normalizeFormat(format),
	}
}

// Serialize applies the document to the target ConfigMap. The resulting
// object carries three data keys: document.{yaml|json|txt} with the encoded
// content, format, and timestamp.
func (w *ConfigMapWriter) Serialize(ctx context.Context, doc any) error {
	// Bound the Kubernetes API call; the client rate limiter can delay
	// the request after heavy API usage.
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	kube, config, err := client.GetKubeClient()
	if err != nil {
		return fmt.Errorf("failed to get kubernetes client: %w", err)
	}

	content, extension, err := w.encode(doc)
	if err != nil {
		return err
	}

	kind, version, timestamp := documentMeta(doc)

	slog.Info("applying ConfigMap",
		"namespace", w.namespace,
		"name", w.name,
		"auth_method", authMethod(config),
		"format", w.format,
		"kind", kind)

	configMap := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "kubescenarios",
			"app.kubernetes.io/component": kind,
			"app.kubernetes.io/version":   version,
		}).
		WithData(map[string]string{
			"document." + extension: string(content),
			"format":                string(w.format),
			"timestamp":             timestamp,
		})

	// Server-Side Apply gets an atomic create-or-update; Force claims the
	// fields back when the CLI and the daemon alternate as field managers.
	_, err = kube.CoreV1().ConfigMaps(w.namespace).Apply(writeCtx, configMap, metav1.ApplyOptions{
		FieldManager: "scenctl",
		Force:        true,
	})
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap: %w", err)
	}
	return nil
}

// Close satisfies Closer; ConfigMapWriter holds nothing open between writes.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// encode renders the document in the writer's format and reports the file
// extension used for the ConfigMap data key.
func (w *ConfigMapWriter) encode(doc any) (content []byte, extension string, err error) {
	switch w.format {
	case FormatJSON:
		content, err = encodeJSON(doc)
		extension = "json"
	case FormatYAML:
		content, err = encodeYAML(doc)
		extension = "yaml"
	case FormatTable:
		content, err = encodeTable(doc)
		extension = "txt"
	default:
		return nil, "", fmt.Errorf("unsupported format for ConfigMap: %s", w.format)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize document: %w", err)
	}
	return content, extension, nil
}

// documentMeta pulls kind, version, and timestamp from documents that carry
// a header, substituting placeholders so the ConfigMap labels stay well
// formed either way.
func documentMeta(doc any) (kind, version, timestamp string) {
	if h, ok := doc.(interface {
		GetKind() header.Kind
		GetMetadata() map[string]string
	}); ok {
		kind = h.GetKind().String()
		meta := h.GetMetadata()
		version = meta["version"]
		timestamp = meta["timestamp"]
	}

	if kind == "" {
		kind = kindFallback
	}
	if version == "" {
		version = "unknown"
	}
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return kind, version, timestamp
}

// authMethod names the credential source for the audit log line.
func authMethod(config *restclient.Config) string {
	switch {
	case config.AuthProvider != nil:
		return config.AuthProvider.Name
	case config.ExecProvider != nil:
		return "exec"
	case config.BearerToken != "":
		return "bearer-token"
	case config.CertData != nil:
		return "cert"
	}
	return "default"
}
