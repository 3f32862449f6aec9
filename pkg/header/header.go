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

package header

import (
	"time"
)

// Kind names the document type so serialized files and ConfigMaps announce
// what they hold.
type Kind string

// Every document the toolchain emits uses one of these kinds.
const (
	KindCatalog    Kind = "Catalog"
	KindScenario   Kind = "Scenario"
	KindLintReport Kind = "LintReport"
	KindQuizSheet  Kind = "QuizSheet"
	KindQuizKey    Kind = "QuizKey"
	KindQuizResult Kind = "QuizResult"
	KindBundle     Kind = "Bundle"
)

func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the recognized kinds. Matching is
// exact; "catalog" is not KindCatalog.
func (k Kind) IsValid() bool {
	switch k {
	case KindCatalog, KindScenario, KindLintReport,
		KindQuizSheet, KindQuizKey, KindQuizResult, KindBundle:
		return true
	}
	return false
}

// Header is the leading block every serialized document shares, shaped
// after the Kubernetes kind/apiVersion/metadata convention so catalog and
// quiz files read like the manifests they describe.
type Header struct {
	// Kind is the document type.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata holds free-form key-value pairs such as version and
	// timestamp.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Option configures a Header built by New.
type Option func(*Header)

// WithKind sets the document type.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithAPIVersion sets the schema version of the document.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// WithMetadata adds one metadata entry, allocating the map when the Header
// does not have one yet.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// New builds a Header from options. The Metadata map is always non-nil so
// callers can assign entries directly.
func New(opts ...Option) *Header {
	h := &Header{Metadata: make(map[string]string)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Init stamps the header for a freshly produced document: kind and schema
// version as given, metadata reset to a creation timestamp plus the tool
// version when one is known. Anything previously in the header is replaced.
func (h *Header) Init(kind Kind, apiVersion, version string) {
	h.Kind = kind
	h.APIVersion = apiVersion
	h.Metadata = map[string]string{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if version != "" {
		h.Metadata["version"] = version
	}
}

// SetKind updates the document type in place.
func (h *Header) SetKind(kind Kind) {
	h.Kind = kind
}

// GetKind returns the document type. Together with GetMetadata it lets the
// serializer label ConfigMaps without knowing the concrete document type.
func (h *Header) GetKind() Kind {
	return h.Kind
}

// GetMetadata returns the header's metadata map.
func (h *Header) GetMetadata() map[string]string {
	return h.Metadata
}
