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

// Package serializer reads and writes catalog documents in JSON, YAML,
// and table form.
//
// One Writer serves every output target the CLI understands: stdout, a
// local file, or a Kubernetes ConfigMap addressed as cm://namespace/name.
// NewFileWriterOrStdout picks the target from the path shape and always
// returns something usable, degrading to stdout when the file or URI is
// bad. Table output flattens nested documents into dotted FIELD/VALUE
// rows for terminal reading; it is write-only.
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, "cm://scenarios/catalog-export")
//	if c, ok := w.(serializer.Closer); ok {
//		defer c.Close()
//	}
//	err := w.Serialize(ctx, cat)
//
// Reading mirrors writing. NewFileReaderAuto maps the file extension
// through FormatFromPath (unrecognized extensions decode as JSON),
// NewFileReader accepts http(s) URLs by downloading to a temporary file
// first, and FromFile wraps the open-decode-close sequence in one
// generic call. FromFile also resolves cm:// sources, and
// FromFileWithKubeconfig does the same against an explicit kubeconfig:
//
//	cat, err := serializer.FromFile[catalog.Catalog]("catalog.json")
//
// ConfigMap writes go through Server-Side Apply and store the payload
// under document.{json|yaml|txt} next to format and timestamp keys;
// cluster access follows the kubeconfig discovery in pkg/k8s/client.
// HttpReader performs the remote fetches with pooling and timeout
// knobs, and RespondJSON and RespondHTML back the API server handlers.
package serializer
