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

import "context"

// Serializer writes one document to a destination chosen at
// construction time. The destination may be local (stdout, a file) or
// remote (a ConfigMap); the context matters for the remote case, where
// the write is a Kubernetes API call that can be canceled.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is implemented by Serializers that hold a resource, such as
// an open file. Callers that receive a Serializer should type-assert
// for it before discarding the value.
type Closer interface {
	Close() error
}
