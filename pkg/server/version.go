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

package server

import (
	"net/http"
	"strings"
)

// DefaultAPIVersion is served when the client does not ask for a version,
// or asks for one this build does not speak.
const DefaultAPIVersion = "v1"

// versionMIMEPrefix is the vendor media type stem clients use to pin an
// API version, as in application/vnd.kubescenarios.v1+json.
const versionMIMEPrefix = "application/vnd.kubescenarios."

// supportedAPIVersions gates negotiation. New versions are added here once
// their handlers exist.
var supportedAPIVersions = map[string]bool{
	"v1": true,
}

// negotiateAPIVersion resolves the API version for a request from its
// Accept header. Anything other than a supported vendor media type falls
// back to DefaultAPIVersion; a client asking for v9 gets v1 rather than
// an error, and can detect the downgrade from X-API-Version.
func negotiateAPIVersion(r *http.Request) string {
	_, rest, ok := strings.Cut(r.Header.Get("Accept"), versionMIMEPrefix)
	if !ok {
		return DefaultAPIVersion
	}

	version, _, _ := strings.Cut(rest, "+")
	if isValidAPIVersion(version) {
		return version
	}
	return DefaultAPIVersion
}

func isValidAPIVersion(version string) bool {
	return supportedAPIVersions[version]
}

// SetAPIVersionHeader records the negotiated version on the response.
func SetAPIVersionHeader(w http.ResponseWriter, version string) {
	w.Header().Set("X-API-Version", version)
}
