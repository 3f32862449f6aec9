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

package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseVersion failures wrap one of these sentinels, so callers can
// classify them with errors.Is.
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
)

// Version is a dotted version number. Precision records how many of the
// Major/Minor/Patch components the source string actually spelled out, and
// comparisons only look that far: a scenario requiring "1.24" matches any
// 1.24.x server. Distro suffixes such as "-eks-3025e55" or "-gke.1337000",
// common on Kubernetes server versions, survive in Extras.
type Version struct {
	Major int `json:"major,omitempty" yaml:"major,omitempty"`
	Minor int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Precision is the number of significant components (1, 2, or 3).
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Extras holds whatever followed the numeric components, including the
	// leading '-' or '+'.
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// NewVersion builds a fully significant three-component version. Parse a
// string with ParseVersion when lower precision matters.
func NewVersion(major, minor, patch int) Version {
	return Version{
		Major:     major,
		Minor:     minor,
		Patch:     patch,
		Precision: 3,
	}
}

// String renders the significant components, "1", "1.24", or "1.24.17"
// depending on precision. Extras are left out; see FullString.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// FullString renders the version including any preserved Extras suffix.
func (v Version) FullString() string {
	return v.String() + v.Extras
}

// splitExtras cuts a version string at the first '-' or '+' that directly
// follows a digit. "1.28.0-gke.1337000" needs the digit guard because the
// suffix itself may contain dots, and a leading '-' must not be mistaken
// for a suffix marker.
func splitExtras(s string) (main, extras string) {
	for i := 1; i < len(s); i++ {
		if s[i] != '-' && s[i] != '+' {
			continue
		}
		if prev := s[i-1]; prev >= '0' && prev <= '9' {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// ParseVersion parses strings like "1", "1.24", "1.24.17", "v1.24.17",
// "1.28.0-gke.1337000", or "1.2.3+metadata". The optional "v" prefix is
// dropped and anything after the numeric components lands in Extras.
// Precision follows the number of components present.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	main, extras := splitExtras(strings.TrimPrefix(s, "v"))

	parts := strings.Split(main, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	v := Version{Extras: extras, Precision: len(parts)}
	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		if num < 0 {
			return Version{}, fmt.Errorf("%w: %d", ErrNegativeComponent, num)
		}
		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}
	return v, nil
}

// MustParseVersion is ParseVersion for hardcoded strings; it panics on
// malformed input. Keep it to package initialization and tests, and handle
// ParseVersion errors explicitly anywhere the string comes from outside.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseVersion: %v", err))
	}
	return v
}

// compareAt compares the first n components of v and other. Any n outside
// 1..3 counts as full precision.
func (v Version) compareAt(other Version, n int) int {
	if n < 1 || n > 3 {
		n = 3
	}
	lhs := [3]int{v.Major, v.Minor, v.Patch}
	rhs := [3]int{other.Major, other.Minor, other.Patch}
	for i := 0; i < n; i++ {
		switch {
		case lhs[i] < rhs[i]:
			return -1
		case lhs[i] > rhs[i]:
			return 1
		}
	}
	return 0
}

// EqualsOrNewer reports whether v is at least other, comparing only as many
// components as v's precision makes significant. Version{Major: 1, Minor: 24,
// Precision: 2} therefore accepts any 1.24.x.
func (v Version) EqualsOrNewer(other Version) bool {
	return v.compareAt(other, v.Precision) >= 0
}

// IsNewer reports whether v is strictly newer than other, up to v's
// precision.
func (v Version) IsNewer(other Version) bool {
	return v.compareAt(other, v.Precision) > 0
}

// Equals reports whether all three components match, regardless of either
// version's precision.
func (v Version) Equals(other Version) bool {
	return v.compareAt(other, 3) == 0
}

// Compare orders v against other (-1, 0, or 1) using the lower of the two
// precisions, which makes it suitable for sorting mixed-precision sets.
func (v Version) Compare(other Version) int {
	return v.compareAt(other, min(v.Precision, other.Precision))
}

// IsValid reports whether the components are non-negative and the precision
// is between 1 and 3.
func (v Version) IsValid() bool {
	return v.Major >= 0 && v.Minor >= 0 && v.Patch >= 0 &&
		v.Precision >= 1 && v.Precision <= 3
}

// MarshalJSON serializes the version as its string form ("1.24" rather
// than an object), keeping documents and API responses readable.
func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.FullString())
}

// UnmarshalJSON parses the version from its string form.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML serializes the version as its string form.
func (v Version) MarshalYAML() (any, error) {
	return v.FullString(), nil
}

// UnmarshalYAML parses the version from a YAML scalar. Front matter may
// declare the value as a bare float (1.24), so the raw scalar value is
// used rather than a typed decode.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("version must be a scalar, got %s", node.Tag)
	}
	parsed, err := ParseVersion(strings.TrimSpace(node.Value))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
