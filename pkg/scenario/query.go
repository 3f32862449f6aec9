package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kubescenarios/kubescenarios/pkg/version"
)

const (
	anyValue = "any"
)

// Query represents a catalog filter with various scenario attributes.
type Query struct {
	// Category filters by scenario category (e.g. networking, scheduling).
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`

	// Difficulty filters by expected operator experience level.
	Difficulty Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`

	// Kind filters by Kubernetes object kind (e.g. Service, Deployment).
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// K8s is the caller's cluster version; scenarios requiring a newer
	// minimum are filtered out (e.g. 1.24 or v1.24.17-eks-3025e55).
	K8s *version.Version `json:"k8s,omitempty" yaml:"k8s,omitempty"`

	// Keyword filters by front matter keyword.
	Keyword string `json:"keyword,omitempty" yaml:"keyword,omitempty"`
}

// IsEmpty reports whether every filter field is a wildcard.
func (q *Query) IsEmpty() bool {
	return (q.Category == "" || q.Category == CategoryAny) &&
		(q.Difficulty == "" || q.Difficulty == DifficultyAny) &&
		(q.Kind == "" || strings.EqualFold(q.Kind, anyValue)) &&
		(q.K8s == nil || !q.K8s.IsValid()) &&
		q.Keyword == ""
}

// MarshalJSON implements custom JSON marshaling for Query.
// It omits fields that are set to their default "any" value to produce cleaner JSON output.
func (q Query) MarshalJSON() ([]byte, error) {
	aux := struct {
		Category   *Category   `json:"category,omitempty"`
		Difficulty *Difficulty `json:"difficulty,omitempty"`
		Kind       *string     `json:"kind,omitempty"`
		K8s        *string     `json:"k8s,omitempty"`
		Keyword    *string     `json:"keyword,omitempty"`
	}{}

	// Only include non-empty and non-"any" values
	if q.Category != "" && q.Category != CategoryAny {
		aux.Category = &q.Category
	}
	if q.Difficulty != "" && q.Difficulty != DifficultyAny {
		aux.Difficulty = &q.Difficulty
	}
	if q.Kind != "" && !strings.EqualFold(q.Kind, anyValue) {
		aux.Kind = &q.Kind
	}
	if q.K8s != nil {
		v := q.K8s.String()
		aux.K8s = &v
	}
	if q.Keyword != "" {
		aux.Keyword = &q.Keyword
	}

	return json.Marshal(aux)
}

// UnmarshalJSON implements custom JSON unmarshaling for Query.
// It handles the omitted "any" values by treating missing fields as wildcards.
func (q *Query) UnmarshalJSON(data []byte) error {
	aux := struct {
		Category   *Category   `json:"category"`
		Difficulty *Difficulty `json:"difficulty"`
		Kind       *string     `json:"kind"`
		K8s        *string     `json:"k8s"`
		Keyword    *string     `json:"keyword"`
	}{}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.Category != nil {
		q.Category = *aux.Category
	} else {
		q.Category = CategoryAny
	}

	if aux.Difficulty != nil {
		q.Difficulty = *aux.Difficulty
	} else {
		q.Difficulty = DifficultyAny
	}

	if aux.Kind != nil {
		q.Kind = *aux.Kind
	} else {
		q.Kind = anyValue
	}

	if aux.K8s != nil {
		v, err := version.ParseVersion(*aux.K8s)
		if err != nil {
			return fmt.Errorf("invalid k8s: %w", err)
		}
		q.K8s = &v
	} else {
		q.K8s = nil
	}

	if aux.Keyword != nil {
		q.Keyword = *aux.Keyword
	}

	return nil
}

// Validate checks if the query has valid field values.
func (q *Query) Validate() error {
	if q == nil {
		return fmt.Errorf("query cannot be nil")
	}

	if q.Category != "" && q.Category != CategoryAny && !q.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", q.Category)
	}
	if q.Difficulty != "" && q.Difficulty != DifficultyAny && !q.Difficulty.IsValid() {
		return fmt.Errorf("invalid difficulty: %s", q.Difficulty)
	}
	if q.K8s != nil && !q.K8s.IsValid() {
		return fmt.Errorf("invalid k8s version: %s", q.K8s.String())
	}

	return nil
}

// IsMatch reports whether the scenario satisfies every populated filter
// field. Empty or "any" fields act as wildcards, so an empty query matches
// every scenario.
func (q *Query) IsMatch(s *Scenario) bool {
	if q == nil || s == nil {
		return false
	}
	if !matchEnum(q.Category, s.Category, CategoryAny) {
		return false
	}
	if !matchEnum(q.Difficulty, s.Difficulty, DifficultyAny) {
		return false
	}
	if q.Kind != "" && !strings.EqualFold(q.Kind, anyValue) && !s.HasKind(q.Kind) {
		return false
	}
	if !matchMinVersion(q.K8s, s.MinKubernetes) {
		return false
	}
	if q.Keyword != "" && !s.hasKeyword(q.Keyword) {
		return false
	}
	return true
}

// String returns a human-readable representation of the query.
func (q *Query) String() string {
	return fmt.Sprintf("Category: %s, Difficulty: %s, Kind: %s, K8s: %s, Keyword: %s",
		normalizeValue(q.Category),
		normalizeValue(q.Difficulty),
		normalizeValue(q.Kind),
		normalizeVersionValue(q.K8s),
		normalizeValue(q.Keyword),
	)
}

// normalizeValue normalizes a string value for display.
// If the value is empty or only whitespace, it returns "any".
func normalizeValue[T ~string](val T) string {
	var zero T
	if val == zero {
		return anyValue
	}
	v := strings.TrimSpace(string(val))
	if v == "" {
		return anyValue
	}
	return strings.ToLower(v)
}

// normalizeVersionValue normalizes a version value for display.
// If the version is nil or invalid (zero/unset), it returns "any".
func normalizeVersionValue(val *version.Version) string {
	if val == nil || !val.IsValid() {
		return anyValue
	}
	return normalizeValue(strings.TrimSpace(val.String()))
}

// Query parameter names accepted by list and search endpoints.
const (
	QueryParamCategory   string = "category"
	QueryParamDifficulty string = "difficulty"
	QueryParamKind       string = "kind"
	QueryParamKubernetes string = "k8s"
	QueryParamKeyword    string = "keyword"
)

// Category classifies a scenario by operational area.
type Category string

const (
	CategoryAny           Category = anyValue
	CategoryWorkloads     Category = "workloads"
	CategoryNetworking    Category = "networking"
	CategoryStorage       Category = "storage"
	CategoryConfiguration Category = "configuration"
	CategorySecurity      Category = "security"
	CategoryScheduling    Category = "scheduling"
	CategoryOperations    Category = "operations"
	CategoryObservability Category = "observability"
)

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// IsValid returns true if the category is a valid supported value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAny, CategoryWorkloads, CategoryNetworking, CategoryStorage,
		CategoryConfiguration, CategorySecurity, CategoryScheduling,
		CategoryOperations, CategoryObservability:
		return true
	default:
		return false
	}
}

// SupportedCategories returns all supported category values.
func SupportedCategories() []Category {
	return []Category{
		CategoryAny, CategoryWorkloads, CategoryNetworking, CategoryStorage,
		CategoryConfiguration, CategorySecurity, CategoryScheduling,
		CategoryOperations, CategoryObservability,
	}
}

// ParseCategory parses the category from query parameters.
func ParseCategory(list url.Values) (Category, error) {
	catStr := strings.ToLower(list.Get(QueryParamCategory))
	if catStr == "" {
		return CategoryAny, nil
	}

	cat := Category(catStr)
	if !cat.IsValid() {
		supported := make([]string, 0, len(SupportedCategories()))
		for _, c := range SupportedCategories() {
			supported = append(supported, c.String())
		}
		return "", fmt.Errorf("invalid category: %s, supported: %s", catStr, strings.Join(supported, ", "))
	}
	return cat, nil
}

// Difficulty indicates the expected operator experience level.
type Difficulty string

const (
	DifficultyAny          Difficulty = anyValue
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// String returns the string representation of the difficulty.
func (d Difficulty) String() string {
	return string(d)
}

// IsValid returns true if the difficulty is a valid supported value.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyAny, DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// SupportedDifficulties returns all supported difficulty values.
func SupportedDifficulties() []Difficulty {
	return []Difficulty{DifficultyAny, DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// ParseDifficulty parses the difficulty from query parameters.
func ParseDifficulty(list url.Values) (Difficulty, error) {
	diffStr := strings.ToLower(list.Get(QueryParamDifficulty))
	if diffStr == "" {
		return DifficultyAny, nil
	}

	diff := Difficulty(diffStr)
	if !diff.IsValid() {
		supported := make([]string, 0, len(SupportedDifficulties()))
		for _, d := range SupportedDifficulties() {
			supported = append(supported, d.String())
		}
		return "", fmt.Errorf("invalid difficulty: %s, supported: %s", diffStr, strings.Join(supported, ", "))
	}
	return diff, nil
}

// ParseQuery parses an HTTP request into a Query struct.
func ParseQuery(r *http.Request) (*Query, error) {
	u := r.URL.Query()
	q := &Query{}

	var err error

	// Parse category
	if q.Category, err = ParseCategory(u); err != nil {
		return nil, err
	}

	// Parse difficulty
	if q.Difficulty, err = ParseDifficulty(u); err != nil {
		return nil, err
	}

	// Parse kind
	if kindStr := u.Get(QueryParamKind); kindStr != "" {
		q.Kind = kindStr
	}

	// Parse Kubernetes version
	if k8sStr := u.Get(QueryParamKubernetes); k8sStr != "" {
		var k8sVer version.Version
		if k8sVer, err = version.ParseVersion(k8sStr); err != nil {
			if errors.Is(err, version.ErrNegativeComponent) {
				return nil, fmt.Errorf("kubernetes version cannot contain negative numbers: %s", k8sStr)
			}
			return nil, fmt.Errorf("invalid kubernetes version %q: %w", k8sStr, err)
		}
		q.K8s = &k8sVer
	}

	// Parse keyword
	if kwStr := u.Get(QueryParamKeyword); kwStr != "" {
		q.Keyword = strings.TrimSpace(kwStr)
	}

	return q, nil
}

func matchEnum[T ~string](rule, candidate, wildcard T) bool {
	var zero T
	if rule == zero || rule == wildcard {
		return true
	}
	if candidate == zero || candidate == wildcard {
		return false
	}
	return rule == candidate
}

// matchMinVersion reports whether a cluster at version have satisfies a
// scenario minimum. A nil minimum matches anything; a nil cluster version
// means the caller did not filter.
func matchMinVersion(have, minimum *version.Version) bool {
	if have == nil || !have.IsValid() {
		return true
	}
	if minimum == nil || !minimum.IsValid() {
		return true
	}
	return have.EqualsOrNewer(*minimum)
}

func (s *Scenario) hasKeyword(keyword string) bool {
	for _, k := range s.Keywords {
		if strings.EqualFold(k, keyword) {
			return true
		}
	}
	return false
}
