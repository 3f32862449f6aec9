package api

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/kubescenarios/kubescenarios/pkg/catalog"
	"github.com/kubescenarios/kubescenarios/pkg/defaults"
	apperrors "github.com/kubescenarios/kubescenarios/pkg/errors"
	"github.com/kubescenarios/kubescenarios/pkg/lint"
	"github.com/kubescenarios/kubescenarios/pkg/scenario"
	"github.com/kubescenarios/kubescenarios/pkg/search"
	"github.com/kubescenarios/kubescenarios/pkg/serializer"
	"github.com/kubescenarios/kubescenarios/pkg/server"
)

const (
	// scenarioPathPrefix is the route prefix for single-scenario requests.
	scenarioPathPrefix = "/v1/scenarios/"

	// htmlPathSuffix selects the rendered representation of a scenario.
	htmlPathSuffix = "/html"

	// maxSearchLimit caps the number of hits a single search can request.
	maxSearchLimit = 100
)

// ScenarioList is the body of a scenario list response.
type ScenarioList struct {
	// Total is the number of matching scenarios.
	Total int `json:"total" yaml:"total"`

	// Scenarios holds the matching summaries, sorted by id.
	Scenarios []scenario.Summary `json:"scenarios" yaml:"scenarios"`
}

// SearchResult is the body of a search response.
type SearchResult struct {
	// Query is the search input, echoed back.
	Query string `json:"query" yaml:"query"`

	// Total is the number of hits returned.
	Total int `json:"total" yaml:"total"`

	// Hits holds the scored matches, best first.
	Hits []search.Hit `json:"hits" yaml:"hits"`

	// Suggestion is a rewritten query, present when the query missed the
	// index but a close rewrite exists.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// Handler serves the read side of the catalog API. The catalog and its
// search index are swapped together under a lock, so every request sees a
// consistent pair.
type Handler struct {
	version string

	mu       sync.RWMutex
	provider catalog.DataProvider
	cat      *catalog.Catalog
	index    *search.Index
}

// HandlerOption is a functional option for configuring Handler instances.
type HandlerOption func(*Handler)

// WithVersion returns an option that sets the handler version string.
func WithVersion(version string) HandlerOption {
	return func(h *Handler) {
		h.version = version
	}
}

// WithProvider returns an option that sets the catalog data provider. A
// nil provider means the active global provider (embedded data unless
// catalog.SetDataProvider was called).
func WithProvider(provider catalog.DataProvider) HandlerOption {
	return func(h *Handler) {
		h.provider = provider
	}
}

// NewHandler creates a new Handler with the provided options. Call Load
// before serving; until then every endpoint answers 503.
func NewHandler(opts ...HandlerOption) *Handler {
	h := &Handler{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Load builds the catalog from the handler's current provider and swaps
// it in. See Reload.
func (h *Handler) Load(ctx context.Context) error {
	h.mu.RLock()
	provider := h.provider
	h.mu.RUnlock()
	return h.Reload(ctx, provider)
}

// Reload builds a catalog and search index from the given provider, then
// swaps provider, catalog, and index in one step. On error nothing is
// swapped and the last good catalog keeps serving.
func (h *Handler) Reload(ctx context.Context, provider catalog.DataProvider) error {
	cat, err := catalog.Load(ctx, catalog.Options{Provider: provider})
	if err != nil {
		return err
	}
	index := search.NewIndex(cat.Scenarios())

	h.mu.Lock()
	h.provider = provider
	h.cat = cat
	h.index = index
	h.mu.Unlock()

	return nil
}

// snapshot returns the current catalog and index pair. Both are nil until
// the first successful Load.
func (h *Handler) snapshot() (*catalog.Catalog, *search.Index) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cat, h.index
}

// HandleScenarios lists scenario summaries. Results are filtered by the
// category, difficulty, kind, k8s, and keyword query parameters; all are
// optional and default to match-everything.
func (h *Handler) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r, http.MethodGet)
		return
	}

	q, err := scenario.ParseQuery(r)
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest,
			"Invalid scenario query", false, map[string]any{
				"error": err.Error(),
			})
		return
	}

	cat, _ := h.snapshot()
	if cat == nil {
		writeNotLoaded(w, r)
		return
	}

	matches := cat.List(q)
	list := &ScenarioList{
		Total:     len(matches),
		Scenarios: make([]scenario.Summary, 0, len(matches)),
	}
	for _, s := range matches {
		list.Scenarios = append(list.Scenarios, s.Summarize())
	}

	slog.Debug("scenario list", "query", q.String(), "matches", list.Total)

	setCacheHeader(w)
	serializer.RespondJSON(w, http.StatusOK, list)
}

// HandleScenario returns one scenario by id, as JSON or as rendered HTML
// when the path ends in /html.
func (h *Handler) HandleScenario(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r, http.MethodGet)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, scenarioPathPrefix)
	wantHTML := false
	if trimmed, ok := strings.CutSuffix(id, htmlPathSuffix); ok {
		id = trimmed
		wantHTML = true
	}

	if id == "" || strings.Contains(id, "/") {
		server.WriteError(w, r, http.StatusNotFound, apperrors.ErrCodeNotFound,
			"Scenario not found", false, map[string]any{
				"path": r.URL.Path,
			})
		return
	}

	cat, _ := h.snapshot()
	if cat == nil {
		writeNotLoaded(w, r)
		return
	}

	s, ok := cat.Get(id)
	if !ok {
		server.WriteError(w, r, http.StatusNotFound, apperrors.ErrCodeNotFound,
			"Scenario not found", false, map[string]any{
				"id": id,
			})
		return
	}

	setCacheHeader(w)

	if wantHTML {
		var buf bytes.Buffer
		if err := s.RenderHTML(&buf); err != nil {
			server.WriteErrorFromErr(w, r, err, "Failed to render scenario", map[string]any{
				"id": id,
			})
			return
		}
		serializer.RespondHTML(w, http.StatusOK, buf.Bytes())
		return
	}

	serializer.RespondJSON(w, http.StatusOK, s)
}

// HandleSearch runs a full-text query over the served catalog. Parameters:
// q (required) and limit (optional, capped at maxSearchLimit). A query
// with no hits may carry a "did you mean" rewrite in the response.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r, http.MethodGet)
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		server.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest,
			"Search query cannot be empty", false, map[string]any{
				"parameter": "q",
			})
		return
	}

	limit := search.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			server.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest,
				"Limit must be a positive integer", false, map[string]any{
					"limit": raw,
				})
			return
		}
		if n > maxSearchLimit {
			n = maxSearchLimit
		}
		limit = n
	}

	_, index := h.snapshot()
	if index == nil {
		writeNotLoaded(w, r)
		return
	}

	hits := index.Search(q, limit)
	result := &SearchResult{
		Query: q,
		Total: len(hits),
		Hits:  hits,
	}
	if len(hits) == 0 {
		result.Hits = []search.Hit{}
		if rewritten, ok := index.DidYouMean(q); ok {
			result.Suggestion = rewritten
		}
	}

	slog.Debug("search", "query", q, "hits", result.Total, "limit", limit)

	serializer.RespondJSON(w, http.StatusOK, result)
}

// HandleLint lints every document of the served catalog and returns the
// report. Rule violations are findings inside the report, not HTTP errors.
func (h *Handler) HandleLint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.LintHandlerTimeout)
	defer cancel()

	h.mu.RLock()
	provider := h.provider
	h.mu.RUnlock()

	report, err := lint.New(lint.WithVersion(h.version)).Run(ctx, provider)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to lint catalog", nil)
		return
	}

	slog.Debug("lint report served",
		"status", report.Summary.Status,
		"failed", report.Summary.Failed)

	serializer.RespondJSON(w, http.StatusOK, report)
}

// writeMethodNotAllowed rejects the request with a 405 and an Allow header.
func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	server.WriteError(w, r, http.StatusMethodNotAllowed, apperrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{
			"method":  r.Method,
			"allowed": allowed,
		})
}

// writeNotLoaded answers 503 until a catalog has been loaded.
func writeNotLoaded(w http.ResponseWriter, r *http.Request) {
	server.WriteError(w, r, http.StatusServiceUnavailable, apperrors.ErrCodeUnavailable,
		"Catalog not loaded", true, nil)
}

// setCacheHeader marks scenario responses cacheable. Documents only change
// on catalog reload, so short public caching is safe.
func setCacheHeader(w http.ResponseWriter) {
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, max-age=%d", int(defaults.ScenarioCacheTTL.Seconds())))
}
