package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kubescenarios/kubescenarios/pkg/defaults"
	apperrors "github.com/kubescenarios/kubescenarios/pkg/errors"
	"github.com/kubescenarios/kubescenarios/pkg/quiz"
	"github.com/kubescenarios/kubescenarios/pkg/serializer"
	"github.com/kubescenarios/kubescenarios/pkg/server"
	gocache "github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"
)

const (
	// quizPathPrefix is the route prefix for session-scoped quiz requests.
	quizPathPrefix = "/v1/quizzes/"

	// gradePathSuffix is the grade operation on a quiz session.
	gradePathSuffix = "/grade"
)

// QuizSession is the body of a quiz creation response. The sheet is
// redacted; answers stay server-side until the session is graded.
type QuizSession struct {
	// SessionID identifies the session for the grade call.
	SessionID string `json:"sessionId" yaml:"sessionId"`

	// ExpiresAt is when an ungraded session is evicted.
	ExpiresAt time.Time `json:"expiresAt" yaml:"expiresAt"`

	// Sheet holds the questions to present, answers withheld.
	Sheet *quiz.Sheet `json:"sheet" yaml:"sheet"`
}

// GradeRequest is the body of a grade request. Responses map question id
// to the chosen option index.
type GradeRequest struct {
	Responses map[int]int `json:"responses" yaml:"responses"`
}

// QuizSessions serves quiz creation and grading over a handler's catalog.
// Authored sheets are held in an expiring in-memory store so answers never
// reach the client before grading.
type QuizSessions struct {
	handler  *Handler
	sessions *gocache.Cache
}

// NewQuizSessions creates a session store over the given handler. Ungraded
// sessions expire after defaults.QuizSessionTTL.
func NewQuizSessions(h *Handler) *QuizSessions {
	return &QuizSessions{
		handler:  h,
		sessions: gocache.New(defaults.QuizSessionTTL, defaults.QuizSessionSweep),
	}
}

// HandleQuizzes creates a quiz session from POSTed parameters (JSON or
// YAML; an empty body uses defaults). The response carries the redacted
// sheet and the session id to grade against.
func (qs *QuizSessions) HandleQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r, http.MethodPost)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.ScenarioHandlerTimeout)
	defer cancel()

	defer func() {
		if r.Body != nil {
			r.Body.Close()
		}
	}()

	params, err := parseQuizParams(r.Body, r.Header.Get("Content-Type"))
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest,
			"Invalid quiz parameters", false, map[string]any{
				"error": err.Error(),
			})
		return
	}

	cat, _ := qs.handler.snapshot()
	if cat == nil {
		writeNotLoaded(w, r)
		return
	}

	// The stored sheet keeps its answers for grading. The response copy
	// is redacted no matter what the caller asked for.
	params.IncludeAnswers = true

	sheet, err := quiz.New(quiz.WithVersion(qs.handler.version)).Build(ctx, cat, *params)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to build quiz", nil)
		return
	}

	id := uuid.New().String()
	qs.sessions.Set(id, sheet, gocache.DefaultExpiration)
	quizSessionsCreated.Inc()

	slog.Debug("quiz session created",
		"session", id,
		"questions", len(sheet.Questions),
		"seed", sheet.Seed)

	serializer.RespondJSON(w, http.StatusCreated, &QuizSession{
		SessionID: id,
		ExpiresAt: time.Now().Add(defaults.QuizSessionTTL),
		Sheet:     sheet.Redact(),
	})
}

// HandleQuizGrade grades a POSTed response set against the stored session
// sheet. A session grades once; the call consumes it.
func (qs *QuizSessions) HandleQuizGrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r, http.MethodPost)
		return
	}

	id, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, quizPathPrefix), gradePathSuffix)
	if !ok || id == "" || strings.Contains(id, "/") {
		server.WriteError(w, r, http.StatusNotFound, apperrors.ErrCodeNotFound,
			"Not found", false, map[string]any{
				"path": r.URL.Path,
			})
		return
	}

	defer func() {
		if r.Body != nil {
			r.Body.Close()
		}
	}()

	req, err := parseGradeRequest(r.Body, r.Header.Get("Content-Type"))
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest,
			"Invalid grade request", false, map[string]any{
				"error": err.Error(),
			})
		return
	}

	stored, found := qs.sessions.Get(id)
	if !found {
		server.WriteError(w, r, http.StatusNotFound, apperrors.ErrCodeNotFound,
			"Quiz session not found or expired", false, map[string]any{
				"session": id,
			})
		return
	}
	sheet, ok := stored.(*quiz.Sheet)
	if !ok {
		server.WriteError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternal,
			"Corrupt quiz session", true, map[string]any{
				"session": id,
			})
		return
	}

	result, err := quiz.Grade(sheet, req.Responses)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to grade quiz", nil)
		return
	}

	// One grade per session.
	qs.sessions.Delete(id)
	quizSessionsGraded.Inc()

	slog.Debug("quiz session graded",
		"session", id,
		"correct", result.Correct,
		"total", result.Total)

	serializer.RespondJSON(w, http.StatusOK, result)
}

// parseQuizParams decodes quiz parameters from a request body based on the
// Content-Type header. An empty body means default parameters; every field
// is optional.
func parseQuizParams(body io.Reader, contentType string) (*quiz.Params, error) {
	params := &quiz.Params{}

	if body == nil {
		return params, nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) == 0 {
		return params, nil
	}

	if err := unmarshalBody(data, contentType, params); err != nil {
		return nil, err
	}
	return params, nil
}

// parseGradeRequest decodes a grade submission. The body is required and
// must carry at least one response.
func parseGradeRequest(body io.Reader, contentType string) (*GradeRequest, error) {
	if body == nil {
		return nil, fmt.Errorf("request body cannot be nil")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("request body is empty")
	}

	req := &GradeRequest{}
	if err := unmarshalBody(data, contentType, req); err != nil {
		return nil, err
	}
	if len(req.Responses) == 0 {
		return nil, fmt.Errorf("responses cannot be empty")
	}
	return req, nil
}

// unmarshalBody decodes data as JSON or YAML based on the Content-Type
// header. Empty and unrecognized content types fall back to JSON.
func unmarshalBody(data []byte, contentType string, out any) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	// Extract media type (strip charset and other params)
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}

	switch ct {
	case "application/x-yaml", "application/yaml", "text/yaml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse YAML body: %w", err)
		}
	case "application/json", "":
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse JSON body: %w", err)
		}
	default:
		// Try JSON first for unrecognized types
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unsupported content type %q and failed to parse as JSON: %w", contentType, err)
		}
	}
	return nil
}
