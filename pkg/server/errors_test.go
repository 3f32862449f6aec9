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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	kserrors "github.com/kubescenarios/kubescenarios/pkg/errors"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not valid JSON: %v", err)
	}
	return resp
}

// Every error code maps to exactly one status, and retryability follows
// from whether waiting could plausibly help.
func TestErrorCodeMapping(t *testing.T) {
	cases := []struct {
		code      kserrors.ErrorCode
		status    int
		retryable bool
	}{
		{kserrors.ErrCodeInvalidRequest, http.StatusBadRequest, false},
		{kserrors.ErrCodeUnauthorized, http.StatusUnauthorized, false},
		{kserrors.ErrCodeNotFound, http.StatusNotFound, false},
		{kserrors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed, false},
		{kserrors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests, true},
		{kserrors.ErrCodeUnavailable, http.StatusServiceUnavailable, true},
		{kserrors.ErrCodeTimeout, http.StatusGatewayTimeout, true},
		{kserrors.ErrCodeInternal, http.StatusInternalServerError, true},
		{kserrors.ErrorCode("NEVER_HEARD_OF_IT"), http.StatusInternalServerError, false},
	}

	for _, tc := range cases {
		if got := HTTPStatusFromCode(tc.code); got != tc.status {
			t.Errorf("HTTPStatusFromCode(%q) = %d, want %d", tc.code, got, tc.status)
		}
		if got := retryableFromCode(tc.code); got != tc.retryable {
			t.Errorf("retryableFromCode(%q) = %v, want %v", tc.code, got, tc.retryable)
		}
	}
}

func TestMergeDetails(t *testing.T) {
	if got := mergeDetails(nil, nil); got != nil {
		t.Errorf("mergeDetails(nil, nil) = %#v, want nil", got)
	}
	if got := mergeDetails(map[string]any{}, map[string]any{}); got != nil {
		t.Errorf("empty maps should merge to nil, got %#v", got)
	}

	got := mergeDetails(
		map[string]any{"scenario": "pod-crashloop-triage", "attempt": 1},
		map[string]any{"attempt": 2, "namespace": "training"},
	)
	if got["scenario"] != "pod-crashloop-triage" {
		t.Errorf("scenario = %#v, want pod-crashloop-triage", got["scenario"])
	}
	if got["attempt"] != 2 {
		t.Errorf("attempt = %#v, want the second map to win", got["attempt"])
	}
	if got["namespace"] != "training" {
		t.Errorf("namespace = %#v, want training", got["namespace"])
	}
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/scenarios/unknown-id", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-123"))
	rec := httptest.NewRecorder()

	WriteError(rec, req, http.StatusNotFound, kserrors.ErrCodeNotFound,
		"Scenario not found", false, map[string]any{"id": "unknown-id"})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	resp := decodeError(t, rec)
	if resp.Code != string(kserrors.ErrCodeNotFound) {
		t.Errorf("code = %q, want %q", resp.Code, kserrors.ErrCodeNotFound)
	}
	if resp.Message != "Scenario not found" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.RequestID != "req-123" {
		t.Errorf("requestId = %q, want req-123", resp.RequestID)
	}
	if resp.Retryable {
		t.Error("a 404 should not be marked retryable")
	}
	if resp.Details["id"] != "unknown-id" {
		t.Errorf("details = %#v, want id=unknown-id", resp.Details)
	}
	if resp.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestWriteError_GeneratesRequestID(t *testing.T) {
	// No request ID middleware ran; the envelope still gets one.
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil),
		http.StatusBadRequest, kserrors.ErrCodeInvalidRequest, "bad", false, nil)

	if resp := decodeError(t, rec); resp.RequestID == "" {
		t.Error("requestId empty when context had none")
	}
}

func TestWriteErrorFromErr(t *testing.T) {
	t.Run("structured error drives status and details", func(t *testing.T) {
		cause := errors.New("sheet store unreachable")
		err := kserrors.WrapWithContext(kserrors.ErrCodeUnavailable, "quiz grading unavailable",
			cause, map[string]any{"component": "sheets"})

		rec := httptest.NewRecorder()
		WriteErrorFromErr(rec, httptest.NewRequest(http.MethodPost, "/v1/quizzes", nil),
			err, "fallback", map[string]any{"seed": 42})

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}

		resp := decodeError(t, rec)
		if resp.Code != string(kserrors.ErrCodeUnavailable) {
			t.Errorf("code = %q, want %q", resp.Code, kserrors.ErrCodeUnavailable)
		}
		if resp.Message != "quiz grading unavailable" {
			t.Errorf("message = %q, want the structured error's own message", resp.Message)
		}
		if !resp.Retryable {
			t.Error("unavailable should be retryable")
		}
		if resp.Details["component"] != "sheets" {
			t.Errorf("structured context missing: %#v", resp.Details)
		}
		if resp.Details["seed"] == nil {
			t.Errorf("extra details missing: %#v", resp.Details)
		}
		if resp.Details["error"] != "sheet store unreachable" {
			t.Errorf("cause missing from details: %#v", resp.Details)
		}
	})

	t.Run("blank structured message uses the fallback", func(t *testing.T) {
		err := kserrors.New(kserrors.ErrCodeInvalidRequest, "")

		rec := httptest.NewRecorder()
		WriteErrorFromErr(rec, httptest.NewRequest(http.MethodGet, "/", nil), err, "fallback text", nil)

		if resp := decodeError(t, rec); resp.Message != "fallback text" {
			t.Errorf("message = %q, want fallback text", resp.Message)
		}
	})

	t.Run("plain error becomes a retryable internal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteErrorFromErr(rec, httptest.NewRequest(http.MethodGet, "/", nil),
			errors.New("boom"), "catalog lint failed", map[string]any{"path": "registry.yaml"})

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}

		resp := decodeError(t, rec)
		if resp.Code != string(kserrors.ErrCodeInternal) {
			t.Errorf("code = %q, want %q", resp.Code, kserrors.ErrCodeInternal)
		}
		if !resp.Retryable {
			t.Error("internal errors should be retryable")
		}
		if resp.Details["path"] != "registry.yaml" {
			t.Errorf("extra details missing: %#v", resp.Details)
		}
		if resp.Details["error"] != "boom" {
			t.Errorf("original error text missing: %#v", resp.Details)
		}
	})
}
