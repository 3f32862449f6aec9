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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// testServer builds a Server with just enough state for middleware tests,
// skipping the listener New would configure.
func testServer(limit rate.Limit, burst int) *Server {
	return &Server{
		config:      NewConfig(),
		rateLimiter: rate.NewLimiter(limit, burst),
	}
}

func runMiddleware(mw func(http.HandlerFunc) http.HandlerFunc, inner http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mw(inner)(rec, req)
	return rec
}

func TestRequestIDMiddleware(t *testing.T) {
	s := testServer(100, 200)

	capture := func(dst *string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			*dst, _ = r.Context().Value(contextKeyRequestID).(string)
			w.WriteHeader(http.StatusOK)
		}
	}

	t.Run("generates an ID when absent", func(t *testing.T) {
		var got string
		req := httptest.NewRequest(http.MethodGet, "/v1/scenarios", nil)

		rec := runMiddleware(s.requestIDMiddleware, capture(&got), req)

		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("context request ID %q is not a UUID", got)
		}
		if rec.Header().Get(requestIDHeader) != got {
			t.Errorf("header %q does not match context value %q",
				rec.Header().Get(requestIDHeader), got)
		}
	})

	t.Run("keeps a well formed caller ID", func(t *testing.T) {
		provided := uuid.New().String()
		var got string
		req := httptest.NewRequest(http.MethodGet, "/v1/scenarios", nil)
		req.Header.Set(requestIDHeader, provided)

		runMiddleware(s.requestIDMiddleware, capture(&got), req)

		if got != provided {
			t.Errorf("request ID = %q, want the caller's %q", got, provided)
		}
	})

	t.Run("replaces a malformed caller ID", func(t *testing.T) {
		var got string
		req := httptest.NewRequest(http.MethodGet, "/v1/scenarios", nil)
		req.Header.Set(requestIDHeader, "drill-session-7")

		runMiddleware(s.requestIDMiddleware, capture(&got), req)

		if got == "drill-session-7" {
			t.Error("malformed ID was kept")
		}
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("replacement %q is not a UUID", got)
		}
	})
}

func TestVersionMiddleware(t *testing.T) {
	s := testServer(100, 200)

	var fromContext string
	inner := func(w http.ResponseWriter, r *http.Request) {
		fromContext, _ = r.Context().Value(contextKeyAPIVersion).(string)
		w.WriteHeader(http.StatusOK)
	}

	t.Run("defaults without an Accept header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/scenarios", nil)

		rec := runMiddleware(s.versionMiddleware, inner, req)

		if got := rec.Header().Get("X-API-Version"); got != DefaultAPIVersion {
			t.Errorf("X-API-Version = %q, want %q", got, DefaultAPIVersion)
		}
		if fromContext != DefaultAPIVersion {
			t.Errorf("context version = %q, want %q", fromContext, DefaultAPIVersion)
		}
	})

	t.Run("honors the vendor media type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/scenarios", nil)
		req.Header.Set("Accept", "application/vnd.kubescenarios.v1+json")

		rec := runMiddleware(s.versionMiddleware, inner, req)

		if got := rec.Header().Get("X-API-Version"); got != "v1" {
			t.Errorf("X-API-Version = %q, want v1", got)
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("allows and reports bucket state", func(t *testing.T) {
		s := testServer(100, 200)

		called := false
		rec := runMiddleware(s.rateLimitMiddleware, func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}, httptest.NewRequest(http.MethodGet, "/v1/scenarios", nil))

		if !called {
			t.Fatal("handler not reached")
		}
		for _, h := range []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"} {
			if rec.Header().Get(h) == "" {
				t.Errorf("header %s missing", h)
			}
		}
	})

	t.Run("rejects when the bucket is empty", func(t *testing.T) {
		s := testServer(0, 0)

		called := false
		rec := runMiddleware(s.rateLimitMiddleware, func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}, httptest.NewRequest(http.MethodGet, "/v1/scenarios", nil))

		if called {
			t.Error("handler ran despite the empty bucket")
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Errorf("status = %d, want 429", rec.Code)
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Error("Retry-After header missing")
		}
	})
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	s := testServer(100, 200)

	t.Run("recovers a string panic", func(t *testing.T) {
		rec := runMiddleware(s.panicRecoveryMiddleware, func(http.ResponseWriter, *http.Request) {
			panic("registry entry missing")
		}, httptest.NewRequest(http.MethodGet, "/v1/scenarios", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})

	t.Run("recovers an error panic", func(t *testing.T) {
		rec := runMiddleware(s.panicRecoveryMiddleware, func(http.ResponseWriter, *http.Request) {
			panic(errors.New("sheet store closed"))
		}, httptest.NewRequest(http.MethodGet, "/v1/quizzes", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})

	t.Run("leaves normal requests alone", func(t *testing.T) {
		called := false
		rec := runMiddleware(s.panicRecoveryMiddleware, func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusCreated)
		}, httptest.NewRequest(http.MethodGet, "/v1/scenarios", nil))

		if !called {
			t.Fatal("handler not reached")
		}
		if rec.Code != http.StatusCreated {
			t.Errorf("status = %d, want 201", rec.Code)
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	s := testServer(100, 200)

	// The wrapped writer must pass whatever status the handler chose
	// through to the real recorder.
	for _, status := range []int{
		http.StatusOK,
		http.StatusCreated,
		http.StatusBadRequest,
		http.StatusNotFound,
		http.StatusInternalServerError,
	} {
		rec := runMiddleware(s.loggingMiddleware, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}, httptest.NewRequest(http.MethodGet, "/v1/scenarios", nil))

		if rec.Code != status {
			t.Errorf("status = %d, want %d", rec.Code, status)
		}
	}
}

func TestMiddlewareChain(t *testing.T) {
	s := testServer(100, 200)

	var hasRequestID, hasAPIVersion bool
	handler := s.withMiddleware(func(w http.ResponseWriter, r *http.Request) {
		hasRequestID = r.Context().Value(contextKeyRequestID) != nil
		hasAPIVersion = r.Context().Value(contextKeyAPIVersion) != nil
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/v1/scenarios", nil))

	if !hasRequestID {
		t.Error("request ID missing from context")
	}
	if !hasAPIVersion {
		t.Error("API version missing from context")
	}

	for _, h := range []string{
		requestIDHeader,
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"X-RateLimit-Reset",
		"X-API-Version",
	} {
		if rec.Header().Get(h) == "" {
			t.Errorf("header %s missing after full chain", h)
		}
	}
}
