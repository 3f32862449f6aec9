package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	kserrors "github.com/kubescenarios/kubescenarios/pkg/errors"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// withMiddleware stacks the standard middleware around handler. The list
// reads innermost first; a request traverses it bottom to top, so metrics
// observe everything including rate limit rejections and recovered panics.
func (s *Server) withMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	for _, wrap := range []func(http.HandlerFunc) http.HandlerFunc{
		s.loggingMiddleware,
		s.rateLimitMiddleware,
		s.panicRecoveryMiddleware,
		s.requestIDMiddleware,
		s.versionMiddleware,
		s.metricsMiddleware,
	} {
		handler = wrap(handler)
	}
	return handler
}

// versionMiddleware negotiates the API version from the Accept header and
// advertises the result on the response and the request context.
func (s *Server) versionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := negotiateAPIVersion(r)
		SetAPIVersionHeader(w, version)
		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), contextKeyAPIVersion, version)))
	}
}

// requestIDFrom returns the caller's X-Request-Id when it is a well formed
// UUID, and a fresh one otherwise. Malformed IDs are replaced rather than
// rejected; the caller still gets a traceable response.
func requestIDFrom(r *http.Request) string {
	id := r.Header.Get(requestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		return uuid.New().String()
	}
	return id
}

// requestIDMiddleware assigns every request an ID, echoed on the response
// header and stored in the context for handlers and error envelopes.
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := requestIDFrom(r)
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), contextKeyRequestID, requestID)))
	}
}

// rateLimitMiddleware enforces the server's token bucket. Allowed requests
// carry the bucket state in X-RateLimit headers; rejected ones get a 429
// with Retry-After and a structured error body.
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow() {
			rateLimitRejects.Inc()
			w.Header().Set("Retry-After", "1")
			WriteError(w, r, http.StatusTooManyRequests, kserrors.ErrCodeRateLimitExceeded,
				"Rate limit exceeded", true, map[string]any{
					"limit": s.config.RateLimit,
					"burst": s.config.RateLimitBurst,
				})
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(int(s.config.RateLimit)))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(s.rateLimiter.Tokens())))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

		next.ServeHTTP(w, r)
	}
}

// panicRecoveryMiddleware converts handler panics into 500 responses so a
// single bad request cannot take the daemon down.
func (s *Server) panicRecoveryMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				panicRecoveries.Inc()
				slog.Error("panic recovered",
					"error", fmt.Sprintf("%v", v),
					"requestID", r.Context().Value(contextKeyRequestID),
					"path", r.URL.Path,
					"method", r.Method,
				)
				WriteError(w, r, http.StatusInternalServerError, kserrors.ErrCodeInternal,
					"Internal server error", true, nil)
			}
		}()
		next.ServeHTTP(w, r)
	}
}

// loggingMiddleware emits start and completion debug records for each
// request, with the final status taken from the wrapped writer.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Context().Value(contextKeyRequestID)

		wrapped := wrapWriter(w)

		slog.Debug("request started",
			"requestID", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)

		next.ServeHTTP(wrapped, r)

		slog.Debug("request completed",
			"requestID", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
