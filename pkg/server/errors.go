package server

import (
	"errors"
	"net/http"
	"time"

	kserrors "github.com/kubescenarios/kubescenarios/pkg/errors"
	"github.com/kubescenarios/kubescenarios/pkg/serializer"
	"github.com/google/uuid"
)

// ErrorResponse is the JSON error envelope returned by all endpoints.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes a structured error response with the given status code.
// The request ID is taken from the request context when present, otherwise
// a new one is generated so every error response is traceable.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code kserrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// WriteErrorFromErr writes an error response derived from err. Structured
// errors map their code to an HTTP status and carry their context into the
// response details; any other error becomes a retryable internal error with
// the fallback message.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error,
	fallbackMessage string, extra map[string]any) {

	var se *kserrors.StructuredError
	if errors.As(err, &se) {
		message := se.Message
		if message == "" {
			message = fallbackMessage
		}

		details := mergeDetails(se.Context, extra)
		if se.Cause != nil {
			if details == nil {
				details = make(map[string]any, 1)
			}
			details["error"] = se.Cause.Error()
		}

		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, message,
			retryableFromCode(se.Code), details)
		return
	}

	details := extra
	if err != nil {
		details = mergeDetails(extra, map[string]any{"error": err.Error()})
	}

	WriteError(w, r, http.StatusInternalServerError, kserrors.ErrCodeInternal,
		fallbackMessage, true, details)
}

// HTTPStatusFromCode maps a structured error code to an HTTP status code.
func HTTPStatusFromCode(code kserrors.ErrorCode) int {
	switch code {
	case kserrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case kserrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case kserrors.ErrCodeNotFound:
		return http.StatusNotFound
	case kserrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case kserrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case kserrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case kserrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// retryableFromCode reports whether a client may reasonably retry the request.
func retryableFromCode(code kserrors.ErrorCode) bool {
	switch code {
	case kserrors.ErrCodeTimeout,
		kserrors.ErrCodeUnavailable,
		kserrors.ErrCodeRateLimitExceeded,
		kserrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails combines two detail maps, with values from b taking precedence.
// It returns nil when both maps are empty so the details field is omitted.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
