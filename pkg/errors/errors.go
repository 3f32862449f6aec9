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

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an error for programmatic handling. The string
// values are wire format: they appear verbatim in API error envelopes and
// must not change once published.
type ErrorCode string

const (
	// ErrCodeNotFound: the requested scenario, catalog, or quiz does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeUnauthorized: authentication or authorization failed.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeTimeout: the operation ran past its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal: a failure the caller can do nothing about.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeInvalidRequest: malformed input, unparseable documents included.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeRateLimitExceeded: the client outran an enforced request limit.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeMethodNotAllowed: the endpoint exists but not for this HTTP method.
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	// ErrCodeUnavailable: a dependency is temporarily down. The value reads
	// SERVICE_UNAVAILABLE so the wire form matches the HTTP status the
	// server maps it to.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// StructuredError pairs a classification code with a human-readable message,
// an optional cause, and optional key-value context. The server's error
// envelope is rendered from these fields, so anything worth surfacing to an
// API client belongs here rather than in the message string.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New builds a StructuredError with no underlying cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Wrap attaches a classification and message to an existing error.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// NewWithContext is New plus key-value context for the error envelope.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	e := New(code, message)
	e.Context = context
	return e
}

// WrapWithContext is Wrap plus key-value context for the error envelope.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	e := Wrap(code, message, cause)
	e.Context = context
	return e
}

// Code extracts the ErrorCode from err, walking the wrap chain. Errors that
// never went through this package classify as ErrCodeInternal.
func Code(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
