// Copyright 2026 The NextRush Authors
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

package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// Kind is the closed sum type of error kinds NextRush recognizes. Every
// Kind maps to exactly one HTTP status.
type Kind string

const (
	KindValidation           Kind = "VALIDATION_ERROR"
	KindBadRequest            Kind = "BAD_REQUEST"
	KindUnauthorized          Kind = "UNAUTHORIZED"
	KindForbidden             Kind = "FORBIDDEN"
	KindNotFound              Kind = "NOT_FOUND"
	KindMethodNotAllowed      Kind = "METHOD_NOT_ALLOWED"
	KindRequestTimeout        Kind = "REQUEST_TIMEOUT"
	KindConflict              Kind = "CONFLICT"
	KindPayloadTooLarge       Kind = "PAYLOAD_TOO_LARGE"
	KindUnsupportedMediaType  Kind = "UNSUPPORTED_MEDIA_TYPE"
	KindTooManyRequests       Kind = "TOO_MANY_REQUESTS"
	KindInternal              Kind = "INTERNAL_SERVER_ERROR"
	KindNotImplemented        Kind = "NOT_IMPLEMENTED"
	KindBadGateway            Kind = "BAD_GATEWAY"
	KindServiceUnavailable    Kind = "SERVICE_UNAVAILABLE"
	KindGatewayTimeout        Kind = "GATEWAY_TIMEOUT"
	KindPlugin                Kind = "PLUGIN_ERROR"
)

// statusByKind maps each Kind to its HTTP status code.
var statusByKind = map[Kind]int{
	KindValidation:           http.StatusBadRequest,
	KindBadRequest:           http.StatusBadRequest,
	KindUnauthorized:         http.StatusUnauthorized,
	KindForbidden:            http.StatusForbidden,
	KindNotFound:             http.StatusNotFound,
	KindMethodNotAllowed:     http.StatusMethodNotAllowed,
	KindRequestTimeout:       http.StatusRequestTimeout,
	KindConflict:             http.StatusConflict,
	KindPayloadTooLarge:      http.StatusRequestEntityTooLarge,
	KindUnsupportedMediaType: http.StatusUnsupportedMediaType,
	KindTooManyRequests:      http.StatusTooManyRequests,
	KindInternal:             http.StatusInternalServerError,
	KindNotImplemented:       http.StatusNotImplemented,
	KindBadGateway:           http.StatusBadGateway,
	KindServiceUnavailable:   http.StatusServiceUnavailable,
	KindGatewayTimeout:       http.StatusGatewayTimeout,
	KindPlugin:               http.StatusInternalServerError,
}

// retryableKinds marks kinds that carry retryable=true.
var retryableKinds = map[Kind]bool{
	KindRequestTimeout:     true,
	KindTooManyRequests:    true,
	KindInternal:           true,
	KindBadGateway:         true,
	KindServiceUnavailable: true,
	KindGatewayTimeout:     true,
}

// Error is NextRush's typed error. It implements the standard error
// interface plus HTTPStatus/Details/Code accessors so it composes with
// the apperror.Formatter contract.
type Error struct {
	KindValue     Kind
	Message       string
	DetailsValue  any
	CorrelationID string
	RetryAfter    int // seconds; 0 means unset
	cause         error
	stackTrace    string
}

// WithStack attaches a captured stack trace (only surfaced by
// JSONFormatter, and only when its Debug flag is on).
func (e *Error) WithStack(stack string) *Error {
	e.stackTrace = stack
	return e
}

// Stack returns the captured stack trace, if any.
func (e *Error) Stack() string { return e.stackTrace }

// New constructs a typed Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{KindValue: kind, Message: message}
}

// Wrap constructs a typed Error of the given kind, preserving cause for
// Unwrap/errors.Is/As chains.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{KindValue: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.HTTPStatus())
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus implements the Formatter ErrorType contract.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByKind[e.KindValue]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Details implements the Formatter ErrorDetails contract.
func (e *Error) Details() any { return e.DetailsValue }

// Code implements the Formatter ErrorCode contract.
func (e *Error) Code() string { return string(e.KindValue) }

// Retryable reports whether clients may retry this error.
func (e *Error) Retryable() bool { return retryableKinds[e.KindValue] }

// WithDetails attaches structured details and returns e for chaining.
func (e *Error) WithDetails(details any) *Error {
	e.DetailsValue = details
	return e
}

// WithCorrelationID attaches a correlation id and returns e for
// chaining.
func (e *Error) WithCorrelationID(id string) *Error {
	e.CorrelationID = id
	return e
}

// WithRetryAfter sets a retry-after hint in seconds (only meaningful for
// 429/503).
func (e *Error) WithRetryAfter(seconds int) *Error {
	e.RetryAfter = seconds
	return e
}

// Convenience constructors, one per Kind.

func Validation(message string) *Error          { return New(KindValidation, message) }
func BadRequest(message string) *Error           { return New(KindBadRequest, message) }
func Unauthorized(message string) *Error         { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error            { return New(KindForbidden, message) }
func NotFound(message string) *Error             { return New(KindNotFound, message) }
func MethodNotAllowed(message string) *Error     { return New(KindMethodNotAllowed, message) }
func RequestTimeout(message string) *Error       { return New(KindRequestTimeout, message) }
func Conflict(message string) *Error             { return New(KindConflict, message) }
func PayloadTooLarge(message string) *Error      { return New(KindPayloadTooLarge, message) }
func UnsupportedMediaType(message string) *Error { return New(KindUnsupportedMediaType, message) }
func TooManyRequests(message string) *Error      { return New(KindTooManyRequests, message) }
func Internal(message string) *Error             { return New(KindInternal, message) }
func NotImplemented(message string) *Error       { return New(KindNotImplemented, message) }
func BadGateway(message string) *Error           { return New(KindBadGateway, message) }
func ServiceUnavailable(message string) *Error   { return New(KindServiceUnavailable, message) }
func GatewayTimeout(message string) *Error       { return New(KindGatewayTimeout, message) }
func Plugin(message string) *Error               { return New(KindPlugin, message) }

// Normalize converts any error into a typed *Error, preserving an
// already-typed error unchanged. Anything else becomes KindInternal,
// retaining the original message.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return Wrap(KindInternal, err, fmt.Sprintf("internal error: %v", err)).WithStack(string(buf[:n]))
}
