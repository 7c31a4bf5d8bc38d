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
	"net/http"
	"time"
)

// Response is a formatted error response: status, content type, and a
// body ready to be marshaled.
type Response struct {
	Status      int
	ContentType string
	Body        any
}

// Formatter converts a typed error into HTTP response components. Host
// applications can swap formatters (e.g. for JSON:API-shaped bodies)
// without touching the filter chain.
type Formatter interface {
	Format(req *http.Request, err *Error) Response
}

// envelope is the error response shape.
type envelope struct {
	Error envelopeBody `json:"error"`
}

type envelopeBody struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	Status        int    `json:"status"`
	Message       string `json:"message"`
	Timestamp     string `json:"timestamp"`
	Path          string `json:"path"`
	Method        string `json:"method"`
	RequestID     string `json:"requestId,omitempty"`
	Details       any    `json:"details,omitempty"`
	Stack         string `json:"stack,omitempty"`
}

// JSONFormatter produces the JSON error envelope. A captured stack
// trace is included only when Debug is true, whatever the status.
type JSONFormatter struct {
	Debug bool
}

// Format implements Formatter.
func (f *JSONFormatter) Format(req *http.Request, err *Error) Response {
	status := err.HTTPStatus()
	body := envelopeBody{
		Name:      string(err.KindValue),
		Code:      string(err.KindValue),
		Status:    status,
		Message:   safeMessage(err, status, f.Debug),
		Timestamp: time.Now().UTC().Format(timeLayout),
		Path:      req.URL.Path,
		Method:    req.Method,
		RequestID: err.CorrelationID,
		Details:   err.DetailsValue,
	}
	if f.Debug && err.stackTrace != "" {
		body.Stack = err.stackTrace
	}
	return Response{Status: status, ContentType: "application/json; charset=utf-8", Body: envelope{Error: body}}
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// safeMessage returns err's message for client errors, but for a 5xx
// response with Debug off it returns the generic status text instead
// — a handler's or the runtime's own error text must never reach a
// production response body for a server-side failure.
func safeMessage(err *Error, status int, debug bool) string {
	if status >= http.StatusInternalServerError && !debug {
		return http.StatusText(status)
	}
	return err.Error()
}

// SimpleFormatter produces a flat {error, code, details} body.
type SimpleFormatter struct {
	Debug bool
}

// Format implements Formatter.
func (f *SimpleFormatter) Format(req *http.Request, err *Error) Response {
	status := err.HTTPStatus()
	body := map[string]any{"error": safeMessage(err, status, f.Debug), "code": string(err.KindValue)}
	if err.DetailsValue != nil {
		body["details"] = err.DetailsValue
	}
	return Response{Status: status, ContentType: "application/json; charset=utf-8", Body: body}
}
