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

package middleware

import (
	"github.com/0xTanzim/nextrush/router"
	"github.com/google/uuid"
)

// StateKeyRequestID is the ctx.State key the request id is stored
// under for downstream middleware and handlers.
const StateKeyRequestID = "requestID"

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDConfig)

type requestIDConfig struct {
	header        string
	allowClientID bool
	generator     func() string
}

func defaultRequestIDConfig() *requestIDConfig {
	return &requestIDConfig{
		header:        "X-Request-ID",
		allowClientID: true,
		generator:     uuid.NewString,
	}
}

// WithHeader sets the header name used to read/write the request id.
func WithHeader(name string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.header = name }
}

// WithAllowClientID controls whether an incoming header value is
// trusted as-is instead of always generating a fresh id.
func WithAllowClientID(allow bool) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.allowClientID = allow }
}

// WithGenerator overrides the id generator (default: uuid.NewString).
func WithGenerator(fn func() string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.generator = fn }
}

// RequestID returns middleware that ensures every request carries a
// correlation id, echoed back in the response header and stored in
// ctx.State for loggers and error formatters to pick up.
func RequestID(opts ...RequestIDOption) router.Middleware {
	cfg := defaultRequestIDConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx *router.Context, next router.Next) error {
		id := ""
		if cfg.allowClientID {
			id = ctx.Header(cfg.header)
		}
		if id == "" {
			id = cfg.generator()
		}
		ctx.SetHeader(cfg.header, id)
		ctx.Set(StateKeyRequestID, id)
		return next()
	}
}

// RequestIDFromContext returns the request id stored by RequestID, or
// "" if the middleware was not installed.
func RequestIDFromContext(ctx *router.Context) string {
	if v, ok := ctx.Get(StateKeyRequestID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
