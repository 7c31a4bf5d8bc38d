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
	"net/http"
	"strconv"
	"strings"

	"github.com/0xTanzim/nextrush/router"
)

// CORSOption configures CORS.
type CORSOption func(*corsConfig)

type corsConfig struct {
	allowedOrigins   []string
	allowedMethods   []string
	allowedHeaders   []string
	exposedHeaders   []string
	allowCredentials bool
	maxAge           int
	allowAllOrigins  bool
	allowOriginFunc  func(origin string) bool
}

func defaultCORSConfig() *corsConfig {
	return &corsConfig{
		allowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		allowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		maxAge:         3600,
	}
}

// WithAllowedOrigins sets the exact list of allowed origins.
func WithAllowedOrigins(origins ...string) CORSOption {
	return func(cfg *corsConfig) {
		cfg.allowedOrigins = origins
		cfg.allowAllOrigins = false
	}
}

// WithAllowAllOrigins sets Access-Control-Allow-Origin: * (insecure;
// intended for public APIs with no credentials).
func WithAllowAllOrigins(allow bool) CORSOption {
	return func(cfg *corsConfig) { cfg.allowAllOrigins = allow }
}

// WithAllowedMethods sets the methods advertised in preflight responses.
func WithAllowedMethods(methods ...string) CORSOption {
	return func(cfg *corsConfig) { cfg.allowedMethods = methods }
}

// WithAllowedHeaders sets the headers advertised in preflight responses.
func WithAllowedHeaders(headers ...string) CORSOption {
	return func(cfg *corsConfig) { cfg.allowedHeaders = headers }
}

// WithExposedHeaders sets headers exposed to browser JS via
// Access-Control-Expose-Headers.
func WithExposedHeaders(headers ...string) CORSOption {
	return func(cfg *corsConfig) { cfg.exposedHeaders = headers }
}

// WithAllowCredentials allows cookies/authorization headers across
// origins. Cannot be combined with an origin of "*".
func WithAllowCredentials(allow bool) CORSOption {
	return func(cfg *corsConfig) { cfg.allowCredentials = allow }
}

// WithMaxAge sets the preflight cache lifetime in seconds.
func WithMaxAge(seconds int) CORSOption {
	return func(cfg *corsConfig) { cfg.maxAge = seconds }
}

// WithAllowOriginFunc installs a dynamic origin validator, evaluated
// instead of the static allow-list when set.
func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return func(cfg *corsConfig) { cfg.allowOriginFunc = fn }
}

// CORS returns middleware that sets Cross-Origin Resource Sharing
// headers and answers preflight OPTIONS requests directly.
func CORS(opts ...CORSOption) router.Middleware {
	cfg := defaultCORSConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	allowedMethodsHeader := strings.Join(cfg.allowedMethods, ", ")
	allowedHeadersHeader := strings.Join(cfg.allowedHeaders, ", ")
	exposedHeadersHeader := strings.Join(cfg.exposedHeaders, ", ")
	maxAgeHeader := strconv.Itoa(cfg.maxAge)

	return func(ctx *router.Context, next router.Next) error {
		origin := ctx.Header("Origin")
		if origin == "" {
			return next()
		}

		allowedOrigin := ""
		switch {
		case cfg.allowOriginFunc != nil:
			if cfg.allowOriginFunc(origin) {
				allowedOrigin = origin
			}
		case cfg.allowAllOrigins:
			allowedOrigin = "*"
		default:
			for _, o := range cfg.allowedOrigins {
				if o == origin {
					allowedOrigin = origin
					break
				}
			}
		}

		if allowedOrigin == "" {
			return next()
		}

		if cfg.allowCredentials && allowedOrigin == "*" {
			allowedOrigin = origin
		}
		ctx.SetHeader("Access-Control-Allow-Origin", allowedOrigin)
		if cfg.allowCredentials {
			ctx.SetHeader("Access-Control-Allow-Credentials", "true")
		}
		if exposedHeadersHeader != "" {
			ctx.SetHeader("Access-Control-Expose-Headers", exposedHeadersHeader)
		}

		if ctx.Method == http.MethodOptions {
			ctx.SetHeader("Access-Control-Allow-Methods", allowedMethodsHeader)
			ctx.SetHeader("Access-Control-Allow-Headers", allowedHeadersHeader)
			ctx.SetHeader("Access-Control-Max-Age", maxAgeHeader)
			ctx.Status(http.StatusNoContent)
			ctx.MarkHandled()
			_, err := ctx.Response.Write(nil)
			return err
		}

		return next()
	}
}
