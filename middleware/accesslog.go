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
	"time"

	"github.com/0xTanzim/nextrush/logging"
	"github.com/0xTanzim/nextrush/router"
)

// AccessLog returns middleware that writes one structured log line per
// request: method, path, status, duration, and the request id when
// RequestID has already run earlier in the chain.
func AccessLog(logger *logging.Logger) router.Middleware {
	return func(ctx *router.Context, next router.Next) error {
		start := time.Now()
		err := next()
		duration := time.Since(start)

		attrs := []any{
			"method", ctx.Method,
			"path", ctx.Path,
			"status", ctx.Response.StatusCode(),
			"duration_ms", float64(duration.Microseconds()) / 1000,
			"size", ctx.Response.Size(),
		}
		if id := RequestIDFromContext(ctx); id != "" {
			attrs = append(attrs, "request_id", id)
		}

		if err != nil {
			attrs = append(attrs, "error", err.Error())
			logger.Error("request failed", attrs...)
			return err
		}

		logger.Info("request completed", attrs...)
		return nil
	}
}
