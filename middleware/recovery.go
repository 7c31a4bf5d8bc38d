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
	"fmt"
	"runtime/debug"

	"github.com/0xTanzim/nextrush/apperror"
	"github.com/0xTanzim/nextrush/router"
)

// RecoveryOption configures Recovery.
type RecoveryOption func(*recoveryConfig)

type recoveryConfig struct {
	stackTrace bool
	stackSize  int
	onPanic    func(ctx *router.Context, recovered any, stack []byte)
}

func defaultRecoveryConfig() *recoveryConfig {
	return &recoveryConfig{
		stackTrace: true,
		stackSize:  4 << 10,
	}
}

// WithStackTrace enables or disables stack capture on panic.
func WithStackTrace(enabled bool) RecoveryOption {
	return func(cfg *recoveryConfig) { cfg.stackTrace = enabled }
}

// WithStackSize bounds the captured stack trace in bytes.
func WithStackSize(size int) RecoveryOption {
	return func(cfg *recoveryConfig) { cfg.stackSize = size }
}

// WithPanicHandler installs a hook invoked with the recovered value and
// stack before the converted error is returned, e.g. for logging.
func WithPanicHandler(fn func(ctx *router.Context, recovered any, stack []byte)) RecoveryOption {
	return func(cfg *recoveryConfig) { cfg.onPanic = fn }
}

// Recovery returns middleware that recovers panics from downstream
// handlers and converts them into a KindInternal error, so a single bad
// handler cannot take down the listener goroutine.
func Recovery(opts ...RecoveryOption) router.Middleware {
	cfg := defaultRecoveryConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx *router.Context, next router.Next) (err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				var stack []byte
				if cfg.stackTrace {
					full := debug.Stack()
					if len(full) > cfg.stackSize {
						full = full[:cfg.stackSize]
					}
					stack = full
				}
				if cfg.onPanic != nil {
					cfg.onPanic(ctx, recovered, stack)
				}
				appErr := apperror.Internal(fmt.Sprintf("panic recovered: %v", recovered))
				if stack != nil {
					appErr = appErr.WithStack(string(stack))
				}
				err = appErr
			}
		}()
		return next()
	}
}
