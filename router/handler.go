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

package router

// Handler is a terminal route handler. It receives the request Context
// and returns an error to signal failure to the exception filter; a nil
// return means the handler is responsible for having written (or
// deliberately not writing) a response.
type Handler func(ctx *Context) error

// Next resumes the middleware chain. Calling it more than once from the
// same middleware invocation returns ErrNextCalledTwice without
// re-entering the downstream chain.
type Next func() error

// Middleware is a Koa-style (ctx, next) composition unit. A middleware
// may run code before calling next, after, both, or may skip next
// entirely to short-circuit the chain.
type Middleware func(ctx *Context, next Next) error

// adaptHandler lifts a terminal Handler into a Middleware that runs h
// and, when h succeeds, calls next (which has nothing left to run when
// the handler is the last frame).
func adaptHandler(h Handler) Middleware {
	return func(ctx *Context, next Next) error {
		if err := h(ctx); err != nil {
			return err
		}
		return next()
	}
}

// Compose builds a single Middleware from an ordered chain plus a final
// continuation invoked once the chain is exhausted. The final
// continuation is typically a no-op (nil) or the "route not found"
// responder.
//
// Composition is index-based: each next() captures the index of the
// following frame rather than relying on stack-captured closures, which
// keeps cancellation and double-invocation detection simple to reason
// about.
func Compose(chain []Middleware, final func() error) Middleware {
	return func(ctx *Context, outerNext Next) error {
		return runChain(chain, 0, ctx, func() error {
			if err := callFinal(final); err != nil {
				return err
			}
			if outerNext != nil {
				return outerNext()
			}
			return nil
		})
	}
}

func callFinal(final func() error) error {
	if final == nil {
		return nil
	}
	return final()
}

// runChain invokes chain[idx] with a next() bound to chain[idx+1], and so
// on, terminating with tail() once idx reaches len(chain).
func runChain(chain []Middleware, idx int, ctx *Context, tail Next) error {
	if idx >= len(chain) {
		if tail != nil {
			return tail()
		}
		return nil
	}

	called := false
	next := func() error {
		if called {
			return ErrNextCalledTwice
		}
		called = true
		return runChain(chain, idx+1, ctx, tail)
	}
	return chain[idx](ctx, next)
}
