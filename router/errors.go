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

import "errors"

// Sentinel errors returned by the route registry and the middleware
// composition engine. Callers compare with errors.Is.
var (
	// ErrNextCalledTwice is returned when a middleware invokes next()
	// more than once during a single pass through the chain.
	ErrNextCalledTwice = errors.New("router: next already called")

	// ErrInvalidMethod is returned when register is called with a
	// method outside the allowed set.
	ErrInvalidMethod = errors.New("router: invalid http method")

	// ErrInvalidPattern is returned when a path pattern contains an
	// empty parameter name or another malformed segment.
	ErrInvalidPattern = errors.New("router: invalid path pattern")

	// ErrTooManyRoutes is returned when registration would exceed the
	// configured maximum route count.
	ErrTooManyRoutes = errors.New("router: maximum route count exceeded")

	// ErrRouteNotFound is returned by Find when no route matches the
	// method and path.
	ErrRouteNotFound = errors.New("router: no matching route")

	// ErrMethodNotAllowed is returned by Find when the path matches a
	// registered pattern under a different method.
	ErrMethodNotAllowed = errors.New("router: method not allowed")
)
