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

package nextrush

import (
	"net/http"

	"github.com/0xTanzim/nextrush/router"
)

type subRoute struct {
	method     string
	pattern    string
	handler    router.Handler
	middleware []router.Middleware
}

// SubRouter accumulates routes independently of any App, so they can
// be built up in one place (e.g. a package's own init) and mounted
// under a prefix later with App.Mount.
type SubRouter struct {
	routes []subRoute
}

// NewSubRouter returns an empty SubRouter.
func NewSubRouter() *SubRouter {
	return &SubRouter{}
}

func (s *SubRouter) add(method, pattern string, handler router.Handler, mw ...router.Middleware) {
	s.routes = append(s.routes, subRoute{method: method, pattern: pattern, handler: handler, middleware: mw})
}

// Get registers a GET route on the sub-router.
func (s *SubRouter) Get(pattern string, handler router.Handler, mw ...router.Middleware) {
	s.add(http.MethodGet, pattern, handler, mw...)
}

// Post registers a POST route on the sub-router.
func (s *SubRouter) Post(pattern string, handler router.Handler, mw ...router.Middleware) {
	s.add(http.MethodPost, pattern, handler, mw...)
}

// Put registers a PUT route on the sub-router.
func (s *SubRouter) Put(pattern string, handler router.Handler, mw ...router.Middleware) {
	s.add(http.MethodPut, pattern, handler, mw...)
}

// Delete registers a DELETE route on the sub-router.
func (s *SubRouter) Delete(pattern string, handler router.Handler, mw ...router.Middleware) {
	s.add(http.MethodDelete, pattern, handler, mw...)
}

// Patch registers a PATCH route on the sub-router.
func (s *SubRouter) Patch(pattern string, handler router.Handler, mw ...router.Middleware) {
	s.add(http.MethodPatch, pattern, handler, mw...)
}

// Options registers an OPTIONS route on the sub-router.
func (s *SubRouter) Options(pattern string, handler router.Handler, mw ...router.Middleware) {
	s.add(http.MethodOptions, pattern, handler, mw...)
}

// Head registers a HEAD route on the sub-router.
func (s *SubRouter) Head(pattern string, handler router.Handler, mw ...router.Middleware) {
	s.add(http.MethodHead, pattern, handler, mw...)
}
