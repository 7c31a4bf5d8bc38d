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

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"
)

// DefaultMaxRoutes is the default ceiling on registered routes.
const DefaultMaxRoutes = 1000

// Router compiles path patterns and matches (method, path) to a
// handler and its route-scoped middleware. Static patterns are kept in
// staticRoutes for O(1) lookup; parameterized patterns are compiled and
// scanned linearly per method, in registration order.
//
// Registration mutates the router and must happen during the
// single-threaded configuration phase. Once the application starts
// serving, Find is read-only and safe for concurrent use without
// additional locking on the caller's part.
type Router struct {
	mu            sync.RWMutex
	staticRoutes  map[string]*Route            // "METHOD path" -> route
	paramRoutes   map[string][]*compiledPattern // method -> compiled patterns, in registration order
	maxRoutes     int
	routeCount    int
	caseSensitive bool
	ignoreTrailingSlash bool
	Logger        *slog.Logger
}

// Option configures a Router at construction time.
type Option func(*Router)

// WithMaxRoutes overrides DefaultMaxRoutes.
func WithMaxRoutes(n int) Option {
	return func(r *Router) { r.maxRoutes = n }
}

// WithCaseSensitive toggles case-sensitive path matching (default true).
func WithCaseSensitive(sensitive bool) Option {
	return func(r *Router) { r.caseSensitive = sensitive }
}

// WithIgnoreTrailingSlash makes "/users" and "/users/" equivalent when
// true (default false: trailing slash is significant).
func WithIgnoreTrailingSlash(ignore bool) Option {
	return func(r *Router) { r.ignoreTrailingSlash = ignore }
}

// WithLogger sets the logger used to warn on duplicate registrations.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) { r.Logger = logger }
}

// New constructs an empty Router.
func New(opts ...Option) *Router {
	r := &Router{
		staticRoutes:  make(map[string]*Route),
		paramRoutes:   make(map[string][]*compiledPattern),
		maxRoutes:     DefaultMaxRoutes,
		caseSensitive: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
	return r
}

// Register compiles and inserts a route. A prior registration with an
// identical (method, pattern) is replaced and a warning is logged.
// Registration beyond maxRoutes fails with ErrTooManyRoutes.
func (r *Router) Register(method, pattern string, handler Handler, middleware ...Middleware) error {
	method = strings.ToUpper(method)
	if !AllowedMethods[method] {
		return ErrInvalidMethod
	}

	segments, isStatic, err := splitPattern(pattern, r.caseSensitive)
	if err != nil {
		return err
	}

	route := &Route{Method: method, Pattern: pattern, Handler: handler, Middleware: middleware}

	r.mu.Lock()
	defer r.mu.Unlock()

	if isStatic {
		key := staticKey(method, joinSegments(segments))
		_, existed := r.staticRoutes[key]
		if !existed && r.routeCount >= r.maxRoutes {
			return ErrTooManyRoutes
		}
		if existed {
			r.Logger.Warn("router: replacing duplicate route registration", "method", method, "pattern", pattern)
		} else {
			r.routeCount++
		}
		r.staticRoutes[key] = route
		if r.ignoreTrailingSlash {
			alt := trailingSlashVariant(joinSegments(segments))
			if alt != "" {
				r.staticRoutes[staticKey(method, alt)] = route
			}
		}
		return nil
	}

	list := r.paramRoutes[method]
	for i, cp := range list {
		if cp.route.Pattern == pattern {
			r.Logger.Warn("router: replacing duplicate route registration", "method", method, "pattern", pattern)
			list[i] = &compiledPattern{route: route, segments: segments}
			r.paramRoutes[method] = list
			return nil
		}
	}
	if r.routeCount >= r.maxRoutes {
		return ErrTooManyRoutes
	}
	r.routeCount++
	r.paramRoutes[method] = append(list, &compiledPattern{route: route, segments: segments})
	return nil
}

// Find matches method and path against the registry. On a 404 it
// returns ErrRouteNotFound; on a method mismatch against an otherwise
// matching path it returns ErrMethodNotAllowed along with the allowed
// methods.
func (r *Router) Find(method, path string) (*RouteMatch, []string, error) {
	method = strings.ToUpper(method)
	cleanPath := canonicalize(path, r.caseSensitive)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if route, ok := r.staticRoutes[staticKey(method, cleanPath)]; ok {
		return &RouteMatch{Route: route, Params: nil, Path: cleanPath}, nil, nil
	}

	segments := splitPath(cleanPath)
	if !r.ignoreTrailingSlash && cleanPath != "/" && strings.HasSuffix(cleanPath, "/") {
		segments = append(segments, "")
	}
	for _, cp := range r.paramRoutes[method] {
		if params, ok := matchSegments(cp.segments, segments); ok {
			return &RouteMatch{Route: cp.route, Params: params, Path: cleanPath}, nil, nil
		}
	}

	// No match for this method: probe other methods to distinguish 404
	// from 405.
	var allowed []string
	for m := range AllowedMethods {
		if m == method {
			continue
		}
		if _, ok := r.staticRoutes[staticKey(m, cleanPath)]; ok {
			allowed = append(allowed, m)
			continue
		}
		for _, cp := range r.paramRoutes[m] {
			if _, ok := matchSegments(cp.segments, segments); ok {
				allowed = append(allowed, m)
				break
			}
		}
	}
	if len(allowed) > 0 {
		return nil, allowed, ErrMethodNotAllowed
	}
	return nil, nil, ErrRouteNotFound
}

// RouteCount reports the number of registered routes (static + param).
func (r *Router) RouteCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.routeCount
}

func staticKey(method, path string) string {
	return method + " " + path
}

func trailingSlashVariant(path string) string {
	if path == "/" {
		return ""
	}
	if strings.HasSuffix(path, "/") {
		return strings.TrimSuffix(path, "/")
	}
	return path + "/"
}

// canonicalize strips a query string, collapses duplicate slashes, and
// lower-cases the path when case-insensitive matching is configured.
func canonicalize(path string, caseSensitive bool) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if path == "" {
		path = "/"
	}
	if !caseSensitive {
		path = strings.ToLower(path)
	}
	return path
}

// splitPath splits a canonical path into segments. "/" becomes a single
// empty segment.
func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return []string{""}
	}
	return strings.Split(trimmed, "/")
}

func joinSegments(segments []segment) string {
	if len(segments) == 1 && segments[0].value == "" {
		return "/"
	}
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		switch {
		case s.wildcard:
			b.WriteByte('*')
			b.WriteString(s.value)
		case s.literal:
			b.WriteString(s.value)
		default:
			b.WriteByte(':')
			b.WriteString(s.value)
		}
	}
	return b.String()
}

// splitPattern validates and compiles a registration pattern. It
// returns whether the pattern is static (no ":name" or "*name"
// segments). A "*name" segment is only valid as the pattern's final
// segment and captures the remainder of the matched path, slashes
// included, under that param name.
func splitPattern(pattern string, caseSensitive bool) ([]segment, bool, error) {
	trimmed := strings.Trim(pattern, "/")
	var parts []string
	if trimmed == "" {
		parts = []string{""}
	} else {
		parts = strings.Split(trimmed, "/")
	}

	segments := make([]segment, 0, len(parts))
	isStatic := true
	for i, part := range parts {
		if part == "" {
			segments = append(segments, segment{literal: true, value: ""})
			continue
		}
		if strings.HasPrefix(part, "*") {
			name := part[1:]
			if name == "" || !isValidParamName(name) {
				return nil, false, ErrInvalidPattern
			}
			if i != len(parts)-1 {
				return nil, false, ErrInvalidPattern
			}
			segments = append(segments, segment{wildcard: true, value: name})
			isStatic = false
			continue
		}
		if strings.HasPrefix(part, ":") {
			name := part[1:]
			if name == "" || !isValidParamName(name) {
				return nil, false, ErrInvalidPattern
			}
			segments = append(segments, segment{literal: false, value: name})
			isStatic = false
			continue
		}
		value := part
		if !caseSensitive {
			value = strings.ToLower(value)
		}
		segments = append(segments, segment{literal: true, value: value})
	}
	return segments, isStatic, nil
}

func isValidParamName(name string) bool {
	for i, r := range name {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

// matchSegments compares a compiled pattern against request segments
// left to right, binding named parameters. Empty segments never
// satisfy a ":name" segment.
func matchSegments(pattern []segment, path []string) (map[string]string, bool) {
	var params map[string]string
	for i, seg := range pattern {
		if seg.wildcard {
			if i >= len(path) || path[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, len(pattern))
			}
			params[seg.value] = strings.Join(path[i:], "/")
			return params, true
		}
		if i >= len(path) {
			return nil, false
		}
		if seg.literal {
			if seg.value != path[i] {
				return nil, false
			}
			continue
		}
		if path[i] == "" {
			return nil, false
		}
		decoded, err := url.PathUnescape(path[i])
		if err != nil {
			decoded = path[i]
		}
		if params == nil {
			params = make(map[string]string, len(pattern))
		}
		params[seg.value] = decoded
	}
	if len(pattern) != len(path) {
		return nil, false
	}
	return params, true
}
