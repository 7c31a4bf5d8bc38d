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
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/0xTanzim/nextrush/apperror"
	"github.com/0xTanzim/nextrush/bodyparser"
	"github.com/0xTanzim/nextrush/logging"
	"github.com/0xTanzim/nextrush/middleware"
	"github.com/0xTanzim/nextrush/plugin"
	"github.com/0xTanzim/nextrush/router"
	"github.com/0xTanzim/nextrush/ws"
)

// appliedConfig is the validated, immutable configuration an App was
// constructed with.
type appliedConfig struct {
	port            int
	host            string
	maxBodySize     int64
	timeout         time.Duration
	keepAlive       time.Duration
	trustProxy      bool
	debug           bool
	gracefulTimeout time.Duration
}

// App owns the route registry, the global middleware list, the smart
// body parser configuration, the error taxonomy's exception filter
// chain, any registered WebSocket plugins, the plugin registry, and the
// HTTP listener. Construct one with New.
type App struct {
	router *router.Router
	chain  *apperror.Chain
	logger *logging.Logger
	cfg    appliedConfig

	bodyParserOpts bodyparser.Options

	mu               sync.RWMutex
	globalMiddleware []router.Middleware

	wsPlugins []*ws.Plugin
	plugins   *plugin.Registry

	// lifecycle state, managed by lifecycle.go
	lifecycleMu sync.Mutex
	server      *http.Server
	listening   bool
	shutdown    bool
	shutdownCh  chan struct{}
	onListening []func()
	onShutdown  []func()
	onClosed    []func()
}

// New builds an App from the given options, validating the merged
// configuration (functional options win over any config file supplied
// via WithConfigFile). Unknown or out-of-range values fail construction
// with an apperror.Validation error.
func New(opts ...Option) (*App, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}
	if err := s.applyConfigFile(); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	logger := s.logger
	if logger == nil {
		logger = logging.NewNop()
	}

	formatter := s.formatter
	if formatter == nil {
		formatter = &apperror.JSONFormatter{Debug: s.debug}
	}

	a := &App{
		router:           router.New(append([]router.Option{router.WithLogger(logger.Slog())}, s.routerOpts...)...),
		chain:            apperror.NewChain(formatter),
		logger:           logger,
		bodyParserOpts:   s.bodyParserOpts,
		globalMiddleware: append([]router.Middleware(nil), s.globalMiddleware...),
		wsPlugins:        append([]*ws.Plugin(nil), s.wsPlugins...),
		plugins:          plugin.NewRegistry(),
		cfg: appliedConfig{
			port:            s.port,
			host:            s.host,
			maxBodySize:     s.maxBodySize,
			timeout:         s.timeout,
			keepAlive:       s.keepAlive,
			trustProxy:      s.trustProxy,
			debug:           s.debug,
			gracefulTimeout: s.gracefulTimeout,
		},
	}
	return a, nil
}

// MustNew is New, panicking on error. Intended for package-level
// wiring where a misconfigured App should fail fast at startup.
func MustNew(opts ...Option) *App {
	a, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Logger returns the application's structured logger.
func (a *App) Logger() *logging.Logger { return a.logger }

// Errors returns the exception filter chain, so callers can register
// additional filters ahead of the default JSON fallback formatter.
func (a *App) Errors() *apperror.Chain { return a.chain }

// Use appends one global middleware, run for every request ahead of
// the smart body parser and route matching. Registration order is
// preserved; Use is safe to call only before Listen. The single-
// argument signature matches the plugin.App contract so *App
// satisfies it structurally, letting a plugin's Install hook call Use
// directly.
func (a *App) Use(mw router.Middleware) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.globalMiddleware = append(a.globalMiddleware, mw)
}

// Get registers a GET route.
func (a *App) Get(pattern string, handler router.Handler, mw ...router.Middleware) error {
	return a.router.Register(http.MethodGet, pattern, handler, mw...)
}

// Post registers a POST route.
func (a *App) Post(pattern string, handler router.Handler, mw ...router.Middleware) error {
	return a.router.Register(http.MethodPost, pattern, handler, mw...)
}

// Put registers a PUT route.
func (a *App) Put(pattern string, handler router.Handler, mw ...router.Middleware) error {
	return a.router.Register(http.MethodPut, pattern, handler, mw...)
}

// Delete registers a DELETE route.
func (a *App) Delete(pattern string, handler router.Handler, mw ...router.Middleware) error {
	return a.router.Register(http.MethodDelete, pattern, handler, mw...)
}

// Patch registers a PATCH route.
func (a *App) Patch(pattern string, handler router.Handler, mw ...router.Middleware) error {
	return a.router.Register(http.MethodPatch, pattern, handler, mw...)
}

// Options registers an OPTIONS route.
func (a *App) Options(pattern string, handler router.Handler, mw ...router.Middleware) error {
	return a.router.Register(http.MethodOptions, pattern, handler, mw...)
}

// Head registers a HEAD route.
func (a *App) Head(pattern string, handler router.Handler, mw ...router.Middleware) error {
	return a.router.Register(http.MethodHead, pattern, handler, mw...)
}

// Mount registers every route accumulated on sub under prefix,
// combining sub's per-route middleware with the ones passed here (run
// before sub's own). A sub-router route ending in a "*rest" catch-all
// segment stays the pattern's final segment after prefixing, so it
// still captures only the portion of the path past prefix+sub's own
// static part.
func (a *App) Mount(prefix string, sub *SubRouter, mw ...router.Middleware) error {
	prefix = strings.TrimSuffix(prefix, "/")
	for _, rt := range sub.routes {
		pattern := prefix + rt.pattern
		if pattern == "" {
			pattern = "/"
		}
		combined := append(append([]router.Middleware(nil), mw...), rt.middleware...)
		if err := a.router.Register(rt.method, pattern, rt.handler, combined...); err != nil {
			return err
		}
	}
	return nil
}

// RegisterPlugin validates and installs p, invoking its Install hook
// immediately. A plugin whose Install returns an error aborts
// registration (and, conventionally, startup).
func (a *App) RegisterPlugin(p plugin.Plugin) error {
	return a.plugins.Register(a, p)
}

// WS registers a WebSocket plugin mounted at path, returning it so the
// caller can later broadcast to its rooms.
func (a *App) WS(path string, handler ws.HandlerFunc, opts ...ws.Option) *ws.Plugin {
	p := ws.New(handler, append([]ws.Option{ws.WithMountPaths(path)}, opts...)...)
	a.mu.Lock()
	a.wsPlugins = append(a.wsPlugins, p)
	a.mu.Unlock()
	return p
}

// WSBroadcast sends payload to room across every registered WebSocket
// plugin.
func (a *App) WSBroadcast(room string, payload []byte) {
	a.mu.RLock()
	plugins := append([]*ws.Plugin(nil), a.wsPlugins...)
	a.mu.RUnlock()
	for _, p := range plugins {
		p.Broadcast(room, payload)
	}
}

// ServeHTTP implements http.Handler. WebSocket upgrade attempts are
// tried against each registered plugin first; everything else runs
// through context creation, the global middleware chain (which
// includes the smart body parser), route matching, route-scoped
// middleware, and the handler, in that order. A handler that never
// writes a response gets a default 204 No Content.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.RLock()
	plugins := a.wsPlugins
	a.mu.RUnlock()
	for _, p := range plugins {
		if p.Upgrade(w, r) {
			return
		}
	}

	ctx := router.NewContext(w, r, a.cfg.trustProxy)
	defer router.Release(ctx)

	a.mu.RLock()
	global := append([]router.Middleware(nil), a.globalMiddleware...)
	a.mu.RUnlock()
	chain := append(global, bodyparser.Middleware(a.bodyParserOpts))

	pipeline := router.Compose(chain, func() error { return a.dispatch(ctx) })
	if err := pipeline(ctx, nil); err != nil {
		a.handleError(ctx, err)
		return
	}

	if !ctx.Response.Flushed() {
		ctx.Status(http.StatusNoContent)
		_, _ = ctx.Response.Write(nil)
	}
}

// dispatch matches the route and runs its scoped middleware plus the
// terminal handler. It runs as the tail continuation of the global
// middleware chain, so the smart body parser has already populated
// ctx.Body by the time a route's middleware sees the request.
func (a *App) dispatch(ctx *router.Context) error {
	match, allowed, err := a.router.Find(ctx.Method, ctx.Path)
	if err != nil {
		if err == router.ErrMethodNotAllowed {
			ctx.SetHeader("Allow", strings.Join(allowed, ", "))
			return apperror.MethodNotAllowed("method not allowed on this path")
		}
		return apperror.NotFound("no matching route for " + ctx.Method + " " + ctx.Path)
	}
	ctx.Params = match.Params

	route := router.Compose(match.Route.Middleware, func() error { return match.Route.Handler(ctx) })
	return route(ctx, nil)
}

// handleError normalizes err through the exception filter chain and
// writes the resulting JSON envelope, unless the response has already
// started flushing (in which case nothing more is written). Errors with
// a 5xx status are logged in either case unless ctx.MarkHandled was
// called; others are not logged.
func (a *App) handleError(ctx *router.Context, err error) {
	typed := apperror.Normalize(err)
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		typed = typed.WithCorrelationID(id)
	}
	resp, typed := a.chain.Handle(ctx.Request, typed)

	if typed.HTTPStatus() >= http.StatusInternalServerError && !ctx.Handled() {
		a.logger.Error("request failed", "method", ctx.Method, "path", ctx.Path, "code", typed.Code(), "error", typed.Error())
	}

	if ctx.Response.Flushed() {
		return
	}
	if typed.RetryAfter > 0 {
		ctx.SetHeader("Retry-After", strconv.Itoa(typed.RetryAfter))
	}
	if jsonErr := ctx.JSON(resp.Status, resp.Body); jsonErr != nil {
		a.logger.Error("failed to write error response", "error", jsonErr.Error())
	}
}
