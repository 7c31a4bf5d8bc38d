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
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BodyParseResult is the tagged result produced by the smart body
// parser. Data's shape depends on Parser: a decoded value for "json", a
// map for "urlencoded", a *MultipartData for "multipart", a string for
// "text", or a []byte for "raw".
type BodyParseResult struct {
	Data        any
	Raw         []byte
	Size        int
	ContentType string
	Parser      string
	HasFiles    bool
	IsEmpty     bool
	ParseTime   time.Duration
}

// MultipartFile is a single uploaded file extracted from a multipart
// body.
type MultipartFile struct {
	Filename    string
	ContentType string
	Size        int64
	Bytes       []byte
}

// MultipartData is the decoded shape of a multipart/form-data body:
// ordinary fields plus any uploaded files, both keyed by form field
// name.
type MultipartData struct {
	Fields map[string][]string
	Files  map[string][]*MultipartFile
}

// Context is the per-request record carrying the parsed request, the
// mutable response, route params, query, a free-form state map, the
// parsed body, and request metadata. A Context is owned exclusively by
// the middleware chain processing one request; it is never accessed
// concurrently by another request.
type Context struct {
	Request  *http.Request
	Response *ResponseWriter

	Method   string
	Path     string
	ClientIP string
	Protocol string
	Host     string

	Params map[string]string
	State  map[string]any

	Body       any
	BodyResult *BodyParseResult

	ID        string
	StartTime time.Time

	// Logger is optional and stays nil unless a middleware or handler
	// sets it.
	Logger any

	// handled is set by a filter/middleware that wants to mark an error
	// as deliberately swallowed, so the outermost exception filter does
	// not log it as an unexpected failure.
	handled bool

	queryOnce   sync.Once
	queryValues map[string][]string
}

// MarkHandled marks the current error (if any) as deliberately handled,
// preventing the outermost exception filter from logging it as an
// unexpected failure.
func (c *Context) MarkHandled() { c.handled = true }

// Handled reports whether MarkHandled was called for this request.
func (c *Context) Handled() bool { return c.handled }

// Param returns the decoded value of a named path parameter, or "" if
// absent.
func (c *Context) Param(name string) string {
	return c.Params[name]
}

// State helpers ------------------------------------------------------

// Set stores a value in the per-request state map, creating it lazily.
func (c *Context) Set(key string, value any) {
	if c.State == nil {
		c.State = make(map[string]any)
	}
	c.State[key] = value
}

// Get retrieves a value from the per-request state map.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.State[key]
	return v, ok
}

// contextPool reuses Context values across requests. Routes and global
// middleware are frozen before Listen in practice, so the pool
// itself needs no coordination beyond sync.Pool's own.
var contextPool = sync.Pool{
	New: func() any { return &Context{} },
}

// newContext builds a fresh, populated Context for an accepted request.
// trustProxy gates whether X-Forwarded-For / X-Forwarded-Proto are
// honored.
func newContext(w http.ResponseWriter, r *http.Request, trustProxy bool) *Context {
	ctx, _ := contextPool.Get().(*Context)
	ctx.reset()

	ctx.Request = r
	ctx.Response = newResponseWriter(w)
	ctx.Method = r.Method
	ctx.Path = r.URL.Path
	ctx.Host = r.Host
	ctx.ID = uuid.NewString()
	ctx.StartTime = time.Now()
	ctx.ClientIP = clientIP(r, trustProxy)
	ctx.Protocol = protocol(r, trustProxy)

	return ctx
}

// release returns a Context to the pool. Must only be called after the
// response has been fully flushed.
func release(ctx *Context) {
	contextPool.Put(ctx)
}

// NewContext builds a Context for an accepted request, pulling from the
// shared pool. It is exported so the application layer (which owns the
// accept loop) can construct a Context without reaching into router
// internals. trustProxy gates X-Forwarded-For / X-Forwarded-Proto.
func NewContext(w http.ResponseWriter, r *http.Request, trustProxy bool) *Context {
	return newContext(w, r, trustProxy)
}

// Release returns ctx to the shared pool. Callers must not touch ctx
// again afterward; it must only be called once the response has been
// fully flushed.
func Release(ctx *Context) {
	release(ctx)
}

func (c *Context) reset() {
	c.Request = nil
	c.Response = nil
	c.Method = ""
	c.Path = ""
	c.ClientIP = ""
	c.Protocol = ""
	c.Host = ""
	c.Params = nil
	c.State = nil
	c.Body = nil
	c.BodyResult = nil
	c.ID = ""
	c.StartTime = time.Time{}
	c.Logger = nil
	c.handled = false
	c.queryOnce = sync.Once{}
	c.queryValues = nil
}
