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
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xTanzim/nextrush/apperror"
	"github.com/0xTanzim/nextrush/router"
)

func TestAppRoutesMatchedRequestToHandler(t *testing.T) {
	app, err := New()
	require.NoError(t, err)
	require.NoError(t, app.Get("/hello/:name", func(ctx *router.Context) error {
		return ctx.JSON(200, map[string]string{"greeting": "hi " + ctx.Param("name")})
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/hello/ada", nil)
	app.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"greeting":"hi ada"}`, rec.Body.String())
}

func TestAppDefaultsToNoContentWhenHandlerWritesNothing(t *testing.T) {
	app, err := New()
	require.NoError(t, err)
	require.NoError(t, app.Post("/ping", func(ctx *router.Context) error { return nil }))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/ping", nil)
	app.ServeHTTP(rec, req)

	assert.Equal(t, 204, rec.Code)
}

func TestAppUnmatchedRouteReturns404Envelope(t *testing.T) {
	app, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/nowhere", nil)
	app.ServeHTTP(rec, req)

	assert.Equal(t, 404, rec.Code)
}

func TestAppMethodNotAllowedSetsAllowHeader(t *testing.T) {
	app, err := New()
	require.NoError(t, err)
	require.NoError(t, app.Get("/widgets", func(ctx *router.Context) error { return nil }))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/widgets", nil)
	app.ServeHTTP(rec, req)

	assert.Equal(t, 405, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
}

func TestAppHandlerErrorGoesThroughExceptionFilterChain(t *testing.T) {
	app, err := New()
	require.NoError(t, err)
	require.NoError(t, app.Get("/boom", func(ctx *router.Context) error {
		return apperror.Conflict("already exists")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/boom", nil)
	app.ServeHTTP(rec, req)

	assert.Equal(t, 409, rec.Code)
}

func TestAppGlobalMiddlewareRunsBeforeRoute(t *testing.T) {
	app, err := New()
	require.NoError(t, err)

	var trace []string
	app.Use(func(ctx *router.Context, next router.Next) error {
		trace = append(trace, "global")
		return next()
	})
	require.NoError(t, app.Get("/x", func(ctx *router.Context) error {
		trace = append(trace, "handler")
		return ctx.JSON(200, map[string]string{})
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	app.ServeHTTP(rec, req)

	assert.Equal(t, []string{"global", "handler"}, trace)
}

func TestAppMountPrefixesSubRouterRoutes(t *testing.T) {
	app, err := New()
	require.NoError(t, err)

	sub := NewSubRouter()
	sub.Get("/items", func(ctx *router.Context) error { return ctx.JSON(200, map[string]string{"ok": "yes"}) })

	require.NoError(t, app.Mount("/api", sub))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/items", nil)
	app.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())
}

func TestAppMountPreservesTrailingWildcard(t *testing.T) {
	app, err := New()
	require.NoError(t, err)

	sub := NewSubRouter()
	sub.Get("/files/*path", func(ctx *router.Context) error {
		return ctx.JSON(200, map[string]string{"path": ctx.Params["path"]})
	})

	require.NoError(t, app.Mount("/static", sub))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/static/files/img/logo.png", nil)
	app.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"path":"img/logo.png"}`, rec.Body.String())
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	_, err := New(WithPort(-1))
	assert.Error(t, err)
}
