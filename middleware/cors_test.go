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
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xTanzim/nextrush/router"
)

func TestCORSSkipsWhenNoOriginHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	called := false
	mw := CORS()
	require.NoError(t, mw(ctx, func() error { called = true; return nil }))
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://example.com")
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	mw := CORS(WithAllowedOrigins("https://example.com"))
	require.NoError(t, mw(ctx, func() error { return nil }))
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnlistedOrigin(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	called := false
	mw := CORS(WithAllowedOrigins("https://example.com"))
	require.NoError(t, mw(ctx, func() error { called = true; return nil }))
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAnswersPreflightDirectly(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "https://example.com")
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	called := false
	mw := CORS(WithAllowAllOrigins(true))
	require.NoError(t, mw(ctx, func() error { called = true; return nil }))
	assert.False(t, called)
	assert.Equal(t, 204, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORSCredentialsNarrowsWildcardOrigin(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://example.com")
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	mw := CORS(WithAllowAllOrigins(true), WithAllowCredentials(true))
	require.NoError(t, mw(ctx, func() error { return nil }))
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
