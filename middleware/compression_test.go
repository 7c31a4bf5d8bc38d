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
	"compress/gzip"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xTanzim/nextrush/router"
)

func TestNegotiateEncodingPrefersBrotli(t *testing.T) {
	assert.Equal(t, "br", negotiateEncoding("gzip, br"))
	assert.Equal(t, "gzip", negotiateEncoding("gzip"))
	assert.Equal(t, "", negotiateEncoding("identity"))
}

func TestCompressionGzipsResponseBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	mw := Compression()
	err := mw(ctx, func() error {
		ctx.Response.Underlying().Header().Set("Content-Type", "text/plain")
		_, werr := ctx.Response.Write([]byte("hello world"))
		return werr
	})
	require.NoError(t, err)

	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	decoded, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(decoded))
}

func TestCompressionSkipsExcludedContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	mw := Compression(WithExcludeContentTypes("image/png"))
	err := mw(ctx, func() error {
		ctx.Response.Underlying().Header().Set("Content-Type", "image/png")
		_, werr := ctx.Response.Write([]byte("binary"))
		return werr
	})
	require.NoError(t, err)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "binary", rec.Body.String())
}

func TestCompressionSkipsWhenNoAcceptedEncoding(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	called := false
	mw := Compression()
	err := mw(ctx, func() error { called = true; return nil })
	require.NoError(t, err)
	assert.True(t, called)
}
