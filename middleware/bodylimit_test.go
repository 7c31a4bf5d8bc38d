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
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xTanzim/nextrush/router"
)

func TestBodyLimitRejectsDeclaredOversizeContentLength(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 10)))
	req.ContentLength = 1000
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	mw := BodyLimit(10)
	err := mw(ctx, func() error { return nil })
	assert.Error(t, err)
}

func TestBodyLimitWrapsReaderAndEnforcesActualSize(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 100)))
	req.ContentLength = -1
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	mw := BodyLimit(10)
	require.NoError(t, mw(ctx, func() error { return nil }))

	_, err := io.ReadAll(ctx.Request.Body)
	assert.Error(t, err)
}

func TestBodyLimitAllowsUnderLimitBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader("short"))
	req.ContentLength = -1
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	mw := BodyLimit(100)
	require.NoError(t, mw(ctx, func() error { return nil }))

	data, err := io.ReadAll(ctx.Request.Body)
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}
