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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xTanzim/nextrush/logging"
	"github.com/0xTanzim/nextrush/router"
)

func captureLogOutput(t *testing.T, fn func(*logging.Logger)) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "accesslog-*.log")
	require.NoError(t, err)
	defer f.Close()

	logger := logging.New(logging.WithOutput(f))
	fn(logger)

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	return string(data)
}

func TestAccessLogRecordsSuccessfulRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/widgets", nil)
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	output := captureLogOutput(t, func(logger *logging.Logger) {
		mw := AccessLog(logger)
		err := mw(ctx, func() error {
			ctx.Status(200)
			_, werr := ctx.Response.Write([]byte("ok"))
			return werr
		})
		require.NoError(t, err)
	})

	assert.Contains(t, output, "request completed")
	assert.Contains(t, output, "/widgets")
}

func TestAccessLogRecordsFailedRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/widgets", nil)
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	output := captureLogOutput(t, func(logger *logging.Logger) {
		mw := AccessLog(logger)
		err := mw(ctx, func() error { return assertErr })
		require.Error(t, err)
	})

	assert.Contains(t, output, "request failed")
}

var assertErr = assertError("boom")

type assertError string

func (e assertError) Error() string { return string(e) }
