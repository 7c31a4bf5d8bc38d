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
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xTanzim/nextrush/apperror"
	"github.com/0xTanzim/nextrush/router"
)

func TestRecoveryConvertsPanicToInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	mw := Recovery()
	err := mw(ctx, func() error { panic("boom") })

	require.Error(t, err)
	var typed *apperror.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, apperror.KindInternal, typed.KindValue)
	assert.Contains(t, typed.Error(), "boom")
}

func TestRecoveryCapturesStackWhenEnabled(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	mw := Recovery(WithStackTrace(true))
	err := mw(ctx, func() error { panic("boom") })

	var typed *apperror.Error
	require.ErrorAs(t, err, &typed)
	assert.NotEmpty(t, typed.Stack())
}

func TestRecoveryInvokesPanicHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	var captured any
	mw := Recovery(WithPanicHandler(func(ctx *router.Context, recovered any, stack []byte) {
		captured = recovered
	}))
	_ = mw(ctx, func() error { panic("boom") })
	assert.Equal(t, "boom", captured)
}

func TestRecoveryPassesThroughNonPanicError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	ctx := router.NewContext(rec, req, false)
	defer router.Release(ctx)

	sentinel := errors.New("plain failure")
	mw := Recovery()
	err := mw(ctx, func() error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
}
