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

package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:           http.StatusBadRequest,
		KindPayloadTooLarge:      http.StatusRequestEntityTooLarge,
		KindTooManyRequests:      http.StatusTooManyRequests,
		KindInternal:             http.StatusInternalServerError,
		KindServiceUnavailable:   http.StatusServiceUnavailable,
		KindMethodNotAllowed:     http.StatusMethodNotAllowed,
	}
	for kind, status := range cases {
		e := New(kind, "x")
		assert.Equal(t, status, e.HTTPStatus(), "kind %s", kind)
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, New(KindRequestTimeout, "x").Retryable())
	assert.False(t, New(KindBadRequest, "x").Retryable())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(KindInternal, cause, "wrapped")
	assert.ErrorIs(t, e, cause)
}

func TestNormalizePassesThroughTypedError(t *testing.T) {
	e := Validation("bad input")
	got := Normalize(e)
	assert.Same(t, e, got)
}

func TestNormalizeWrapsPlainError(t *testing.T) {
	got := Normalize(errors.New("boom"))
	require.NotNil(t, got)
	assert.Equal(t, KindInternal, got.KindValue)
	assert.NotEmpty(t, got.Stack())
}

func TestNormalizeNil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}

func TestWithDetailsAndCorrelationID(t *testing.T) {
	e := BadRequest("bad").WithDetails(map[string]string{"field": "name"}).WithCorrelationID("req-1")
	assert.Equal(t, "req-1", e.CorrelationID)
	assert.NotNil(t, e.Details())
}
