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

package bodyparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONObject(t *testing.T) {
	v, err := parseJSON([]byte(`{"a":1,"b":[1,2,3]}`), 32)
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), m["a"])
}

func TestParseJSONEmptyIsNil(t *testing.T) {
	v, err := parseJSON([]byte("   "), 32)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParseJSONRejectsMalformedShape(t *testing.T) {
	_, err := parseJSON([]byte(`{"a":1`), 32)
	assert.Error(t, err)
}

func TestParseJSONRejectsExcessiveDepth(t *testing.T) {
	_, err := parseJSON([]byte(`[[[[1]]]]`), 2)
	assert.Error(t, err)
}

func TestJSONDepthTracksNesting(t *testing.T) {
	depth, err := jsonDepth([]byte(`{"a":[1,{"b":2}]}`))
	require.NoError(t, err)
	assert.Equal(t, 3, depth)
}

func TestJSONDepthRejectsUnbalanced(t *testing.T) {
	_, err := jsonDepth([]byte(`{"a":1`))
	assert.ErrorIs(t, err, errUnbalancedJSON)
}
