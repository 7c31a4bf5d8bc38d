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

package ws

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptTokenKnownVector(t *testing.T) {
	// Example key/value from RFC 6455 section 1.3.
	got := acceptToken("dGhlIHNhbXBsZSBub25jZQ==")
	assert.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", got)
}

func TestValidUpgradeAcceptsWellFormedRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")

	key, ok := validUpgrade(req)
	assert.True(t, ok)
	assert.Equal(t, "dGhlIHNhbXBsZSBub25jZQ==", key)
}

func TestValidUpgradeRejectsWrongMethod(t *testing.T) {
	req := httptest.NewRequest("POST", "/ws", nil)
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "x")

	_, ok := validUpgrade(req)
	assert.False(t, ok)
}

func TestValidUpgradeRejectsMissingKey(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Sec-WebSocket-Version", "13")

	_, ok := validUpgrade(req)
	assert.False(t, ok)
}

func TestHeaderContainsTokenCaseInsensitive(t *testing.T) {
	assert.True(t, headerContainsToken("Upgrade, Keep-Alive", "upgrade"))
	assert.False(t, headerContainsToken("keep-alive", "upgrade"))
}

func TestMatchPathWildcard(t *testing.T) {
	assert.True(t, matchPath([]string{"/chat/*"}, "/chat/room1"))
	assert.True(t, matchPath([]string{"/chat"}, "/chat"))
	assert.False(t, matchPath([]string{"/chat"}, "/chat/room1"))
}
