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
	"bufio"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConnection returns a Connection backed by an in-memory pipe
// whose peer end is drained in the background, so writes (Send,
// Broadcast) never block.
func newTestConnection(t *testing.T, manager *RoomManager) *Connection {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { client.Close() })
	go io.Copy(io.Discard, client)

	br := bufio.NewReader(server)
	bw := bufio.NewWriter(server)
	return newConnection(server, br, bw, "/ws", manager, 1<<20)
}

func TestRoomManagerAddAndSize(t *testing.T) {
	m := newRoomManager()
	c1 := newTestConnection(t, m)
	c2 := newTestConnection(t, m)

	m.Add(c1, "lobby")
	m.Add(c2, "lobby")
	assert.Equal(t, 2, m.Size("lobby"))
	assert.ElementsMatch(t, []string{"lobby"}, c1.Rooms())
}

func TestRoomManagerRemoveDestroysEmptyRoom(t *testing.T) {
	m := newRoomManager()
	c1 := newTestConnection(t, m)

	var destroyed string
	m.onRoomDestroyed = func(room string) { destroyed = room }

	m.Add(c1, "lobby")
	m.Remove(c1, "lobby")
	assert.Equal(t, 0, m.Size("lobby"))
	assert.Equal(t, "lobby", destroyed)
	assert.Empty(t, c1.Rooms())
}

func TestRoomManagerLeaveAll(t *testing.T) {
	m := newRoomManager()
	c1 := newTestConnection(t, m)

	m.Add(c1, "a")
	m.Add(c1, "b")
	m.LeaveAll(c1)
	assert.Equal(t, 0, m.Size("a"))
	assert.Equal(t, 0, m.Size("b"))
}

func TestRoomManagerBroadcastExcludesSender(t *testing.T) {
	m := newRoomManager()
	// Each peer reports the opcode of the first frame it receives.
	observed := func() (*Connection, chan byte) {
		server, client := net.Pipe()
		t.Cleanup(func() { client.Close() })
		first := make(chan byte, 1)
		go func() {
			b := make([]byte, 1)
			if _, err := io.ReadFull(client, b); err == nil {
				first <- b[0] & 0x0f
			}
			io.Copy(io.Discard, client)
		}()
		return newConnection(server, bufio.NewReader(server), bufio.NewWriter(server), "/ws", m, 1<<20), first
	}
	c1, first1 := observed()
	c2, first2 := observed()

	m.Add(c1, "lobby")
	m.Add(c2, "lobby")

	m.Broadcast("lobby", []byte("hi"), c1)
	require.NoError(t, c1.Close(CloseNormal, ""))
	require.NoError(t, c2.Close(CloseNormal, ""))
	assert.Equal(t, byte(opClose), <-first1)
	assert.Equal(t, byte(opText), <-first2)
}

func TestConnectionJoinLeave(t *testing.T) {
	m := newRoomManager()
	c := newTestConnection(t, m)

	c.Join("room1")
	assert.Contains(t, c.Rooms(), "room1")

	c.Leave("room1")
	assert.NotContains(t, c.Rooms(), "room1")
}
