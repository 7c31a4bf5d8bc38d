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

import "sync"

// RoomManager tracks room membership across connections and fans out
// broadcasts. Construct one with newRoomManager; the zero value has no
// room map and is not usable.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]map[*Connection]struct{}

	onRoomCreated   func(room string)
	onRoomDestroyed func(room string)
}

func newRoomManager() *RoomManager {
	return &RoomManager{rooms: make(map[string]map[*Connection]struct{})}
}

// Add joins conn to room, creating it if necessary.
func (m *RoomManager) Add(conn *Connection, room string) {
	m.mu.Lock()
	members, ok := m.rooms[room]
	if !ok {
		members = make(map[*Connection]struct{})
		m.rooms[room] = members
		created := m.onRoomCreated
		m.mu.Unlock()
		if created != nil {
			created(room)
		}
		m.mu.Lock()
		members = m.rooms[room]
	}
	members[conn] = struct{}{}
	m.mu.Unlock()

	conn.roomsMu.Lock()
	conn.rooms[room] = struct{}{}
	conn.roomsMu.Unlock()
}

// Remove removes conn from room. The room is destroyed once its last
// member leaves.
func (m *RoomManager) Remove(conn *Connection, room string) {
	m.mu.Lock()
	members, ok := m.rooms[room]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(members, conn)
	destroy := len(members) == 0
	if destroy {
		delete(m.rooms, room)
	}
	destroyed := m.onRoomDestroyed
	m.mu.Unlock()

	conn.forgetRoom(room)
	if destroy && destroyed != nil {
		destroyed(room)
	}
}

// LeaveAll removes conn from every room it belongs to, used when a
// connection closes.
func (m *RoomManager) LeaveAll(conn *Connection) {
	for _, room := range conn.Rooms() {
		m.Remove(conn, room)
	}
}

// Size returns the member count of room.
func (m *RoomManager) Size(room string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[room])
}

// Broadcast sends payload as a text message to every member of room
// except exceptConn (pass nil to include every member). Send errors on
// individual connections are swallowed; a slow or dead peer never
// blocks or aborts the broadcast to the rest of the room.
func (m *RoomManager) Broadcast(room string, payload []byte, exceptConn *Connection) {
	m.mu.RLock()
	members := make([]*Connection, 0, len(m.rooms[room]))
	for conn := range m.rooms[room] {
		if conn != exceptConn {
			members = append(members, conn)
		}
	}
	m.mu.RUnlock()

	for _, conn := range members {
		_ = conn.Send(payload)
	}
}

// BroadcastBinary is Broadcast for binary messages.
func (m *RoomManager) BroadcastBinary(room string, payload []byte, exceptConn *Connection) {
	m.mu.RLock()
	members := make([]*Connection, 0, len(m.rooms[room]))
	for conn := range m.rooms[room] {
		if conn != exceptConn {
			members = append(members, conn)
		}
	}
	m.mu.RUnlock()

	for _, conn := range members {
		_ = conn.SendBinary(payload)
	}
}
