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
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Connection is one upgraded WebSocket connection.
// Created on successful handshake; destroyed on close, ping timeout, or
// server shutdown.
type Connection struct {
	ID       string
	URL      string
	conn     net.Conn
	br       *bufio.Reader
	bw       *bufio.Writer
	writeMu  sync.Mutex
	closed   atomic.Bool
	lastPong atomic.Int64 // unix nanos

	roomsMu sync.Mutex
	rooms   map[string]struct{}

	maxMessageSize int64

	manager *RoomManager

	onMessage func(conn *Connection, data []byte, isText bool)
	onClose   func(conn *Connection, code int, reason string)
}

func newConnection(conn net.Conn, br *bufio.Reader, bw *bufio.Writer, url string, manager *RoomManager, maxMessageSize int64) *Connection {
	c := &Connection{
		ID:             uuid.NewString(),
		URL:            url,
		conn:           conn,
		br:             br,
		bw:             bw,
		rooms:          make(map[string]struct{}),
		manager:        manager,
		maxMessageSize: maxMessageSize,
	}
	c.lastPong.Store(time.Now().UnixNano())
	return c
}

// IsAlive reports whether the connection has not been closed.
func (c *Connection) IsAlive() bool { return !c.closed.Load() }

// LastPong returns the timestamp of the last pong (or the handshake
// time if none has arrived yet).
func (c *Connection) LastPong() time.Time {
	return time.Unix(0, c.lastPong.Load())
}

// Send writes a UTF-8 text message.
func (c *Connection) Send(data []byte) error {
	return c.writeFrameLocked(opText, data)
}

// SendBinary writes a binary message.
func (c *Connection) SendBinary(data []byte) error {
	return c.writeFrameLocked(opBinary, data)
}

// Ping sends a ping control frame.
func (c *Connection) Ping() error {
	return c.writeFrameLocked(opPing, nil)
}

func (c *Connection) pong(payload []byte) error {
	return c.writeFrameLocked(opPong, payload)
}

func (c *Connection) writeFrameLocked(op opcode, payload []byte) error {
	if c.closed.Load() {
		return net.ErrClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := writeFrame(c.bw, op, payload); err != nil {
		return err
	}
	return c.bw.Flush()
}

// Close sends a close frame (best-effort) and releases the underlying
// socket. It leaves every room the connection was a member of.
func (c *Connection) Close(code int, reason string) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	payload := closePayload(code, reason)
	c.writeMu.Lock()
	_ = writeFrame(c.bw, opClose, payload)
	_ = c.bw.Flush()
	c.writeMu.Unlock()

	if c.manager != nil {
		c.manager.LeaveAll(c)
	}
	err := c.conn.Close()
	if c.onClose != nil {
		c.onClose(c, code, reason)
	}
	return err
}

func closePayload(code int, reason string) []byte {
	if code == 0 {
		code = CloseNormal
	}
	payload := make([]byte, 2+len(reason))
	payload[0] = byte(code >> 8)
	payload[1] = byte(code)
	copy(payload[2:], reason)
	return payload
}

// Join adds the connection to a room.
func (c *Connection) Join(room string) {
	c.roomsMu.Lock()
	c.rooms[room] = struct{}{}
	c.roomsMu.Unlock()
	if c.manager != nil {
		c.manager.Add(c, room)
	}
}

// Leave removes the connection from a room.
func (c *Connection) Leave(room string) {
	c.roomsMu.Lock()
	delete(c.rooms, room)
	c.roomsMu.Unlock()
	if c.manager != nil {
		c.manager.Remove(c, room)
	}
}

// Rooms returns the set of room names this connection currently
// belongs to.
func (c *Connection) Rooms() []string {
	c.roomsMu.Lock()
	defer c.roomsMu.Unlock()
	names := make([]string, 0, len(c.rooms))
	for name := range c.rooms {
		names = append(names, name)
	}
	return names
}

func (c *Connection) forgetRoom(room string) {
	c.roomsMu.Lock()
	delete(c.rooms, room)
	c.roomsMu.Unlock()
}

// readLoop consumes frames until the connection closes. It handles
// control frames inline (ping/pong/close) and assembles fragmented
// messages, dispatching complete text/binary messages to onMessage.
func (c *Connection) readLoop() {
	asm := &assembler{}
	defer c.Close(CloseNormal, "")

	for {
		f, err := readFrame(c.br, c.maxMessageSize)
		if err != nil {
			switch err {
			case errFrameTooLarge:
				c.Close(CloseMessageTooBig, "message too large")
			case errUnmaskedFrame:
				c.Close(CloseProtocolError, "unmasked frame")
			case errInvalidUTF8:
				c.Close(CloseInvalidPayload, "invalid utf-8")
			default:
				c.Close(CloseAbnormal, "")
			}
			return
		}

		switch f.opcode {
		case opPing:
			if err := c.pong(f.payload); err != nil {
				return
			}
		case opPong:
			c.lastPong.Store(time.Now().UnixNano())
		case opClose:
			return
		case opText, opBinary, opContinuation:
			complete, err := asm.feed(f, c.maxMessageSize)
			if err != nil {
				switch err {
				case errFrameTooLarge:
					c.Close(CloseMessageTooBig, "message too large")
				case errInvalidUTF8:
					c.Close(CloseInvalidPayload, "invalid utf-8")
				default:
					c.Close(CloseProtocolError, "")
				}
				return
			}
			if complete != nil && c.onMessage != nil {
				c.onMessage(c, complete.payload, complete.opcode == opText)
			}
		}
	}
}
