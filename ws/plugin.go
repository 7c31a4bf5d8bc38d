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
	"net/http"
	"sync"
	"time"
)

// HandlerFunc is invoked once per successful upgrade with the new
// connection and the original HTTP request.
type HandlerFunc func(conn *Connection, r *http.Request)

// OriginVerifier decides whether an Origin header is acceptable. A nil
// verifier accepts every origin.
type OriginVerifier func(origin string) bool

// Option configures a Plugin at construction time.
type Option func(*Plugin)

// WithMountPaths restricts the plugin to the given paths. Each entry
// is either an exact path or a trailing-"*" wildcard prefix. The
// default is a single mount at "/ws".
func WithMountPaths(paths ...string) Option {
	return func(p *Plugin) { p.mounts = append([]string(nil), paths...) }
}

// WithMaxConnections caps the number of simultaneously open
// connections; additional upgrade attempts are rejected with 503. Zero
// means unbounded.
func WithMaxConnections(n int) Option {
	return func(p *Plugin) { p.maxConnections = n }
}

// WithHeartbeat sets the ping interval and overrides the default of
// 30 seconds.
func WithHeartbeat(interval time.Duration) Option {
	return func(p *Plugin) { p.heartbeatInterval = interval }
}

// WithOriginVerifier installs a verifier; requests whose Origin header
// is rejected receive a 403 and are never upgraded.
func WithOriginVerifier(v OriginVerifier) Option {
	return func(p *Plugin) { p.verifyOrigin = v }
}

// WithMaxMessageSize bounds the size of a single (possibly reassembled)
// message; zero means unbounded.
func WithMaxMessageSize(n int64) Option {
	return func(p *Plugin) { p.maxMessageSize = n }
}

// WithRoomEvents installs callbacks fired when a room transitions
// between having members and having none.
func WithRoomEvents(onCreated, onDestroyed func(room string)) Option {
	return func(p *Plugin) {
		p.rooms.onRoomCreated = onCreated
		p.rooms.onRoomDestroyed = onDestroyed
	}
}

// Plugin is the WebSocket subsystem: one instance owns a mount
// configuration, a connection set, a room manager, and a heartbeat
// timer.
type Plugin struct {
	mounts            []string
	maxConnections    int
	heartbeatInterval time.Duration
	maxMessageSize    int64
	verifyOrigin      OriginVerifier

	rooms *RoomManager

	mu      sync.Mutex
	conns   map[*Connection]struct{}
	handler HandlerFunc

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New constructs a Plugin with the given handler and options.
func New(handler HandlerFunc, opts ...Option) *Plugin {
	p := &Plugin{
		mounts:            []string{"/ws"},
		heartbeatInterval: 30 * time.Second,
		maxMessageSize:    0,
		rooms:             newRoomManager(),
		conns:             make(map[*Connection]struct{}),
		handler:           handler,
		stopCh:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	go p.heartbeatLoop()
	return p
}

// Rooms returns the plugin's room manager, usable for application-scope
// broadcasts across the whole server.
func (p *Plugin) Rooms() *RoomManager { return p.rooms }

// Broadcast sends payload to every member of room across the server.
func (p *Plugin) Broadcast(room string, payload []byte) {
	p.rooms.Broadcast(room, payload, nil)
}

// ConnectionCount returns the number of currently open connections.
func (p *Plugin) ConnectionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

// Matches reports whether path falls under this plugin's mount
// configuration.
func (p *Plugin) Matches(path string) bool {
	return matchPath(p.mounts, path)
}

// Upgrade attempts the RFC 6455 handshake for r. It returns false
// without writing anything when path does not match the plugin's mount
// configuration, signalling the caller to go on with normal routing.
// Origin and capacity rejections are written directly and reported via
// ok=true (the HTTP exchange is complete either way).
func (p *Plugin) Upgrade(w http.ResponseWriter, r *http.Request) (ok bool) {
	if !p.Matches(r.URL.Path) {
		return false
	}

	if p.verifyOrigin != nil && !p.verifyOrigin(r.Header.Get("Origin")) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return true
	}

	if p.maxConnections > 0 && p.ConnectionCount() >= p.maxConnections {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return true
	}

	key, valid := validUpgrade(r)
	if !valid {
		http.Error(w, "invalid websocket upgrade", http.StatusBadRequest)
		return true
	}

	conn, rw, err := hijack(w)
	if err != nil {
		http.Error(w, "upgrade not supported", http.StatusInternalServerError)
		return true
	}

	if err := writeHandshakeResponse(conn, key); err != nil {
		conn.Close()
		return true
	}

	wsConn := newConnection(conn, rw.Reader, rw.Writer, r.URL.Path, p.rooms, p.maxMessageSize)
	wsConn.onClose = func(c *Connection, code int, reason string) {
		p.mu.Lock()
		delete(p.conns, c)
		p.mu.Unlock()
	}

	p.mu.Lock()
	p.conns[wsConn] = struct{}{}
	p.mu.Unlock()

	if p.handler != nil {
		p.handler(wsConn, r)
	}

	go wsConn.readLoop()
	return true
}

func (p *Plugin) heartbeatLoop() {
	ticker := time.NewTicker(p.heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

func (p *Plugin) tick() {
	p.mu.Lock()
	conns := make([]*Connection, 0, len(p.conns))
	for c := range p.conns {
		conns = append(conns, c)
	}
	p.mu.Unlock()

	now := time.Now()
	for _, c := range conns {
		if now.Sub(c.LastPong()) > p.heartbeatInterval {
			c.Close(CloseGoingAway, "ping timeout")
			continue
		}
		_ = c.Ping()
	}
}

// Shutdown stops the heartbeat timer and closes every open connection.
func (p *Plugin) Shutdown() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.mu.Lock()
	conns := make([]*Connection, 0, len(p.conns))
	for c := range p.conns {
		conns = append(conns, c)
	}
	p.mu.Unlock()
	for _, c := range conns {
		c.Close(CloseGoingAway, "server shutdown")
	}
}
