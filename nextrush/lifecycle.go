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

package nextrush

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/0xTanzim/nextrush/ws"
)

// OnListening registers a callback fired once the listener is
// accepting connections.
func (a *App) OnListening(fn func()) {
	a.lifecycleMu.Lock()
	defer a.lifecycleMu.Unlock()
	a.onListening = append(a.onListening, fn)
}

// OnShutdown registers a callback fired when Shutdown begins draining,
// before in-flight requests are given their grace period.
func (a *App) OnShutdown(fn func()) {
	a.lifecycleMu.Lock()
	defer a.lifecycleMu.Unlock()
	a.onShutdown = append(a.onShutdown, fn)
}

// OnClosed registers a callback fired after the listener and every
// plugin have finished shutting down.
func (a *App) OnClosed(fn func()) {
	a.lifecycleMu.Lock()
	defer a.lifecycleMu.Unlock()
	a.onClosed = append(a.onClosed, fn)
}

// Addr returns the address the application is listening on, valid
// after Listen returns successfully (useful when Port was 0 and the OS
// assigned one).
func (a *App) Addr() string {
	a.lifecycleMu.Lock()
	defer a.lifecycleMu.Unlock()
	if a.server == nil {
		return ""
	}
	return a.server.Addr
}

// Done returns a channel closed once Shutdown has been called, letting
// background goroutines started by handlers know when to stop.
func (a *App) Done() <-chan struct{} {
	a.lifecycleMu.Lock()
	defer a.lifecycleMu.Unlock()
	return a.shutdownCh
}

// Listen binds the configured host:port, starts accepting connections,
// and runs plugin Init hooks once the listener is up. It blocks until
// the listener stops (either from Shutdown or a fatal accept error). A
// second call while already listening returns ErrAlreadyListening
// without side effects.
func (a *App) Listen() error {
	a.lifecycleMu.Lock()
	if a.listening {
		a.lifecycleMu.Unlock()
		return ErrAlreadyListening
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.host, a.cfg.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		a.lifecycleMu.Unlock()
		return fmt.Errorf("nextrush: listen %s: %w", addr, err)
	}

	a.server = &http.Server{
		Addr:        listener.Addr().String(),
		Handler:     a,
		ReadTimeout: a.cfg.timeout,
		IdleTimeout: a.cfg.keepAlive,
	}
	a.listening = true
	a.shutdown = false
	a.shutdownCh = make(chan struct{})
	hooks := append([]func(){}, a.onListening...)
	a.lifecycleMu.Unlock()

	if err := a.plugins.InitAll(); err != nil {
		listener.Close()
		return fmt.Errorf("nextrush: plugin init: %w", err)
	}

	a.logger.Info("server listening", "addr", listener.Addr().String())
	for _, hook := range hooks {
		hook()
	}

	err = a.server.Serve(listener)
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("nextrush: serve: %w", err)
	}
	return nil
}

// Shutdown sets the shutdown flag so the listener stops accepting new
// connections, waits up to gracefulTimeout for in-flight requests to
// finish, force-closes anything left, closes every WebSocket plugin,
// and runs plugin Cleanup hooks. Repeated calls are safe and return
// immediately after the first completes.
func (a *App) Shutdown(ctx context.Context) error {
	a.lifecycleMu.Lock()
	if !a.listening || a.shutdown {
		a.lifecycleMu.Unlock()
		return nil
	}
	a.shutdown = true
	server := a.server
	hooks := append([]func(){}, a.onShutdown...)
	closedHooks := append([]func(){}, a.onClosed...)
	gracePeriod := a.cfg.gracefulTimeout
	close(a.shutdownCh)
	a.lifecycleMu.Unlock()

	for _, hook := range hooks {
		hook()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, gracePeriod)
	defer cancel()

	a.mu.RLock()
	wsPlugins := append([]*ws.Plugin(nil), a.wsPlugins...)
	a.mu.RUnlock()
	for _, p := range wsPlugins {
		p.Shutdown()
	}

	err := server.Shutdown(shutdownCtx)

	if cleanupErr := a.plugins.CleanupAll(); cleanupErr != nil {
		a.logger.Error("plugin cleanup failed", "error", cleanupErr.Error())
	}

	a.logger.Info("server shut down")
	for _, hook := range closedHooks {
		hook()
	}

	if err != nil {
		return fmt.Errorf("nextrush: shutdown: %w", err)
	}
	return nil
}
