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
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenAndShutdownLifecycle(t *testing.T) {
	app, err := New(WithPort(0), WithHost("127.0.0.1"), WithGracefulTimeout(time.Second))
	require.NoError(t, err)

	listening := make(chan struct{})
	app.OnListening(func() { close(listening) })

	closed := make(chan struct{})
	app.OnClosed(func() { close(closed) })

	serveErr := make(chan error, 1)
	go func() { serveErr <- app.Listen() }()

	select {
	case <-listening:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for listener")
	}

	assert.NotEmpty(t, app.Addr())

	resp, err := http.Get("http://" + app.Addr() + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)

	require.NoError(t, app.Shutdown(context.Background()))

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for shutdown hook")
	}

	require.NoError(t, <-serveErr)
}

func TestListenTwiceReturnsAlreadyListening(t *testing.T) {
	app, err := New(WithPort(0), WithHost("127.0.0.1"))
	require.NoError(t, err)

	listening := make(chan struct{})
	app.OnListening(func() { close(listening) })

	go app.Listen()
	<-listening
	defer app.Shutdown(context.Background())

	assert.ErrorIs(t, app.Listen(), ErrAlreadyListening)
}

func TestShutdownBeforeListenIsNoop(t *testing.T) {
	app, err := New()
	require.NoError(t, err)
	assert.NoError(t, app.Shutdown(context.Background()))
}

func TestDoneChannelClosesOnShutdown(t *testing.T) {
	app, err := New(WithPort(0), WithHost("127.0.0.1"))
	require.NoError(t, err)

	listening := make(chan struct{})
	app.OnListening(func() { close(listening) })
	go app.Listen()
	<-listening

	require.NoError(t, app.Shutdown(context.Background()))
	select {
	case <-app.Done():
	default:
		t.Fatal("Done channel should be closed after Shutdown")
	}
}
