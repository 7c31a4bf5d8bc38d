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

package router

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Query returns the last value of a query parameter, or "" if absent.
func (c *Context) Query(name string) string {
	return c.queryMap().Get(name)
}

// QueryDefault returns the query value, or def if the parameter is
// absent.
func (c *Context) QueryDefault(name, def string) string {
	values := c.queryMap()
	if _, ok := values[name]; !ok {
		return def
	}
	return values.Get(name)
}

// AllQueries returns every query parameter, each keyed to its full list
// of values (URL semantics preserve repeated keys in order).
func (c *Context) AllQueries() map[string][]string {
	return c.queryMap()
}

func (c *Context) queryMap() url.Values {
	c.queryOnce.Do(func() {
		c.queryValues = c.Request.URL.Query()
	})
	return c.queryValues
}

// Header returns the named request header.
func (c *Context) Header(name string) string {
	return c.Request.Header.Get(name)
}

// Cookie returns the named cookie value, or an error if not present.
func (c *Context) Cookie(name string) (string, error) {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ContentType returns the request Content-Type header with any
// parameters (e.g. ";boundary=...", ";charset=...") stripped.
func (c *Context) ContentType() string {
	ct := c.Request.Header.Get("Content-Type")
	if idx := strings.IndexByte(ct, ';'); idx != -1 {
		ct = ct[:idx]
	}
	return strings.TrimSpace(ct)
}

// Hostname returns the Host header with any port stripped.
func (c *Context) Hostname() string {
	host := c.Request.Host
	if host == "" {
		host = c.Request.URL.Host
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// clientIP derives the caller's address. When trustProxy is false (the
// default), the immediate TCP peer is authoritative regardless of any
// forwarded header a client may have sent. When true, the first entry
// of X-Forwarded-For is used if present.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			first := strings.TrimSpace(parts[0])
			if first != "" {
				return first
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// protocol derives "http" or "https", honoring X-Forwarded-Proto only
// when trustProxy is true.
func protocol(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			return proto
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
