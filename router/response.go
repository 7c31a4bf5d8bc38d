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
	"bufio"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// ErrResponseAlreadyFlushed is returned when a header setter is called
// after the first byte of the body has been written.
var ErrResponseAlreadyFlushed = errors.New("router: cannot set header after response flush")

// ErrResponseWriterNotHijacker is returned by Hijack when the underlying
// http.ResponseWriter does not support hijacking.
var ErrResponseWriterNotHijacker = errors.New("router: response writer does not support hijacking")

// ResponseWriter wraps http.ResponseWriter, buffering header writes
// until the first byte of the body and capturing status/size for
// logging and metrics.
type ResponseWriter struct {
	underlying http.ResponseWriter
	header     http.Header
	statusCode int
	size       int64
	flushed    bool
}

func newResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{underlying: w, header: make(http.Header)}
}

// SetHeader buffers a header to be emitted on the first write. Calling
// it after the response has started flushing returns
// ErrResponseAlreadyFlushed.
func (rw *ResponseWriter) SetHeader(key, value string) error {
	if rw.flushed {
		return ErrResponseAlreadyFlushed
	}
	rw.header.Set(key, value)
	return nil
}

// AppendHeader appends a header value without clobbering existing
// values (for headers like Set-Cookie that may repeat).
func (rw *ResponseWriter) AppendHeader(key, value string) error {
	if rw.flushed {
		return ErrResponseAlreadyFlushed
	}
	rw.header.Add(key, value)
	return nil
}

// GetHeader returns a buffered (not-yet-flushed) header value.
func (rw *ResponseWriter) GetHeader(key string) string {
	return rw.header.Get(key)
}

// Underlying returns the wrapped http.ResponseWriter, for middleware
// that needs to splice in a transforming writer (e.g. compression).
func (rw *ResponseWriter) Underlying() http.ResponseWriter {
	return rw.underlying
}

// SetUnderlying replaces the wrapped http.ResponseWriter. Buffered
// headers are still emitted through it on the next flush, so callers
// only need to implement http.ResponseWriter (and restore the previous
// value once done writing through it).
func (rw *ResponseWriter) SetUnderlying(w http.ResponseWriter) {
	rw.underlying = w
}

// StatusCode reports the status that will be (or was) sent.
func (rw *ResponseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Size reports the number of body bytes written so far.
func (rw *ResponseWriter) Size() int64 { return rw.size }

// Flushed reports whether headers have already been sent.
func (rw *ResponseWriter) Flushed() bool { return rw.flushed }

// flush copies buffered headers to the underlying writer and sends the
// status line exactly once.
func (rw *ResponseWriter) flush(status int) {
	if rw.flushed {
		return
	}
	for k, values := range rw.header {
		for _, v := range values {
			rw.underlying.Header().Add(k, v)
		}
	}
	if status == 0 {
		status = http.StatusOK
	}
	rw.statusCode = status
	rw.underlying.WriteHeader(status)
	rw.flushed = true
}

// Write flushes headers (with the current status, defaulting to 200)
// if not already flushed, then writes body bytes.
func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if !rw.flushed {
		rw.flush(rw.StatusCode())
	}
	n, err := rw.underlying.Write(b)
	rw.size += int64(n)
	return n, err
}

// Hijack implements http.Hijacker for protocol upgrades (WebSocket).
func (rw *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.underlying.(http.Hijacker)
	if !ok {
		return nil, nil, ErrResponseWriterNotHijacker
	}
	return hijacker.Hijack()
}

// Flush implements http.Flusher.
func (rw *ResponseWriter) Flush() {
	if !rw.flushed {
		rw.flush(rw.StatusCode())
	}
	if flusher, ok := rw.underlying.(http.Flusher); ok {
		flusher.Flush()
	}
}

// --- Context-level response helpers ---------------------------------

// Status records the status code to use on flush and returns the
// Context for chaining, e.g. ctx.Status(201) before ctx.Response.Write.
func (c *Context) Status(code int) *Context {
	c.Response.statusCode = code
	return c
}

// SetHeader sets a response header, ignoring the (rare, programmer) error
// from setting it after flush — callers who need to observe that error
// should call c.Response.SetHeader directly.
func (c *Context) SetHeader(key, value string) {
	_ = c.Response.SetHeader(key, value)
}

// JSON encodes v as JSON and writes it with the given status.
func (c *Context) JSON(status int, v any) error {
	_ = c.Response.SetHeader("Content-Type", "application/json; charset=utf-8")
	c.Response.statusCode = status
	c.Response.flush(status)
	return json.NewEncoder(c.Response).Encode(v)
}

// Text writes a plain-text response.
func (c *Context) Text(status int, body string) error {
	_ = c.Response.SetHeader("Content-Type", "text/plain; charset=utf-8")
	c.Response.statusCode = status
	c.Response.flush(status)
	_, err := c.Response.Write([]byte(body))
	return err
}

// HTML writes an HTML response.
func (c *Context) HTML(status int, body string) error {
	_ = c.Response.SetHeader("Content-Type", "text/html; charset=utf-8")
	c.Response.statusCode = status
	c.Response.flush(status)
	_, err := c.Response.Write([]byte(body))
	return err
}

// XML encodes v as XML and writes it.
func (c *Context) XML(status int, v any) error {
	_ = c.Response.SetHeader("Content-Type", "application/xml; charset=utf-8")
	c.Response.statusCode = status
	c.Response.flush(status)
	return xml.NewEncoder(c.Response).Encode(v)
}

// CSV writes rows as a CSV response.
func (c *Context) CSV(status int, rows [][]string) error {
	_ = c.Response.SetHeader("Content-Type", "text/csv; charset=utf-8")
	c.Response.statusCode = status
	c.Response.flush(status)
	writer := csv.NewWriter(c.Response)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// SendFile streams a file from disk, setting Content-Type from its
// extension when not already set.
func (c *Context) SendFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	if c.Response.GetHeader("Content-Type") == "" {
		if ct := mimeByExtension(filepath.Ext(path)); ct != "" {
			_ = c.Response.SetHeader("Content-Type", ct)
		}
	}
	_ = c.Response.SetHeader("Content-Length", strconv.FormatInt(info.Size(), 10))
	c.Response.flush(c.Response.StatusCode())

	buf := make([]byte, 32*1024)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := c.Response.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return nil
			}
			return rerr
		}
	}
}

// Redirect sends a redirect response to url with the given status
// (defaulting to 302 Found when status is 0).
func (c *Context) Redirect(url string, status int) error {
	if status == 0 {
		status = http.StatusFound
	}
	_ = c.Response.SetHeader("Location", url)
	c.Response.statusCode = status
	c.Response.flush(status)
	_, err := fmt.Fprintf(c.Response, `<a href="%s">Redirecting to %s</a>`, url, url)
	return err
}

func mimeByExtension(ext string) string {
	switch ext {
	case ".json":
		return "application/json"
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".xml":
		return "application/xml"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	default:
		return ""
	}
}
