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

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"

	"github.com/0xTanzim/nextrush/router"
)

// CompressionOption configures Compression.
type CompressionOption func(*compressionConfig)

type compressionConfig struct {
	gzipLevel           int
	brotliLevel         int
	excludeContentTypes map[string]bool
}

func defaultCompressionConfig() *compressionConfig {
	return &compressionConfig{
		gzipLevel:           gzip.DefaultCompression,
		brotliLevel:         brotli.DefaultCompression,
		excludeContentTypes: make(map[string]bool),
	}
}

// WithGzipLevel sets the gzip compression level (0-9).
func WithGzipLevel(level int) CompressionOption {
	return func(cfg *compressionConfig) { cfg.gzipLevel = level }
}

// WithBrotliLevel sets the brotli compression level (0-11).
func WithBrotliLevel(level int) CompressionOption {
	return func(cfg *compressionConfig) { cfg.brotliLevel = level }
}

// WithExcludeContentTypes marks response content types that should
// never be compressed (already-compressed formats gain nothing).
func WithExcludeContentTypes(contentTypes ...string) CompressionOption {
	return func(cfg *compressionConfig) {
		for _, ct := range contentTypes {
			cfg.excludeContentTypes[ct] = true
		}
	}
}

var gzipWriterPool = sync.Pool{
	New: func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return w
	},
}

var brotliWriterPool = sync.Pool{
	New: func() any {
		return brotli.NewWriterLevel(io.Discard, brotli.DefaultCompression)
	},
}

// compressingWriter wraps the route's http.ResponseWriter, deciding on
// the first write whether the response qualifies for compression and,
// if so, routing body bytes through a pooled gzip or brotli writer.
type compressingWriter struct {
	http.ResponseWriter
	cfg        *compressionConfig
	encoding   string // "gzip", "br", or "" once decided
	decided    bool
	compressor io.WriteCloser
}

func (cw *compressingWriter) decide() {
	if cw.decided {
		return
	}
	cw.decided = true
	contentType := cw.ResponseWriter.Header().Get("Content-Type")
	if cw.cfg.excludeContentTypes[contentType] {
		return
	}
	switch cw.encoding {
	case "br":
		w, _ := brotliWriterPool.Get().(*brotli.Writer)
		w.Reset(cw.ResponseWriter)
		cw.compressor = w
	case "gzip":
		w, _ := gzipWriterPool.Get().(*gzip.Writer)
		w.Reset(cw.ResponseWriter)
		cw.compressor = w
	default:
		return
	}
	cw.ResponseWriter.Header().Del("Content-Length")
	cw.ResponseWriter.Header().Set("Content-Encoding", cw.encoding)
	cw.ResponseWriter.Header().Add("Vary", "Accept-Encoding")
}

func (cw *compressingWriter) WriteHeader(status int) {
	cw.decide()
	cw.ResponseWriter.WriteHeader(status)
}

func (cw *compressingWriter) Write(data []byte) (int, error) {
	cw.decide()
	if cw.compressor == nil {
		return cw.ResponseWriter.Write(data)
	}
	return cw.compressor.Write(data)
}

func (cw *compressingWriter) Close() {
	if cw.compressor == nil {
		return
	}
	cw.compressor.Close()
	switch w := cw.compressor.(type) {
	case *gzip.Writer:
		w.Reset(io.Discard)
		gzipWriterPool.Put(w)
	case *brotli.Writer:
		w.Reset(io.Discard)
		brotliWriterPool.Put(w)
	}
}

// negotiateEncoding picks "br" over "gzip" when both are accepted,
// since brotli generally compresses better at an equivalent level.
func negotiateEncoding(acceptEncoding string) string {
	switch {
	case strings.Contains(acceptEncoding, "br"):
		return "br"
	case strings.Contains(acceptEncoding, "gzip"):
		return "gzip"
	default:
		return ""
	}
}

// Compression returns middleware that compresses response bodies with
// gzip or brotli, negotiated from the request's Accept-Encoding header.
func Compression(opts ...CompressionOption) router.Middleware {
	cfg := defaultCompressionConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx *router.Context, next router.Next) error {
		encoding := negotiateEncoding(ctx.Header("Accept-Encoding"))
		if encoding == "" {
			return next()
		}

		original := ctx.Response.Underlying()
		cw := &compressingWriter{ResponseWriter: original, cfg: cfg, encoding: encoding}
		ctx.Response.SetUnderlying(cw)

		err := next()
		cw.Close()
		ctx.Response.SetUnderlying(original)
		return err
	}
}
