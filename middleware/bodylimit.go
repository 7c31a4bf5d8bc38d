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
	"io"

	"github.com/0xTanzim/nextrush/apperror"
	"github.com/0xTanzim/nextrush/router"
)

// limitedReader wraps a request body, returning a PayloadTooLarge error
// as soon as more than limit bytes have been read, rather than only
// checking the (spoofable) Content-Length header.
type limitedReader struct {
	reader io.ReadCloser
	limit  int64
	read   int64
}

func (lr *limitedReader) Read(p []byte) (int, error) {
	if lr.read >= lr.limit {
		var probe [1]byte
		n, err := lr.reader.Read(probe[:])
		if n > 0 {
			return 0, apperror.PayloadTooLarge("request body exceeds the route body limit")
		}
		return 0, err
	}
	if remaining := lr.limit - lr.read; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := lr.reader.Read(p)
	lr.read += int64(n)
	return n, err
}

func (lr *limitedReader) Close() error { return lr.reader.Close() }

// BodyLimit returns middleware that caps a route's request body below
// the application-wide default, rejecting with PayloadTooLarge as soon
// as the limit is crossed — on the Content-Length header when present,
// and unconditionally by wrapping the body reader.
func BodyLimit(maxBytes int64) router.Middleware {
	return func(ctx *router.Context, next router.Next) error {
		if ctx.Request.ContentLength > maxBytes {
			return apperror.PayloadTooLarge("request body exceeds the route body limit")
		}
		if ctx.Request.Body != nil {
			ctx.Request.Body = &limitedReader{reader: ctx.Request.Body, limit: maxBytes}
		}
		return next()
	}
}
