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

package bodyparser

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/0xTanzim/nextrush/apperror"
)

// readLimited implements the common reading loop shared by every
// parser: it reads the body in chunks, aborts with
// PayloadTooLarge as soon as the cumulative size crosses maxSize
// (without draining the remainder), aborts with RequestTimeout if the
// read does not complete within timeout, and validates Content-Length
// against the actual byte count when the header is present.
func readLimited(r *http.Request, maxSize int64, timeout time.Duration) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	ctx := r.Context()
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type readResult struct {
		data []byte
		err  error
	}
	done := make(chan readResult, 1)

	go func() {
		limited := io.LimitReader(r.Body, maxSize+1)
		data, err := io.ReadAll(limited)
		done <- readResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, apperror.RequestTimeout("request body read timed out")
	case res := <-done:
		if res.err != nil {
			if typed, ok := res.err.(*apperror.Error); ok {
				return nil, typed
			}
			return nil, apperror.BadRequest("failed to read request body: " + res.err.Error())
		}
		if int64(len(res.data)) > maxSize {
			return nil, apperror.PayloadTooLarge("request body exceeds maximum allowed size")
		}
		if declared := contentLengthHeader(r); declared > 0 && declared != int64(len(res.data)) {
			return nil, apperror.BadRequest("content-length does not match actual body size")
		}
		return res.data, nil
	}
}

// contentLengthHeader reports the declared Content-Length, or -1 if
// absent/invalid.
func contentLengthHeader(r *http.Request) int64 {
	raw := r.Header.Get("Content-Length")
	if raw == "" {
		return -1
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return -1
	}
	return n
}
