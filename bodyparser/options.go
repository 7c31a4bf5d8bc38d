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

import "time"

// Parser tags identify which decoder produced a BodyParseResult.
const (
	ParserJSON       = "json"
	ParserURLEncoded = "urlencoded"
	ParserMultipart  = "multipart"
	ParserText       = "text"
	ParserRaw        = "raw"
)

// Options configures the dispatcher and every individual parser.
type Options struct {
	// MaxBodySize bounds the total number of bytes read from the
	// request body, enforced during the common reading loop.
	MaxBodySize int64

	// Timeout bounds how long the reading loop may take.
	Timeout time.Duration

	// MaxJSONDepth bounds JSON nesting depth.
	MaxJSONDepth int

	// AutoDetectContentType enables content sniffing when the request
	// has no Content-Type header.
	AutoDetectContentType bool

	// ExtendedURLEncoded enables "a[b][c]=v" nesting in the
	// urlencoded parser.
	ExtendedURLEncoded bool

	// MaxTextLength bounds the text parser's decoded output.
	MaxTextLength int64

	// MaxRawSize bounds the raw parser's byte count (on top of
	// MaxBodySize, for a tighter route-specific ceiling).
	MaxRawSize int64

	// MaxMultipartFileSize bounds a single uploaded file's size.
	MaxMultipartFileSize int64

	// MaxMultipartTotalSize bounds the aggregate size of all multipart
	// parts.
	MaxMultipartTotalSize int64

	// TrimText trims leading/trailing whitespace from text bodies.
	TrimText bool

	// NormalizeLineEndings rewrites CRLF/CR to LF in text bodies.
	NormalizeLineEndings bool

	// Charset is the declared charset used to decode text bodies.
	// Only "utf-8" (the default) is supported; anything else is passed
	// through as raw bytes decoded as UTF-8 best-effort.
	Charset string
}

// DefaultOptions returns the dispatcher defaults used by the
// application unless overridden.
func DefaultOptions() Options {
	return Options{
		MaxBodySize:            1 << 20, // 1 MiB
		Timeout:                30 * time.Second,
		MaxJSONDepth:           32,
		AutoDetectContentType:  true,
		ExtendedURLEncoded:     false,
		MaxTextLength:          1 << 20,
		MaxRawSize:             1 << 20,
		MaxMultipartFileSize:   10 << 20, // 10 MiB
		MaxMultipartTotalSize:  32 << 20, // 32 MiB
		TrimText:               false,
		NormalizeLineEndings:   false,
		Charset:                "utf-8",
	}
}
