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
	"regexp"
	"time"

	"github.com/0xTanzim/nextrush/router"
)

var (
	jsonContentType = regexp.MustCompile(`^application/(?:json|.*\+json)$`)
	xmlContentType  = regexp.MustCompile(`^(?:application|text)/(?:xml|.*\+xml)$`)
)

// selectParser matches the pre-";" portion of a Content-Type against
// the selection rules, first match wins.
func selectParser(contentType string) string {
	switch {
	case jsonContentType.MatchString(contentType):
		return ParserJSON
	case contentType == "application/x-www-form-urlencoded":
		return ParserURLEncoded
	case len(contentType) >= len("multipart/form-data") && contentType[:len("multipart/form-data")] == "multipart/form-data":
		return ParserMultipart
	case len(contentType) >= 5 && contentType[:5] == "text/":
		return ParserText
	case xmlContentType.MatchString(contentType):
		return ParserText
	default:
		return ParserRaw
	}
}

// skipBody reports whether the dispatcher should leave ctx.Body
// untouched: GET/HEAD/DELETE have no conventional body, and a body
// already set by earlier middleware is never overwritten.
func skipBody(ctx *router.Context) bool {
	if ctx.Body != nil {
		return true
	}
	switch ctx.Method {
	case "GET", "HEAD", "DELETE":
		return true
	default:
		return false
	}
}

// Middleware returns the smart body parser as route-chain middleware.
// It inspects Content-Type, reads the body under the configured
// size/timeout ceiling, selects exactly one parser, and assigns
// ctx.Body / ctx.BodyResult.
func Middleware(opts Options) router.Middleware {
	return func(ctx *router.Context, next router.Next) error {
		if skipBody(ctx) {
			return next()
		}

		start := time.Now()
		raw, err := readLimited(ctx.Request, opts.MaxBodySize, opts.Timeout)
		if err != nil {
			return err
		}

		contentType := ctx.ContentType()
		tag := ""
		if contentType != "" {
			tag = selectParser(contentType)
		} else if opts.AutoDetectContentType {
			tag = sniff(raw)
		} else {
			tag = ParserRaw
		}

		result := &router.BodyParseResult{
			Raw:         raw,
			Size:        len(raw),
			ContentType: contentType,
			Parser:      tag,
			IsEmpty:     len(raw) == 0,
		}

		switch tag {
		case ParserJSON:
			data, err := parseJSON(raw, opts.MaxJSONDepth)
			if err != nil {
				return err
			}
			result.Data = data
		case ParserURLEncoded:
			data, err := parseURLEncoded(raw, opts.ExtendedURLEncoded)
			if err != nil {
				return err
			}
			result.Data = data
		case ParserMultipart:
			data, hasFiles, err := parseMultipart(raw, ctx.Request.Header.Get("Content-Type"), opts.MaxMultipartFileSize, opts.MaxMultipartTotalSize)
			if err != nil {
				return err
			}
			result.Data = data
			result.HasFiles = hasFiles
		case ParserText:
			text, err := parseText(raw, opts.NormalizeLineEndings, opts.TrimText, opts.MaxTextLength)
			if err != nil {
				return err
			}
			result.Data = text
		default:
			data, err := parseRaw(raw, opts.MaxRawSize)
			if err != nil {
				return err
			}
			result.Data = data
		}

		result.ParseTime = time.Since(start)
		ctx.Body = result.Data
		ctx.BodyResult = result
		return next()
	}
}
