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
	"bytes"
	"unicode/utf8"
)

// sniff inspects up to the first 512 bytes of a body with no declared
// Content-Type and guesses a parser tag.
func sniff(data []byte) string {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	trimmed := bytes.TrimSpace(head)

	if len(trimmed) == 0 {
		return ParserText
	}

	switch trimmed[0] {
	case '{', '[':
		return ParserJSON
	}

	lower := bytes.ToLower(trimmed)
	if bytes.HasPrefix(lower, []byte("<?xml")) || bytes.HasPrefix(lower, []byte("<!doctype")) || bytes.HasPrefix(lower, []byte("<html")) {
		return ParserText
	}
	if trimmed[0] == '<' {
		return ParserText
	}

	if looksURLEncoded(trimmed) {
		return ParserURLEncoded
	}

	switch {
	case bytes.HasPrefix(head, []byte{0x89, 'P', 'N', 'G'}):
		return ParserRaw
	case bytes.HasPrefix(head, []byte{0xFF, 0xD8, 0xFF}):
		return ParserRaw
	case bytes.HasPrefix(head, []byte("%PDF")):
		return ParserRaw
	}

	if utf8.Valid(head) && isPrintableASCII(head) {
		return ParserText
	}
	return ParserRaw
}

// looksURLEncoded checks for a "k=v&k=v" shape without requiring it to
// be exhaustively valid.
func looksURLEncoded(data []byte) bool {
	if !bytes.ContainsRune(data, '=') {
		return false
	}
	for _, b := range data {
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		case b == '=' || b == '&' || b == '%' || b == '+' || b == '.' || b == '-' || b == '_':
		default:
			return false
		}
	}
	return true
}

func isPrintableASCII(data []byte) bool {
	for _, b := range data {
		if b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return true
}
