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
	"strings"

	"github.com/0xTanzim/nextrush/apperror"
)

// parseText decodes bytes as UTF-8 text, optionally normalizing line
// endings to "\n" and trimming surrounding whitespace, rejecting
// anything over maxLength.
func parseText(data []byte, normalizeLineEndings, trim bool, maxLength int64) (string, error) {
	if maxLength > 0 && int64(len(data)) > maxLength {
		return "", apperror.PayloadTooLarge("text body exceeds the configured maximum length")
	}

	text := string(data)
	if normalizeLineEndings {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
	}
	if trim {
		text = strings.TrimSpace(text)
	}
	return text, nil
}
