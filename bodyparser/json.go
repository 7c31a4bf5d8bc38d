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
	"encoding/json"

	"github.com/0xTanzim/nextrush/apperror"
)

// parseJSON decodes a JSON body. Empty input maps to nil (the host
// language's null). A structural pre-check rejects input whose
// outer shape cannot possibly be JSON before running the more
// expensive depth scan and decode.
func parseJSON(data []byte, maxDepth int) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if !looksLikeJSON(trimmed) {
		return nil, apperror.BadRequest("request body is not valid JSON")
	}

	depth, err := jsonDepth(trimmed)
	if err != nil {
		return nil, apperror.BadRequest("malformed JSON body: " + err.Error())
	}
	if depth > maxDepth {
		return nil, apperror.Validation("JSON nesting depth exceeds the configured maximum")
	}

	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return nil, apperror.BadRequest("malformed JSON body: " + err.Error())
	}
	return value, nil
}

// looksLikeJSON performs the fast outer-shape pre-check: the first
// non-whitespace byte and last non-whitespace byte must form a valid
// JSON outer shape (object, array, string, number, true/false/null).
func looksLikeJSON(trimmed []byte) bool {
	first := trimmed[0]
	last := trimmed[len(trimmed)-1]
	switch first {
	case '{':
		return last == '}'
	case '[':
		return last == ']'
	case '"':
		return len(trimmed) >= 2 && last == '"'
	default:
		// number, true, false, null: no bracket shape to check.
		return true
	}
}

// jsonDepth scans the document tracking string/escape state and
// returns the maximum nesting depth of objects/arrays.
func jsonDepth(data []byte) (int, error) {
	depth := 0
	maxDepth := 0
	inString := false
	escaped := false

	for _, b := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{', '[':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case '}', ']':
			depth--
			if depth < 0 {
				return 0, errUnbalancedJSON
			}
		}
	}
	if inString || depth != 0 {
		return 0, errUnbalancedJSON
	}
	return maxDepth, nil
}

var errUnbalancedJSON = jsonStructuralError("unbalanced JSON structure")

type jsonStructuralError string

func (e jsonStructuralError) Error() string { return string(e) }
