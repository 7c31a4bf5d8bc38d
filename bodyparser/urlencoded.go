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
	"net/url"
	"strings"
)

// parseURLEncoded splits the body on "&", each pair on the first "=",
// and URL-decodes key and value. Repeated keys accumulate into an
// ordered slice of values. When extended is true, keys of the shape
// "a[b][c]" are nested into a tree instead of kept flat.
func parseURLEncoded(data []byte, extended bool) (map[string]any, error) {
	flat := make(map[string][]string)
	raw := string(data)

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		var key, value string
		if idx := strings.IndexByte(pair, '='); idx != -1 {
			key, value = pair[:idx], pair[idx+1:]
		} else {
			key = pair
		}

		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			decodedKey = key
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			decodedValue = value
		}
		flat[decodedKey] = append(flat[decodedKey], decodedValue)
	}

	if !extended {
		result := make(map[string]any, len(flat))
		for k, values := range flat {
			if len(values) == 1 {
				result[k] = values[0]
			} else {
				result[k] = values
			}
		}
		return result, nil
	}

	result := make(map[string]any)
	for k, values := range flat {
		value := any(values[len(values)-1])
		if len(values) > 1 {
			value = values
		}
		assignNested(result, parseKeyPath(k), value)
	}
	return result, nil
}

// parseKeyPath turns "a[b][c]" into ["a", "b", "c"], and a plain "a"
// into ["a"].
func parseKeyPath(key string) []string {
	first := strings.IndexByte(key, '[')
	if first == -1 {
		return []string{key}
	}
	path := []string{key[:first]}
	rest := key[first:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			break
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			break
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path
}

// assignNested walks/creates nested maps along path and sets the
// leaf to value.
func assignNested(root map[string]any, path []string, value any) {
	node := root
	for i, key := range path {
		if i == len(path)-1 {
			node[key] = value
			return
		}
		next, ok := node[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			node[key] = next
		}
		node = next
	}
}
