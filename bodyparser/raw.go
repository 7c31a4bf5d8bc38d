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

import "github.com/0xTanzim/nextrush/apperror"

// parseRaw returns bytes as an owned copy (safe from mutation of any
// shared buffer), rejecting anything over maxSize.
func parseRaw(data []byte, maxSize int64) ([]byte, error) {
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, apperror.PayloadTooLarge("raw body exceeds the configured maximum size")
	}
	owned := make([]byte, len(data))
	copy(owned, data)
	return owned, nil
}
