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

// Package router implements NextRush's path-pattern compiler and matcher,
// the per-request Context, and the middleware composition engine.
//
// Static patterns are kept in a map for O(1) lookup; parameterized
// patterns are compiled into segment slices and matched with a linear
// scan over the (small) working set registered for a given method.
package router
