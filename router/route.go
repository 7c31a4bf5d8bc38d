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

package router

// Route is a registered (method, path-pattern, handler, middleware)
// tuple. Pattern is static if it has no ":name" param segments or
// trailing "*name" catch-all segment.
type Route struct {
	Method     string
	Pattern    string
	Handler    Handler
	Middleware []Middleware
}

// RouteMatch is the result of a successful Find. Params is empty for
// static matches.
type RouteMatch struct {
	Route  *Route
	Params map[string]string
	Path   string
}

// segment is one "/"-delimited piece of a compiled pattern.
type segment struct {
	literal  bool
	wildcard bool   // catch-all "*name" segment; always the pattern's last segment
	value    string // literal text, or the param name (without ':' or '*') otherwise
}

// compiledPattern is a parameterized route ready for matching.
type compiledPattern struct {
	route    *Route
	segments []segment
}

// AllowedMethods is the set of HTTP methods the router accepts.
var AllowedMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
	"PATCH": true, "OPTIONS": true, "HEAD": true,
}
