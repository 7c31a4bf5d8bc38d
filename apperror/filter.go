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

package apperror

import "net/http"

// Filter is an exception filter: given the normalized error it returns
// a formatted Response and true if it claims the error, or a zero
// Response and false otherwise.
type Filter func(req *http.Request, err *Error) (Response, bool)

// Chain holds an ordered list of exception filters plus the mandatory
// fallback formatter that always runs last.
type Chain struct {
	filters  []Filter
	fallback Formatter
}

// NewChain builds a Chain with the given fallback formatter. Panics if
// fallback is nil — a chain with no fallback cannot guarantee every
// error produces a well-formed response.
func NewChain(fallback Formatter) *Chain {
	if fallback == nil {
		panic("apperror: NewChain requires a non-nil fallback Formatter")
	}
	return &Chain{fallback: fallback}
}

// Use appends a filter to the chain. Filters registered earlier are
// tried first.
func (c *Chain) Use(f Filter) {
	c.filters = append(c.filters, f)
}

// SetFallback replaces the fallback formatter.
func (c *Chain) SetFallback(f Formatter) {
	if f != nil {
		c.fallback = f
	}
}

// Handle normalizes err and runs it through the filter chain, returning
// the first claimed Response or the fallback formatter's Response.
func (c *Chain) Handle(req *http.Request, err error) (Response, *Error) {
	typed := Normalize(err)
	for _, f := range c.filters {
		if resp, ok := f(req, typed); ok {
			return resp, typed
		}
	}
	return c.fallback.Format(req, typed), typed
}
