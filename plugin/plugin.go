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

package plugin

import "github.com/0xTanzim/nextrush/router"

// App is the subset of the application surface a plugin's Install
// hook may use to register capabilities. The concrete *nextrush.App
// satisfies this structurally; defining it here (rather than
// importing the root package) avoids an import cycle between plugin
// and nextrush.
type App interface {
	Use(mw router.Middleware)
	Get(pattern string, handler router.Handler, mw ...router.Middleware) error
	Post(pattern string, handler router.Handler, mw ...router.Middleware) error
	Put(pattern string, handler router.Handler, mw ...router.Middleware) error
	Delete(pattern string, handler router.Handler, mw ...router.Middleware) error
	Patch(pattern string, handler router.Handler, mw ...router.Middleware) error
}

// Plugin is the structural contract every optional NextRush extension
// implements. Init and Cleanup and ValidateConfig
// and HealthCheck have default no-op behavior via the embeddable Base
// below; a plugin only needs to implement the methods it cares about.
type Plugin interface {
	Name() string
	Version() string
	Install(app App) error
	Init() error
	Cleanup() error
	ValidateConfig() error
	HealthCheck() error
}

// Base is embeddable by plugins that only need a subset of the
// lifecycle hooks; every method is a no-op returning nil.
type Base struct{}

func (Base) Init() error           { return nil }
func (Base) Cleanup() error        { return nil }
func (Base) ValidateConfig() error { return nil }
func (Base) HealthCheck() error    { return nil }

// Registry loads plugins in registration order and runs their
// lifecycle hooks at the corresponding application lifecycle events.
type Registry struct {
	plugins []Plugin
}

// NewRegistry returns an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register installs p immediately against app. A plugin whose
// install returns an error aborts startup, per contract.
func (r *Registry) Register(app App, p Plugin) error {
	if err := p.ValidateConfig(); err != nil {
		return err
	}
	if err := p.Install(app); err != nil {
		return err
	}
	r.plugins = append(r.plugins, p)
	return nil
}

// InitAll runs Init on every registered plugin, in registration order,
// called once after the application starts listening.
func (r *Registry) InitAll() error {
	for _, p := range r.plugins {
		if err := p.Init(); err != nil {
			return err
		}
	}
	return nil
}

// CleanupAll runs Cleanup on every registered plugin, in registration
// order, called during application shutdown. Every plugin is given a
// chance to clean up even if an earlier one fails; the first error is
// returned.
func (r *Registry) CleanupAll() error {
	var firstErr error
	for _, p := range r.plugins {
		if err := p.Cleanup(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// HealthCheck aggregates HealthCheck across every registered plugin,
// returning the first failure.
func (r *Registry) HealthCheck() error {
	for _, p := range r.plugins {
		if err := p.HealthCheck(); err != nil {
			return err
		}
	}
	return nil
}

// Plugins returns the registered plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	return append([]Plugin(nil), r.plugins...)
}
