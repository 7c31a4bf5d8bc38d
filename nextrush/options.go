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

package nextrush

import (
	"fmt"
	"regexp"
	"time"

	"github.com/0xTanzim/nextrush/apperror"
	"github.com/0xTanzim/nextrush/bodyparser"
	"github.com/0xTanzim/nextrush/config"
	"github.com/0xTanzim/nextrush/logging"
	"github.com/0xTanzim/nextrush/router"
	"github.com/0xTanzim/nextrush/ws"
)

const (
	DefaultPort            = 3000
	DefaultHost            = "localhost"
	DefaultMaxBodySize     = 1 << 20        // 1 MiB
	DefaultTimeout         = 30 * time.Second
	DefaultKeepAlive       = 10 * time.Second
	DefaultGracefulTimeout = 3 * time.Second

	minMaxBodySize = 1 << 10        // 1 KiB
	maxMaxBodySize = 100 << 20      // 100 MiB
	minTimeout     = 1 * time.Second
	maxTimeout     = 5 * time.Minute
	minKeepAlive   = 1 * time.Second
	maxKeepAlive   = 1 * time.Minute
)

var hostPattern = regexp.MustCompile(`^[A-Za-z0-9.-]+$`)

// settings accumulates every constructor option before New validates
// and freezes them into an App. The *Set fields track which values
// were supplied explicitly in code, so a later-loaded config file only
// fills in what the caller left at its default.
type settings struct {
	port    int
	portSet bool

	host    string
	hostSet bool

	maxBodySize    int64
	maxBodySizeSet bool

	timeout    time.Duration
	timeoutSet bool

	keepAlive    time.Duration
	keepAliveSet bool

	trustProxy    bool
	trustProxySet bool

	debug    bool
	debugSet bool

	gracefulTimeout time.Duration
	configFile      string

	logger          *logging.Logger
	formatter       apperror.Formatter
	routerOpts      []router.Option
	bodyParserOpts  bodyparser.Options
	globalMiddleware []router.Middleware
	wsPlugins       []*ws.Plugin
}

func defaultSettings() *settings {
	return &settings{
		port:            DefaultPort,
		host:            DefaultHost,
		maxBodySize:     DefaultMaxBodySize,
		timeout:         DefaultTimeout,
		keepAlive:       DefaultKeepAlive,
		gracefulTimeout: DefaultGracefulTimeout,
		bodyParserOpts:  bodyparser.DefaultOptions(),
	}
}

// Option configures an App at construction time.
type Option func(*settings)

// WithPort sets the listen port; 0 lets the OS assign one. Range:
// 0-65535.
func WithPort(port int) Option {
	return func(s *settings) { s.port = port; s.portSet = true }
}

// WithHost sets the bind host. Must match ^[A-Za-z0-9.-]+$.
func WithHost(host string) Option {
	return func(s *settings) { s.host = host; s.hostSet = true }
}

// WithMaxBodySize bounds the request body size enforced by the smart
// body parser. Range: 1 KiB - 100 MiB.
func WithMaxBodySize(n int64) Option {
	return func(s *settings) {
		s.maxBodySize = n
		s.maxBodySizeSet = true
		s.bodyParserOpts.MaxBodySize = n
	}
}

// WithTimeout bounds how long the body-reading loop may take. Range:
// 1s - 5min.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
		s.timeoutSet = true
		s.bodyParserOpts.Timeout = d
	}
}

// WithKeepAlive sets the HTTP keep-alive period. Range: 1s - 1min.
func WithKeepAlive(d time.Duration) Option {
	return func(s *settings) { s.keepAlive = d; s.keepAliveSet = true }
}

// WithTrustProxy enables honoring X-Forwarded-For / X-Forwarded-Proto.
func WithTrustProxy(trust bool) Option {
	return func(s *settings) { s.trustProxy = trust; s.trustProxySet = true }
}

// WithDebug toggles inclusion of stack traces in error responses.
func WithDebug(debug bool) Option {
	return func(s *settings) { s.debug = debug; s.debugSet = true }
}

// WithGracefulTimeout overrides how long Shutdown waits for in-flight
// requests before forcibly closing sockets.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) { s.gracefulTimeout = d }
}

// WithConfigFile loads a YAML file (see the config package) and uses
// its values for any option not already set explicitly in code.
func WithConfigFile(path string) Option {
	return func(s *settings) { s.configFile = path }
}

// WithLogger installs a structured logger; the default is a no-op
// logger that discards everything.
func WithLogger(logger *logging.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithErrorFormatter overrides the fallback error formatter used by the
// exception filter chain. The default is apperror.JSONFormatter.
func WithErrorFormatter(f apperror.Formatter) Option {
	return func(s *settings) { s.formatter = f }
}

// WithRouterOptions forwards options to the underlying router (e.g.
// WithMaxRoutes, WithCaseSensitive, WithIgnoreTrailingSlash).
func WithRouterOptions(opts ...router.Option) Option {
	return func(s *settings) { s.routerOpts = append(s.routerOpts, opts...) }
}

// WithBodyParserOptions overrides fields of the smart body parser
// configuration beyond MaxBodySize/Timeout (which are also driven by
// WithMaxBodySize/WithTimeout).
func WithBodyParserOptions(opts bodyparser.Options) Option {
	return func(s *settings) {
		size, timeout := s.bodyParserOpts.MaxBodySize, s.bodyParserOpts.Timeout
		s.bodyParserOpts = opts
		if !s.maxBodySizeSet {
			s.bodyParserOpts.MaxBodySize = opts.MaxBodySize
		} else {
			s.bodyParserOpts.MaxBodySize = size
		}
		if !s.timeoutSet {
			s.bodyParserOpts.Timeout = opts.Timeout
		} else {
			s.bodyParserOpts.Timeout = timeout
		}
	}
}

// WithGlobalMiddleware appends middleware run for every request ahead
// of the smart body parser and route matching.
func WithGlobalMiddleware(mw ...router.Middleware) Option {
	return func(s *settings) { s.globalMiddleware = append(s.globalMiddleware, mw...) }
}

// WithWebSocket registers a WebSocket plugin; upgrade requests are
// tried against each registered plugin, in registration order, before
// the HTTP middleware chain runs.
func WithWebSocket(p *ws.Plugin) Option {
	return func(s *settings) { s.wsPlugins = append(s.wsPlugins, p) }
}

func (s *settings) applyConfigFile() error {
	if s.configFile == "" {
		return nil
	}
	fc, err := config.Load(s.configFile)
	if err != nil {
		return err
	}
	if !s.portSet && fc.Port != 0 {
		s.port = fc.Port
	}
	if !s.hostSet && fc.Host != "" {
		s.host = fc.Host
	}
	if !s.maxBodySizeSet && fc.MaxBodySize != 0 {
		s.maxBodySize = fc.MaxBodySize
		s.bodyParserOpts.MaxBodySize = fc.MaxBodySize
	}
	if !s.timeoutSet {
		if d, err := fc.TimeoutDuration(); err == nil && d != 0 {
			s.timeout = d
			s.bodyParserOpts.Timeout = d
		}
	}
	if !s.keepAliveSet {
		if d, err := fc.KeepAliveDuration(); err == nil && d != 0 {
			s.keepAlive = d
		}
	}
	if !s.trustProxySet {
		s.trustProxy = fc.TrustProxy
	}
	if !s.debugSet {
		s.debug = fc.Debug
	}
	return nil
}

// validate checks every field against its documented range, returning
// a single apperror.Validation error listing every violation found.
func (s *settings) validate() error {
	var problems []string

	if s.port < 0 || s.port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range [0, 65535]", s.port))
	}
	if !hostPattern.MatchString(s.host) {
		problems = append(problems, fmt.Sprintf("host %q does not match ^[A-Za-z0-9.-]+$", s.host))
	}
	if s.maxBodySize < minMaxBodySize || s.maxBodySize > maxMaxBodySize {
		problems = append(problems, fmt.Sprintf("maxBodySize %d out of range [%d, %d]", s.maxBodySize, minMaxBodySize, maxMaxBodySize))
	}
	if s.timeout < minTimeout || s.timeout > maxTimeout {
		problems = append(problems, fmt.Sprintf("timeout %s out of range [%s, %s]", s.timeout, minTimeout, maxTimeout))
	}
	if s.keepAlive < minKeepAlive || s.keepAlive > maxKeepAlive {
		problems = append(problems, fmt.Sprintf("keepAlive %s out of range [%s, %s]", s.keepAlive, minKeepAlive, maxKeepAlive))
	}

	if len(problems) == 0 {
		return nil
	}
	return apperror.Validation("invalid application configuration").WithDetails(problems)
}
