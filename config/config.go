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

package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/0xTanzim/nextrush/apperror"
)

// FileConfig mirrors the application's Option table field names, so a
// YAML document can supply the same settings a caller would otherwise
// pass as functional options.
type FileConfig struct {
	Port        int    `yaml:"port"`
	Host        string `yaml:"host"`
	MaxBodySize int64  `yaml:"maxBodySize"`
	Timeout     string `yaml:"timeout"`
	KeepAlive   string `yaml:"keepAlive"`
	TrustProxy  bool   `yaml:"trustProxy"`
	Debug       bool   `yaml:"debug"`
}

// TimeoutDuration parses the Timeout field, returning zero if unset.
func (f *FileConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration(f.Timeout)
}

// KeepAliveDuration parses the KeepAlive field, returning zero if unset.
func (f *FileConfig) KeepAliveDuration() (time.Duration, error) {
	return parseDuration(f.KeepAlive)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// Load reads and decodes a YAML configuration file from path.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, apperror.Validation(fmt.Sprintf("config: parsing %s: %v", path, err))
	}
	return &cfg, nil
}
