// Copyright 2026 xgfone
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

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xgfone/go-bencode/internal/logging"
)

// Config is the configuration of bencat.
type Config struct {
	LogLevel string
	NoColor  bool

	// Strict requires the dictionary keys to be sorted and unique.
	Strict bool

	// Indent is the indentation of the output of "dump".
	Indent string

	// MaxInputSize is the maximum number of the bytes to read.
	MaxInputSize int64
}

type fileConfig struct {
	LogLevel     string `toml:"log_level"`
	NoColor      bool   `toml:"no_color"`
	Strict       bool   `toml:"strict"`
	Indent       string `toml:"indent"`
	MaxInputSize int64  `toml:"max_input_size"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel:     "info",
		Indent:       "  ",
		MaxInputSize: 64 << 20,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load bencat config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("no_color") {
		cfg.NoColor = raw.NoColor
	}
	if meta.IsDefined("strict") {
		cfg.Strict = raw.Strict
	}
	if meta.IsDefined("indent") {
		cfg.Indent = raw.Indent
	}
	if meta.IsDefined("max_input_size") {
		cfg.MaxInputSize = raw.MaxInputSize
	}

	return cfg, cfg.Validate()
}

// Validate checks whether the configuration is valid.
func (c Config) Validate() error {
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.MaxInputSize <= 0 {
		return errors.New("max_input_size must be positive")
	}
	if strings.Trim(c.Indent, " \t") != "" {
		return fmt.Errorf("invalid indent %q", c.Indent)
	}
	return nil
}
