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

// Package logging builds the zerolog loggers of the commands.
//
// The library packages never log, and the commands log to stderr only,
// so that stdout carries the command output.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLogLevel is the environment variable overriding the configured level.
const EnvLogLevel = "BENCAT_LOG_LEVEL"

// Config is the configuration of the logger.
type Config struct {
	Level   string
	NoColor bool
	Out     io.Writer // Default: os.Stderr
}

// New returns a console logger with the timestamp and the field "app".
func New(app string, c Config) zerolog.Logger {
	out := c.Out
	if out == nil {
		out = os.Stderr
	}

	level, _ := ParseLevel(c.Level)
	if raw := os.Getenv(EnvLogLevel); raw != "" {
		if envLevel, ok := ParseLevel(raw); ok {
			level = envLevel
		}
	}

	output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: c.NoColor}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", app).Logger()
}

// ParseLevel parses the level name. An empty name is "info".
//
// For an unknown name, it returns "info" and false.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return zerolog.InfoLevel, true
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
