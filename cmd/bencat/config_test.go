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
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "bencat.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, "log_level = \"debug\"\nstrict = true\n"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
	if !cfg.Strict {
		t.Fatalf("expected strict enabled")
	}
	if cfg.Indent != "  " {
		t.Fatalf("unexpected indent: %q", cfg.Indent)
	}
	if cfg.MaxInputSize != 64<<20 {
		t.Fatalf("unexpected max input size: %d", cfg.MaxInputSize)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	cases := []string{
		"log_level = \"verbose\"\n",
		"max_input_size = 0\n",
		"indent = \"x\"\n",
		"unknown = 1\n",
		"strict = \n",
	}
	for _, content := range cases {
		if _, err := loadConfig(writeConfig(t, content)); err == nil {
			t.Errorf("%q: expected an error", content)
		}
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestLoadConfigEmptyLogLevel(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, "log_level = \"\"\n"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel != "" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
}
