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

// Command bencat inspects a bencode document.
//
// Usage:
//
//	bencat [flags] dump|canon|check|infohash [file]
//
// The document is read from the file, or stdin if it is absent or "-".
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/xgfone/go-bencode/bencode"
	"github.com/xgfone/go-bencode/internal/logging"
	"github.com/xgfone/go-bencode/metainfo"
)

var errNotCanonical = errors.New("the document is not canonical")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("bencat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "the path of the TOML config file")
	strict := fs.Bool("strict", false, "require the sorted and unique dictionary keys")
	logLevel := fs.String("log-level", "", "the log level: trace|debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			fmt.Fprintf(stderr, "bencat: %v\n", err)
			return err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strict":
			cfg.Strict = *strict
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "bencat: %v\n", err)
		return err
	}

	logger := logging.New("bencat", logging.Config{Level: cfg.LogLevel, NoColor: cfg.NoColor, Out: stderr})
	if fs.NArg() < 1 || fs.NArg() > 2 {
		err := errors.New("expect a command and an optional file")
		logger.Error().Err(err).Msg("usage: bencat [flags] dump|canon|check|infohash [file]")
		return err
	}

	cmd, path := fs.Arg(0), fs.Arg(1)
	data, err := readInput(path, stdin, cfg.MaxInputSize)
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("fail to read the input")
		return err
	}
	logger.Debug().Str("command", cmd).Int("bytes", len(data)).Bool("strict", cfg.Strict).Msg("decoding")

	switch cmd {
	case "dump":
		err = dump(stdout, data, cfg)
	case "canon":
		err = canon(stdout, data, cfg)
	case "check":
		err = check(stdout, data, logger)
	case "infohash":
		err = infohash(stdout, data)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		logger.Error().Err(err).Str("command", cmd).Msg("fail to handle the document")
	}
	return err
}

func readInput(path string, stdin io.Reader, max int64) ([]byte, error) {
	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err == nil && int64(len(data)) > max {
		err = fmt.Errorf("the input exceeds %d bytes", max)
	}
	return data, err
}

func parse(data []byte, strict bool) (bencode.Value, error) {
	if strict {
		return bencode.ParseStrict(data)
	}
	return bencode.Parse(data)
}

func dump(w io.Writer, data []byte, cfg Config) error {
	v, err := parse(data, cfg.Strict)
	if err != nil {
		return err
	}

	out, err := marshalJSON(v, cfg.Indent)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

func canon(w io.Writer, data []byte, cfg Config) error {
	v, err := parse(data, cfg.Strict)
	if err != nil {
		return err
	}

	e := bencode.NewEncoder()
	if err = v.MarshalBencode(e); err != nil {
		return err
	}
	_, err = e.WriteTo(w)
	return err
}

func check(w io.Writer, data []byte, logger zerolog.Logger) error {
	v, err := bencode.ParseStrict(data)
	if err != nil {
		return err
	}

	output, err := bencode.Marshal(v)
	if err != nil {
		return err
	} else if !bytes.Equal(output, data) {
		// Such as the byte string length with the leading zeros.
		logger.Warn().Int("input", len(data)).Int("canonical", len(output)).Msg("the encoding differs")
		return errNotCanonical
	}

	_, err = fmt.Fprintln(w, "ok")
	return err
}

func infohash(w io.Writer, data []byte) error {
	mi, err := metainfo.Parse(data)
	if err != nil {
		return err
	}

	m, err := mi.Magnet("")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s\n%s\n", mi.InfoHash().HexString(), m.String())
	return err
}
