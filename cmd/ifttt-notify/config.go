// Copyright 2025-2026 Patrick J. Scruggs
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
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// config holds the resolved command settings. Keys match the flag names and,
// upper-cased with the SLOGIFTTT_ prefix, the environment variables. The
// record level is the exception: it is read from notify_level
// (SLOGIFTTT_NOTIFY_LEVEL) because the library treats SLOGIFTTT_LEVEL as the
// handler threshold.
type config struct {
	Key      string `mapstructure:"key"`
	Event    string `mapstructure:"event"`
	Level    string `mapstructure:"notify_level"`
	Endpoint string `mapstructure:"endpoint"`
	Tracing  bool   `mapstructure:"tracing"`

	// Args are the positional arguments: the message followed by up to two
	// extra values.
	Args []string `mapstructure:"-"`
}

var errUsage = errors.New("usage: ifttt-notify [flags] message [value2 [value3]]")

// loadConfig resolves settings from flags, SLOGIFTTT_* environment variables
// and an optional config file, in that order of precedence.
func loadConfig(args []string, stderr io.Writer) (*config, error) {
	fs := pflag.NewFlagSet("ifttt-notify", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("key", "", "IFTTT Maker key")
	fs.String("event", "", "IFTTT event name")
	fs.String("level", "error", "level of the notification record")
	fs.String("endpoint", "", "Maker service base URL")
	fs.Bool("tracing", false, "instrument the HTTP client with OpenTelemetry")
	configFile := fs.String("config", "", "config file (YAML, TOML or JSON)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("SLOGIFTTT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	if err := v.BindPFlag("notify_level", fs.Lookup("level")); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	cfg.Args = fs.Args()
	if len(cfg.Args) == 0 || len(cfg.Args) > 3 {
		return nil, errUsage
	}
	return &cfg, nil
}
