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

// Command ifttt-notify sends a single notification through a slogifttt
// handler. It is handy for checking a key and event before wiring the handler
// into a service, and for triggering applets from shell scripts.
//
//	ifttt-notify --event backup_failed "disk full" "$(hostname)"
//
// Settings come from flags, SLOGIFTTT_* environment variables (for example
// SLOGIFTTT_KEY) and an optional --config file. The level of the sent record
// is --level or SLOGIFTTT_NOTIFY_LEVEL; SLOGIFTTT_LEVEL keeps its library
// meaning as a threshold and is ignored here.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/spf13/pflag"

	"github.com/pjscruggs/slogifttt"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	level, err := slogifttt.ParseLevel(cfg.Level)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	diag := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	opts := []slogifttt.Option{
		// --level picks the record's level, not a threshold.
		slogifttt.WithLevel(slogifttt.LevelNotSet),
		slogifttt.WithTracing(cfg.Tracing),
		slogifttt.WithInternalLogger(diag),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, slogifttt.WithEndpoint(cfg.Endpoint))
	}
	if len(cfg.Args) > 1 {
		values := cfg.Args
		opts = append(opts, slogifttt.WithValues(func(context.Context, slogifttt.Record) any {
			return values
		}))
	}

	h, err := slogifttt.NewHandler(cfg.Key, cfg.Event, opts...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	// slog.Logger discards handler errors, so the record is handed to the
	// handler directly.
	var pcs [1]uintptr
	runtime.Callers(1, pcs[:])
	r := slog.NewRecord(time.Now(), level.Level(), cfg.Args[0], pcs[0])
	if err := h.Handle(ctx, r); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "triggered %s\n", cfg.Event)
	return 0
}
