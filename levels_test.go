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


package slogifttt

import (
	"context"
	"log/slog"
	"testing"
)

// TestLevel_String verifies names of the defined levels and of values in
// between.
func TestLevel_String(t *testing.T) {
	testCases := []struct {
		level Level
		want  string
		name  string
	}{
		{LevelNotSet, "NOTSET", "LevelNotSet"},
		{LevelDebug, "DEBUG", "LevelDebug"},
		{LevelInfo, "INFO", "LevelInfo"},
		{LevelWarn, "WARNING", "LevelWarn"},
		{LevelError, "ERROR", "LevelError"},
		{LevelCritical, "CRITICAL", "LevelCritical"},

		{LevelDebug + 1, "DEBUG+1", "DebugPlus1"},
		{LevelInfo - 1, "DEBUG+3", "BelowInfo"},
		{LevelWarn + 2, "WARNING+2", "WarnPlus2"},
		{LevelCritical - 1, "ERROR+3", "BelowCritical"},
		{LevelCritical + 100, "CRITICAL+100", "FarAboveCritical"},

		// Below DEBUG the slog names are used.
		{LevelDebug - 1, slog.Level(LevelDebug - 1).String(), "BelowDebugDelegation"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.level.String(); got != tc.want {
				t.Errorf("Level(%d).String() = %q, want %q", int(tc.level), got, tc.want)
			}
			if got, want := tc.level.Level(), slog.Level(tc.level); got != want {
				t.Errorf("Level(%d).Level() = %v, want %v", int(tc.level), got, want)
			}
		})
	}
}

// TestParseLevel covers names, aliases, integers and rejects.
func TestParseLevel(t *testing.T) {
	t.Parallel()

	valid := map[string]Level{
		"notset":    LevelNotSet,
		"ALL":       LevelNotSet,
		"debug":     LevelDebug,
		" Info ":    LevelInfo,
		"warn":      LevelWarn,
		"WARNING":   LevelWarn,
		"error":     LevelError,
		"critical":  LevelCritical,
		"fatal":     LevelCritical,
		"10":        Level(10),
		"-2":        Level(-2),
	}
	for in, want := range valid {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q) returned %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	for _, in := range []string{"", "   ", "loud", "1.5"} {
		if _, err := ParseLevel(in); err == nil {
			t.Errorf("ParseLevel(%q) returned nil error", in)
		}
	}
}

// TestLevelNotSetAcceptsEverything ensures the default threshold admits all slog levels.
func TestLevelNotSetAcceptsEverything(t *testing.T) {
	t.Parallel()

	h := &Handler{cfg: &handlerConfig{Level: LevelNotSet.Level()}}
	for _, lvl := range []slog.Level{slog.LevelDebug - 100, slog.LevelDebug, slog.LevelError + 100} {
		if !h.Enabled(context.Background(), lvl) {
			t.Errorf("Enabled(%v) = false, want true", lvl)
		}
	}
}
