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
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Level is a notification threshold. It shares the integer representation
// of slog.Level so it can be passed anywhere a slog.Leveler is accepted.
type Level slog.Level

// Thresholds recognised by the handler. LevelNotSet accepts every record and
// is the default.
const (
	LevelNotSet   Level = math.MinInt
	LevelDebug    Level = Level(slog.LevelDebug) // -4
	LevelInfo     Level = Level(slog.LevelInfo)  // 0
	LevelWarn     Level = Level(slog.LevelWarn)  // 4
	LevelError    Level = Level(slog.LevelError) // 8
	LevelCritical Level = 12
)

// String returns the conventional name of the level. Values between the named
// levels are rendered as the nearest lower name plus an offset, for example
// "WARNING+2".
func (l Level) String() string {
	switch l {
	case LevelNotSet:
		return "NOTSET"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	}

	var (
		base Level
		name string
	)
	switch {
	case l < LevelDebug:
		return slog.Level(l).String()
	case l < LevelInfo:
		base, name = LevelDebug, "DEBUG"
	case l < LevelWarn:
		base, name = LevelInfo, "INFO"
	case l < LevelError:
		base, name = LevelWarn, "WARNING"
	case l < LevelCritical:
		base, name = LevelError, "ERROR"
	default:
		base, name = LevelCritical, "CRITICAL"
	}
	return fmt.Sprintf("%s+%d", name, int(l-base))
}

// Level returns the underlying slog.Level, satisfying slog.Leveler.
func (l Level) Level() slog.Level {
	return slog.Level(l)
}

// ParseLevel converts a level name or integer into a Level. Names are
// case-insensitive; "warn" and "warning" are equivalent, as are "notset",
// "all" and "any".
func ParseLevel(s string) (Level, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	switch trimmed {
	case "notset", "all", "any":
		return LevelNotSet, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	case "":
		return 0, fmt.Errorf("slogifttt: empty level")
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return Level(n), nil
	}
	return 0, fmt.Errorf("slogifttt: unknown level %q", s)
}
