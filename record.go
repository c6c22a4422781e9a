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
	"runtime"
	"strconv"
)

// Record is the view of a log record handed to a [ValuesFunc] or
// [Formatter]. It embeds the slog.Record produced by the logger and adds the
// state accumulated on the handler through WithAttrs and WithGroup.
type Record struct {
	slog.Record

	// HandlerAttrs holds the handler attributes added with WithAttrs. Attributes
	// added after a WithGroup call are nested in a group of that name.
	HandlerAttrs []slog.Attr

	// Groups lists the groups opened with WithGroup, outermost first. The
	// attributes of the embedded record belong to the innermost group.
	Groups []string

	formatter Formatter
}

// Formatter renders a record to the text used as the first notification
// value by the default extractor.
type Formatter func(Record) string

// MessageFormatter returns the record message unchanged. It is the default
// formatter.
func MessageFormatter(r Record) string {
	return r.Message
}

// SprintfFormatter returns a Formatter that passes the record message
// through fmt.Sprintf with layout, for example "_%s_".
func SprintfFormatter(layout string) Formatter {
	return func(r Record) string {
		return fmt.Sprintf(layout, r.Message)
	}
}

// Formatted returns the message after the handler's formatter.
func (r Record) Formatted() string {
	if r.formatter == nil {
		return MessageFormatter(r)
	}
	return r.formatter(r)
}

// Location returns "file:line" of the call that produced the record, or ""
// when the logger did not capture a program counter.
func (r Record) Location() string {
	if r.PC == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	if frame.File == "" {
		return ""
	}
	return frame.File + ":" + strconv.Itoa(frame.Line)
}

// Err returns the error carried by the record, or nil. The value of the
// first attribute keyed "error" wins, then "err", then any other attribute
// holding an error. Record attributes are searched before handler attributes.
// Nil pointers of error types are not errors here.
func (r Record) Err() error {
	var found [3]error
	visit := func(a slog.Attr) {
		err, ok := a.Value.Resolve().Any().(error)
		if !ok || isNilError(err) {
			return
		}
		slot := 2
		switch a.Key {
		case "error":
			slot = 0
		case "err":
			slot = 1
		}
		if found[slot] == nil {
			found[slot] = err
		}
	}
	r.Record.Attrs(func(a slog.Attr) bool {
		walkAttrs([]slog.Attr{a}, visit)
		return found[0] == nil
	})
	if found[0] == nil {
		walkAttrs(r.HandlerAttrs, visit)
	}
	for _, err := range found {
		if err != nil {
			return err
		}
	}
	return nil
}

// walkAttrs visits attrs depth first, descending into groups.
func walkAttrs(attrs []slog.Attr, fn func(slog.Attr)) {
	for _, a := range attrs {
		if a.Value.Kind() == slog.KindGroup {
			walkAttrs(a.Value.Group(), fn)
			continue
		}
		fn(a)
	}
}
