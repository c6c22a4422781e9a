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
	"errors"
	"path"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

const (
	maxStackFrames = 64

	tracebackHeader = "Traceback (most recent call last):\n"
)

var stackPCPool = sync.Pool{
	New: func() any {
		buf := make([]uintptr, maxStackFrames)
		return &buf
	},
}

// stackTracer is implemented by errors that carry the program counters of
// the place they were created. Errors returned by [WithStack] implement it.
type stackTracer interface {
	StackTrace() []uintptr
}

type withStack struct {
	err error
	pcs []uintptr
}

func (w *withStack) Error() string         { return w.err.Error() }
func (w *withStack) Unwrap() error         { return w.err }
func (w *withStack) StackTrace() []uintptr { return w.pcs }

// WithStack annotates err with the stack of the caller so that
// [FormatTraceback] can show where the error originated rather than where it
// was logged. It returns nil for a nil error and err itself when err already
// carries a stack.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	var st stackTracer
	if errors.As(err, &st) && len(st.StackTrace()) > 0 {
		return err
	}
	pcs := make([]uintptr, maxStackFrames)
	n := runtime.Callers(2, pcs)
	return &withStack{err: err, pcs: pcs[:n]}
}

// FormatTraceback renders err as a traceback:
//
//	Traceback (most recent call last):
//	  File "/src/app/main.go", line 12, in main.main
//	  File "/src/app/job.go", line 40, in main.run
//	main.ValueError: oh noes
//
// Frames are listed oldest first. They come from the first error in the chain
// that carries a stack (see [WithStack]); otherwise the current goroutine's
// stack is used with runtime, log/slog and slogifttt frames removed. The
// result always ends with exactly one newline. A nil error, including a nil
// pointer of an error type, yields "".
func FormatTraceback(err error) string {
	if isNilError(err) {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(tracebackHeader)

	var st stackTracer
	if errors.As(err, &st) && len(st.StackTrace()) > 0 {
		pcs := st.StackTrace()
		if len(pcs) > maxStackFrames {
			pcs = pcs[:maxStackFrames]
		}
		writeFrames(&sb, pcs)
	} else {
		bufPtr := stackPCPool.Get().(*[]uintptr)
		pcs := (*bufPtr)[:cap(*bufPtr)]
		n := runtime.Callers(1, pcs)
		trimmed := trimStackPCs(pcs[:n], skipInternalStackFrame)
		writeFrames(&sb, trimmed)
		stackPCPool.Put(bufPtr)
	}

	sb.WriteString(errorTypeName(err))
	sb.WriteString(": ")
	sb.WriteString(strings.TrimRight(err.Error(), "\n"))
	sb.WriteByte('\n')
	return sb.String()
}

// writeFrames appends one "File" line per frame, outermost first.
func writeFrames(sb *strings.Builder, pcs []uintptr) {
	if len(pcs) == 0 {
		return
	}

	frames := make([]runtime.Frame, 0, len(pcs))
	iter := runtime.CallersFrames(pcs)
	for {
		frame, more := iter.Next()
		if frame.Function != "" && frame.Function != "runtime.goexit" && frame.Function != "runtime.main" {
			frames = append(frames, frame)
		}
		if !more || len(frames) >= maxStackFrames {
			break
		}
	}

	var intBuf [20]byte
	for i := len(frames) - 1; i >= 0; i-- {
		frame := frames[i]
		sb.WriteString(`  File "`)
		sb.WriteString(frame.File)
		sb.WriteString(`", line `)
		sb.Write(strconv.AppendInt(intBuf[:0], int64(frame.Line), 10))
		sb.WriteString(", in ")
		sb.WriteString(frame.Function)
		sb.WriteByte('\n')
	}
}

// trimStackPCs removes leading frames that match skipFn while preserving the remainder.
func trimStackPCs(pcs []uintptr, skipFn func(string) bool) []uintptr {
	if len(pcs) == 0 {
		return pcs
	}

	frames := runtime.CallersFrames(pcs)
	skip := 0
	for {
		frame, more := frames.Next()
		if skipFn == nil || !skipFn(frame.Function) {
			break
		}
		skip++
		if !more {
			return nil
		}
	}
	if skip == 0 {
		return pcs
	}
	return pcs[skip:]
}

// skipInternalStackFrame reports whether a frame belongs to the runtime,
// log/slog or this package.
func skipInternalStackFrame(funcName string) bool {
	if funcName == "" {
		return false
	}
	if strings.HasPrefix(funcName, "runtime.") || strings.HasPrefix(funcName, "log/slog.") {
		return true
	}
	return strings.HasPrefix(funcName, packagePath+".")
}

// errorTypeName returns the dynamic type name of err without pointer
// indirection, qualified by the last element of its package path.
func errorTypeName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == reflect.TypeOf(withStack{}) {
		return errorTypeName(err.(*withStack).err)
	}
	name := t.Name()
	if name == "" {
		return strings.TrimLeft(t.String(), "*")
	}
	if pkg := t.PkgPath(); pkg != "" {
		return path.Base(pkg) + "." + name
	}
	return name
}

// isNilError reports whether err is nil or a nil pointer stored in the
// error interface.
func isNilError(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// packagePath is the import path of this package, used to trim its frames.
var packagePath = reflect.TypeOf(Handler{}).PkgPath()
