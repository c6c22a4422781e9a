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
	"fmt"
	"log/slog"
	"reflect"
)

// maxValues is the number of value slots an IFTTT Maker event accepts.
const maxValues = 3

// ValuesFunc maps a record to the notification values. It may return a single
// value or a slice or array of up to three values; each value is converted to
// a string (see [Handler.Handle]). Within IFTTT the values are available as
// the ingredients {{Value1}}, {{Value2}} and {{Value3}}.
type ValuesFunc func(ctx context.Context, r Record) any

// DefaultValues is the extractor used when no [ValuesFunc] is configured. It
// returns the formatted message, the "file:line" location of the logging call
// and, when the record carries an error, its traceback.
func DefaultValues(_ context.Context, r Record) any {
	return [maxValues]string{r.Formatted(), r.Location(), FormatTraceback(r.Err())}
}

// payload is the request body accepted by the Maker webhook.
type payload struct {
	Value1 string `json:"value1"`
	Value2 string `json:"value2"`
	Value3 string `json:"value3"`
}

// normalizeValues expands v into exactly three strings. Slices and arrays
// (other than byte slices) contribute one value per element; anything else is
// a single value. Missing values are empty strings.
func normalizeValues(v any) (payload, error) {
	var out [maxValues]string

	rv := reflect.ValueOf(v)
	isList := rv.IsValid() &&
		(rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) &&
		rv.Type().Elem().Kind() != reflect.Uint8
	if !isList {
		out[0] = stringify(v)
		return payload{out[0], out[1], out[2]}, nil
	}

	n := rv.Len()
	if n > maxValues {
		return payload{}, &ValueError{Count: n}
	}
	for i := 0; i < n; i++ {
		out[i] = stringify(rv.Index(i).Interface())
	}
	return payload{out[0], out[1], out[2]}, nil
}

// stringify converts a single value to its notification text.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case slog.Value:
		return x.Resolve().String()
	default:
		// fmt calls Error and String itself and prints nil pointer
		// receivers as "<nil>" instead of panicking.
		return fmt.Sprint(x)
	}
}
