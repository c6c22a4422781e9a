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
	"bytes"
	"encoding/json"
)

type jsonEncoderOption func(*json.Encoder)

// Log messages routinely contain <, > and &; IFTTT applets render them
// verbatim, so they are not escaped.
var jsonEncoderOptions = []jsonEncoderOption{
	func(enc *json.Encoder) {
		enc.SetEscapeHTML(false)
	},
}

// encodePayload returns the JSON request body for p.
func encodePayload(p payload) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, opt := range jsonEncoderOptions {
		opt(enc)
	}
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return &buf, nil
}
