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
	"net/url"
	"testing"
)

// TestEscapeSegment covers the unreserved set and percent-encoding.
func TestEscapeSegment(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"my-key_1.2~3": "my-key_1.2~3",
		"my-key-?":     "my-key-%3F",
		"my-event-:":   "my-event-%3A",
		"a b/c&d=e":    "a%20b%2Fc%26d%3De",
		"é":            "%C3%A9",
		"%":            "%25",
	}
	for in, want := range tests {
		if got := escapeSegment(in); got != want {
			t.Errorf("escapeSegment(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestWebhookURL verifies the path layout and trailing-slash handling.
func TestWebhookURL(t *testing.T) {
	t.Parallel()

	want := "https://maker.ifttt.com/trigger/ev%3A1/with/key/k%3F"
	for _, endpoint := range []string{"https://maker.ifttt.com", "https://maker.ifttt.com/"} {
		if got := webhookURL(endpoint, "ev:1", "k?"); got != want {
			t.Errorf("webhookURL(%q) = %q, want %q", endpoint, got, want)
		}
	}
	if got := webhookURL("http://127.0.0.1:8080/proxy", "e", "k"); got != "http://127.0.0.1:8080/proxy/trigger/e/with/key/k" {
		t.Errorf("webhookURL(with path prefix) = %q", got)
	}
}

// TestValidateEndpoint covers accepted and rejected base URLs.
func TestValidateEndpoint(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{DefaultEndpoint, "http://localhost:8080", "https://proxy.example/ifttt/"} {
		if err := validateEndpoint(ok); err != nil {
			t.Errorf("validateEndpoint(%q) returned %v", ok, err)
		}
	}
	for _, bad := range []string{"", "maker.ifttt.com", "ftp://maker.ifttt.com", "https://", "https://h/?a=b", "https://h/#frag", "://bad"} {
		err := validateEndpoint(bad)
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("validateEndpoint(%q) returned %v, want ErrConfiguration", bad, err)
		}
	}
}

// TestRedactKeepsErrorType ensures the key is removed from *url.Error values.
func TestRedactKeepsErrorType(t *testing.T) {
	t.Parallel()

	h := &Handler{cfg: &handlerConfig{escapedKey: escapeSegment("se cret")}}
	in := &url.Error{Op: "Post", URL: webhookURL(DefaultEndpoint, "e", "se cret"), Err: errors.New("connection refused")}

	out := h.redact(in)
	var uerr *url.Error
	if !errors.As(out, &uerr) {
		t.Fatalf("redact() returned %T, want *url.Error", out)
	}
	if want := DefaultEndpoint + "/trigger/e/with/key/" + redactedKey; uerr.URL != want {
		t.Fatalf("redacted URL = %q, want %q", uerr.URL, want)
	}

	plain := errors.New("plain")
	if got := h.redact(plain); got != plain {
		t.Fatalf("redact(non-url error) = %v, want unchanged", got)
	}
}

// TestEncodePayloadKeepsHTML ensures markup in messages is not escaped.
func TestEncodePayloadKeepsHTML(t *testing.T) {
	t.Parallel()

	buf, err := encodePayload(payload{Value1: "<b>a & b</b>"})
	if err != nil {
		t.Fatalf("encodePayload() returned %v", err)
	}
	want := `{"value1":"<b>a & b</b>","value2":"","value3":""}` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("encodePayload() = %q, want %q", got, want)
	}
}

// TestValidateSegmentRejectsDotSegments ensures credentials cannot become
// relative path steps.
func TestValidateSegmentRejectsDotSegments(t *testing.T) {
	t.Parallel()

	for _, v := range []string{".", ".."} {
		err := validateSegment("event", v)
		var cerr *ConfigurationError
		if !errors.As(err, &cerr) || cerr.Field != "event" {
			t.Errorf("validateSegment(%q) returned %v, want *ConfigurationError for event", v, err)
		}
	}
	for _, v := range []string{"...", ".a", "a..b", "v1.2"} {
		if err := validateSegment("event", v); err != nil {
			t.Errorf("validateSegment(%q) returned %v, want nil", v, err)
		}
	}
}
