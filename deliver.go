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
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultEndpoint is the base URL of the IFTTT Maker service.
	DefaultEndpoint = "https://maker.ifttt.com"

	// maxErrorBody bounds the response excerpt kept in a DeliveryError.
	maxErrorBody = 512

	redactedKey = "REDACTED"
)

// webhookURL returns endpoint/trigger/{event}/with/key/{key} with both
// segments percent-encoded.
func webhookURL(endpoint, event, key string) string {
	return strings.TrimRight(endpoint, "/") +
		"/trigger/" + escapeSegment(event) +
		"/with/key/" + escapeSegment(key)
}

// escapeSegment percent-encodes every byte outside the RFC 3986 unreserved
// set. url.PathEscape keeps sub-delimiters such as ':', '&' and '=' which
// must not reach the webhook unescaped.
func escapeSegment(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

// validateSegment rejects credentials that cannot be sent as a path segment.
func validateSegment(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ConfigurationError{Field: field, Reason: "must not be empty"}
	}
	// Unreserved dots survive escaping, so "." and ".." would be resolved
	// as relative path steps.
	if value == "." || value == ".." {
		return &ConfigurationError{Field: field, Reason: "must not be a dot-segment"}
	}
	if !utf8.ValidString(value) {
		return &ConfigurationError{Field: field, Reason: "must be valid UTF-8"}
	}
	if strings.IndexFunc(value, unicode.IsControl) >= 0 {
		return &ConfigurationError{Field: field, Reason: "must not contain control characters"}
	}
	return nil
}

// validateEndpoint checks that endpoint is an absolute http or https URL.
func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return &ConfigurationError{Field: "endpoint", Reason: err.Error()}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigurationError{Field: "endpoint", Reason: fmt.Sprintf("%q is not an absolute http(s) URL", endpoint)}
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return &ConfigurationError{Field: "endpoint", Reason: "must not contain a query or fragment"}
	}
	return nil
}

// post sends one webhook request. Non-2xx responses become *DeliveryError;
// transport failures are returned as the client's own error value with the
// key removed from any URL it mentions.
func (h *Handler) post(ctx context.Context, p payload) error {
	body, err := encodePayload(p)
	if err != nil {
		return fmt.Errorf("slogifttt: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.url, body)
	if err != nil {
		return fmt.Errorf("slogifttt: build request: %w", h.redact(err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := h.cfg.client.Do(req)
	if err != nil {
		return h.redact(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_, _ = io.Copy(io.Discard, resp.Body)
	return &DeliveryError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(excerpt)),
	}
}

// redact replaces the escaped key inside a *url.Error so transport errors can
// be logged without leaking the credential. The error keeps its type.
func (h *Handler) redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) || h.cfg.escapedKey == "" {
		return err
	}
	uerr.URL = strings.ReplaceAll(uerr.URL, h.cfg.escapedKey, redactedKey)
	return err
}
