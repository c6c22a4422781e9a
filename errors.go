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
	"fmt"
	"net/http"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("slogifttt: invalid configuration")

	// ErrDelivery is matched by every *DeliveryError.
	ErrDelivery = errors.New("slogifttt: delivery failed")

	// ErrTooManyValues reports a ValuesFunc that produced more than three
	// values. The record is not sent.
	ErrTooManyValues = errors.New("slogifttt: more than 3 values")

	// ErrValuesPanic reports a ValuesFunc that panicked. The record is not
	// sent.
	ErrValuesPanic = errors.New("slogifttt: value extractor panicked")
)

// ConfigurationError describes credentials or options rejected by
// [NewHandler].
type ConfigurationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("slogifttt: invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// DeliveryError is returned by [Handler.Handle] when the webhook answers with
// a status outside the 2xx range.
type DeliveryError struct {
	StatusCode int
	Status     string
	// Body holds the start of the response body, if any.
	Body string
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Body == "" {
		return "slogifttt: webhook returned " + status
	}
	return fmt.Sprintf("slogifttt: webhook returned %s: %s", status, e.Body)
}

// Is reports whether target is ErrDelivery.
func (e *DeliveryError) Is(target error) bool {
	return target == ErrDelivery
}

// ValueError reports values that cannot be turned into a payload.
type ValueError struct {
	Count int
}

// Error implements the error interface.
func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: got %d", ErrTooManyValues.Error(), e.Count)
}

// Unwrap returns ErrTooManyValues.
func (e *ValueError) Unwrap() error {
	return ErrTooManyValues
}
