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
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Handler] during construction.
//
// Options follow the functional options pattern and are applied in the order
// they are provided, after environment overrides, so later options win.
type Option func(*options)

// options holds explicit settings. Pointer fields distinguish an unset
// option from an explicit zero value so environment defaults survive.
type options struct {
	level          *slog.Level
	endpoint       *string
	tracing        *bool
	values         ValuesFunc
	formatter      Formatter
	client         *http.Client
	tracerProvider trace.TracerProvider
	propagators    propagation.TextMapPropagator
	meterProvider  metric.MeterProvider
	internalLogger *slog.Logger
}

// WithLevel sets the minimum level a record needs to trigger a notification.
// The level is read once, during construction. The default accepts every
// record ([LevelNotSet]); the owning slog.Logger may filter further upstream.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) {
		if level == nil {
			return
		}
		lvl := level.Level()
		o.level = &lvl
	}
}

// WithValues installs a custom value extractor in place of [DefaultValues].
// Passing nil restores the default. A nil result, or a nil element of a
// returned slice, is sent as the empty string; nil pointers with Error or
// String methods are sent as "<nil>".
func WithValues(fn ValuesFunc) Option {
	return func(o *options) {
		o.values = fn
	}
}

// WithFormatter sets the Formatter used for the message value of
// [DefaultValues] and [Record.Formatted].
func WithFormatter(f Formatter) Option {
	return func(o *options) {
		o.formatter = f
	}
}

// WithMessageFormat is shorthand for WithFormatter(SprintfFormatter(layout)).
func WithMessageFormat(layout string) Option {
	return WithFormatter(SprintfFormatter(layout))
}

// WithHTTPClient sets the client used for webhook requests. The client is
// used as is; tracing options have no effect on it.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithEndpoint overrides the base URL of the Maker service, which defaults to
// [DefaultEndpoint]. This overrides SLOGIFTTT_ENDPOINT.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = &endpoint
	}
}

// WithTracing enables or disables OpenTelemetry instrumentation of the
// default HTTP client. It is enabled by default. Client spans record the
// request URL, which contains the webhook key; disable tracing when spans are
// exported somewhere the key must not appear. This overrides
// SLOGIFTTT_TRACING.
func WithTracing(enabled bool) Option {
	return func(o *options) {
		o.tracing = &enabled
	}
}

// WithTracerProvider sets the tracer provider for the default HTTP client.
// When unset the global provider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithPropagators sets the propagators used to inject trace context into
// webhook requests. When unset the global propagator is used.
func WithPropagators(p propagation.TextMapPropagator) Option {
	return func(o *options) {
		o.propagators = p
	}
}

// WithMeterProvider sets the meter provider for delivery metrics. When unset
// the global provider is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

// WithInternalLogger routes the handler's own diagnostics (invalid
// environment values, failed deliveries) to logger. The default discards
// them. The logger must not be backed by the handler being configured.
func WithInternalLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.internalLogger = logger
	}
}
