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
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	envKey      = "SLOGIFTTT_KEY"
	envEvent    = "SLOGIFTTT_EVENT"
	envLevel    = "SLOGIFTTT_LEVEL"
	envEndpoint = "SLOGIFTTT_ENDPOINT"
	envTracing  = "SLOGIFTTT_TRACING"

	spanName = "ifttt.trigger"
)

// Handler is an [slog.Handler] that sends every record it handles to an
// IFTTT Maker webhook as one synchronous HTTP POST. Use [NewHandler] to create
// Handlers; the zero Handler isn't valid.
//
// Handler holds no mutable state: concurrent calls to Handle are safe and
// derived handlers from WithAttrs and WithGroup share the HTTP client.
type Handler struct {
	cfg *handlerConfig

	// Attributes added by WithAttrs, already nested in their groups.
	attrs []slog.Attr

	// Open groups from WithGroup, outermost first.
	groups []string
}

type handlerConfig struct {
	Level          slog.Level
	Endpoint       string
	Tracing        bool
	Values         ValuesFunc
	Formatter      Formatter
	InternalLogger *slog.Logger

	url        string
	escapedKey string
	client     *http.Client
	metrics    *deliveryMetrics
}

// NewHandler builds a Handler for the Maker event named event, authenticated
// with key. It reads SLOGIFTTT_LEVEL, SLOGIFTTT_ENDPOINT and
// SLOGIFTTT_TRACING from the environment and then applies opts.
//
// NewHandler returns a *ConfigurationError when key or event is empty or
// cannot be used as a URL path segment.
//
// Example:
//
//	h, err := slogifttt.NewHandler(key, "server_error",
//		slogifttt.WithLevel(slog.LevelError),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	logger := slog.New(h)
//	logger.Error("backup failed", "error", err)
func NewHandler(key, event string, opts ...Option) (*Handler, error) {
	if err := validateSegment("key", key); err != nil {
		return nil, err
	}
	if err := validateSegment("event", event); err != nil {
		return nil, err
	}

	builder := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(builder)
		}
	}

	internalLogger := builder.internalLogger
	if internalLogger == nil {
		internalLogger = slog.New(slog.DiscardHandler)
	}

	cfg := loadConfigFromEnv(internalLogger)
	applyOptions(&cfg, builder)
	cfg.InternalLogger = internalLogger

	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return nil, err
	}
	cfg.url = webhookURL(cfg.Endpoint, event, key)
	cfg.escapedKey = escapeSegment(key)

	cfg.client = builder.client
	if cfg.client == nil {
		cfg.client = defaultClient(&cfg, builder)
	}

	m, err := newDeliveryMetrics(builder.meterProvider)
	if err != nil {
		logDiagnostic(internalLogger, slog.LevelWarn, "delivery metrics unavailable", slog.Any("error", err))
	}
	cfg.metrics = m

	return &Handler{cfg: &cfg}, nil
}

// NewHandlerFromEnv is like [NewHandler] but takes the key and event from
// SLOGIFTTT_KEY and SLOGIFTTT_EVENT.
func NewHandlerFromEnv(opts ...Option) (*Handler, error) {
	return NewHandler(os.Getenv(envKey), os.Getenv(envEvent), opts...)
}

// defaultClient returns an HTTP client whose transport is instrumented with
// otelhttp unless tracing is disabled.
func defaultClient(cfg *handlerConfig, o *options) *http.Client {
	if !cfg.Tracing {
		return &http.Client{}
	}
	otelOpts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(string, *http.Request) string { return spanName }),
	}
	if o.tracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(o.tracerProvider))
	}
	if o.propagators != nil {
		otelOpts = append(otelOpts, otelhttp.WithPropagators(o.propagators))
	}
	if o.meterProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithMeterProvider(o.meterProvider))
	}
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport, otelOpts...)}
}

// Level reports the handler's threshold.
func (h *Handler) Level() slog.Level {
	return h.cfg.Level
}

// Enabled implements [slog.Handler.Enabled].
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.Level
}

// Handle implements [slog.Handler.Handle]. It computes the three notification
// values for r and posts them to the webhook, blocking until the request
// completes. Cancellation of ctx is ignored; its values (such as the active
// span) are kept.
//
// Values returned by the extractor are converted to strings: strings as is,
// errors by their Error method, fmt.Stringers by their String method, nil as
// "" and anything else with fmt.Sprint. Nil pointer receivers render as
// "<nil>". If the extractor returns more than three values, Handle sends
// nothing and returns a *ValueError matching [ErrTooManyValues]; if it
// panics, the error matches [ErrValuesPanic]. A non-2xx response yields a
// *DeliveryError. Transport failures are returned as reported by the HTTP
// client. Nothing is retried.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)

	rec := Record{
		Record:       r,
		HandlerAttrs: h.attrs,
		Groups:       h.groups,
		formatter:    h.cfg.Formatter,
	}

	p, err := h.values(ctx, rec)
	if err != nil {
		h.cfg.metrics.record(ctx, outcomeFor(err), 0)
		logDiagnostic(h.cfg.InternalLogger, slog.LevelWarn, "notification values rejected", slog.Any("error", err))
		return err
	}

	start := time.Now()
	err = h.post(ctx, p)
	h.cfg.metrics.record(ctx, outcomeFor(err), time.Since(start))
	if err != nil {
		logDiagnostic(h.cfg.InternalLogger, slog.LevelWarn, "webhook delivery failed", slog.Any("error", err))
	}
	return err
}

// values runs the extractor and normalises its result. Extractor panics are
// returned as errors.
func (h *Handler) values(ctx context.Context, rec Record) (p payload, err error) {
	extract := h.cfg.Values
	if extract == nil {
		extract = DefaultValues
	}
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%w: %v", ErrValuesPanic, v)
		}
	}()
	return normalizeValues(extract(ctx, rec))
}

// WithAttrs implements [slog.Handler.WithAttrs].
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	nested := slices.Clone(attrs)
	for i := len(h.groups) - 1; i >= 0; i-- {
		nested = []slog.Attr{{Key: h.groups[i], Value: slog.GroupValue(nested...)}}
	}
	c := h.clone()
	c.attrs = append(c.attrs, nested...)
	return c
}

// WithGroup implements [slog.Handler.WithGroup].
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.groups = append(c.groups, name)
	return c
}

func (h *Handler) clone() *Handler {
	return &Handler{
		cfg:    h.cfg,
		attrs:  slices.Clip(h.attrs),
		groups: slices.Clip(h.groups),
	}
}

// loadConfigFromEnv returns the defaults overlaid with environment overrides.
func loadConfigFromEnv(logger *slog.Logger) handlerConfig {
	cfg := handlerConfig{
		Level:    slog.Level(LevelNotSet),
		Endpoint: DefaultEndpoint,
		Tracing:  true,
	}

	cfg.Level = parseLevelEnv(os.Getenv(envLevel), cfg.Level, logger)
	cfg.Tracing = parseBoolEnv(os.Getenv(envTracing), cfg.Tracing, logger)
	if endpoint := strings.TrimSpace(os.Getenv(envEndpoint)); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	return cfg
}

// applyOptions overlays explicitly set options on cfg.
func applyOptions(cfg *handlerConfig, o *options) {
	if o.level != nil {
		cfg.Level = *o.level
	}
	if o.endpoint != nil {
		cfg.Endpoint = strings.TrimSpace(*o.endpoint)
	}
	if o.tracing != nil {
		cfg.Tracing = *o.tracing
	}
	cfg.Values = o.values
	cfg.Formatter = o.formatter
}

// parseBoolEnv interprets truthy environment variable values with validation
// diagnostics.
func parseBoolEnv(value string, current bool, logger *slog.Logger) bool {
	if strings.TrimSpace(value) == "" {
		return current
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		logDiagnostic(logger, slog.LevelWarn, "invalid boolean environment variable", slog.String("value", value), slog.Any("error", err))
		return current
	}
	return b
}

// parseLevelEnv parses a threshold from an environment variable, retaining
// the current level on failure.
func parseLevelEnv(value string, current slog.Level, logger *slog.Logger) slog.Level {
	if strings.TrimSpace(value) == "" {
		return current
	}
	lvl, err := ParseLevel(value)
	if err != nil {
		logDiagnostic(logger, slog.LevelWarn, "invalid log level environment variable", slog.String("value", value))
		return current
	}
	return lvl.Level()
}

// logDiagnostic emits internal diagnostic messages, guarding against nil
// loggers in tests.
func logDiagnostic(logger *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}
