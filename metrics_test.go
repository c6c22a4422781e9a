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


package slogifttt_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/pjscruggs/slogifttt"
)

// collectDeliveries returns the delivery counter values keyed by outcome.
func collectDeliveries(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("ManualReader.Collect() returned %v", err)
	}

	got := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != slogifttt.MetricDeliveries {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s data is %T, want metricdata.Sum[int64]", m.Name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value(attribute.Key(slogifttt.AttrOutcome))
				got[outcome.AsString()] += dp.Value
			}
		}
	}
	return got
}

// TestHandlerRecordsDeliveryMetrics verifies outcomes land on the counter.
func TestHandlerRecordsDeliveryMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	ws := newWebhookServer(t)
	tooMany, panics := false, false
	h := newTestHandler(t, ws, "k", "e",
		slogifttt.WithMeterProvider(mp),
		slogifttt.WithValues(func(_ context.Context, r slogifttt.Record) any {
			if panics {
				panic("extractor bug")
			}
			if tooMany {
				return []string{"1", "2", "3", "4"}
			}
			return r.Message
		}),
	)

	ctx := context.Background()
	rec := slog.NewRecord(time.Now(), slog.LevelError, "msg", 0)
	_ = h.Handle(ctx, rec)
	_ = h.Handle(ctx, rec)
	ws.respond(http.StatusBadRequest, "")
	_ = h.Handle(ctx, rec)
	tooMany = true
	_ = h.Handle(ctx, rec)
	panics = true
	_ = h.Handle(ctx, rec)

	want := map[string]int64{
		slogifttt.OutcomeDelivered: 2,
		slogifttt.OutcomeRejected:  1,
		slogifttt.OutcomeInvalid:   1,
		slogifttt.OutcomePanic:     1,
	}
	got := collectDeliveries(t, reader)
	for outcome, n := range want {
		if got[outcome] != n {
			t.Errorf("%s{outcome=%s} = %d, want %d (all: %v)", slogifttt.MetricDeliveries, outcome, got[outcome], n, got)
		}
	}
}

// TestHandlerPropagatesTraceContext ensures the instrumented client injects
// the caller's span context into the webhook request.
func TestHandlerPropagatesTraceContext(t *testing.T) {
	t.Parallel()

	ws := newWebhookServer(t)
	h := newTestHandler(t, ws, "k", "e",
		slogifttt.WithTracing(true),
		slogifttt.WithTracerProvider(noop.NewTracerProvider()),
		slogifttt.WithPropagators(propagation.TraceContext{}),
		slogifttt.WithMeterProvider(sdkmetric.NewMeterProvider()),
	)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithRemoteSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))

	if err := h.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelError, "msg", 0)); err != nil {
		t.Fatalf("Handle() returned %v, want nil", err)
	}

	calls := ws.Calls()
	if len(calls) != 1 {
		t.Fatalf("webhook received %d requests, want 1", len(calls))
	}
	want := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	if got := calls[0].Header.Get("traceparent"); got != want {
		t.Fatalf("traceparent = %q, want %q", got, want)
	}
}

// TestHandlerWithoutTracingSendsNoTraceparent ensures WithTracing(false) leaves requests untouched.
func TestHandlerWithoutTracingSendsNoTraceparent(t *testing.T) {
	t.Parallel()

	ws := newWebhookServer(t)
	h := newTestHandler(t, ws, "k", "e", slogifttt.WithPropagators(propagation.TraceContext{}))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithRemoteSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled, Remote: true,
	}))
	_ = h.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelError, "msg", 0))

	calls := ws.Calls()
	if len(calls) != 1 {
		t.Fatalf("webhook received %d requests, want 1", len(calls))
	}
	if got := calls[0].Header.Get("traceparent"); got != "" {
		t.Fatalf("traceparent = %q, want none", got)
	}
}
