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
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	instrumentationName = "github.com/pjscruggs/slogifttt"

	// MetricDeliveries counts webhook requests by outcome.
	MetricDeliveries = "slogifttt.deliveries"
	// MetricDeliveryDuration records the duration of webhook requests.
	MetricDeliveryDuration = "slogifttt.delivery.duration"

	// AttrOutcome is the attribute key carrying the delivery outcome.
	AttrOutcome = "outcome"
)

// Delivery outcomes reported on [MetricDeliveries].
const (
	OutcomeDelivered = "delivered"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
	OutcomeInvalid   = "invalid_values"
	OutcomePanic     = "extractor_panic"
)

type deliveryMetrics struct {
	deliveries metric.Int64Counter
	duration   metric.Float64Histogram
}

// newDeliveryMetrics creates the instruments on mp, or on the global meter
// provider when mp is nil. Instrument errors fall back to no-op instruments.
func newDeliveryMetrics(mp metric.MeterProvider) (*deliveryMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName, metric.WithInstrumentationVersion(Version))

	deliveries, err1 := meter.Int64Counter(MetricDeliveries,
		metric.WithDescription("Webhook notifications attempted, by outcome."),
		metric.WithUnit("{notification}"),
	)
	duration, err2 := meter.Float64Histogram(MetricDeliveryDuration,
		metric.WithDescription("Duration of webhook requests."),
		metric.WithUnit("s"),
	)
	return &deliveryMetrics{deliveries: deliveries, duration: duration}, errors.Join(err1, err2)
}

// record reports one delivery attempt. A zero elapsed duration means no
// request was sent.
func (m *deliveryMetrics) record(ctx context.Context, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	set := metric.WithAttributeSet(attribute.NewSet(attribute.String(AttrOutcome, outcome)))
	if m.deliveries != nil {
		m.deliveries.Add(ctx, 1, set)
	}
	if m.duration != nil && elapsed > 0 {
		m.duration.Record(ctx, elapsed.Seconds(), set)
	}
}

// outcomeFor classifies the error returned by a delivery.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return OutcomeDelivered
	case errors.Is(err, ErrDelivery):
		return OutcomeRejected
	case errors.Is(err, ErrTooManyValues):
		return OutcomeInvalid
	case errors.Is(err, ErrValuesPanic):
		return OutcomePanic
	default:
		return OutcomeTransport
	}
}
