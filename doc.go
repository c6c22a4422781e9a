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

// Package slogifttt forwards [log/slog] records to IFTTT. IFTTT lets you set
// up automatic reactions to events; with this package a log record can
// trigger one, for example an e-mail whenever that cron job on a forgotten
// server logs an error.
//
// The primary entry point is [NewHandler], which returns an [slog.Handler]
// that turns each record it receives into one synchronous POST to
//
//	https://maker.ifttt.com/trigger/{event}/with/key/{key}
//
// with a JSON body of exactly three strings, value1 through value3. By
// default these are the formatted message, the "file:line" location of the
// logging call and, when the record carries an error attribute, a traceback
// (see [FormatTraceback]). Supply a [ValuesFunc] through [WithValues] to send
// something else.
//
// # Quick Start
//
//	handler, err := slogifttt.NewHandler(os.Getenv("IFTTT_KEY"), "cron_failed",
//		slogifttt.WithLevel(slog.LevelError),
//	)
//	if err != nil {
//		log.Fatalf("create slogifttt handler: %v", err)
//	}
//
//	logger := slog.New(handler)
//	logger.Error("nightly backup failed", "error", err)
//
// There is no buffering, batching or retrying: the logging call blocks until
// IFTTT answers. Handle returns a [*DeliveryError] for non-2xx answers, but
// [slog.Logger] drops handler errors, so call Handle directly when the
// outcome matters. To keep notifications off the hot path, combine the
// handler with a fan-out handler that only routes high-severity records here.
//
// # Configuration
//
// Use functional options such as [WithLevel], [WithValues],
// [WithMessageFormat], [WithHTTPClient] and [WithEndpoint]. The environment
// variables SLOGIFTTT_LEVEL, SLOGIFTTT_ENDPOINT and SLOGIFTTT_TRACING provide
// defaults that options override; [NewHandlerFromEnv] additionally reads the
// credentials from SLOGIFTTT_KEY and SLOGIFTTT_EVENT.
//
// The default HTTP client is instrumented with OpenTelemetry, and every
// delivery is counted on the slogifttt.deliveries metric.
package slogifttt
