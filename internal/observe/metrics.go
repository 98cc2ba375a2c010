// Package observe provides the observability primitives of the IR HAL
// daemon: OpenTelemetry metrics, tracing, trace-aware structured logging and
// HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all HAL metrics.
const meterName = "github.com/MrWong99/consumerir"

// Metrics holds all OpenTelemetry metric instruments for the daemon.
// All fields are safe for concurrent use.
type Metrics struct {
	// TransmitDuration tracks wall time of a whole transmission, from device
	// open to the last release. Use with attribute:
	//   attribute.String("status", ...)
	TransmitDuration metric.Float64Histogram

	// Transmissions counts finished transmissions by outcome. Use with
	// attribute:
	//   attribute.String("status", ...)
	Transmissions metric.Int64Counter

	// PatternEntries counts pulse/space entries submitted for transmission.
	PatternEntries metric.Int64Counter

	// TruncatedEntries counts entries clamped to the PCM buffer size.
	TruncatedEntries metric.Int64Counter

	// BytesWritten counts bytes handed to the PCM stream. Use with
	// attribute:
	//   attribute.String("buffer", "pulse"|"space")
	BytesWritten metric.Int64Counter

	// Diagnostics counts failures that were logged but not returned. Use
	// with attribute:
	//   attribute.String("reason", ...)
	Diagnostics metric.Int64Counter

	// ActiveTransmissions is 1 while the transmit lock is held.
	ActiveTransmissions metric.Int64UpDownCounter

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). IR
// frames last tens of milliseconds; long repeat trains reach seconds.
var latencyBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider].
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TransmitDuration, err = m.Float64Histogram("consumerir.transmit.duration",
		metric.WithDescription("Duration of a complete IR transmission."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Transmissions, err = m.Int64Counter("consumerir.transmissions",
		metric.WithDescription("Total transmissions by status."),
	); err != nil {
		return nil, err
	}
	if met.PatternEntries, err = m.Int64Counter("consumerir.pattern.entries",
		metric.WithDescription("Total pulse and space entries submitted."),
	); err != nil {
		return nil, err
	}
	if met.TruncatedEntries, err = m.Int64Counter("consumerir.pattern.truncated",
		metric.WithDescription("Entries clamped to the PCM buffer size."),
	); err != nil {
		return nil, err
	}
	if met.BytesWritten, err = m.Int64Counter("consumerir.pcm.bytes_written",
		metric.WithDescription("Bytes written to the PCM stream by buffer kind."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if met.Diagnostics, err = m.Int64Counter("consumerir.diagnostics",
		metric.WithDescription("Failures that were logged but not returned, by reason."),
	); err != nil {
		return nil, err
	}

	if met.ActiveTransmissions, err = m.Int64UpDownCounter("consumerir.active_transmissions",
		metric.WithDescription("Transmissions currently holding the device."),
	); err != nil {
		return nil, err
	}

	if met.HTTPRequestDuration, err = m.Float64Histogram("consumerir.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Panics if instrument creation
// fails (should not happen with the global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String].
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordTransmission records the outcome and duration of one transmission.
func (m *Metrics) RecordTransmission(ctx context.Context, status string, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.Transmissions.Add(ctx, 1, attrs)
	m.TransmitDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordBytesWritten adds n to the bytes counter of the given buffer kind.
func (m *Metrics) RecordBytesWritten(ctx context.Context, buffer string, n int) {
	m.BytesWritten.Add(ctx, int64(n),
		metric.WithAttributes(attribute.String("buffer", buffer)),
	)
}

// RecordDiagnostic counts one swallowed failure.
func (m *Metrics) RecordDiagnostic(ctx context.Context, reason string) {
	m.Diagnostics.Add(ctx, 1,
		metric.WithAttributes(attribute.String("reason", reason)),
	)
}
