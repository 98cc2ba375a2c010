package observe

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/MrWong99/consumerir"

// TransmitSpanName names the span covering one pass through the audio path.
const TransmitSpanName = "consumerir.transmit"

// Attribute keys describing an IR transmission.
const (
	CarrierFreqKey = attribute.Key("ir.carrier_freq")
	PatternLenKey  = attribute.Key("ir.pattern_len")
)

// Tracer returns the transmitter's tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartSpan starts a span named name. The caller ends it, usually through
// [EndSpan].
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// StartTransmitSpan starts the span for sending a pattern of entries
// pulse/space durations on carrierFreq Hz.
func StartTransmitSpan(ctx context.Context, carrierFreq int32, entries int) (context.Context, trace.Span) {
	return StartSpan(ctx, TransmitSpanName, trace.WithAttributes(
		CarrierFreqKey.Int(int(carrierFreq)),
		PatternLenKey.Int(entries),
	))
}

// EndSpan ends span, recording err as the failure when it is non-nil.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// CorrelationID is the trace ID of the span in ctx, or "" without one. The
// daemon returns it as X-Correlation-ID so a failed transmit can be matched
// to its log lines.
func CorrelationID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// Logger is the default logger tagged with the trace_id and span_id in ctx.
func Logger(ctx context.Context) *slog.Logger {
	l := slog.Default()
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		l = l.With(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return l
}
