package observe

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// UnmatchedRoute labels requests that no registered route serves.
const UnmatchedRoute = "unmatched"

// Routes resolves a request to the pattern it was registered under.
// [*http.ServeMux] satisfies it.
type Routes interface {
	Handler(r *http.Request) (h http.Handler, pattern string)
}

// statusRecorder wraps [http.ResponseWriter] to capture the status code
// written by the downstream handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// pollRoutes are hit by supervisors and scrapers every few seconds; their
// completion is logged at debug level.
var pollRoutes = map[string]bool{
	"GET /healthz": true,
	"GET /readyz":  true,
	"GET /metrics": true,
}

// route returns the pattern routes would dispatch r to. The label never
// carries a raw path, so an unknown URL cannot grow the histogram.
func route(routes Routes, r *http.Request) string {
	if routes == nil {
		return UnmatchedRoute
	}
	if _, pattern := routes.Handler(r); pattern != "" {
		return pattern
	}
	return UnmatchedRoute
}

// Middleware wraps the daemon's HTTP surface. Each request runs inside a
// server span named after its route (for example "consumerir POST
// /v1/transmit"), with W3C trace context taken from the caller and echoed
// back as X-Correlation-ID. [Metrics.HTTPRequestDuration] is recorded per
// route and status. A 5xx answer marks the span as failed; the 4xx answers
// the transmit handler gives for busy or invalid requests do not.
func Middleware(m *Metrics, routes Routes) func(http.Handler) http.Handler {
	prop := propagation.TraceContext{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rt := route(routes, r)

			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := StartSpan(ctx, "consumerir "+rt,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRoute(rt),
					semconv.URLPath(r.URL.Path),
				),
			)
			defer span.End()

			if cid := CorrelationID(ctx); cid != "" {
				w.Header().Set("X-Correlation-ID", cid)
			}
			prop.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			duration := time.Since(start)
			m.HTTPRequestDuration.Record(ctx, duration.Seconds(),
				metric.WithAttributes(
					attribute.String("route", rt),
					attribute.Int("status", rec.statusCode),
				),
			)

			span.SetAttributes(semconv.HTTPResponseStatusCode(rec.statusCode))
			if rec.statusCode >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rec.statusCode))
			}

			level := slog.LevelInfo
			if pollRoutes[rt] {
				level = slog.LevelDebug
			}
			Logger(ctx).LogAttrs(ctx, level, "request completed",
				slog.String("route", rt),
				slog.Int("status", rec.statusCode),
				slog.Duration("duration", duration),
			)
		})
	}
}
