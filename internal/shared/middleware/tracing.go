package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	httpMeter              = otel.Meter("pennyverse/http")
	httpRequestDuration, _ = httpMeter.Float64Histogram("pennyverse.http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	httpRequestTotal, _ = httpMeter.Int64Counter("pennyverse.http.request.total",
		metric.WithDescription("Total HTTP requests"),
	)
)

// Tracing annotates the active span with the request ID and outcome and
// records per-route request metrics. It runs inside Telemetry and Logging.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.SpanFromContext(r.Context())
		if id := RequestID(r.Context()); id != "" {
			span.SetAttributes(attribute.String("http.request_id", id))
		}

		start := time.Now()
		wrapped := wrapResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		status := wrapped.status
		if status == 0 {
			status = http.StatusOK
		}

		if status >= 500 {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		// ServeMux fills in Pattern on this request once it has routed it.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		attrs := metric.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		httpRequestDuration.Record(r.Context(), time.Since(start).Seconds(), attrs)
		httpRequestTotal.Add(r.Context(), 1, attrs)
	})
}
