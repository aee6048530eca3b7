package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Telemetry opens a server span per request and records the standard
// otelhttp metrics. Health probes are skipped.
func Telemetry(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "pennyverse-api",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	)
}
