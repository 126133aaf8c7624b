package observability

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	httpStatusClientError = 400
	httpStatusServerError = 500
)

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter

	statusCode int
	written    bool
}

// WriteHeader records the first status code and delegates.
func (sw *statusWriter) WriteHeader(code int) {
	if !sw.written {
		sw.statusCode = code
		sw.written = true
	}

	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(buf []byte) (int, error) {
	if !sw.written {
		sw.statusCode = http.StatusOK
		sw.written = true
	}

	n, err := sw.ResponseWriter.Write(buf)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}

	return n, nil
}

func (sw *statusWriter) code() int {
	if !sw.written {
		return http.StatusOK
	}

	return sw.statusCode
}

// HTTPMiddleware wraps next with a server span per request named
// "METHOD /path" and, when red is non-nil, RED metrics keyed by the same
// name. Responses with status >= 400 count as errors.
func HTTPMiddleware(tracer trace.Tracer, red *REDMetrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		op := hr.Method + " " + hr.URL.Path
		started := time.Now()

		// W3C traceparent/tracestate/baggage from the caller.
		parentCtx := otel.GetTextMapPropagator().Extract(hr.Context(), propagation.HeaderCarrier(hr.Header))

		ctx, span := tracer.Start(parentCtx, op,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(hr.Method),
				attribute.String("http.target", hr.URL.Path),
			),
		)
		defer span.End()

		done := red.TrackInflight(ctx, op)
		defer done()

		sw := &statusWriter{ResponseWriter: rw}
		next.ServeHTTP(sw, hr.WithContext(ctx))

		code := sw.code()
		span.SetAttributes(semconv.HTTPResponseStatusCode(code))

		if code >= httpStatusServerError {
			span.SetStatus(codes.Error, http.StatusText(code))
		}

		status := StatusOK
		if code >= httpStatusClientError {
			status = StatusError
		}

		red.RecordRequest(ctx, op, status, time.Since(started))
	})
}
