package observability_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/histogauss/pkg/observability"
)

func newTestTracer(t *testing.T) (trace.Tracer, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	return tp.Tracer("test"), exporter
}

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(code)
	})
}

func TestHTTPMiddleware_CreatesSpan(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	var spanInHandler bool

	handler := http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		spanInHandler = trace.SpanContextFromContext(hr.Context()).IsValid()

		rw.WriteHeader(http.StatusOK)
	})

	mw := observability.HTTPMiddleware(tracer, nil, handler)
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/overlay", http.NoBody))

	assert.True(t, spanInHandler)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /v1/overlay", spans[0].Name)
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind)
}

func TestHTTPMiddleware_ExtractsTraceParent(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	parentTraceID := "0af7651916cd43dd8448eb211c80319c"
	parentSpanID := "00f067aa0ba902b7"

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	req.Header.Set("Traceparent", "00-"+parentTraceID+"-"+parentSpanID+"-01")

	observability.HTTPMiddleware(tracer, nil, statusHandler(http.StatusOK)).ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, parentTraceID, spans[0].SpanContext.TraceID().String())
	assert.Equal(t, parentSpanID, spans[0].Parent.SpanID().String())
}

func TestHTTPMiddleware_SpanStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code int
		want codes.Code
	}{
		{name: "ok", code: http.StatusOK, want: codes.Unset},
		{name: "client_error", code: http.StatusBadRequest, want: codes.Unset},
		{name: "server_error", code: http.StatusInternalServerError, want: codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tracer, exporter := newTestTracer(t)
			rec := httptest.NewRecorder()

			mw := observability.HTTPMiddleware(tracer, nil, statusHandler(tt.code))
			mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/overlay", http.NoBody))

			assert.Equal(t, tt.code, rec.Code)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.want, spans[0].Status.Code)
		})
	}
}

func TestHTTPMiddleware_RecordsREDMetrics(t *testing.T) {
	t.Parallel()

	tracer, _ := newTestTracer(t)
	red, reader := setupTestMeter(t)

	ok := observability.HTTPMiddleware(tracer, red, statusHandler(http.StatusOK))
	bad := observability.HTTPMiddleware(tracer, red, statusHandler(http.StatusRequestEntityTooLarge))

	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/overlay", http.NoBody))
	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/overlay", http.NoBody))
	bad.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/overlay", http.NoBody))

	rm := collectMetrics(t, reader)

	requests := findMetric(rm, "histogauss.requests.total")
	require.NotNil(t, requests)
	assert.Equal(t, int64(3), sumInt64(t, requests))

	errs := findMetric(rm, "histogauss.errors.total")
	require.NotNil(t, errs)
	assert.Equal(t, int64(1), sumInt64(t, errs))

	inflight := findMetric(rm, "histogauss.inflight.requests")
	require.NotNil(t, inflight)
	assert.Equal(t, int64(0), sumInt64(t, inflight))
}
