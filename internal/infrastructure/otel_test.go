package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"salesinsight/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewOTelConfig(t *testing.T) {
	cfg := NewOTelConfig(config.TelemetryConfig{MetricsEnabled: true})

	assert.Equal(t, config.AppName, cfg.ServiceName)
	assert.Equal(t, config.AppVersion, cfg.ServiceVersion)
	assert.True(t, cfg.EnableMetrics)
	assert.False(t, cfg.EnableTracing)
	assert.Equal(t, "prometheus", cfg.MetricExporter)
}

func TestInitializeOTel_Metrics(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "salesinsight-test",
		ServiceVersion: "test",
		Environment:    "test",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
	}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.MeterProvider)
	require.NotNil(t, providers.MetricsHandler)
	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer, "tracing disabled still yields a usable tracer")

	metrics, err := NewMetrics(providers.Meter)
	require.NoError(t, err)
	ctx := context.Background()
	metrics.RecordFile(ctx, "csv", 128, "")
	metrics.RecordFile(ctx, "pdf", 64, "unreadable")
	metrics.RecordAnalysis(ctx, "ok", 25*time.Millisecond, 12)

	rec := httptest.NewRecorder()
	providers.MetricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "analysis_files_received_total")
	assert.Contains(t, body, `reason="unreadable"`)
	assert.Contains(t, body, "analysis_rows_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestInitializeOTel_Disabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "x"}, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.MetricsHandler)
	assert.NotNil(t, providers.Meter)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{
		EnableTracing: true,
		TraceExporter: "jaeger",
	}, discardLogger())

	assert.ErrorContains(t, err, "unsupported trace exporter")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordFile(context.Background(), "csv", 1, "empty")
		m.RecordAnalysis(context.Background(), "ok", time.Second, 1)
	})

	m, err := NewMetrics(metricnoop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	assert.NotPanics(t, func() { m.RecordAnalysis(context.Background(), "error", time.Second, 0) })
}

func TestSpanHelpers(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	assert.Empty(t, TraceIDFromContext(context.Background()))

	ctx, span := tp.Tracer("test").Start(context.Background(), "analyze")
	assert.Len(t, TraceIDFromContext(ctx), 32)

	AddSpanEvent(ctx, "file.read")
	RecordError(ctx, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	names := []string{}
	for _, ev := range ended[0].Events() {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{"file.read", "exception"}, names)
	assert.Equal(t, "boom", ended[0].Status().Description)
}
