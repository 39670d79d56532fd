package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openbiz/backend/internal/infrastructure/config"
	"github.com/openbiz/backend/internal/infrastructure/telemetry"
)

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()
	p, err := telemetry.Setup(ctx, config.TelemetryConfig{ServiceName: "test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NotNil(t, p.Tracer("x"))
	assert.NotNil(t, p.Meter("x"))
	assert.NoError(t, p.Shutdown(ctx))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, telemetry.Sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, telemetry.Sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, telemetry.Sampler(0.25).Description(), "TraceIDRatioBased")
}

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestStartServiceSpan(t *testing.T) {
	rec := withRecorder(t)

	run := func(fail bool) (err error) {
		_, span := telemetry.StartServiceSpan(context.Background(), "supplier_proposal", "validate",
			attribute.String("ref", "SPR2610-0001"))
		defer telemetry.End(span, &err)
		if fail {
			return errors.New("no lines")
		}
		return nil
	}
	require.NoError(t, run(false))
	require.Error(t, run(true))

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "supplier_proposal.validate", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "no lines", spans[1].Status().Description)
}

func TestInstrumentGorm(t *testing.T) {
	rec := withRecorder(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, telemetry.InstrumentGorm(db, "test", false, zaptest.NewLogger(t)))

	var n int
	require.NoError(t, db.Raw("SELECT 1").Scan(&n).Error)
	assert.NotEmpty(t, rec.Ended())
}

func TestDocumentMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := telemetry.NewDocumentMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.Generated(ctx, "invoice")
	m.Generated(ctx, "invoice")
	m.Failed(ctx, "invoice")
	m.Merged(ctx, "invoice", "ok", 7)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	sums := map[string]int64{}
	for _, md := range rm.ScopeMetrics[0].Metrics {
		if s, ok := md.Data.(metricdata.Sum[int64]); ok {
			for _, dp := range s.DataPoints {
				sums[md.Name] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), sums["documents.pdf.generated"])
	assert.Equal(t, int64(1), sums["documents.pdf.failures"])
	assert.Equal(t, int64(1), sums["documents.merge.runs"])

	var nilMetrics *telemetry.DocumentMetrics
	assert.NotPanics(t, func() { nilMetrics.Generated(ctx, "order") })
}
