package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/CodeMonkeyCybersecurity/intarr/internal/config"
	"github.com/CodeMonkeyCybersecurity/intarr/pkg/types"
)

func TestNew_Disabled(t *testing.T) {
	tel, err := New(context.Background(), config.TelemetryConfig{Enabled: false}, "test")
	require.NoError(t, err)

	_, isNoop := tel.(*noopTelemetry)
	assert.True(t, isNoop)

	ctx, span := tel.Tracer().Start(context.Background(), "intarr.analyze")
	assert.False(t, span.IsRecording())
	span.End()

	tel.RecordRun(ctx, types.OrderOriginal, time.Millisecond, &types.Summary{}, nil)
	assert.NoError(t, tel.Close())
}

func enabledConfig() config.TelemetryConfig {
	return config.TelemetryConfig{
		Enabled:     true,
		ServiceName: "intarr-test",
		Endpoint:    "127.0.0.1:1",
		SampleRate:  0,
	}
}

func TestNew_Enabled(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	tel, err := New(context.Background(), enabledConfig(), "test", WithMetricReader(reader))
	require.NoError(t, err)

	_, isNoop := tel.(*noopTelemetry)
	assert.False(t, isNoop)

	// A zero sample rate keeps the batcher empty, so nothing is exported.
	ctx, span := tel.Tracer().Start(context.Background(), "intarr.analyze")
	assert.True(t, span.SpanContext().IsValid())
	assert.False(t, span.SpanContext().IsSampled())
	span.End()

	summary := &types.Summary{DuplicateCount: 2, Unique: []int{5, 2, 6, 10}}
	tel.RecordRun(ctx, types.OrderAscending, 2*time.Millisecond, summary, nil)
	tel.RecordRun(ctx, types.OrderAscending, time.Millisecond, nil, errors.New("parse failed"))

	assert.NoError(t, tel.Close())
}

func TestRecordRun_Metrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	tel, err := New(ctx, enabledConfig(), "test", WithMetricReader(reader))
	require.NoError(t, err)
	defer tel.Close()

	summary := &types.Summary{DuplicateCount: 3, Unique: []int{5, 2, 6, 10}}
	tel.RecordRun(ctx, types.OrderOriginal, 2*time.Millisecond, summary, nil)
	tel.RecordRun(ctx, types.OrderDescending, time.Millisecond, nil, errors.New("parse failed"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	metrics := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			metrics[m.Name] = m
		}
	}

	assert.Equal(t, int64(2), sumOf(t, metrics["intarr.runs.total"]))
	assert.Equal(t, int64(4), sumOf(t, metrics["intarr.values.distinct"]))
	assert.Equal(t, int64(3), sumOf(t, metrics["intarr.duplicates.found"]))

	histogram, ok := metrics["intarr.run.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok, "intarr.run.duration should be a float64 histogram")
	var runs uint64
	for _, dp := range histogram.DataPoints {
		runs += dp.Count
	}
	assert.Equal(t, uint64(2), runs)
}

// sumOf totals every data point of an int64 counter.
func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s should be an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}
