package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/CodeMonkeyCybersecurity/intarr/internal/config"
	"github.com/CodeMonkeyCybersecurity/intarr/internal/core"
	"github.com/CodeMonkeyCybersecurity/intarr/pkg/types"
)

type telemetry struct {
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider

	runCounter       metric.Int64Counter
	runDuration      metric.Float64Histogram
	valueCounter     metric.Int64Counter
	duplicateCounter metric.Int64Counter
}

// Option customises the providers built by New.
type Option func(*options)

type options struct {
	metricReader sdkmetric.Reader
}

// WithMetricReader replaces the periodic OTLP metric exporter with reader.
func WithMetricReader(reader sdkmetric.Reader) Option {
	return func(o *options) {
		o.metricReader = reader
	}
}

func New(ctx context.Context, cfg config.TelemetryConfig, version string, opts ...Option) (core.Telemetry, error) {
	if !cfg.Enabled {
		return &noopTelemetry{}, nil
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	client := otlptracehttp.NewClient(
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRate)),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	reader := o.metricReader
	if reader == nil {
		metricExporter, err := otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(cfg.Endpoint),
			otlpmetrichttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(metricExporter)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter(cfg.ServiceName)

	runCounter, err := meter.Int64Counter("intarr.runs.total",
		metric.WithDescription("Total number of pipeline runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram("intarr.run.duration",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	valueCounter, err := meter.Int64Counter("intarr.values.distinct",
		metric.WithDescription("Distinct values produced by the unique-order builder"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	duplicateCounter, err := meter.Int64Counter("intarr.duplicates.found",
		metric.WithDescription("Distinct duplicated values found"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	return &telemetry{
		tracer:           tp.Tracer(cfg.ServiceName),
		tracerProvider:   tp,
		meterProvider:    mp,
		runCounter:       runCounter,
		runDuration:      runDuration,
		valueCounter:     valueCounter,
		duplicateCounter: duplicateCounter,
	}, nil
}

func (t *telemetry) Tracer() trace.Tracer {
	return t.tracer
}

func (t *telemetry) RecordRun(ctx context.Context, mode types.OrderMode, duration time.Duration, summary *types.Summary, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("intarr.mode", mode.String()),
		attribute.Bool("intarr.success", err == nil),
	}

	t.runCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	t.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if summary != nil {
		t.valueCounter.Add(ctx, int64(len(summary.Unique)))
		t.duplicateCounter.Add(ctx, int64(summary.DuplicateCount))
	}
}

func (t *telemetry) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// metrics are flushed even when the trace exporter fails to shut down
	return errors.Join(
		t.tracerProvider.Shutdown(ctx),
		t.meterProvider.Shutdown(ctx),
	)
}

type noopTelemetry struct{}

func (n *noopTelemetry) Tracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("intarr")
}

func (n *noopTelemetry) RecordRun(context.Context, types.OrderMode, time.Duration, *types.Summary, error) {
}

func (n *noopTelemetry) Close() error { return nil }
