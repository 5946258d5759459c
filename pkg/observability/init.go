package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Sumatoshi-tech/integeriser"

// Providers holds the telemetry of one command run. Metrics are always
// readable through Snapshot and spans always tag log records with a trace id.
// Both are also pushed to an OTLP collector when Config.OTLPEndpoint is set.
type Providers struct {
	// Tracer is the named tracer for creating spans.
	Tracer trace.Tracer

	// Meter is the named meter for creating instruments.
	Meter metric.Meter

	// Logger is the context-aware structured logger.
	Logger *slog.Logger

	reader    *sdkmetric.ManualReader
	exporting bool

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Init builds the logger writing to w together with a tracer and a meter
// backed by a manual reader. With an OTLP endpoint configured, spans are
// batched and metrics periodically pushed to the collector as well.
func Init(cfg Config, w io.Writer) (*Providers, error) {
	ctx := context.Background()

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewManualReader()

	meterOpts := []sdkmetric.Option{
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	}

	tracerOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if cfg.OTLPEndpoint != "" {
		spanExporter, metricExporter, exportErr := buildExporters(ctx, cfg)
		if exportErr != nil {
			return nil, exportErr
		}

		tracerOpts = append(tracerOpts, sdktrace.WithBatcher(spanExporter))
		meterOpts = append(meterOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)))
	}

	mp := sdkmetric.NewMeterProvider(meterOpts...)
	tp := sdktrace.NewTracerProvider(tracerOpts...)

	return &Providers{
		Tracer:         tp.Tracer(instrumentationName),
		Meter:          mp.Meter(instrumentationName),
		Logger:         NewLogger(cfg, w),
		reader:         reader,
		exporting:      cfg.OTLPEndpoint != "",
		tracerProvider: tp,
		meterProvider:  mp,
	}, nil
}

func buildExporters(ctx context.Context, cfg Config) (sdktrace.SpanExporter, sdkmetric.Exporter, error) {
	traceOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	metricOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}

	if cfg.OTLPInsecure {
		traceOpts = append(traceOpts, otlptracegrpc.WithInsecure())
		metricOpts = append(metricOpts, otlpmetricgrpc.WithInsecure())
	}

	if len(cfg.OTLPHeaders) > 0 {
		traceOpts = append(traceOpts, otlptracegrpc.WithHeaders(cfg.OTLPHeaders))
		metricOpts = append(metricOpts, otlpmetricgrpc.WithHeaders(cfg.OTLPHeaders))
	}

	spanExporter, err := otlptracegrpc.New(ctx, traceOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}

	metricExporter, err := otlpmetricgrpc.New(ctx, metricOpts...)
	if err != nil {
		return nil, nil, errors.Join(
			fmt.Errorf("create metric exporter: %w", err),
			spanExporter.Shutdown(ctx),
		)
	}

	return spanExporter, metricExporter, nil
}

func buildResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	attrs := []resource.Option{
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.ServiceVersion(cfg.ServiceVersion)))
	}

	res, err := resource.New(ctx, attrs...)
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}

	return res, nil
}

// Collect reads the current value of every instrument created from Meter.
func (p *Providers) Collect(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var rm metricdata.ResourceMetrics

	err := p.reader.Collect(ctx, &rm)
	if err != nil {
		return metricdata.ResourceMetrics{}, fmt.Errorf("collect metrics: %w", err)
	}

	return rm, nil
}

// Snapshot summarizes the interning metrics recorded so far.
func (p *Providers) Snapshot(ctx context.Context) (Counts, error) {
	rm, err := p.Collect(ctx)
	if err != nil {
		return Counts{}, err
	}

	return CountsFrom(rm), nil
}

// Exporting reports whether telemetry is pushed to an OTLP collector.
func (p *Providers) Exporting() bool {
	return p.exporting
}

// Shutdown flushes pending exports and releases the tracer and meter providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(p.tracerProvider.Shutdown(ctx), p.meterProvider.Shutdown(ctx))
}
