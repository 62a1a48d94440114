// Package tracing configures the OpenTelemetry tracer provider used by the
// engine and the outgoing HTTP transport.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/donaldgifford/reddit-top/internal/config"
)

// ShutdownFunc flushes and stops the provider.
type ShutdownFunc func(ctx context.Context) error

// Setup builds a tracer provider from cfg and installs it as the global
// provider together with the W3C trace-context propagator. When tracing is
// disabled it returns a no-op provider and leaves the globals untouched.
func Setup(ctx context.Context, cfg config.TracingConfig) (trace.TracerProvider, ShutdownFunc, error) {
	if !cfg.Enabled {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating otlp trace exporter: %w", err)
	}

	tp := NewProvider(cfg.ServiceName, sdktrace.WithBatcher(exporter))

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, tp.Shutdown, nil
}

// NewProvider creates an SDK tracer provider tagged with serviceName.
func NewProvider(serviceName string, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)
	opts = append([]sdktrace.TracerProviderOption{sdktrace.WithResource(res)}, opts...)
	return sdktrace.NewTracerProvider(opts...)
}
