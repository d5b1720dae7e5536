// Package tracing builds an OpenTelemetry tracer provider that writes
// finished spans as JSON to an io.Writer, typically a file given with
// --trace-file.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "typewriter"

// Provider is a tracer provider exporting to a writer. Shutdown must be called
// to flush pending spans.
type Provider struct {
	*sdktrace.TracerProvider
}

// New returns a Provider writing spans to w.
func New(w io.Writer) (*Provider, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("could not create span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)

	return &Provider{TracerProvider: tp}, nil
}

// Shutdown flushes pending spans and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.TracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shut down tracer provider: %w", err)
	}

	return nil
}
