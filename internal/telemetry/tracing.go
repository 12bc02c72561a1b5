// Package telemetry configures OpenTelemetry tracing for command invocations.
package telemetry

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"pentamind/internal/config"
	"pentamind/internal/logger"
)

// NewTracerProvider returns the provider for cfg and a cleanup func.
// When tracing is disabled a no-op provider is returned.
func NewTracerProvider(cfg config.TelemetryConfig, version string, out io.Writer, log logger.Logger) (trace.TracerProvider, func(), error) {
	if !cfg.Enabled {
		return noop.NewTracerProvider(), func() {}, nil
	}

	opts := []stdouttrace.Option{stdouttrace.WithWriter(out)}
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, nil, err
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warning("Telemetry", "shutdown tracer provider failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return tp, cleanup, nil
}
