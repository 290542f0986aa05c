package telemetry

import (
	"context"
	"fmt"

	"github.com/anoideaopen/proxy/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName is the name of the tracer and meter used by the engine.
const InstrumentationName = "github.com/anoideaopen/proxy"

// CollectorEndpoint configures the OTLP/HTTP trace exporter.
type CollectorEndpoint struct {
	Endpoint string
	// CACerts is a base64-encoded PEM bundle. Empty means an insecure connection.
	CACerts string
}

// InstallTraceProvider installs a global trace provider exporting over OTLP/HTTP.
// Without an endpoint a no-op provider is installed. The returned shutdown
// function flushes pending spans.
func InstallTraceProvider(settings *CollectorEndpoint, serviceName string) (func(context.Context) error, error) {
	var tracerProvider trace.TracerProvider = noop.NewTracerProvider()
	shutdown := func(context.Context) error { return nil }

	defer func() {
		otel.SetTracerProvider(tracerProvider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	}()

	if settings == nil || len(settings.Endpoint) == 0 {
		return shutdown, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(settings.Endpoint)}
	if settings.CACerts == "" {
		opts = append(opts, otlptracehttp.WithInsecure())
	} else {
		cfg, err := tlsConfig(settings.CACerts)
		if err != nil {
			return shutdown, err
		}
		opts = append(opts, otlptracehttp.WithTLSClientConfig(cfg))
	}

	exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(opts...))
	if err != nil {
		return shutdown, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version.Version())))
	if err != nil {
		return shutdown, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r))
	tracerProvider = provider

	return provider.Shutdown, nil
}

// Tracer returns the engine tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}
