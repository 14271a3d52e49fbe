// Package otel bootstraps the OpenTelemetry tracer provider from the standard OTEL_* environment.
package otel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func noopShutdown(context.Context) error { return nil }

// Init installs a tracer provider exporting over OTLP and returns its shutdown func. Exporter
// failures degrade to the no-op provider; only resource construction errors are returned.
func Init(ctx context.Context, log *slog.Logger) (func(context.Context) error, error) {
	propagator := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
	if os.Getenv("OTEL_SDK_DISABLED") == "true" {
		otel.SetTextMapPropagator(propagator)
		log.Info("tracing_configured", "tracing_enabled", false)
		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(getEnv("OTEL_SERVICE_NAME", "docmarket")),
		),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
	if err != nil && !errors.Is(err, resource.ErrPartialResource) {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	protocol := getEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	exporter, err := newExporter(ctx, protocol)
	if err != nil {
		log.Error("tracing_init_failed", "error", err.Error())
		otel.SetTextMapPropagator(propagator)
		return noopShutdown, nil
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(getSampler()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagator)

	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	log.Info("tracing_configured",
		"tracing_enabled", true,
		"otlp_protocol", protocol,
		"otlp_endpoint", endpoint,
		"sampler", getEnv("OTEL_TRACES_SAMPLER", "parentbased_always_on"),
		"sampler_arg", getEnv("OTEL_TRACES_SAMPLER_ARG", "1.0"),
	)

	return tp.Shutdown, nil
}

// newExporter builds the OTLP span exporter for OTEL_EXPORTER_OTLP_PROTOCOL. Endpoints and
// headers come from the standard OTEL_EXPORTER_OTLP_* variables.
func newExporter(ctx context.Context, protocol string) (*otlptrace.Exporter, error) {
	switch protocol {
	case "grpc":
		return otlptracegrpc.New(ctx)
	case "http/protobuf":
		return otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol: %s", protocol)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getSampler maps OTEL_TRACES_SAMPLER / OTEL_TRACES_SAMPLER_ARG onto an SDK sampler. The
// parentbased_ variants respect the caller's sampling decision; unknown values fall back to
// parentbased_always_on.
func getSampler() trace.Sampler {
	name := os.Getenv("OTEL_TRACES_SAMPLER")
	root, parentBased := strings.CutPrefix(name, "parentbased_")

	var base trace.Sampler
	switch root {
	case "always_on":
		base = trace.AlwaysSample()
	case "always_off":
		base = trace.NeverSample()
	case "traceidratio":
		base = trace.TraceIDRatioBased(ratio(os.Getenv("OTEL_TRACES_SAMPLER_ARG")))
	default:
		return trace.ParentBased(trace.AlwaysSample())
	}
	if parentBased {
		return trace.ParentBased(base)
	}
	return base
}

// ratio parses a sampler argument, defaulting to 1.0 and clamping to [0, 1].
func ratio(arg string) float64 {
	r, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 1.0
	}
	return min(max(r, 0), 1)
}
