// Package otel sets up the OpenTelemetry tracer provider from the standard
// OTEL_* environment variables.
package otel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// settings is the subset of OTEL_* variables the service honours.
type settings struct {
	Disabled    bool
	ServiceName string
	Protocol    string
	Endpoint    string
	Sampler     string
	SamplerArg  string
}

func settingsFromEnv(getenv func(string) string, defaultService string) settings {
	s := settings{
		Disabled:    getenv("OTEL_SDK_DISABLED") == "true",
		ServiceName: getenv("OTEL_SERVICE_NAME"),
		Protocol:    getenv("OTEL_EXPORTER_OTLP_PROTOCOL"),
		Endpoint:    getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"),
		Sampler:     getenv("OTEL_TRACES_SAMPLER"),
		SamplerArg:  getenv("OTEL_TRACES_SAMPLER_ARG"),
	}
	if s.ServiceName == "" {
		s.ServiceName = defaultService
	}
	if s.Protocol == "" {
		s.Protocol = "grpc"
	}
	if s.Endpoint == "" {
		s.Endpoint = getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if s.Sampler == "" {
		s.Sampler = "parentbased_traceidratio"
	}
	if s.SamplerArg == "" {
		s.SamplerArg = "1.0"
	}
	return s
}

func (s settings) sampler() trace.Sampler {
	ratio, err := strconv.ParseFloat(s.SamplerArg, 64)
	if err != nil || ratio < 0 || ratio > 1 {
		ratio = 1.0
	}
	switch s.Sampler {
	case "always_on":
		return trace.AlwaysSample()
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		return trace.TraceIDRatioBased(ratio)
	case "parentbased_always_on":
		return trace.ParentBased(trace.AlwaysSample())
	case "parentbased_always_off":
		return trace.ParentBased(trace.NeverSample())
	case "parentbased_traceidratio":
		return trace.ParentBased(trace.TraceIDRatioBased(ratio))
	default:
		return trace.ParentBased(trace.AlwaysSample())
	}
}

func (s settings) exporter(ctx context.Context) (*otlptrace.Exporter, error) {
	switch s.Protocol {
	case "grpc":
		return otlptracegrpc.New(ctx)
	case "http/protobuf":
		return otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol: %s", s.Protocol)
	}
}

// Init installs a global tracer provider exporting over OTLP. When tracing is
// disabled or the exporter cannot be built, only the propagator is installed
// and spans stay no-ops.
func Init(ctx context.Context, log *slog.Logger, serviceName string) (ShutdownFunc, error) {
	s := settingsFromEnv(os.Getenv, serviceName)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	if s.Disabled {
		log.InfoContext(ctx, "tracing_configured", "tracing_enabled", false)
		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(s.ServiceName)),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exp, err := s.exporter(ctx)
	if err != nil {
		log.ErrorContext(ctx, "tracing_init_failed", "error", err.Error())
		return noopShutdown, nil
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
		trace.WithSampler(s.sampler()),
	)
	otel.SetTracerProvider(tp)

	log.InfoContext(ctx, "tracing_configured",
		"tracing_enabled", true,
		"service_name", s.ServiceName,
		"otlp_protocol", s.Protocol,
		"otlp_endpoint", s.Endpoint,
		"sampler", s.Sampler,
		"sampler_arg", s.SamplerArg,
	)
	return tp.Shutdown, nil
}
