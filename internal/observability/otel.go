package observability

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vaheed/filecrypt/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

// Config represents OTLP exporter settings for the service.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// Setup configures OpenTelemetry tracing with an OTLP/HTTP exporter.
// If OTEL_EXPORTER_OTLP_ENDPOINT is unset, a no-op shutdown function is
// returned and tracing stays disabled.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	endpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if endpoint == "" {
		return noopShutdown, nil
	}
	service := cfg.ServiceName
	if service == "" {
		service = "filecrypt"
	}
	version := strings.TrimSpace(cfg.ServiceVersion)
	if version == "" {
		version = "dev"
	}

	traceExp, err := otlptracehttp.New(ctx)
	if err != nil {
		return noopShutdown, fmt.Errorf("otel exporter: %w", err)
	}

	attrs := []attribute.KeyValue{
		semconv.ServiceName(service),
		semconv.ServiceVersion(version),
	}
	if env := strings.TrimSpace(cfg.Environment); env != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(env))
	}
	res, err := resource.New(ctx,
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attrs...),
	)
	if err != nil {
		return noopShutdown, fmt.Errorf("otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logging.L.Info("otel_configured",
		zap.String("endpoint", endpoint),
		zap.String("service", service),
		zap.String("version", version),
	)

	return tp.Shutdown, nil
}

func noopShutdown(context.Context) error { return nil }
