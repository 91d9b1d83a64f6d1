package observe

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ProviderConfig configures the metrics pipeline.
type ProviderConfig struct {
	// ServiceName identifies the process in exported metrics.
	// Default: moguard
	ServiceName string

	// Version is attached as service.version when set.
	Version string

	// Exporter selects the backend: otlp, stdout, or none.
	// Default: none
	Exporter string
}

// NewMeterProvider builds a meter provider with the configured
// exporter. The caller owns the provider and must call Shutdown.
func NewMeterProvider(ctx context.Context, config ProviderConfig) (*sdkmetric.MeterProvider, error) {
	if config.ServiceName == "" {
		config.ServiceName = "moguard"
	}

	reader, err := newReader(ctx, config.Exporter)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.Version),
	))
	if err != nil {
		return nil, fmt.Errorf("observe: building resource: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	), nil
}

func newReader(ctx context.Context, exporter string) (sdkmetric.Reader, error) {
	switch exporter {
	case "otlp":
		endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
		if endpoint == "" {
			endpoint = os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT")
		}
		if endpoint == "" {
			return nil, fmt.Errorf("observe: OTLP endpoint not configured: set OTEL_EXPORTER_OTLP_ENDPOINT")
		}
		exp, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("observe: creating OTLP exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case "stdout":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
		if err != nil {
			return nil, fmt.Errorf("observe: creating stdout exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case "none", "":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(io.Discard))
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	default:
		return nil, fmt.Errorf("observe: unknown metrics exporter %q", exporter)
	}
}
