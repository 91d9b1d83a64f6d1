package observe

import (
	"context"
	"testing"
)

func TestNewMeterProvider(t *testing.T) {
	ctx := context.Background()

	mp, err := NewMeterProvider(ctx, ProviderConfig{})
	if err != nil {
		t.Fatalf("NewMeterProvider() error = %v", err)
	}
	if err := mp.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewMeterProvider_UnknownExporter(t *testing.T) {
	if _, err := NewMeterProvider(context.Background(), ProviderConfig{Exporter: "statsd"}); err == nil {
		t.Error("NewMeterProvider(statsd) = nil error, want error")
	}
}

func TestNewMeterProvider_OTLPRequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	if _, err := NewMeterProvider(context.Background(), ProviderConfig{Exporter: "otlp"}); err == nil {
		t.Error("NewMeterProvider(otlp) without endpoint = nil error, want error")
	}
}
