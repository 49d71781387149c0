package tracing

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{ServiceName: "tripsearch"}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsEnabled() {
		t.Error("expected tracing to be disabled")
	}
	if p.Tracer("test") == nil {
		t.Error("expected a no-op tracer")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown of disabled provider: %v", err)
	}
}

func TestNewProvider_MissingServiceName(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, SamplingRate: 0.1}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for missing service name")
	}
}

func TestNewProvider_InvalidSamplingRate(t *testing.T) {
	for _, rate := range []float64{-0.1, 1.5} {
		cfg := Config{Enabled: true, ServiceName: "tripsearch", SamplingRate: rate}
		if _, err := NewProvider(context.Background(), cfg, zap.NewNop()); err == nil {
			t.Errorf("expected error for sampling rate %f", rate)
		}
	}
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	cfg := Config{Enabled: true, ServiceName: "tripsearch", SamplingRate: 1, Exporter: "zipkin"}
	if _, err := NewProvider(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for unsupported exporter")
	}
}

func TestNewProvider_Exporters(t *testing.T) {
	for _, exp := range []string{ExporterHTTP, ExporterGRPC} {
		t.Run(exp, func(t *testing.T) {
			cfg := Config{
				Enabled:      true,
				ServiceName:  "tripsearch",
				Environment:  "test",
				Exporter:     exp,
				Endpoint:     "localhost:4317",
				SamplingRate: 0.5,
				Insecure:     true,
			}
			p, err := NewProvider(context.Background(), cfg, zap.NewNop())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !p.IsEnabled() {
				t.Error("expected tracing to be enabled")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			// Nothing listens on the endpoint; only check that shutdown returns.
			_ = p.Shutdown(ctx)
		})
	}
}
