package otel_test

import (
	"errors"
	"testing"
	"time"

	"github.com/easyops/tokengate/pkg/otel"
)

func TestDefaultConfig(t *testing.T) {
	cfg := otel.DefaultConfig()

	if cfg.Enabled {
		t.Fatal("expected disabled by default")
	}
	if cfg.ServiceName != "tokengate" {
		t.Fatalf("expected default service name, got %s", cfg.ServiceName)
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Fatalf("expected full sampling by default, got %f", cfg.Tracing.SampleRate)
	}
	if cfg.Tracing.Exporter != otel.ExporterNone {
		t.Fatalf("expected none exporter by default, got %s", cfg.Tracing.Exporter)
	}
	if cfg.Metrics.Interval != 60*time.Second {
		t.Fatalf("expected 60s metric interval, got %s", cfg.Metrics.Interval)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected info level, got %s", cfg.Logging.Level)
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := otel.Config{
		ServiceName: "custom-service",
	}.WithDefaults()

	if cfg.ServiceName != "custom-service" {
		t.Fatalf("expected explicit value preserved, got %s", cfg.ServiceName)
	}
	if cfg.ServiceVersion != "1.0.0" {
		t.Fatalf("expected default version filled, got %s", cfg.ServiceVersion)
	}
	if cfg.Environment != "development" {
		t.Fatalf("expected default environment filled, got %s", cfg.Environment)
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Fatalf("expected default sample rate filled, got %f", cfg.Tracing.SampleRate)
	}
	if cfg.Logging.Format != "text" {
		t.Fatalf("expected default format filled, got %s", cfg.Logging.Format)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := otel.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}

	cfg.Tracing.SampleRate = 1.5
	if err := cfg.Validate(); !errors.Is(err, otel.ErrInvalidSampleRate) {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}

	cfg.Tracing.SampleRate = -0.1
	if err := cfg.Validate(); !errors.Is(err, otel.ErrInvalidSampleRate) {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}
}
