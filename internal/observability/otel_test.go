package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/arpusjateng/docchat-backend/internal/config"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func enabledCfg(name string) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    true,
		Endpoint:    "localhost:4317",
		ServiceName: name,
		SampleRatio: 1.0,
	}
}

func TestSetupOTel_Disabled(t *testing.T) {
	restoreGlobals(t)

	prevTP := otel.GetTracerProvider()
	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "v0")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	if otel.GetTracerProvider() != prevTP {
		t.Fatalf("tracer provider replaced while disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown: %v", err)
	}
}

func TestSetupOTel_Enabled_InstallsProvider(t *testing.T) {
	restoreGlobals(t)

	shutdown, err := SetupOTel(context.Background(), enabledCfg("docchat-test"), "v1.0.0")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
		defer cancel()
		_ = shutdown(ctx)
	}()

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("expected an SDK tracer provider, got %T", otel.GetTracerProvider())
	}
	if otel.GetTextMapPropagator() == nil {
		t.Fatalf("propagator not installed")
	}

	// Spans can be started and ended without a live collector.
	_, span := otel.Tracer("smoke").Start(context.Background(), "root")
	span.End()
}

func TestSetupOTel_TLSBranch(t *testing.T) {
	restoreGlobals(t)

	cfg := enabledCfg("docchat-tls")
	cfg.Insecure = false

	shutdown, err := SetupOTel(context.Background(), cfg, "v1")
	if err != nil {
		t.Fatalf("SetupOTel TLS: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	_ = shutdown(ctx)
}

func TestSetupOTel_ExporterFailure(t *testing.T) {
	restoreGlobals(t)

	orig := newOTLPExporterFn
	defer func() { newOTLPExporterFn = orig }()
	newOTLPExporterFn = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, errors.New("exporter down")
	}

	prevTP := otel.GetTracerProvider()
	if _, err := SetupOTel(context.Background(), enabledCfg("x"), "v0"); err == nil {
		t.Fatalf("expected exporter error")
	}
	if otel.GetTracerProvider() != prevTP {
		t.Fatalf("tracer provider replaced despite failure")
	}
}

func TestSetupOTel_ResourceFailure(t *testing.T) {
	restoreGlobals(t)

	orig := newServiceResourceFn
	defer func() { newServiceResourceFn = orig }()
	newServiceResourceFn = func(context.Context, string, string) (*resource.Resource, error) {
		return nil, errors.New("resource failure")
	}

	if _, err := SetupOTel(context.Background(), enabledCfg("x"), "v0"); err == nil {
		t.Fatalf("expected resource error")
	}
}
