package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStdoutExporterWritesSpans(t *testing.T) {
	out := filepath.Join(t.TempDir(), "spans.json")
	tc := NewTelemetryComponent(&Config{Enabled: true, ServiceName: "taskmanager", StdoutFile: out, Metrics: true})
	ctx := context.Background()
	if err := tc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if tc.cfg.Exporter != ExporterStdout || tc.cfg.SampleRatio != 1 {
		t.Fatalf("defaults not applied: %+v", tc.cfg)
	}
	_, span := tc.Tracer("test").Start(ctx, "task.create")
	span.End()
	if err := tc.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "task.create") {
		t.Fatalf("span not exported: %s", b)
	}
}

func TestStartRequiresServiceNameAndEndpoint(t *testing.T) {
	ctx := context.Background()
	if err := NewTelemetryComponent(&Config{Enabled: true}).Start(ctx); err == nil {
		t.Fatalf("expected service name error")
	}
	err := NewTelemetryComponent(&Config{Enabled: true, ServiceName: "x", Exporter: ExporterOTLP}).Start(ctx)
	if err == nil || !strings.Contains(err.Error(), "otlp.endpoint") {
		t.Fatalf("expected endpoint error, got %v", err)
	}
}

func TestDialOptionsIgnoreTransportSecurity(t *testing.T) {
	for _, insecure := range []bool{true, false} {
		tc := NewTelemetryComponent(&Config{Enabled: true, ServiceName: "taskmanager", Exporter: ExporterOTLP,
			OTLP: &OTLPConfig{Endpoint: "127.0.0.1:4317", Insecure: insecure}})
		if n := len(tc.grpcDialOptions()); n != 1 {
			t.Fatalf("insecure=%v: %d dial options, want 1", insecure, n)
		}
	}
}
