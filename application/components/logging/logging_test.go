package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFactoryDefaultsAndValidation(t *testing.T) {
	cfg := &LoggingConfig{Enabled: true, Output: "file", RotateConfig: &RotateConfig{Enabled: true}}
	if _, err := NewFactory().Create(cfg); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if cfg.Level != "info" || cfg.Format != "json" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.FileConfig == nil || cfg.FileConfig.Filename != "taskmanager" {
		t.Fatalf("file config default missing: %+v", cfg.FileConfig)
	}
	if cfg.RotateConfig.Mode != RotateModeSize || cfg.RotateConfig.MaxSizeMB != 100 {
		t.Fatalf("rotate defaults missing: %+v", cfg.RotateConfig)
	}

	bad := &LoggingConfig{Enabled: true, RotateConfig: &RotateConfig{Enabled: true, Mode: RotateModeInterval}}
	if _, err := NewFactory().Create(bad); err == nil {
		t.Fatalf("expected interval validation error")
	}
	if _, err := NewFactory().Create(&LoggingConfig{Enabled: false}); err == nil {
		t.Fatalf("expected disabled error")
	}
}

func TestLoggerComponentWritesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &LoggingConfig{Enabled: true, Level: "debug", Format: "json", Output: "file",
		FileConfig: &FileConfig{Dir: dir, Filename: "app"}}
	comp, err := NewFactory().Create(cfg)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	Infof(ctx, "task %d saved", 7)
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "task 7 saved") {
		t.Fatalf("log line missing, got %s", b)
	}
	if _, ok := L().(noopLogger); !ok {
		t.Fatalf("global logger should reset to noop after stop")
	}
}

func TestIntervalWriterRotatesAndCleans(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "app.log.20000101")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rc := &RotateConfig{Enabled: true, Mode: RotateModeInterval, RotateInterval: time.Hour, MaxAge: 48 * time.Hour, CleanupEnabled: true}
	w, err := newIntervalRotatingWriter(dir, "app", rc)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer w.Close()

	base := time.Date(2030, 1, 2, 3, 0, 0, 0, time.Local)
	w.now = func() time.Time { return base }
	w.openedAt = base.Add(-2 * time.Hour)
	if _, err := w.Write([]byte("line\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "app.log."+base.Format(fineTagLayout))); err != nil {
		t.Fatalf("rotated file missing: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale file should be cleaned, stat err=%v", err)
	}
}
