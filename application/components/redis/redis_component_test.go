package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestFactoryDefaultsAndModes(t *testing.T) {
	cfg := &Config{Enabled: true}
	if _, err := NewFactory().Create(cfg); err != nil {
		t.Fatalf("create: %v", err)
	}
	if cfg.Mode != ModeSingle || cfg.Addresses[0] != "127.0.0.1:6379" || cfg.PoolSize != 20 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if _, err := NewFactory().Create(&Config{Enabled: true, Mode: "sentinel"}); err == nil {
		t.Fatalf("expected sentinel_master error")
	}
	if _, err := NewFactory().Create(&Config{Enabled: true, Mode: "ring"}); err == nil {
		t.Fatalf("expected unknown mode error")
	}
}

func TestStartPingsAndStops(t *testing.T) {
	mr := miniredis.RunT(t)
	comp, err := NewFactory().Create(&Config{Enabled: true, Addresses: []string{mr.Addr()}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rc := comp.(*RedisComponent)
	ctx := context.Background()
	if err := rc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := rc.Client().Set(ctx, "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Fatalf("value not stored, got %q", got)
	}
	if err := rc.HealthCheck(); err != nil {
		t.Fatalf("health: %v", err)
	}
	_ = rc.Stop(ctx)
	if rc.HealthCheck() == nil {
		t.Fatalf("expected unhealthy after stop")
	}
}

func TestStartFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	rc := NewRedisComponent(&Config{Enabled: true, Mode: ModeSingle, Addresses: []string{addr}})
	if err := rc.Start(context.Background()); err == nil {
		t.Fatalf("expected ping failure")
	}
}
