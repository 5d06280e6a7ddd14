package redis

import (
	"fmt"
	"strings"
	"time"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
)

type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) Create(cfg *Config) (core.Component, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("redis component disabled")
	}
	setDefaults(cfg)
	switch cfg.Mode {
	case ModeSingle, ModeCluster:
	case ModeSentinel:
		if cfg.SentinelMaster == "" {
			return nil, fmt.Errorf("redis sentinel mode requires sentinel_master")
		}
	default:
		return nil, fmt.Errorf("unknown redis mode: %s", cfg.Mode)
	}
	return NewRedisComponent(cfg), nil
}

func setDefaults(c *Config) {
	c.Mode = strings.ToLower(c.Mode)
	if c.Mode == "" {
		c.Mode = ModeSingle
	}
	if len(c.Addresses) == 0 {
		switch c.Mode {
		case ModeSingle:
			c.Addresses = []string{"127.0.0.1:6379"}
		case ModeSentinel:
			c.Addresses = []string{"127.0.0.1:26379"}
		case ModeCluster:
			c.Addresses = []string{"127.0.0.1:7000", "127.0.0.1:7001", "127.0.0.1:7002"}
		}
	}

	// Pool sizing
	if c.PoolSize <= 0 {
		c.PoolSize = 20
	}
	if c.MinIdleConns < 0 {
		c.MinIdleConns = 0
	} else if c.MinIdleConns > c.PoolSize {
		c.MinIdleConns = c.PoolSize / 2
	}

	// Timeouts
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Second
	}
	if c.ConnMaxIdleTime < 0 {
		c.ConnMaxIdleTime = 0
	}
	if c.ConnMaxLifetime < 0 {
		c.ConnMaxLifetime = 0
	}
	if c.DB < 0 {
		c.DB = 0
	}
}
