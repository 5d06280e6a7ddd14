package logging

import (
	"fmt"
	"strings"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
)

type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) Create(cfg *LoggingConfig) (core.Component, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("logging component is disabled")
	}
	f.setDefaults(cfg)
	if err := f.validate(cfg); err != nil {
		return nil, err
	}
	return NewLoggerComponent(cfg), nil
}

func (f *Factory) setDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
	if strings.EqualFold(cfg.Output, "file") && cfg.FileConfig == nil {
		cfg.FileConfig = &FileConfig{Dir: "./logs", Filename: "taskmanager"}
	}
	if rc := cfg.RotateConfig; rc != nil && rc.Enabled {
		if rc.Mode == "" {
			rc.Mode = RotateModeSize
		}
		if rc.Mode == RotateModeSize && rc.MaxSizeMB <= 0 {
			rc.MaxSizeMB = 100
		}
	}
}

func (f *Factory) validate(cfg *LoggingConfig) error {
	switch strings.ToLower(cfg.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", cfg.Format)
	}
	rc := cfg.RotateConfig
	if rc == nil || !rc.Enabled {
		return nil
	}
	switch rc.Mode {
	case RotateModeSize:
	case RotateModeInterval:
		if rc.RotateInterval <= 0 {
			return fmt.Errorf("logging.rotate_config.rotate_interval must be > 0 in interval mode")
		}
	default:
		return fmt.Errorf("logging.rotate_config.mode must be size or interval, got %q", rc.Mode)
	}
	if rc.MaxAge < 0 {
		return fmt.Errorf("logging.rotate_config.max_age must be >= 0")
	}
	return nil
}
