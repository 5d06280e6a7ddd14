package config

import (
	"fmt"
	"time"

	appconfig "github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/config"
	bizConsts "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/consts"
)

// BizConfig is decoded from the biz_config section of config.yaml.
type BizConfig struct {
	Task   TaskConfig   `yaml:"task" json:"task"`
	Events EventsConfig `yaml:"events" json:"events"`
}

type TaskConfig struct {
	DataSource string `yaml:"data_source" json:"data_source"` // gorm_db.data_sources key
	Timezone   string `yaml:"timezone" json:"timezone"`       // IANA name for response timestamps, default UTC
}

// EventsConfig 任务变更事件，通过 redis pub/sub 发布
type EventsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Channel string `yaml:"channel" json:"channel"`
}

func Default() *BizConfig {
	return &BizConfig{
		Task:   TaskConfig{DataSource: bizConsts.DEFAULT_DATA_SOURCE, Timezone: "UTC"},
		Events: EventsConfig{Channel: bizConsts.DEFAULT_EVENTS_CHAN},
	}
}

// FromApp returns the typed biz section, or defaults when none was attached.
func FromApp(cfg *appconfig.AppConfig) *BizConfig {
	if cfg != nil {
		if b, ok := cfg.BizConfig.(*BizConfig); ok && b != nil {
			b.applyDefaults()
			return b
		}
	}
	return Default()
}

func (b *BizConfig) applyDefaults() {
	if b.Task.DataSource == "" {
		b.Task.DataSource = bizConsts.DEFAULT_DATA_SOURCE
	}
	if b.Task.Timezone == "" {
		b.Task.Timezone = "UTC"
	}
	if b.Events.Channel == "" {
		b.Events.Channel = bizConsts.DEFAULT_EVENTS_CHAN
	}
}

// Location resolves Task.Timezone.
func (b *BizConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(b.Task.Timezone)
	if err != nil {
		return nil, fmt.Errorf("biz_config.task.timezone %q: %w", b.Task.Timezone, err)
	}
	return loc, nil
}
