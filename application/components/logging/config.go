package logging

import "time"

// LoggingConfig 日志配置
type LoggingConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	Level        string        `yaml:"level" json:"level"`   // debug|info|warn|error
	Format       string        `yaml:"format" json:"format"` // json|console
	Output       string        `yaml:"output" json:"output"` // stdout|stderr|file|<path>
	FileConfig   *FileConfig   `yaml:"file_config,omitempty" json:"file_config,omitempty"`
	RotateConfig *RotateConfig `yaml:"rotate_config,omitempty" json:"rotate_config,omitempty"`
}

type FileConfig struct {
	Dir      string `yaml:"dir" json:"dir"`
	Filename string `yaml:"filename" json:"filename"` // without .log
}

// RotateConfig: mode "size" uses lumberjack, mode "interval" rotates by wall clock.
type RotateConfig struct {
	Enabled        bool          `yaml:"enabled" json:"enabled"`
	Mode           string        `yaml:"mode" json:"mode"` // size|interval
	MaxSizeMB      int           `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups     int           `yaml:"max_backups" json:"max_backups"`
	Compress       bool          `yaml:"compress" json:"compress"`
	RotateInterval time.Duration `yaml:"rotate_interval" json:"rotate_interval"`
	MaxAge         time.Duration `yaml:"max_age" json:"max_age"`
	CleanupEnabled bool          `yaml:"cleanup_enabled" json:"cleanup_enabled"`
}

const (
	RotateModeSize     = "size"
	RotateModeInterval = "interval"
)
