package gormdb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
)

type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) Create(cfg *Config) (core.Component, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("gorm_db component disabled")
	}
	if len(cfg.DataSources) == 0 {
		return nil, fmt.Errorf("gorm_db component has no data_sources")
	}
	for name, ds := range cfg.DataSources {
		if ds == nil {
			return nil, fmt.Errorf("gorm_db datasource %s config is nil", name)
		}
		ds.Driver = strings.ToLower(strings.TrimSpace(ds.Driver))
		if ds.Driver == "" {
			ds.Driver = DriverMySQL
		}
		switch ds.Driver {
		case DriverMySQL, DriverPostgres, DriverSQLite:
		default:
			return nil, fmt.Errorf("gorm_db datasource %s: unsupported driver %q", name, ds.Driver)
		}
		if ds.MigrateEnabled && strings.TrimSpace(ds.MigrateDir) == "" {
			ds.MigrateDir = filepath.Join("migrations", ds.Driver)
		}
	}
	return NewGormComponent(cfg), nil
}
