package config

import (
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/gormdb"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/http_server"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/logging"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/prometheus"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/redis"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/telemetry"
)

// AppConfig 应用程序配置结构
type AppConfig struct {
	APPInfo    *APPInfo                      `yaml:"app_info" json:"app_info"`
	Logging    *logging.LoggingConfig        `yaml:"logging" json:"logging"`
	HTTPServer *http_server.HTTPServerConfig `yaml:"http_server" json:"http_server"`
	GormDB     *gormdb.Config                `yaml:"gorm_db" json:"gorm_db"`
	Redis      *redis.Config                 `yaml:"redis" json:"redis"`
	Prometheus *prometheus.Config            `yaml:"prometheus" json:"prometheus"`
	Telemetry  *telemetry.Config             `yaml:"telemetry" json:"telemetry"`

	// BizConfig holds the raw biz_config subtree until the loader swaps in the
	// project's typed pointer.
	BizConfig any `yaml:"biz_config" json:"biz_config"`
}

type APPInfo struct {
	APPName string `yaml:"app_name" json:"app_name"`
	ENV     string `yaml:"env" json:"env"`
}
