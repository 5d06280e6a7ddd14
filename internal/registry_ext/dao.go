package registry_ext

import (
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/config"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/registry"
	bizConfig "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/config"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/dao"
)

func init() {
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		// datasource name comes from biz_config.task.data_source -> gorm_db.data_sources
		return true, dao.NewTaskDao(bizConfig.FromApp(cfg).Task.DataSource), nil
	})
}
