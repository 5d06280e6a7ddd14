package registry

import (
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/gormdb"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/config"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
)

func init() {
	Register(consts.COMPONENT_GORM_DB, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.GormDB == nil || !cfg.GormDB.Enabled {
			return false, nil, nil
		}
		comp, err := gormdb.NewFactory().Create(cfg.GormDB)
		if err != nil {
			return true, nil, err
		}
		return true, comp, nil
	})
}
