package registry_ext

import (
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/config"
	appconsts "github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/registry"
	bizConfig "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/config"
	bizConsts "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/controller"
)

func init() {
	// http_server must start after the controller its routes resolve
	registry.ExtendRuntimeDependencies(appconsts.COMPONENT_HTTP_SERVER, bizConsts.COMP_CTRL_TASK)

	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		loc, err := bizConfig.FromApp(cfg).Location()
		if err != nil {
			return true, nil, err
		}
		return true, controller.NewTaskController(loc), nil
	})
}
