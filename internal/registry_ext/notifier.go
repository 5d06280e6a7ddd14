package registry_ext

import (
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/config"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/registry"
	bizConfig "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/config"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/notifier"
)

func init() {
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		events := bizConfig.FromApp(cfg).Events
		if !events.Enabled || cfg.Redis == nil || !cfg.Redis.Enabled {
			return false, nil, nil
		}
		return true, notifier.NewTaskEventPublisher(events.Channel), nil
	})
}
