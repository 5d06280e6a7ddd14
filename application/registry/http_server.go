package registry

import (
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/http_server"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/config"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
)

func init() {
	Register(consts.COMPONENT_HTTP_SERVER, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.HTTPServer == nil || !cfg.HTTPServer.Enabled {
			return false, nil, nil
		}
		if cfg.APPInfo != nil {
			cfg.HTTPServer.ServiceName = cfg.APPInfo.APPName
		}
		comp, err := http_server.NewFactory(c).Create(cfg.HTTPServer)
		if err != nil {
			return true, nil, err
		}
		// spans need the tracer provider installed first
		if cfg.Telemetry != nil && cfg.Telemetry.Enabled {
			comp.(*http_server.HTTPServerComponent).AddDependencies(consts.COMPONENT_TELEMETRY)
		}
		return true, comp, nil
	})
}
