package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/logging"
	appconsts "github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/hooks"
	bizConfig "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/config"

	_ "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/api"
	_ "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/registry_ext"
)

var (
	Version = "v0.1.0"
)

func main() {
	env := flag.String("env", appconsts.ENV_DEVELOPMENT, "runtime environment: development|test|production")
	cfgPath := flag.String("config", appconsts.DEFAULT_CONFIG_PATH, "config file path")
	shutdownTimeout := flag.Duration("shutdown-timeout", 30*time.Second, "graceful shutdown limit before forced exit")
	flag.Parse()

	app := application.NewApp(*env, *cfgPath)
	app.SetBizConfig(bizConfig.Default())
	app.SetShutdownTimeout(*shutdownTimeout)

	err := app.AddHook("taskmanager_ready", hooks.AfterStart, func(ctx context.Context) error {
		logging.Infof(ctx, "taskmanager %s ready (env=%s)", Version, *env)
		return nil
	}, 200)
	if err != nil {
		log.Fatalf("register ready hook: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("app exited with error: %v", err)
	}
}
