package application

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/autowire"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/config"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/hooks"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/registry"
)

type App struct {
	container        *core.Container
	lifecycleManager *core.LifecycleManager
	configManager    *config.ConfigManager

	bootOnce sync.Once
	bootErr  error

	shutdownTimeout time.Duration
}

func NewApp(env string, configPath string) *App {
	abs := configPath
	if p, err := filepath.Abs(configPath); err == nil {
		abs = p
	}
	container := core.NewContainer()
	// 使用全局 hook manager，默认 hook 才会生效
	lm := core.NewLifecycleManagerWithManager(container, hooks.GetGlobalHookManager())
	return &App{
		configManager:    config.NewConfigManager(env, abs),
		container:        container,
		lifecycleManager: lm,
		shutdownTimeout:  30 * time.Second,
	}
}

// SetShutdownTimeout bounds graceful shutdown; a second signal or the timeout forces exit.
func (app *App) SetShutdownTimeout(d time.Duration) { app.shutdownTimeout = d }

// SetBizConfig 注入业务配置指针，需在 Run/Boot 之前调用
func (app *App) SetBizConfig(b any) { app.configManager.SetBizConfig(b) }

// Boot loads config, builds every enabled component and autowires deps. It
// is idempotent and called by Run.
func (app *App) Boot() error {
	app.bootOnce.Do(func() {
		if err := app.configManager.LoadConfig(); err != nil {
			app.bootErr = fmt.Errorf("load config failed: %w", err)
			return
		}
		if err := registry.BuildAndRegisterAll(app.configManager.GetConfig(), app.container); err != nil {
			app.bootErr = fmt.Errorf("register components failed: %w", err)
			return
		}
		if err := autowire.InjectAll(app.container); err != nil {
			app.bootErr = err
		}
	})
	return app.bootErr
}

func (app *App) GetComponent(name string) (core.Component, error) {
	return app.container.Resolve(name)
}

func (app *App) GetConfig() *config.AppConfig { return app.configManager.GetConfig() }

func (app *App) AddHook(name string, phase hooks.Phase, fn hooks.HookFunc, priority int) error {
	return app.lifecycleManager.AddHook(name, phase, fn, priority)
}

// Run blocks until SIGINT/SIGTERM, then shuts down gracefully. A second
// signal or exceeding the shutdown timeout exits the process with code 1.
func (app *App) Run() error {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- app.RunWithContext(ctx) }()

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("received signal %s, shutting down (timeout %s)", sig, app.shutdownTimeout)
		cancel()
	}

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("received second signal %s, forcing exit", sig)
	case <-time.After(app.shutdownTimeout):
		log.Printf("graceful shutdown exceeded %s, forcing exit", app.shutdownTimeout)
	}
	os.Exit(1)
	return nil
}

// RunWithContext starts components and blocks until ctx is done, then stops them.
func (app *App) RunWithContext(ctx context.Context) error {
	if err := app.Boot(); err != nil {
		return err
	}
	if err := app.lifecycleManager.StartAll(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), app.shutdownTimeout)
	defer cancel()
	app.lifecycleManager.StopAll(stopCtx)
	return nil
}
