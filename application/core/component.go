package core

import (
	"context"
	"fmt"
)

// Component 生命周期受容器管理的组件
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	HealthCheck() error
	Dependencies() []string
	IsActive() bool
}

// BaseComponent carries name, runtime deps and the active flag. Embed it and
// call its Start/Stop from the outer component.
type BaseComponent struct {
	name   string
	active bool
	deps   []string
}

func NewBaseComponent(name string, deps ...string) *BaseComponent {
	bc := &BaseComponent{name: name}
	bc.AddDependencies(deps...)
	return bc
}

func (c *BaseComponent) Name() string { return c.name }

func (c *BaseComponent) Dependencies() []string { return c.deps }

func (c *BaseComponent) IsActive() bool { return c.active }

func (c *BaseComponent) Start(ctx context.Context) error {
	c.active = true
	return nil
}

func (c *BaseComponent) Stop(ctx context.Context) error {
	c.active = false
	return nil
}

func (c *BaseComponent) HealthCheck() error {
	if !c.active {
		return fmt.Errorf("component %s is not active", c.name)
	}
	return nil
}

// AddDependencies 在 StartAll 之前追加启动顺序约束，重复项与自身会被忽略
func (c *BaseComponent) AddDependencies(deps ...string) {
	for _, d := range deps {
		if d == "" || d == c.name || c.hasDependency(d) {
			continue
		}
		c.deps = append(c.deps, d)
	}
}

func (c *BaseComponent) hasDependency(name string) bool {
	for _, d := range c.deps {
		if d == name {
			return true
		}
	}
	return false
}
