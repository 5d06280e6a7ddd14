package registry

import (
	"log"
	"sync"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
)

// runtimeDepExtMap: target component -> extra runtime deps, applied after all
// components are registered and before StartAll sorts them.
var (
	runtimeDepExtMap = map[string][]string{}
	runtimeDepExtMu  sync.Mutex
)

// ExtendRuntimeDependencies makes target start after deps. It only affects
// runtime ordering (Dependencies()), not builder order; use RegisterWithDeps
// for that. Call it from init() before BuildAndRegisterAll.
func ExtendRuntimeDependencies(target string, deps ...string) {
	if target == "" || len(deps) == 0 {
		return
	}
	runtimeDepExtMu.Lock()
	defer runtimeDepExtMu.Unlock()
	runtimeDepExtMap[target] = append(runtimeDepExtMap[target], deps...)
}

// applyRuntimeDepExtensions patches registered targets. Deps that are not
// registered (disabled components) are dropped so validation does not fail.
func applyRuntimeDepExtensions(c *core.Container) {
	runtimeDepExtMu.Lock()
	defer runtimeDepExtMu.Unlock()
	for target, extra := range runtimeDepExtMap {
		comp, err := c.Resolve(target)
		if err != nil {
			log.Printf("registry: runtime dep extension target %s not registered (skipped)", target)
			continue
		}
		extender, ok := comp.(interface{ AddDependencies(...string) })
		if !ok {
			log.Printf("registry: component %s does not support AddDependencies; extension skipped", target)
			continue
		}
		var present []string
		for _, d := range extra {
			if c.Has(d) {
				present = append(present, d)
			}
		}
		extender.AddDependencies(present...)
		log.Printf("registry: applied runtime dependency extension: %s += %v", target, present)
	}
}
