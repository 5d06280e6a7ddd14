package autowire

// Field injection driven by struct tags:
//   `infra:"dep:<component_name>"`  required
//   `infra:"dep:<component_name>?"` optional, left nil when not registered
// Injected names are also appended to the component's runtime deps so the
// lifecycle manager starts the dependency first.

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
)

const tagKey = "infra"

type runtimeDepAdder interface {
	AddDependencies(...string)
}

// DepTag is a parsed infra tag.
type DepTag struct {
	Name     string
	Optional bool
}

// ParseTag returns ok=false for tags that are not dep tags.
func ParseTag(tag string) (DepTag, bool) {
	if !strings.HasPrefix(tag, "dep:") {
		return DepTag{}, false
	}
	name := strings.TrimSpace(strings.TrimPrefix(tag, "dep:"))
	optional := strings.HasSuffix(name, "?")
	name = strings.TrimSpace(strings.TrimSuffix(name, "?"))
	if name == "" {
		return DepTag{}, false
	}
	return DepTag{Name: name, Optional: optional}, true
}

// Tags lists the dep tags declared on comp's exported fields in field order.
func Tags(comp any) []DepTag {
	v := reflect.ValueOf(comp)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	t := v.Type()
	var out []DepTag
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		if dt, ok := ParseTag(f.Tag.Get(tagKey)); ok {
			out = append(out, dt)
		}
	}
	return out
}

// InjectAll scans all registered components and injects tagged dependencies.
func InjectAll(c *core.Container) error {
	registered := c.ListRegistered()
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []string
	for _, name := range names {
		if err := Inject(c, registered[name]); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("autowire errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Inject performs injection for a single component.
func Inject(c *core.Container, comp core.Component) error {
	if comp == nil {
		return nil
	}
	val := reflect.ValueOf(comp)
	if val.Kind() != reflect.Ptr {
		return nil
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return nil
	}
	adder, _ := comp.(runtimeDepAdder)

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		dt, ok := ParseTag(field.Tag.Get(tagKey))
		if !ok {
			continue
		}
		resolved, err := c.Resolve(dt.Name)
		if err != nil {
			if dt.Optional {
				continue
			}
			return fmt.Errorf("resolve %s failed: %w", dt.Name, err)
		}
		fv := val.Field(i)
		if !fv.CanSet() {
			return fmt.Errorf("field %s not settable (must be exported)", field.Name)
		}
		if err := assignValue(fv, resolved); err != nil {
			return fmt.Errorf("assign %s -> field %s failed: %w", dt.Name, field.Name, err)
		}
		if adder != nil {
			adder.AddDependencies(dt.Name)
		}
	}
	return nil
}

func assignValue(dst reflect.Value, src interface{}) error {
	sv := reflect.ValueOf(src)
	if dst.Kind() == reflect.Interface {
		if sv.Type().Implements(dst.Type()) {
			dst.Set(sv)
			return nil
		}
		return fmt.Errorf("%s does not implement %s", sv.Type(), dst.Type())
	}
	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}
	return fmt.Errorf("incompatible types: %s -> %s", sv.Type(), dst.Type())
}
