package driver

import (
	"fmt"

	"github.com/specialistvlad/selfreg/internal/registry"
)

// Order arranges modules for submission. Modules named in order come first,
// in that order; the rest follow in their given order. Naming a module
// that does not exist, or naming one twice, is an error.
func Order(modules []registry.Module, order []string) ([]registry.Module, error) {
	byName := make(map[string]registry.Module, len(modules))
	for _, m := range modules {
		if _, dup := byName[m.Name()]; dup {
			return nil, fmt.Errorf("module %q is listed twice", m.Name())
		}
		byName[m.Name()] = m
	}

	out := make([]registry.Module, 0, len(modules))
	placed := make(map[string]bool, len(order))
	for _, name := range order {
		m, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("order names unknown module %q", name)
		}
		if placed[name] {
			return nil, fmt.Errorf("order names module %q twice", name)
		}
		placed[name] = true
		out = append(out, m)
	}
	for _, m := range modules {
		if !placed[m.Name()] {
			out = append(out, m)
		}
	}
	return out, nil
}

// Names returns the module names in slice order.
func Names(modules []registry.Module) []string {
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		out = append(out, m.Name())
	}
	return out
}
