package testutil

import (
	"context"

	"github.com/specialistvlad/selfreg/internal/registry"
	"github.com/specialistvlad/selfreg/internal/value"
)

// SimpleModule is a test helper for easily creating a module whose
// registration is an inline function.
type SimpleModule struct {
	ModuleName string
	RegisterFn func(r registry.Registrar) error
}

// Name implements the registry.Module interface.
func (m *SimpleModule) Name() string { return m.ModuleName }

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r registry.Registrar) error {
	if m.RegisterFn == nil {
		return nil
	}
	return m.RegisterFn(r)
}

// ComponentModule registers one string-valued component per name.
func ComponentModule(moduleName string, components ...string) *SimpleModule {
	return &SimpleModule{
		ModuleName: moduleName,
		RegisterFn: func(r registry.Registrar) error {
			for _, c := range components {
				payload := c
				if _, err := r.RegisterComponent(c, func() value.Value { return value.Of(payload) }); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// SystemModule registers a single no-op system with the given dependencies.
func SystemModule(moduleName, system string, deps ...string) *SimpleModule {
	return &SimpleModule{
		ModuleName: moduleName,
		RegisterFn: func(r registry.Registrar) error {
			_, err := r.RegisterSystem(registry.SystemSpec{
				Name:      system,
				DependsOn: deps,
				Behavior:  func(context.Context, []value.Value) error { return nil },
			})
			return err
		},
	}
}
