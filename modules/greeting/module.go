package greeting

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/specialistvlad/selfreg/internal/registry"
	"github.com/specialistvlad/selfreg/internal/value"
)

// DefaultName is the name a fresh MyComponent carries.
const DefaultName = "Default Name"

// MyComponent is a component holding a display name.
type MyComponent struct {
	Name string
}

// Module implements the registry.Module interface for this package.
type Module struct {
	out  io.Writer
	name string
}

// New creates the module. Its system writes to out.
func New(out io.Writer) *Module {
	return &Module{out: out, name: DefaultName}
}

// Name implements registry.Module.
func (m *Module) Name() string { return "greeting" }

// Configure accepts the "name" setting.
func (m *Module) Configure(settings map[string]string) error {
	for _, k := range slices.Sorted(maps.Keys(settings)) {
		switch k {
		case "name":
			m.name = settings[k]
		default:
			return fmt.Errorf("unknown setting %q", k)
		}
	}
	return nil
}

// Register adds the system before the component it needs.
func (m *Module) Register(r registry.Registrar) error {
	if _, err := r.RegisterSystem(registry.SystemSpec{
		Name:      "my_system",
		DependsOn: []string{registry.TypeName[MyComponent]()},
		Behavior:  m.mySystem,
	}); err != nil {
		return err
	}

	name := m.name
	_, err := registry.RegisterType(r, "", func() MyComponent {
		return MyComponent{Name: name}
	})
	return err
}

func (m *Module) mySystem(_ context.Context, components []value.Value) error {
	comp, err := value.As[MyComponent](components[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(m.out, "My component is: %s\n", comp.Name)
	return err
}
