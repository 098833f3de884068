// Package reporting contributes systems only. They consume components owned
// by other modules.
package reporting

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/selfreg/internal/registry"
	"github.com/specialistvlad/selfreg/internal/value"
	"github.com/specialistvlad/selfreg/modules/motion"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	out io.Writer
}

// New creates the module. Its system writes to out.
func New(out io.Writer) *Module {
	return &Module{out: out}
}

// Name implements registry.Module.
func (m *Module) Name() string { return "reporting" }

// Register adds the report_position system.
func (m *Module) Register(r registry.Registrar) error {
	_, err := r.RegisterSystem(registry.SystemSpec{
		Name:      "report_position",
		DependsOn: []string{motion.PositionName},
		Behavior:  m.reportPosition,
	})
	return err
}

func (m *Module) reportPosition(_ context.Context, components []value.Value) error {
	pos, err := value.As[*motion.Position](components[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(m.out, "Position is: (%g, %g)\n", pos.X, pos.Y)
	return err
}
