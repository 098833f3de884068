// Package motion registers position and velocity components and the system
// that integrates one into the other.
package motion

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/specialistvlad/selfreg/internal/registry"
	"github.com/specialistvlad/selfreg/internal/value"
)

// Component names, shared with modules that consume them.
const (
	PositionName = "Position"
	VelocityName = "Velocity"
)

// Position is a point in the plane.
type Position struct {
	X, Y float64
}

// Velocity is a per-step displacement.
type Velocity struct {
	DX, DY float64
}

// Module implements the registry.Module interface for this package.
type Module struct {
	velocity Velocity
	steps    int
}

// New creates the module with a unit velocity along X and one step.
func New() *Module {
	return &Module{velocity: Velocity{DX: 1}, steps: 1}
}

// Name implements registry.Module.
func (m *Module) Name() string { return "motion" }

// Configure accepts "dx", "dy" and "steps".
func (m *Module) Configure(settings map[string]string) error {
	for _, k := range slices.Sorted(maps.Keys(settings)) {
		raw := settings[k]
		switch k {
		case "dx", "dy":
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("setting %q: %w", k, err)
			}
			if k == "dx" {
				m.velocity.DX = f
			} else {
				m.velocity.DY = f
			}
		case "steps":
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("setting %q: %w", k, err)
			}
			if n < 0 {
				return fmt.Errorf("setting %q must not be negative", k)
			}
			m.steps = n
		default:
			return fmt.Errorf("unknown setting %q", k)
		}
	}
	return nil
}

// Register adds both components and the integrate system.
func (m *Module) Register(r registry.Registrar) error {
	if _, err := registry.RegisterType(r, PositionName, func() *Position { return &Position{} }); err != nil {
		return err
	}
	vel := m.velocity
	if _, err := registry.RegisterType(r, VelocityName, func() *Velocity { v := vel; return &v }); err != nil {
		return err
	}
	_, err := r.RegisterSystem(registry.SystemSpec{
		Name:      "integrate",
		DependsOn: []string{PositionName, VelocityName},
		Produces:  []string{PositionName},
		Behavior:  m.integrate,
	})
	return err
}

func (m *Module) integrate(_ context.Context, components []value.Value) error {
	pos, err := value.As[*Position](components[0])
	if err != nil {
		return err
	}
	vel, err := value.As[*Velocity](components[1])
	if err != nil {
		return err
	}
	for range m.steps {
		pos.X += vel.DX
		pos.Y += vel.DY
	}
	return nil
}
