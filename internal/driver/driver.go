package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/selfreg/internal/ctxlog"
	"github.com/specialistvlad/selfreg/internal/registry"
)

// ErrSealed is returned when the driver is used after SealAndResolve. It
// wraps registry.ErrRegistryClosed.
var ErrSealed = fmt.Errorf("driver already sealed: %w", registry.ErrRegistryClosed)

// Driver submits registration requests to one registry in the order the
// caller chooses.
type Driver struct {
	reg    *registry.Registry
	logger *slog.Logger
	sealed bool

	modules int
}

// Begin creates a driver around a new, open registry.
func Begin(ctx context.Context, opts ...registry.Option) *Driver {
	reg := registry.New(ctx, opts...)
	logger := ctxlog.FromContext(ctxlog.With(ctx, "registry_id", reg.ID().String()))
	logger.Debug("Registration phase started.")
	return &Driver{reg: reg, logger: logger}
}

// SubmitComponent forwards a component registration.
func (d *Driver) SubmitComponent(name string, factory registry.Factory) (registry.ComponentID, error) {
	if d.sealed {
		return 0, fmt.Errorf("%w: component %q", ErrSealed, name)
	}
	return d.reg.RegisterComponent(name, factory)
}

// SubmitSystem forwards a system registration.
func (d *Driver) SubmitSystem(spec registry.SystemSpec) (registry.SystemID, error) {
	if d.sealed {
		return 0, fmt.Errorf("%w: system %q", ErrSealed, spec.Name)
	}
	return d.reg.RegisterSystem(spec)
}

// SubmitModule lets one module register everything it contributes. A panic
// inside the module is returned as an error naming it.
func (d *Driver) SubmitModule(m registry.Module) (err error) {
	name := m.Name()
	if d.sealed {
		return fmt.Errorf("%w: module %q", ErrSealed, name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("module %q panicked during registration: %v", name, rec)
		}
	}()

	d.logger.Debug("Submitting module.", "module", name, "position", d.modules)
	d.modules++
	if err := m.Register(d.reg); err != nil {
		return fmt.Errorf("module %q: %w", name, err)
	}
	return nil
}

// SubmitModules submits every module in slice order. A failing module does
// not stop the ones after it; all failures are joined.
func (d *Driver) SubmitModules(modules ...registry.Module) error {
	var errs []error
	for _, m := range modules {
		if err := d.SubmitModule(m); err != nil {
			d.logger.Error("Module registration failed.", "module", m.Name(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SealAndResolve runs the resolver once and hands back the sealed registry.
// Unresolved dependencies come back as diagnostics, not as an error.
func (d *Driver) SealAndResolve() (registry.Diagnostics, *registry.Registry, error) {
	if d.sealed {
		return nil, nil, ErrSealed
	}
	diags, err := d.reg.Resolve()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving registry: %w", err)
	}
	d.sealed = true
	d.logger.Debug("Registration phase finished.", "modules", d.modules, "diagnostics", len(diags))
	return diags, d.reg, nil
}
