package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/selfreg/internal/ctxlog"
	"github.com/specialistvlad/selfreg/internal/driver"
	"github.com/specialistvlad/selfreg/internal/manifest"
	"github.com/specialistvlad/selfreg/internal/registry"
)

// loadManifest reads the configured manifest, or the default one when no
// path is set.
func (a *App) loadManifest(ctx context.Context) (*manifest.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading manifest...", "manifest_path", a.config.ManifestPath)

	m, err := manifest.Load(ctx, a.config.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	logger.Debug("Manifest loaded.", "order", m.Order, "modules", len(m.Modules))
	return m, nil
}

// selectModules drops disabled modules, applies settings and puts the rest
// in manifest order.
func (a *App) selectModules(ctx context.Context, m *manifest.Model) ([]registry.Module, error) {
	logger := ctxlog.FromContext(ctx)

	known := make(map[string]bool, len(a.modules))
	enabled := make([]registry.Module, 0, len(a.modules))
	for _, mod := range a.modules {
		name := mod.Name()
		known[name] = true
		if !m.Enabled(name) {
			logger.Info("Module disabled by manifest.", "module", name)
			continue
		}

		settings := m.SettingsFor(name)
		if len(settings) > 0 {
			c, ok := mod.(Configurable)
			if !ok {
				return nil, fmt.Errorf("module %q does not accept settings", name)
			}
			if err := c.Configure(settings); err != nil {
				return nil, fmt.Errorf("failed to configure module %q: %w", name, err)
			}
		}
		enabled = append(enabled, mod)
	}

	for name := range m.Modules {
		if !known[name] {
			return nil, fmt.Errorf("manifest configures unknown module %q", name)
		}
	}

	// Disabled modules may still appear in the order list.
	order := make([]string, 0, len(m.Order))
	for _, name := range m.Order {
		if !known[name] {
			return nil, fmt.Errorf("order names unknown module %q", name)
		}
		if m.Enabled(name) {
			order = append(order, name)
		}
	}

	ordered, err := driver.Order(enabled, order)
	if err != nil {
		return nil, err
	}
	logger.Debug("Modules selected.", "order", driver.Names(ordered))
	return ordered, nil
}

// register submits every selected module and seals the registry. Whether
// diagnostics abort startup is decided by the caller.
func (a *App) register(ctx context.Context, m *manifest.Model, modules []registry.Module) (*registry.Registry, registry.Diagnostics, error) {
	policy, err := m.DuplicatePolicy()
	if err != nil {
		return nil, nil, err
	}

	d := driver.Begin(ctx, registry.WithDuplicatePolicy(policy))
	if err := d.SubmitModules(modules...); err != nil {
		return nil, nil, fmt.Errorf("module registration failed: %w", err)
	}
	diags, reg, err := d.SealAndResolve()
	if err != nil {
		return nil, nil, err
	}
	return reg, diags, nil
}
