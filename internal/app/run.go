package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/selfreg/internal/ctxlog"
	"github.com/specialistvlad/selfreg/internal/registry"
)

// Run executes the main application lifecycle: load the manifest, register
// modules, seal, print the registry and run the plan.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	m, err := a.loadManifest(ctx)
	if err != nil {
		return err
	}
	modules, err := a.selectModules(ctx, m)
	if err != nil {
		return err
	}

	reg, diags, err := a.register(ctx, m, modules)
	if err != nil {
		return err
	}
	a.registry = reg

	if len(diags) > 0 {
		if a.config.Strict || m.FailOnUnresolved() {
			return fmt.Errorf("unresolved dependencies: %w", diags.Err())
		}
		a.logger.Warn("Systems excluded from the plan.", "count", len(diags))
	}

	if err := createComponents(ctx, reg); err != nil {
		return err
	}
	if err := writeListing(a.outW, reg); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}
	if a.config.ListOnly {
		a.logger.Debug("List only, systems not run.")
		return nil
	}

	parallelism := m.Policy.Parallelism
	if a.config.Parallelism > 0 {
		parallelism = a.config.Parallelism
	}
	plan, err := reg.Plan()
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		a.logger.Warn("No runnable systems, execution not required.")
		return nil
	}

	a.logger.Info("Starting execution.", "systems", len(plan), "parallelism", parallelism)
	if err := reg.Run(ctx, registry.WithParallelism(parallelism)); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("Execution finished.")
	return nil
}

// createComponents runs every factory once, used or not, so a broken
// factory fails startup instead of a later run.
func createComponents(ctx context.Context, reg *registry.Registry) error {
	logger := ctxlog.FromContext(ctx)
	for c := range reg.Components() {
		v, err := reg.Create(c.ID)
		if err != nil {
			return fmt.Errorf("failed to create component %q: %w", c.Name, err)
		}
		if logger.Enabled(ctx, slog.LevelDebug) {
			logger.Debug("Component created.", "name", c.Name, "id", c.ID, "value", fmt.Sprintf("%+v", v.Payload()))
		}
	}
	return nil
}
