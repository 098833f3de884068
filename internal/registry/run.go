package registry

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/selfreg/internal/value"
	"golang.org/x/sync/errgroup"
)

type runConfig struct {
	parallelism int
}

// RunOption configures Run.
type RunOption func(*runConfig)

// WithParallelism lets up to n systems of the same plan level run at once.
// Values of 1 or less keep the run sequential. Systems on one level may read
// the same component value concurrently.
func WithParallelism(n int) RunOption {
	return func(c *runConfig) {
		c.parallelism = n
	}
}

// Run invokes every runnable system in plan order. Each component a system
// depends on is created once per Run and the same value is shared by all
// systems that consume it. The first behaviour error stops the run.
func (r *Registry) Run(ctx context.Context, opts ...RunOption) error {
	cfg := runConfig{parallelism: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	r.mu.RLock()
	if r.state != StateSealed {
		r.mu.RUnlock()
		return fmt.Errorf("%w: resolve the registry before running it", ErrNotSealed)
	}
	order := slices.Clone(r.order)
	levels := r.levels
	systems := r.systems
	r.mu.RUnlock()

	instances, err := r.instantiate(order, systems)
	if err != nil {
		return err
	}

	if cfg.parallelism <= 1 {
		for _, id := range order {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.invoke(ctx, systems[id], instances); err != nil {
				return err
			}
		}
		return nil
	}

	for _, level := range levels {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.parallelism)
		for _, id := range level {
			sys := systems[id]
			g.Go(func() error {
				return r.invoke(gctx, sys, instances)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// instantiate creates one value per component used by the plan, in
// ascending identity order.
func (r *Registry) instantiate(order []SystemID, systems []*systemEntry) (map[ComponentID]value.Value, error) {
	var needed []ComponentID
	for _, id := range order {
		for _, c := range systems[id].resolved {
			if !slices.Contains(needed, c) {
				needed = append(needed, c)
			}
		}
	}
	slices.Sort(needed)

	instances := make(map[ComponentID]value.Value, len(needed))
	for _, c := range needed {
		v, err := r.Create(c)
		if err != nil {
			return nil, err
		}
		instances[c] = v
	}
	return instances, nil
}

func (r *Registry) invoke(ctx context.Context, sys *systemEntry, instances map[ComponentID]value.Value) error {
	args := make([]value.Value, len(sys.resolved))
	for i, c := range sys.resolved {
		args[i] = instances[c]
	}

	r.logger.Debug("Running system.", "name", sys.name, "id", sys.id)
	if err := sys.behavior(ctx, args); err != nil {
		return fmt.Errorf("system %q: %w", sys.name, err)
	}
	return nil
}
