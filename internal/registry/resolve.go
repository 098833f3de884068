package registry

import (
	"fmt"
	"slices"
)

// Resolve binds every system's dependency names to component identities,
// builds the execution plan and seals the registry. It runs once; later
// calls return ErrRegistryClosed.
//
// A system with a name that does not resolve is left unrunnable and gets a
// *DependencyNotFoundError per missing name. Other systems are unaffected.
func (r *Registry) Resolve() (Diagnostics, error) {
	var diags Diagnostics
	err := r.write(func() error {
		if err := r.mutable("resolve"); err != nil {
			return err
		}

		diags = r.bindDependencies()
		cycles, err := r.buildPlan()
		if err != nil {
			return err
		}
		diags = append(diags, cycles...)
		r.diagnostics = diags
		r.state = StateSealed
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Registry sealed.",
		"components", len(r.components),
		"systems", len(r.systems),
		"runnable", len(r.order),
		"diagnostics", len(diags))
	for _, d := range diags {
		r.logger.Warn("Resolution diagnostic.", "error", d)
	}
	return slices.Clone(diags), nil
}

// bindDependencies must be called with the write lock held.
func (r *Registry) bindDependencies() Diagnostics {
	var diags Diagnostics
	for _, sys := range r.systems {
		resolved, missing := r.resolveNames(sys.dependsOn)
		produced, missingProduced := r.resolveNames(sys.produces)
		missing = appendUnique(missing, missingProduced...)

		if len(missing) > 0 {
			for _, name := range missing {
				diags = append(diags, &DependencyNotFoundError{System: sys.name, Component: name})
			}
			sys.runnable = false
			continue
		}
		sys.resolved = resolved
		sys.produced = produced
		sys.runnable = true
	}
	return diags
}

// resolveNames looks every name up and returns the identities in input
// order, or the distinct names that did not resolve.
func (r *Registry) resolveNames(names []string) (ids []ComponentID, missing []string) {
	if len(names) == 0 {
		return []ComponentID{}, nil
	}
	ids = make([]ComponentID, 0, len(names))
	for _, name := range names {
		id, ok := r.findComponent(name, HashName(name))
		if !ok {
			missing = appendUnique(missing, name)
			continue
		}
		ids = append(ids, id)
	}
	if len(missing) > 0 {
		return nil, missing
	}
	return ids, nil
}

func appendUnique(dst []string, names ...string) []string {
	for _, n := range names {
		if !slices.Contains(dst, n) {
			dst = append(dst, n)
		}
	}
	return dst
}

// Diagnostics returns what Resolve reported.
func (r *Registry) Diagnostics() Diagnostics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.diagnostics)
}

// Plan returns the runnable systems in execution order.
func (r *Registry) Plan() ([]SystemID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state != StateSealed {
		return nil, fmt.Errorf("%w: plan is computed by Resolve", ErrNotSealed)
	}
	return slices.Clone(r.order), nil
}

// Levels returns the plan grouped into layers whose systems do not depend
// on each other.
func (r *Registry) Levels() ([][]SystemID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state != StateSealed {
		return nil, fmt.Errorf("%w: plan is computed by Resolve", ErrNotSealed)
	}
	out := make([][]SystemID, len(r.levels))
	for i, l := range r.levels {
		out[i] = slices.Clone(l)
	}
	return out, nil
}
