package registry

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/selfreg/internal/dag"
)

// buildPlan orders the runnable systems. A system that produces component X
// runs before every other system that consumes X; otherwise systems keep
// identity order. Systems that both produce and consume X run in identity
// order among themselves. Systems caught in a cycle are made unrunnable and
// reported. Must be called with the write lock held.
func (r *Registry) buildPlan() (Diagnostics, error) {
	g := dag.New[SystemID]()
	producers := make(map[ComponentID][]SystemID)

	for _, sys := range r.systems {
		if !sys.runnable {
			continue
		}
		g.AddNode(sys.id)
		for _, c := range sys.produced {
			producers[c] = append(producers[c], sys.id)
		}
	}

	for _, sys := range r.systems {
		if !sys.runnable {
			continue
		}
		for _, c := range sys.resolved {
			coProducer := slices.Contains(sys.produced, c)
			for _, p := range producers[c] {
				if p == sys.id || (coProducer && p > sys.id) {
					continue
				}
				if err := g.AddEdge(p, sys.id); err != nil {
					return nil, fmt.Errorf("building execution plan: %w", err)
				}
			}
		}
	}

	order, blocked := g.TopologicalSort()
	levels, _ := g.Levels()

	var diags Diagnostics
	for _, id := range blocked {
		waits, err := g.Dependencies(id)
		if err != nil {
			return nil, fmt.Errorf("building execution plan: %w", err)
		}
		var waitingOn []string
		for _, w := range waits {
			if slices.Contains(blocked, w) {
				waitingOn = append(waitingOn, r.systems[w].name)
			}
		}
		diags = append(diags, &DependencyCycleError{System: r.systems[id].name, WaitingOn: waitingOn})
	}
	for _, id := range blocked {
		r.systems[id].runnable = false
	}

	r.order = order
	r.levels = levels
	return diags, nil
}
