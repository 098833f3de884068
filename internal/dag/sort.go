package dag

import (
	"maps"
	"slices"
)

// Levels groups the nodes into layers using Kahn's algorithm: every node in a
// layer depends only on nodes from earlier layers, and each layer is sorted.
// Nodes that can never become ready, because they sit on a cycle or depend on
// one, are returned separately in ascending order.
func (g *Graph[K]) Levels() (levels [][]K, blocked []K) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	inDegree := make(map[K]int, len(g.nodes))
	var ready []K
	for id, n := range g.nodes {
		inDegree[id] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, id)
		}
	}

	seen := 0
	for len(ready) > 0 {
		slices.Sort(ready)
		levels = append(levels, ready)
		seen += len(ready)

		var next []K
		for _, id := range ready {
			for depID := range g.nodes[id].dependents {
				inDegree[depID]--
				if inDegree[depID] == 0 {
					next = append(next, depID)
				}
			}
		}
		ready = next
	}

	if seen == len(g.nodes) {
		return levels, nil
	}
	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		if inDegree[id] > 0 {
			blocked = append(blocked, id)
		}
	}
	return levels, blocked
}

// TopologicalSort returns the nodes in dependency order. Among nodes that are
// ready at the same time the smallest key goes first, so with no edges at all
// the result is simply the sorted key set. Nodes that cannot be ordered are
// returned in blocked.
func (g *Graph[K]) TopologicalSort() (order []K, blocked []K) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	inDegree := make(map[K]int, len(g.nodes))
	ready := &minQueue[K]{}
	for id, n := range g.nodes {
		inDegree[id] = len(n.deps)
		if len(n.deps) == 0 {
			ready.push(id)
		}
	}

	for ready.len() > 0 {
		id := ready.pop()
		order = append(order, id)
		for depID := range g.nodes[id].dependents {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				ready.push(depID)
			}
		}
	}

	if len(order) == len(g.nodes) {
		return order, nil
	}
	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		if inDegree[id] > 0 {
			blocked = append(blocked, id)
		}
	}
	return order, blocked
}
