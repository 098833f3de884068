package dag

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

// New creates and returns an initialized, empty Graph.
func New[K cmp.Ordered]() *Graph[K] {
	return &Graph[K]{
		nodes: make(map[K]*node[K]),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph[K]) AddNode(id K) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node[K]{
		id:         id,
		deps:       make(map[K]*node[K]),
		dependents: make(map[K]*node[K]),
	}
}

// Len returns the number of nodes.
func (g *Graph[K]) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
func (g *Graph[K]) AddEdge(fromID, toID K) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %v -> %v", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %v", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %v", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Dependencies returns the sorted IDs that the given node depends on.
func (g *Graph[K]) Dependencies(id K) ([]K, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %v", id)
	}
	return slices.Sorted(maps.Keys(n.deps)), nil
}
