// Package dag is a small directed acyclic graph used to order work whose
// dependencies are only known after everything has been declared.
//
// Nodes are keyed by any ordered type. Every operation that has to choose
// between equally ready nodes picks the smallest key, so the orderings it
// produces are deterministic for a given set of nodes and edges regardless of
// insertion order.
package dag
