package graph

import (
	"sync"

	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/label"
)

// Graph is the target dependency graph of one workspace, representing a
// DAG. All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by target label.
	nodes map[label.Label]*node
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using labels),
// not by direct struct manipulation.
type node struct {
	// target is the configuration the node was created from.
	target *config.Target
	// deps holds the set of nodes that this node depends on (predecessors).
	deps map[label.Label]*node
	// dependents holds the set of nodes that depend on this node (successors).
	dependents map[label.Label]*node
}
