package graph

import (
	"fmt"
	"sort"

	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/label"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[label.Label]*node),
	}
}

// AddTarget adds a new node for the given target. An error is returned if
// a node with the same label already exists.
func (g *Graph) AddTarget(t *config.Target) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[t.Label]; ok {
		return fmt.Errorf("duplicate target in graph: %s", t.Label)
	}

	g.nodes[t.Label] = &node{
		target:     t,
		deps:       make(map[label.Label]*node),
		dependents: make(map[label.Label]*node),
	}
	return nil
}

// AddEdge creates a directed edge declaring that `to` depends on `from`.
// An error is returned if either node does not exist or if the edge would
// create a self-reference.
func (g *Graph) AddEdge(from, to label.Label) error {
	if from.Equal(to) {
		return fmt.Errorf("target cannot depend on itself: %s", from)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("dependency not found: %s", from)
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return fmt.Errorf("target not found: %s", to)
	}

	toNode.deps[from] = fromNode
	fromNode.dependents[to] = toNode
	return nil
}

// Target returns the configuration of the target with the given label.
func (g *Graph) Target(l label.Label) (*config.Target, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[l]
	if !ok {
		return nil, false
	}
	return n.target, true
}

// Len returns the number of targets in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// Labels returns all target labels in canonical string order.
func (g *Graph) Labels() []label.Label {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	labels := make([]label.Label, 0, len(g.nodes))
	for l := range g.nodes {
		labels = append(labels, l)
	}
	return sortLabels(labels)
}

// Dependencies returns the labels the given target directly depends on.
func (g *Graph) Dependencies(l label.Label) ([]label.Label, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[l]
	if !ok {
		return nil, fmt.Errorf("target not found: %s", l)
	}
	return sortLabels(keys(n.deps)), nil
}

// Dependents returns the labels of targets that directly depend on the
// given target.
func (g *Graph) Dependents(l label.Label) ([]label.Label, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[l]
	if !ok {
		return nil, fmt.Errorf("target not found: %s", l)
	}
	return sortLabels(keys(n.dependents)), nil
}

// TransitiveDeps returns the transitive dependency closure of the given
// targets, including the targets themselves, in canonical label order.
func (g *Graph) TransitiveDeps(roots ...label.Label) ([]label.Label, error) {
	return g.closure(roots, func(n *node) map[label.Label]*node { return n.deps })
}

// TransitiveRdeps returns the transitive reverse-dependency closure of the
// given targets, including the targets themselves, in canonical label order.
func (g *Graph) TransitiveRdeps(roots ...label.Label) ([]label.Label, error) {
	return g.closure(roots, func(n *node) map[label.Label]*node { return n.dependents })
}

func (g *Graph) closure(roots []label.Label, next func(*node) map[label.Label]*node) ([]label.Label, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	visited := make(map[label.Label]bool)
	var walk func(l label.Label) error
	walk = func(l label.Label) error {
		if visited[l] {
			return nil
		}
		n, ok := g.nodes[l]
		if !ok {
			return fmt.Errorf("target not found: %s", l)
		}
		visited[l] = true
		for dep := range next(n) {
			if err := walk(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range roots {
		if err := walk(root); err != nil {
			return nil, err
		}
	}

	out := make([]label.Label, 0, len(visited))
	for l := range visited {
		out = append(out, l)
	}
	return sortLabels(out), nil
}

// TopoSort returns all labels in an order where every target appears after
// its dependencies. The order is deterministic: ties are broken by
// canonical label order.
func (g *Graph) TopoSort() ([]label.Label, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	indegree := make(map[label.Label]int, len(g.nodes))
	var ready []label.Label
	for l, n := range g.nodes {
		indegree[l] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, l)
		}
	}
	sortLabels(ready)

	out := make([]label.Label, 0, len(g.nodes))
	for len(ready) > 0 {
		l := ready[0]
		ready = ready[1:]
		out = append(out, l)

		var unlocked []label.Label
		for dl := range g.nodes[l].dependents {
			indegree[dl]--
			if indegree[dl] == 0 {
				unlocked = append(unlocked, dl)
			}
		}
		ready = mergeSorted(ready, sortLabels(unlocked))
	}

	if len(out) != len(g.nodes) {
		return nil, fmt.Errorf("dependency cycle prevents ordering %d of %d targets", len(g.nodes)-len(out), len(g.nodes))
	}
	return out, nil
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, naming the first target involved in the detected cycle.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Classic depth-first search with three sets of nodes: fully visited,
	// currently on the recursion stack, and unvisited.
	permanent := make(map[label.Label]bool)
	temporary := make(map[label.Label]bool)

	var visit func(l label.Label, n *node) error
	visit = func(l label.Label, n *node) error {
		if permanent[l] {
			return nil
		}
		if temporary[l] {
			return fmt.Errorf("cycle detected involving target %s", l)
		}

		temporary[l] = true
		for dl, dn := range n.dependents {
			if err := visit(dl, dn); err != nil {
				return err
			}
		}
		delete(temporary, l)
		permanent[l] = true
		return nil
	}

	for l, n := range g.nodes {
		if err := visit(l, n); err != nil {
			return err
		}
	}
	return nil
}

func keys(m map[label.Label]*node) []label.Label {
	out := make([]label.Label, 0, len(m))
	for l := range m {
		out = append(out, l)
	}
	return out
}

func sortLabels(labels []label.Label) []label.Label {
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].String() < labels[j].String()
	})
	return labels
}

// mergeSorted merges two label slices that are each in canonical order.
func mergeSorted(a, b []label.Label) []label.Label {
	if len(b) == 0 {
		return a
	}
	out := make([]label.Label, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].String() <= b[j].String() {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
