// Package graph builds and queries the target dependency graph. Nodes are
// build targets keyed by label; an edge from A to B means B depends on A.
// The graph is immutable once Build returns and safe for concurrent reads;
// it carries no execution state, which lives in the analysis store.
package graph
