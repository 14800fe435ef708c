// Package analyzer turns a target dependency graph into analysis values.
//
// Targets are analyzed concurrently by a pool of workers: a target becomes
// ready once all of its dependencies have been analyzed, so values flow
// through the graph in dependency order. A target that fails analysis
// causes all of its transitive dependents to be skipped; independent
// subgraphs keep going and the failures are reported together at the end.
package analyzer
