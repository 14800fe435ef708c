// Package analysis holds the memoized result of analyzing build targets.
//
// A Value is the payload of one node in the target dependency graph: the
// ordered list of action descriptors that produce the target's outputs. The
// graph may persist values to a snapshot and later reconstruct them without
// the action payload, to keep snapshots small. A reconstructed value reports
// zero actions and fails loudly when the full action list is requested, so
// that code expecting a fresh analysis cannot silently proceed on stale data.
//
// The Store collects values for one run, keyed by canonical target label,
// and implements the snapshot round-trip.
package analysis
