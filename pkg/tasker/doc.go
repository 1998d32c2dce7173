// Package tasker implements the one-dimensional charge-plane analysis used to
// find Tasker type II (non-polar, stoichiometric) slab terminations.
//
// The pipeline is linear:
//
//	Project -> IdentifyPlanes -> ReduceFormula -> EnumerateCutPairs -> SelectBest -> ResolveCutPositions
//
// Analyze composes the steps after projection. Every function is pure: inputs
// are never modified and no I/O is performed, so independent Miller indices can
// be analyzed concurrently.
package tasker
