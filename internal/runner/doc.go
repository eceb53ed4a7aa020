// Package runner executes the cross product of scenarios and execution
// configs against solver adapters on a bounded worker pool.
//
// Each task gets a wall-clock budget enforced by the runner itself, so a
// non-cooperative adapter cannot wedge a worker: on timeout the task is
// recorded as TIMEOUT, the in-flight call is abandoned, and its eventual
// late result is discarded. A failing task never aborts its siblings; every
// attempted task produces exactly one archived record.
package runner
