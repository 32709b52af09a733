// Package metrics provides per-run accumulators fed one dynamo.Sample at a
// time by the simulator.
package metrics
