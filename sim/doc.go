// Package sim provides the discrete-event simulation engine for a retail
// checkout area.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - customer.go: Customer lifecycle (arrived → waiting → in_service → departed)
//   - event.go: Event types that drive the simulation (Arrival, CustomerStart, Grant, Departure)
//   - simulator.go: The event loop, scheduling contract and run result
//
// # Model
//
// One ResourcePool of Config.Capacity counters is shared by every customer.
// The ArrivalGenerator admits customers at uniform gaps in
// [0, MaxArrivalGap] while the clock is before ArrivalCutoff-MaxArrivalGap.
// Each customer holds a counter for a uniform service time in
// [0, MaxServiceDuration]. The run continues to SimulationHorizon, draining
// customers still inside after the doors close.
//
// # Determinism
//
// Events are ordered by (due time, scheduling order) and the arrival and
// service streams come from a PartitionedRNG keyed on the seed, so a fixed
// seed reproduces a run exactly. The engine is single-threaded; run several
// Simulators in parallel for replications (see sim/replication).
//
// # Statistics
//
// sim/stats holds the append-only queue-length and wait-time series. A
// queue-length sample is taken each time a customer reaches a counter; a
// wait-time sample each time one departs.
package sim
