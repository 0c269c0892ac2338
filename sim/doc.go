// Package sim provides the discrete-event simulation kernel for the
// production-line digital twin.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - event.go: the event queue with deterministic (time, sequence) ordering
//   - scheduler.go: the virtual clock and the run loop that resumes processes
//   - resource.go: capacity-limited machine slots with priority admission
//
// # Architecture
//
// The sim package holds only the generic engine; the domain lives in
// sub-packages:
//   - sim/line/: the production-line pipeline (stations, buffers, units,
//     arrival/breakdown/monitor processes, warm-up truncation)
//   - sim/analysis/: pure metric, bottleneck, and cost functions over run data
//   - sim/optimize/: grid search over station capacity configurations
//
// # Process model
//
// A logical process (arrival generator, station worker, breakdown generator,
// monitor) is expressed as a continuation closure. It suspends either on a
// timer, by calling Scheduler.Schedule with the rest of its body, or on a
// resource grant, by passing the rest of its body to Resource.Request. The
// scheduler resumes exactly one continuation at a time, so all simulation
// state is single-writer without locks. Randomness is drawn only from
// PartitionedRNG streams, never from the global rand source.
package sim
