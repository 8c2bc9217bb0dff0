// Package dynamo provides the primitives shared by every part of the simulator.
//
// It defines the [Body] capability implemented by circle and box sets, the
// step [Phase] marker, run [Config], and the sentinel errors returned by
// constructors and the step driver.
//
// # Parallelism
//
// [ParallelFor] splits an index range across goroutines. It is only safe
// for loops where each index writes to state no other index touches, such
// as the one-directional narrow-phase passes in package physics.
package dynamo
