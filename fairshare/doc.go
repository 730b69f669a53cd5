// Package fairshare implements the cooperative counterpart to package herd:
// every host splits its apportioned demand equally across all of its viable
// paths toward a destination, regardless of their latency or price.
//
// The split is a single pass. A path that cannot absorb its equal share
// (capacity or uplink exhausted) drops the difference as unsent; no second
// pass redistributes leftovers to paths with spare room. That keeps the
// simulator a pure baseline: it measures what naive load spreading buys,
// not what an optimizer could.
//
// Ordering and state discipline match package herd: hosts then destinations
// in declaration order, capacity counters scoped to one Run, the model
// never mutated.
package fairshare
