// Package herd simulates uncoordinated, latency-greedy traffic placement.
//
// Every host routes its apportioned share of each destination's demand
// (proportional to the host's slice of the total uplink) through whichever
// of its paths currently advertises the lowest latency. Nobody coordinates,
// so hosts pile onto the same attractive egress until it saturates; that is
// the thundering herd this package reproduces on purpose.
//
// Two modes:
//
//   - NoSpillover: one shot at the single lowest-latency path. Whatever
//     does not fit there is recorded as unsent and the host moves on.
//   - Spillover: the host retries along its remaining paths in ascending
//     latency order until the demand is met or every path is saturated.
//
// # Determinism
//
// Hosts are processed in model declaration order, destinations in
// declaration order within each host, and latency ties resolve to the
// earlier-declared path. Earlier hosts therefore win contested capacity;
// reordering the input document changes who loses. Capacity counters are
// scoped to a single Run and the model itself is never mutated, so
// concurrent Runs on a shared model are safe.
package herd
