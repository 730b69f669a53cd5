// SPDX-License-Identifier: MIT

// Package netmodel defines the immutable traffic-allocation model shared by
// every solver and simulator in netalloc: hosts with bounded uplinks, egress
// interfaces with capacity/cost/latency attributes, destinations with demand,
// host-owned paths (each pinned to exactly one egress), and the reachability
// relation egress → destinations.
//
// # Model
//
// A NetworkModel is a validated value object. It is constructed once from a
// ModelSpec via New, after which no operation mutates it. Derivations
// (WithEgressLatencies, WithDemandScale, Restrict) return fresh instances and
// share untouched internal state with the receiver, which is safe precisely
// because no mutating method exists.
//
// Ordering is part of the contract: Hosts, Destinations, Egresses and
// PathsOf return declaration order, and Triples enumerates valid
// (host, path, egress, destination) combinations in host → path → destination
// order. Every deterministic tie-break downstream (simplex variable order,
// greedy simulator processing order) is anchored on these sequences.
//
// # Allocation
//
// Allocation is the common result currency: a mapping from
// (host, path, destination) to a non-negative flow amount, accumulated with
// Add during a run and treated as read-only after being returned. Validate
// re-checks the model invariants (non-negative flow, valid triples, uplink
// and capacity ceilings within tolerance) and returns a sentinel error on the
// first violation; a failed validation always indicates a defective producer,
// never recoverable input.
//
// # Errors
//
// All failures are package-prefixed sentinels (see types.go), optionally
// wrapped with the offending identifier via %w so that errors.Is keeps
// matching.
//
// AI-Hints: construct models through scenario.Load and InputDoc.Model rather
// than hand-rolling ModelSpec in application code; hand-rolled specs are
// intended for tests and examples.
package netmodel
