// Package netalloc models how traffic from multi-homed endhosts should be
// spread over egress interfaces toward external destinations, and what
// happens when the hosts decide for themselves instead.
//
// What netalloc brings together:
//
//   - Exact optimization: cost-minimal, latency-minimal and
//     transfer-time-optimal allocations via linear programming, with an
//     activation-gated fixed-cost mode solved by branch-and-bound
//   - Behavior simulation: the selfish "thundering herd" (with and without
//     spillover) and a cooperative equal-split fair share
//   - Analysis: per-egress utilization reports, a max-flow deliverability
//     probe, and a congestion feedback loop that steers the herd through
//     latency penalties
//   - Harnesses: side-by-side strategy catalogues, demand-scaling sweeps
//     with distribution statistics, and a seeded scenario generator
//
// Everything runs over one immutable NetworkModel: solvers and simulators
// never mutate their input, derived models (scaled demand, penalized
// latencies, restricted link classes) are fresh values, and identical
// inputs always reproduce identical outputs.
//
// The packages, bottom up:
//
//	netmodel/    - the frozen topology: hosts, paths, egresses, demands
//	scenario/    - JSON documents in and out, plus the generator
//	lpopt/       - the LP and MIP solvers (gonum simplex underneath)
//	herd/        - the selfish simulator, two modes
//	fairshare/   - the cooperative splitter
//	utilization/ - who is how full
//	feasible/    - how much could be delivered at all
//	feedback/    - rerun the herd until congestion clears
//	batch/       - catalogues and sweeps on a worker pool
//	cmd/netalloc - the CLI over all of it
//
// A scenario in one sketch:
//
//	h1──p_h1_e1──e1 (transit)──→ D_Transit_Only_1
//	 │                      └──→ D_Universal_1
//	 └──p_h1_e2──e2 (peering)──→ D_Universal_1
//
// one host, two egresses, a destination only transit can reach and one
// both can serve.
//
//	go get github.com/katalvlaran/netalloc
package netalloc
