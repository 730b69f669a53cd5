// Package batch evaluates traffic scenarios under whole catalogues of
// strategies and demand levels.
//
// Two harnesses are exported. RunAll takes one scenario document and a
// strategy list and produces one output document per strategy, so the
// cost solve, the latency solve, the throughput solve and the simulators
// can be compared side by side on identical inputs. Sweep takes one
// strategy and a ladder of demand factors, repeats each evaluation a
// configured number of times and reduces the outcomes to distribution
// statistics per factor, which is how a scenario's breaking point is
// located.
//
// Both harnesses fan out over a bounded worker pool. Every evaluation is
// independent: models are derived, never mutated, so the only shared
// state is the pre-sized result slice each worker writes its own index
// into. Context cancellation is observed before each evaluation starts
// and inside the LP solvers between branch-and-bound nodes.
//
// Strategy selection, worker count, factor ladder and repeat count are
// functional options; zero values fall back to defaults the way the rest
// of the module does it.
package batch
