// Package lpopt formulates and solves the linear and mixed-integer programs
// behind netalloc's allocation strategies. All solvers share one constraint
// structure over the model's admissible (host, path, destination) triples and
// one simplex backend (gonum.org/v1/gonum/optimize/convex/lp).
//
// The solvers offered are:
//
//   - SolveCost
//
//   - Objective: Σ flow × unit cost of its egress, minimized or maximized.
//
//   - Fixed costs: FixedNone ignores them; FixedSunk adds the sum of all
//     defined base costs as a post-solve constant; FixedActivation gates
//     each defined base cost behind a binary per-egress indicator and
//     solves the resulting MIP by branch-and-bound over simplex
//     relaxations.
//
//   - SolveLatency
//
//   - Objective: Σ flow × egress latency, minimized. The latency-optimal
//     operating point cost results are compared against.
//
//   - SolveMakespan
//
//   - One extra scalar Z ≥ 0; every destination with a positive data
//     volume is constrained to receive rate ≥ volume × Z, so all
//     transfers complete at the same normalized time. Maximizing Z
//     minimizes the overall makespan; minimizing Z yields the adversarial
//     worst case (Z = 0: nothing transfers, completion times infinite).
//
// # Constraint structure
//
// Variables are continuous flows, one per admissible triple, in the model's
// canonical triple order (plus gate indicators, plus Z for makespan).
// Constraints, in fixed row order:
//
//  1. per-destination demand: Σ flow to d = demand[d] (≤ under
//     WithRelaxedDemand); destinations with demand 0 and no admissible
//     triple contribute no row;
//  2. per-host uplink: Σ flow from h ≤ uplink[h];
//  3. per-egress capacity: Σ flow via e ≤ capacity[e]; under
//     FixedActivation a gated egress instead gets Σ flow ≤ capacity × y
//     with y ≤ 1 (its own capacity is the tightening bound, no arbitrary
//     large constant);
//  4. non-negativity rows for every variable (the general→standard form
//     conversion splits free variables, so x ≥ 0 must be explicit).
//
// Before any simplex call a feasibility precheck rejects models whose
// aggregate admissible capacity cannot carry some destination's demand, or
// whose total uplink cannot carry the total demand; both return
// StatusInfeasible with a diagnostic. Joint infeasibility detected by the
// simplex itself maps to the same status. Infeasible and unbounded are
// first-class statuses, terminal, never retried.
//
// # Determinism
//
// Variable order is the model's triple order, row order is declaration
// order, and the branch-and-bound explores a deterministic tree
// (most-fractional indicator, index tiebreak, rounding-nearest branch
// first). Identical inputs produce identical allocations.
//
// Solvers are pure: no logging, no global state, context honored between
// branch-and-bound nodes.
package lpopt
