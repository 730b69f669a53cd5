// cost.go - SolveCost: cost-optimal traffic allocation with optional
// fixed-cost handling.

package lpopt

import (
	"github.com/katalvlaran/netalloc/netmodel"
)

// statusDetail phrases a non-optimal simplex outcome for result consumers.
func statusDetail(s Status) string {
	switch s {
	case StatusInfeasible:
		return "no flow assignment satisfies demand, uplink and capacity constraints jointly"
	case StatusUnbounded:
		return "objective can be improved without limit"
	}

	return ""
}

// SolveCost computes the allocation with optimal total monetary cost.
//
// The objective is Σ flow × unit cost of the carrying egress, minimized or
// maximized per WithDirection; base costs enter per WithFixedCostMode (see
// FixedCostMode). Demands are met exactly unless WithRelaxedDemand.
//
// Contract:
//   - m must be non-nil; the returned error is ErrNilModel otherwise.
//   - Infeasible and unbounded outcomes are reported via Status, not
//     error; Detail carries the diagnostic.
//   - On StatusOptimal the allocation reconciles with every demand
//     (strict mode); a reconciliation failure is ErrConservation.
//   - ErrNodeBudget and context errors can occur only under
//     FixedActivation.
//
// Complexity: one simplex solve; under FixedActivation up to MaxNodes
// simplex solves.
func SolveCost(m *netmodel.NetworkModel, opts ...Option) (*CostResult, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o := buildOptions(opts...)
	ix := indexModel(m)
	strict := !o.RelaxedDemand
	if strict {
		if detail, ok := precheck(m, ix); !ok {
			return &CostResult{Status: StatusInfeasible, Detail: detail}, nil
		}
	}

	gate := o.FixedMode == FixedActivation
	p := assembleFlowLP(m, ix, m.UnitCost, gate, o.RelaxedDemand)
	if p.nVar() == 0 {
		// Nothing to route and nothing to gate; demands are all zero or
		// the precheck would have rejected them.
		var active []string
		if gate {
			active = []string{}
		}

		return finishCost(m, ix, o, &solution{status: StatusOptimal, x: nil}, active, 0)
	}

	var (
		sol    *solution
		active []string
		fixed  float64
		err    error
	)
	if gate && p.nGate > 0 {
		sol, active, fixed, err = runBnb(m, p, o)
	} else {
		sol, err = runSimplex(p, o.Direction, o.Epsilon, nil, nil)
		if gate {
			active = []string{}
		}
	}
	if err != nil {
		return nil, err
	}
	if sol.status != StatusOptimal {
		return &CostResult{Status: sol.status, Detail: statusDetail(sol.status)}, nil
	}

	return finishCost(m, ix, o, sol, active, fixed)
}

// finishCost packages an optimal solution into a CostResult: extract and
// cross-check the allocation, then reconcile the cost breakdown from the
// reported flows rather than the raw simplex objective.
func finishCost(m *netmodel.NetworkModel, ix *varIndex, o Options, sol *solution, active []string, fixed float64) (*CostResult, error) {
	al := netmodel.NewAllocation()
	if sol.x != nil {
		al = buildAllocation(ix, sol.x, o.Epsilon)
	}
	if !o.RelaxedDemand {
		if err := checkConservation(m, al); err != nil {
			return nil, err
		}
	}
	if o.FixedMode == FixedSunk {
		fixed = m.SunkCost()
	}
	res := &CostResult{
		Status:         StatusOptimal,
		VariableCost:   round1e9(al.VariableCost(m)),
		FixedCost:      round1e9(fixed),
		ActiveEgresses: active,
		Alloc:          al,
	}
	res.Objective = round1e9(res.VariableCost + res.FixedCost)

	return res, nil
}
