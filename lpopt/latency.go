// latency.go - SolveLatency: the latency-optimal operating point, priced
// for comparison against cost-optimal allocations.

package lpopt

import (
	"github.com/katalvlaran/netalloc/netmodel"
)

// latencySum returns Σ flow × egress latency (milliseconds) over al.
func latencySum(m *netmodel.NetworkModel, al *netmodel.Allocation) float64 {
	var (
		total float64
		k     netmodel.FlowKey
	)
	for _, k = range al.Keys() {
		e, _ := m.EgressOf(k.Path)
		total += al.Flow(k.Host, k.Path, k.Dest) * m.Latency(e)
	}

	return total
}

// SolveLatency computes the allocation with optimal total latency
// exposure, Σ flow × egress latency, minimized by default. Fixed-cost
// modes do not apply; WithRelaxedDemand behaves as in SolveCost.
//
// The result's Objective is the latency sum in traffic-milliseconds;
// VariableCost prices the same allocation at the model's unit costs so the
// latency/cost trade-off can be read off directly. FixedCost is always 0.
func SolveLatency(m *netmodel.NetworkModel, opts ...Option) (*CostResult, error) {
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

	p := assembleFlowLP(m, ix, m.Latency, false, o.RelaxedDemand)
	if p.nVar() == 0 {
		return &CostResult{Status: StatusOptimal, Alloc: netmodel.NewAllocation()}, nil
	}
	sol, err := runSimplex(p, o.Direction, o.Epsilon, nil, nil)
	if err != nil {
		return nil, err
	}
	if sol.status != StatusOptimal {
		return &CostResult{Status: sol.status, Detail: statusDetail(sol.status)}, nil
	}

	al := buildAllocation(ix, sol.x, o.Epsilon)
	if strict {
		if err = checkConservation(m, al); err != nil {
			return nil, err
		}
	}

	return &CostResult{
		Status:       StatusOptimal,
		Objective:    round1e9(latencySum(m, al)),
		VariableCost: round1e9(al.VariableCost(m)),
		Alloc:        al,
	}, nil
}
