// makespan.go - SolveMakespan: the uniform rate multiplier Z and the
// latency-adjusted completion times it implies.

package lpopt

import (
	"math"

	"github.com/katalvlaran/netalloc/netmodel"
)

// latencyWeightByDest sums flow × egress latency (milliseconds) per
// destination.
func latencyWeightByDest(m *netmodel.NetworkModel, al *netmodel.Allocation) map[string]float64 {
	out := make(map[string]float64)
	var k netmodel.FlowKey
	for _, k = range al.Keys() {
		e, _ := m.EgressOf(k.Path)
		out[k.Dest] += al.Flow(k.Host, k.Path, k.Dest) * m.Latency(e)
	}

	return out
}

// SolveMakespan treats demands as data volumes and solves for the rate
// multiplier Z: every destination with volume v must receive aggregate
// rate ≥ v×Z, so all transfers finish together after 1/Z seconds.
// Maximizing Z (the default is Minimize, so pass WithDirection(Maximize))
// yields the schedule with the least makespan; minimizing is the
// adversarial case and trivially drives Z to zero.
//
// A destination with positive volume that no admissible triple serves pins
// Z to zero: its transfer can never finish, and the result is
// StatusOptimal with infinite completion times rather than infeasible.
//
// Completion times are traffic-weighted mean egress latency (converted
// from milliseconds to seconds) plus the transfer duration 1/Z, reported
// for every destination; Makespan is the worst completion among
// destinations with positive volume.
func SolveMakespan(m *netmodel.NetworkModel, opts ...Option) (*MakespanResult, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o := buildOptions(opts...)
	ix := indexModel(m)
	p := assembleMakespanLP(m, ix)

	sol, err := runSimplex(p, o.Direction, o.Epsilon, nil, nil)
	if err != nil {
		return nil, err
	}
	if sol.status != StatusOptimal {
		return &MakespanResult{Status: sol.status, Detail: statusDetail(sol.status)}, nil
	}

	z := round1e9(sol.x[p.zCol()])
	al := buildAllocation(ix, sol.x, o.Epsilon)
	res := &MakespanResult{
		Status:     StatusOptimal,
		Z:          z,
		Completion: make(map[string]float64, len(m.Destinations())),
		Alloc:      al,
	}

	duration := math.Inf(1)
	if z > o.Epsilon {
		duration = 1 / z
	}
	perDest := al.PerDestination()
	latMs := latencyWeightByDest(m, al)
	var (
		d     string
		worst float64
	)
	for _, d = range m.Destinations() {
		var avgMs float64
		if perDest[d] > 0 {
			avgMs = latMs[d] / perDest[d]
		}
		comp := round1e9(avgMs/1e3 + duration)
		res.Completion[d] = comp
		if m.Demand(d) > 0 && comp > worst {
			worst = comp
		}
	}
	res.Makespan = worst

	return res, nil
}
