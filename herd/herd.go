// SPDX-License-Identifier: MIT
//
// File: herd.go
// Role: the greedy placement loop shared by both modes.
//
// Rationale (succinct):
//  1. Capacity counters live in a run-scoped state struct, so a Run never
//     mutates the model and concurrent runs cannot observe each other.
//  2. Placement walks hosts × destinations in declaration order; all
//     contention outcomes follow from that single ordering rule.
//  3. Latency is read per egress at selection time, which is what lets a
//     feedback controller steer reruns purely through derived models.

package herd

import (
	"math"
	"sort"

	"github.com/katalvlaran/netalloc/netmodel"
)

// runState carries the mutable capacity counters of a single run.
type runState struct {
	remUplink map[string]float64 // host → uplink still free
	remCap    map[string]float64 // egress → capacity still free
}

func newRunState(m *netmodel.NetworkModel) *runState {
	st := &runState{
		remUplink: make(map[string]float64),
		remCap:    make(map[string]float64),
	}
	var id string
	for _, id = range m.Hosts() {
		st.remUplink[id] = m.Uplink(id)
	}
	for _, id = range m.Egresses() {
		st.remCap[id] = m.Capacity(id)
	}
	return st
}

// Run simulates the herd on m and returns the placed allocation, the total
// unsent demand and the realized cost. The model is read-only throughout.
//
// Each host's demand toward a destination is the aggregate demand scaled by
// the host's share of the total uplink. A model whose hosts declare no
// uplink at all apportions a zero share to every host, so all demand ends
// up unsent; that is a capacity outcome, not an error.
func Run(m *netmodel.NetworkModel, opts ...Option) (*Result, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o := buildOptions(opts...)
	if o.PeeringOnly {
		restricted, err := m.Restrict(netmodel.ClassPeering)
		if err != nil {
			return nil, err
		}
		m = restricted
	}

	var (
		st       = newRunState(m)
		al       = netmodel.NewAllocation()
		unsent   float64
		unsentBy = make(map[string]float64)
		total    = m.TotalUplink()
		h, d     string
	)
	for _, h = range m.Hosts() {
		var share float64
		if total > 0 {
			share = m.Uplink(h) / total
		}
		for _, d = range m.Destinations() {
			want := m.Demand(d) * share
			if want <= 0 {
				continue
			}
			if miss := want - place(m, st, al, h, d, want, o); miss > 0 {
				unsent += miss
				unsentBy[d] += miss
			}
		}
	}
	if total <= 0 {
		for _, d = range m.Destinations() {
			if dem := m.Demand(d); dem > 0 {
				unsent += dem
				unsentBy[d] += dem
			}
		}
	}

	return &Result{
		Mode:         o.Mode,
		Alloc:        al,
		Unsent:       unsent,
		UnsentByDest: unsentBy,
		RealizedCost: al.VariableCost(m),
	}, nil
}

// place routes up to want units from h toward d and returns the amount that
// actually fit.
func place(m *netmodel.NetworkModel, st *runState, al *netmodel.Allocation, h, d string, want float64, o Options) float64 {
	viable := viablePaths(m, h, d)
	if len(viable) == 0 {
		return 0
	}
	if o.Mode == Spillover {
		return spill(m, st, al, h, d, want, viable, o.Epsilon)
	}
	return single(m, st, al, h, d, want, viable)
}

// single is the no-spillover mode: the host commits to its lowest-latency
// path whether or not that path has room. The strict < keeps the earliest
// declared path on latency ties.
func single(m *netmodel.NetworkModel, st *runState, al *netmodel.Allocation, h, d string, want float64, viable []string) float64 {
	var (
		best    = viable[0]
		bestLat = pathLatency(m, best)
		p       string
	)
	for _, p = range viable[1:] {
		if l := pathLatency(m, p); l < bestLat {
			best, bestLat = p, l
		}
	}

	return push(m, st, al, h, best, d, want)
}

// spill walks the viable paths in ascending latency order, earliest
// declaration first on ties, placing whatever fits until the residual
// demand drops below eps.
func spill(m *netmodel.NetworkModel, st *runState, al *netmodel.Allocation, h, d string, want float64, viable []string, eps float64) float64 {
	sort.SliceStable(viable, func(i, j int) bool {
		return pathLatency(m, viable[i]) < pathLatency(m, viable[j])
	})

	var (
		remaining = want
		p         string
	)
	for _, p = range viable {
		remaining -= push(m, st, al, h, p, d, remaining)
		if remaining <= eps {
			break
		}
	}

	return want - remaining
}

// push places min(want, free uplink, free egress capacity) of flow on path
// p and updates the counters. Returns the amount placed.
func push(m *netmodel.NetworkModel, st *runState, al *netmodel.Allocation, h, p, d string, want float64) float64 {
	e, _ := m.EgressOf(p)
	can := math.Min(want, math.Min(st.remUplink[h], st.remCap[e]))
	if can <= 0 {
		return 0
	}
	al.Add(h, p, d, can)
	st.remUplink[h] -= can
	st.remCap[e] -= can

	return can
}

// viablePaths returns h's paths whose egress reaches d, in declaration
// order.
func viablePaths(m *netmodel.NetworkModel, h, d string) []string {
	var (
		out []string
		p   string
	)
	for _, p = range m.PathsOf(h) {
		if e, ok := m.EgressOf(p); ok && m.Reaches(e, d) {
			out = append(out, p)
		}
	}

	return out
}

// pathLatency is the declared latency of the path's egress; paths without a
// declared latency rank as zero, the model's documented default.
func pathLatency(m *netmodel.NetworkModel, p string) float64 {
	e, _ := m.EgressOf(p)
	return m.Latency(e)
}
