// SPDX-License-Identifier: MIT
//
// File: check.go
// Role: model → layered flow network → feasibility verdict.

package feasible

import (
	"errors"
	"math"

	"github.com/katalvlaran/netalloc/netmodel"
)

// ErrNilModel is returned when Check receives a nil model.
var ErrNilModel = errors.New("feasible: model must not be nil")

// Verdict is the outcome of a feasibility probe.
type Verdict struct {
	// MaxDeliverable is the exact ceiling on total delivered demand under
	// any joint routing.
	MaxDeliverable float64

	// TotalDemand echoes the model's aggregate demand.
	TotalDemand float64

	// Feasible reports MaxDeliverable ≥ TotalDemand within tolerance.
	Feasible bool

	// Delivered is one maximizing per-destination assignment. The value
	// sums to MaxDeliverable but the split between destinations is not
	// unique; treat it as an existence proof, not a plan.
	Delivered map[string]float64
}

// Check computes the max-flow verdict for m. The model is read-only.
//
// Layering: source → host (uplink) → egress-in (∞) → egress-out (capacity)
// → destination (∞) → sink (demand). Hosts connect only to egresses they
// own a path to, egresses only to destinations they reach.
func Check(m *netmodel.NetworkModel) (*Verdict, error) {
	if m == nil {
		return nil, ErrNilModel
	}

	var (
		hosts = m.Hosts()
		egs   = m.Egresses()
		dests = m.Destinations()

		nHost, nEg, nDest = len(hosts), len(egs), len(dests)

		src  = 0
		sink = 1 + nHost + 2*nEg + nDest

		hostAt = func(i int) int { return 1 + i }
		egIn   = func(j int) int { return 1 + nHost + 2*j }
		egOut  = func(j int) int { return 2 + nHost + 2*j }
		destAt = func(k int) int { return 1 + nHost + 2*nEg + k }
	)

	nw := newNetwork(sink + 1)

	egIndex := make(map[string]int, nEg)
	for j, e := range egs {
		egIndex[e] = j
		nw.addEdge(egIn(j), egOut(j), m.Capacity(e))
	}

	var (
		i, j, k int
		h, p    string
	)
	for i, h = range hosts {
		nw.addEdge(src, hostAt(i), m.Uplink(h))
		seen := make(map[int]bool)
		for _, p = range m.PathsOf(h) {
			e, ok := m.EgressOf(p)
			if !ok {
				continue
			}
			if j, ok = egIndex[e]; ok && !seen[j] {
				seen[j] = true
				nw.addEdge(hostAt(i), egIn(j), math.Inf(1))
			}
		}
	}
	for j = range egs {
		for k = range dests {
			if m.Reaches(egs[j], dests[k]) {
				nw.addEdge(egOut(j), destAt(k), math.Inf(1))
			}
		}
	}

	// Remember where each destination's sink arc lands so the residual
	// tells us what was delivered.
	sinkArc := make([]int, nDest)
	for k = range dests {
		sinkArc[k] = len(nw.adj[destAt(k)])
		nw.addEdge(destAt(k), sink, m.Demand(dests[k]))
	}

	v := &Verdict{
		MaxDeliverable: nw.maxflow(src, sink),
		TotalDemand:    m.TotalDemand(),
		Delivered:      make(map[string]float64, nDest),
	}
	v.Feasible = v.MaxDeliverable >= v.TotalDemand-eps
	for k = range dests {
		residual := nw.adj[destAt(k)][sinkArc[k]].cap
		v.Delivered[dests[k]] = m.Demand(dests[k]) - residual
	}

	return v, nil
}
