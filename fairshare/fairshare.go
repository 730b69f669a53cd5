// SPDX-License-Identifier: MIT
//
// File: fairshare.go
// Role: single-pass equal-split placement.

package fairshare

import (
	"errors"
	"math"

	"github.com/katalvlaran/netalloc/netmodel"
)

// ErrNilModel is returned when Run receives a nil model.
var ErrNilModel = errors.New("fairshare: model must not be nil")

// Result is the outcome of one fair-share run.
type Result struct {
	// Alloc holds every placed flow.
	Alloc *netmodel.Allocation

	// Unsent is the demand no equal share could carry. Shares are not
	// redistributed, so unsent can be positive even while other paths
	// still have room.
	Unsent float64

	// UnsentByDest splits Unsent per destination. Destinations that were
	// fully served do not appear.
	UnsentByDest map[string]float64

	// RealizedCost prices Alloc at the model's unit costs.
	RealizedCost float64
}

// Run splits each host's apportioned demand equally over its viable paths
// and places what fits. The model is read-only throughout.
//
// A model whose hosts declare no uplink at all apportions a zero share to
// every host, so all demand ends up unsent; that is a capacity outcome,
// not an error.
func Run(m *netmodel.NetworkModel) (*Result, error) {
	if m == nil {
		return nil, ErrNilModel
	}

	var (
		remUplink = make(map[string]float64, len(m.Hosts()))
		remCap    = make(map[string]float64, len(m.Egresses()))
		al        = netmodel.NewAllocation()
		unsent    float64
		unsentBy  = make(map[string]float64)
		total     = m.TotalUplink()
		id, h, d  string
	)
	for _, id = range m.Hosts() {
		remUplink[id] = m.Uplink(id)
	}
	for _, id = range m.Egresses() {
		remCap[id] = m.Capacity(id)
	}

	for _, h = range m.Hosts() {
		var uplinkShare float64
		if total > 0 {
			uplinkShare = m.Uplink(h) / total
		}
		for _, d = range m.Destinations() {
			want := m.Demand(d) * uplinkShare
			if want <= 0 {
				continue
			}
			viable := viablePaths(m, h, d)
			if len(viable) == 0 {
				unsent += want
				unsentBy[d] += want
				continue
			}

			// One equal slice per path, placed exactly once.
			share := want / float64(len(viable))
			var p string
			for _, p = range viable {
				e, _ := m.EgressOf(p)
				can := math.Min(share, math.Min(remUplink[h], remCap[e]))
				if can > 0 {
					al.Add(h, p, d, can)
					remUplink[h] -= can
					remCap[e] -= can
				}
				if miss := share - can; miss > 0 {
					unsent += miss
					unsentBy[d] += miss
				}
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
		Alloc:        al,
		Unsent:       unsent,
		UnsentByDest: unsentBy,
		RealizedCost: al.VariableCost(m),
	}, nil
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
