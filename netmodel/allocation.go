// SPDX-License-Identifier: MIT
//
// File: allocation.go
// Role: Allocation, the (host, path, destination) → flow mapping every
//       solver and simulator returns, plus its aggregations and the
//       invariant re-check.
// Policy:
//   - Accumulated with Add during a run; read-only by convention afterwards.
//   - Validate never clamps: the first violated invariant aborts with a
//     sentinel (a violation is always a producer defect).

package netmodel

import (
	"fmt"
	"sort"
)

// Allocation maps admissible triples to non-negative flow amounts.
// The zero value is not usable; construct with NewAllocation.
type Allocation struct {
	flows map[FlowKey]float64
	total float64
}

// NewAllocation returns an empty allocation.
func NewAllocation() *Allocation {
	return &Allocation{flows: make(map[FlowKey]float64)}
}

// Add accumulates amt onto the (host, path, dest) entry. Zero amounts are
// dropped so that Keys only reports carried flow. Negative amounts are
// recorded as-is and surface later through Validate; Add itself stays total.
func (a *Allocation) Add(host, path, dest string, amt float64) {
	if amt == 0 {
		return
	}
	a.flows[FlowKey{Host: host, Path: path, Dest: dest}] += amt
	a.total += amt
}

// Flow returns the amount carried by (host, path, dest), 0 when absent.
func (a *Allocation) Flow(host, path, dest string) float64 {
	return a.flows[FlowKey{Host: host, Path: path, Dest: dest}]
}

// Total returns the summed flow over all entries.
func (a *Allocation) Total() float64 { return a.total }

// Len returns the number of non-zero entries.
func (a *Allocation) Len() int { return len(a.flows) }

// Keys returns all non-zero entries sorted by (host, path, dest).
// The order is independent of insertion order, so equal allocations always
// report equal key sequences.
func (a *Allocation) Keys() []FlowKey {
	keys := make([]FlowKey, 0, len(a.flows))
	for k := range a.flows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Host != keys[j].Host {
			return keys[i].Host < keys[j].Host
		}
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}

		return keys[i].Dest < keys[j].Dest
	})

	return keys
}

// Clone returns an independent copy.
func (a *Allocation) Clone() *Allocation {
	out := &Allocation{flows: make(map[FlowKey]float64, len(a.flows)), total: a.total}
	for k, v := range a.flows {
		out.flows[k] = v
	}

	return out
}

// PerHost aggregates flow by originating host.
func (a *Allocation) PerHost() map[string]float64 {
	out := make(map[string]float64)
	for k, v := range a.flows {
		out[k.Host] += v
	}

	return out
}

// PerDestination aggregates flow by destination.
func (a *Allocation) PerDestination() map[string]float64 {
	out := make(map[string]float64)
	for k, v := range a.flows {
		out[k.Dest] += v
	}

	return out
}

// PerEgress aggregates flow by egress, resolving each path through the model.
// Flow on paths the model does not know is ignored here and rejected by
// Validate.
func (a *Allocation) PerEgress(m *NetworkModel) map[string]float64 {
	out := make(map[string]float64)
	for k, v := range a.flows {
		if e, ok := m.egressByPath[k.Path]; ok {
			out[e] += v
		}
	}

	return out
}

// VariableCost prices the allocation at the model's unit costs:
// Σ flow × unit cost of the path's egress.
func (a *Allocation) VariableCost(m *NetworkModel) float64 {
	var total float64
	for k, v := range a.flows {
		total += v * m.unitCost[m.egressByPath[k.Path]]
	}

	return total
}

// WeightedLatency returns the traffic-weighted mean egress latency of the
// allocation in milliseconds, and false when no flow is carried.
func (a *Allocation) WeightedLatency(m *NetworkModel) (float64, bool) {
	var weighted, total float64
	for k, v := range a.flows {
		weighted += v * m.latency[m.egressByPath[k.Path]]
		total += v
	}
	if total <= 0 {
		return 0, false
	}

	return weighted / total, true
}

// Validate re-checks every allocation invariant against m with tolerance eps
// (eps < 0 is treated as 0):
//
//	flow ≥ −eps; every entry on an admissible triple;
//	Σ per host ≤ uplink + eps; Σ per egress ≤ capacity + eps.
//
// The first violation aborts with its sentinel, wrapped with the offending
// identifiers. Per-destination reconciliation is the caller's contract
// (equality for solvers, sent+unsent for simulators) and is asserted by their
// own result constructors, not here.
func (a *Allocation) Validate(m *NetworkModel, eps float64) error {
	if m == nil {
		return ErrNilModel
	}
	if a == nil {
		return ErrNilAllocation
	}
	if eps < 0 {
		eps = 0
	}

	// Entry-level checks in deterministic key order (stable first-error).
	var (
		perHost   = make(map[string]float64, len(m.hosts))
		perEgress = make(map[string]float64, len(m.egresses))
		k         FlowKey
		v         float64
	)
	for _, k = range a.Keys() {
		v = a.flows[k]
		if v < -eps {
			return fmt.Errorf("%w: %g on (%s, %s, %s)", ErrNegativeFlow, v, k.Host, k.Path, k.Dest)
		}
		owner, ok := m.ownerByPath[k.Path]
		if !ok || owner != k.Host {
			return fmt.Errorf("%w: (%s, %s, %s)", ErrInvalidTriple, k.Host, k.Path, k.Dest)
		}
		e := m.egressByPath[k.Path]
		if !m.reach[e][k.Dest] {
			return fmt.Errorf("%w: egress %s does not reach %s", ErrInvalidTriple, e, k.Dest)
		}
		perHost[k.Host] += v
		perEgress[e] += v
	}

	// Aggregate ceilings in declaration order.
	var id string
	for _, id = range m.hosts {
		if perHost[id] > m.uplink[id]+eps {
			return fmt.Errorf("%w: host %s carries %g over uplink %g",
				ErrUplinkExceeded, id, perHost[id], m.uplink[id])
		}
	}
	for _, id = range m.egresses {
		if perEgress[id] > m.capacity[id]+eps {
			return fmt.Errorf("%w: egress %s carries %g over capacity %g",
				ErrCapacityExceeded, id, perEgress[id], m.capacity[id])
		}
	}

	return nil
}
