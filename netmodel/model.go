// SPDX-License-Identifier: MIT
//
// File: model.go
// Role: Read-only accessors and copy-on-derive operations of NetworkModel.
// Policy:
//   - Slice-returning accessors copy; the internal ordering arrays are never
//     exposed for mutation.
//   - Scalar accessors are O(1) map lookups; unknown ids read as zero values
//     (callers that need existence checks use the membership accessors).
//   - Derivations rebuild only the maps they change and share the rest,
//     which is safe because no mutating method exists on NetworkModel.

package netmodel

import (
	"fmt"
	"math"
)

// Hosts returns the host identifiers in declaration order.
func (m *NetworkModel) Hosts() []string { return append([]string(nil), m.hosts...) }

// Egresses returns the egress identifiers in declaration order.
func (m *NetworkModel) Egresses() []string { return append([]string(nil), m.egresses...) }

// Destinations returns the destination identifiers in declaration order.
func (m *NetworkModel) Destinations() []string { return append([]string(nil), m.dests...) }

// PathsOf returns host's path identifiers in declaration order.
// Unknown hosts yield an empty slice.
func (m *NetworkModel) PathsOf(host string) []string {
	return append([]string(nil), m.pathsByHost[host]...)
}

// EgressOf reports the egress a path is pinned to.
func (m *NetworkModel) EgressOf(path string) (string, bool) {
	e, ok := m.egressByPath[path]

	return e, ok
}

// OwnerOf reports the host owning a path.
func (m *NetworkModel) OwnerOf(path string) (string, bool) {
	h, ok := m.ownerByPath[path]

	return h, ok
}

// HasHost reports whether host is declared in the model.
func (m *NetworkModel) HasHost(host string) bool { _, ok := m.uplink[host]; return ok }

// HasEgress reports whether egress is declared in the model.
func (m *NetworkModel) HasEgress(egress string) bool { _, ok := m.capacity[egress]; return ok }

// HasDestination reports whether dest is declared in the model.
func (m *NetworkModel) HasDestination(dest string) bool { _, ok := m.demand[dest]; return ok }

// Reaches reports whether egress serves dest.
func (m *NetworkModel) Reaches(egress, dest string) bool { return m.reach[egress][dest] }

// Uplink returns the uplink capacity of host (0 for unknown ids).
func (m *NetworkModel) Uplink(host string) float64 { return m.uplink[host] }

// Capacity returns the capacity of egress (0 for unknown ids).
func (m *NetworkModel) Capacity(egress string) float64 { return m.capacity[egress] }

// UnitCost returns the variable unit cost of egress (0 for unknown ids).
func (m *NetworkModel) UnitCost(egress string) float64 { return m.unitCost[egress] }

// BaseCost returns the fixed cost of egress and whether one is defined.
func (m *NetworkModel) BaseCost(egress string) (float64, bool) {
	v, ok := m.baseCost[egress]

	return v, ok
}

// SunkCost returns the sum of all defined fixed costs. This is the constant
// the cost solver adds post-solve in sunk fixed-cost mode.
func (m *NetworkModel) SunkCost() float64 {
	var total float64
	for _, e := range m.egresses {
		total += m.baseCost[e] // absent keys read as 0
	}

	return total
}

// Latency returns the latency of egress in milliseconds (0 for unknown ids).
func (m *NetworkModel) Latency(egress string) float64 { return m.latency[egress] }

// LinkClass returns the commercial class of egress (transit for unknown ids).
func (m *NetworkModel) LinkClass(egress string) LinkClass { return m.class[egress] }

// Demand returns the demand (or data volume) of dest (0 for unknown ids).
func (m *NetworkModel) Demand(dest string) float64 { return m.demand[dest] }

// TotalDemand returns the summed demand over all destinations.
func (m *NetworkModel) TotalDemand() float64 { return m.totalDemand }

// TotalUplink returns the summed uplink capacity over all hosts.
func (m *NetworkModel) TotalUplink() float64 { return m.totalUplink }

// ReachableCapacity returns the summed capacity of egresses that reach dest.
// The infeasibility precheck of every solver compares this against demand.
func (m *NetworkModel) ReachableCapacity(dest string) float64 {
	var total float64
	for _, e := range m.egresses {
		if m.reach[e][dest] {
			total += m.capacity[e]
		}
	}

	return total
}

// Triples returns every admissible (host, path, egress, destination)
// combination in canonical host → path → destination order. The slice is a
// copy; the canonical order itself is fixed at construction.
//
// AI-Hints: index into this slice is the LP variable index used by lpopt;
// reorder nothing.
func (m *NetworkModel) Triples() []Triple {
	return append([]Triple(nil), m.triples...)
}

// TripleCount returns len(Triples()) without copying.
func (m *NetworkModel) TripleCount() int { return len(m.triples) }

// WithEgressLatencies derives a model whose latency map carries the given
// overrides (absolute values, not deltas); every other field is shared with
// the receiver. Overriding an undeclared egress or a non-finite/negative
// latency is rejected.
func (m *NetworkModel) WithEgressLatencies(overrides map[string]float64) (*NetworkModel, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	next := *m
	next.latency = make(map[string]float64, len(m.latency))
	for e, v := range m.latency {
		next.latency[e] = v
	}
	for e, v := range overrides {
		if _, ok := m.capacity[e]; !ok {
			return nil, fmt.Errorf("%w: latency override for egress %q", ErrDanglingReference, e)
		}
		if err := checkFinite("latency override", e, v); err != nil {
			return nil, err
		}
		next.latency[e] = v
	}

	return &next, nil
}

// WithDemandScale derives a model with every demand multiplied by factor
// (factor 1 is an identity copy). Used by traffic sweeps.
func (m *NetworkModel) WithDemandScale(factor float64) (*NetworkModel, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		return nil, fmt.Errorf("%w: %g", ErrBadScale, factor)
	}
	next := *m
	next.demand = make(map[string]float64, len(m.demand))
	next.totalDemand = 0
	for _, d := range m.dests {
		scaled := m.demand[d] * factor
		next.demand[d] = scaled
		next.totalDemand += scaled
	}

	return &next, nil
}

// Restrict derives a model whose per-host path lists keep only paths whose
// egress belongs to class. Hosts whose lists empty out keep an empty list;
// egress/destination declarations and attributes are unchanged, so reports
// still cover the excluded egresses (at zero traffic). Used for peering-only
// evaluation.
func (m *NetworkModel) Restrict(class LinkClass) (*NetworkModel, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	if class > ClassPeering {
		return nil, fmt.Errorf("%w: %d", ErrBadLinkClass, class)
	}
	next := *m
	next.pathsByHost = make(map[string][]string, len(m.pathsByHost))
	next.ownerByPath = make(map[string]string)
	next.egressByPath = make(map[string]string)
	var h, p string
	for _, h = range m.hosts {
		kept := make([]string, 0, len(m.pathsByHost[h]))
		for _, p = range m.pathsByHost[h] {
			e := m.egressByPath[p]
			if m.class[e] != class {
				continue
			}
			kept = append(kept, p)
			next.ownerByPath[p] = h
			next.egressByPath[p] = e
		}
		next.pathsByHost[h] = kept
	}
	next.triples = enumerateTriples(&next)

	return &next, nil
}
