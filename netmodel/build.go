// SPDX-License-Identifier: MIT
//
// File: build.go
// Role: ModelSpec → validated, frozen NetworkModel.
// Policy:
//   - Validation is exhaustive and deterministic: declaration order decides
//     which violation is reported first.
//   - After New returns, the model never changes; derivations copy.

package netmodel

import (
	"fmt"
	"math"
)

// ModelSpec is the raw material for a NetworkModel. Field shapes mirror the
// input document of the scenario package one-to-one; tests and examples may
// fill it directly.
//
// Required per declared identifier: Uplinks[host], Capacities[egress],
// UnitCosts[egress], Demands[destination]. Optional: BaseCosts (absent egress
// has no fixed cost), Latencies (absent egress has latency 0), LinkClasses
// (absent egress is transit), PathsByHost (host may own no paths),
// Reachability (egress may reach nothing).
type ModelSpec struct {
	Hosts        []string
	Egresses     []string
	Destinations []string

	PathsByHost  map[string][]string // host → ordered path ids
	EgressByPath map[string]string   // path → its single egress
	Reachability map[string][]string // egress → destinations it serves

	Uplinks     map[string]float64
	Capacities  map[string]float64
	UnitCosts   map[string]float64
	BaseCosts   map[string]float64
	Demands     map[string]float64
	Latencies   map[string]float64
	LinkClasses map[string]LinkClass
}

// NetworkModel is the immutable, validated network description.
// Construct with New; read through accessors; derive with WithEgressLatencies,
// WithDemandScale or Restrict. See the package documentation for the
// immutability and ordering contract.
type NetworkModel struct {
	hosts    []string
	egresses []string
	dests    []string

	pathsByHost  map[string][]string
	ownerByPath  map[string]string
	egressByPath map[string]string
	reach        map[string]map[string]bool

	uplink   map[string]float64
	capacity map[string]float64
	unitCost map[string]float64
	baseCost map[string]float64 // presence == "fixed cost defined"
	latency  map[string]float64
	class    map[string]LinkClass
	demand   map[string]float64

	totalUplink float64
	totalDemand float64

	triples []Triple
}

// New validates spec and freezes it into a NetworkModel.
//
// Validation stages (first violation wins, in this order):
//  1. Identifier uniqueness across hosts, egresses, destinations, paths.
//  2. Referential integrity: PathsByHost keys and EgressByPath values and
//     Reachability keys/values must name declared identifiers; every declared
//     path needs an egress mapping.
//  3. Attribute presence: uplink per host, capacity and unit cost per egress,
//     demand per destination.
//  4. Numeric hygiene: all attributes finite and non-negative.
//
// Complexity: O(H + E + D + P + R) time and space, with R the total size of
// the reachability relation; triple enumeration adds O(P·D) worst case.
//
// AI-Hints: New copies every slice and map out of spec, so callers may reuse
// or mutate the ModelSpec afterwards without affecting the model.
func New(spec ModelSpec) (*NetworkModel, error) {
	m := &NetworkModel{
		hosts:    append([]string(nil), spec.Hosts...),
		egresses: append([]string(nil), spec.Egresses...),
		dests:    append([]string(nil), spec.Destinations...),

		pathsByHost:  make(map[string][]string, len(spec.PathsByHost)),
		ownerByPath:  make(map[string]string),
		egressByPath: make(map[string]string, len(spec.EgressByPath)),
		reach:        make(map[string]map[string]bool, len(spec.Reachability)),

		uplink:   make(map[string]float64, len(spec.Hosts)),
		capacity: make(map[string]float64, len(spec.Egresses)),
		unitCost: make(map[string]float64, len(spec.Egresses)),
		baseCost: make(map[string]float64, len(spec.BaseCosts)),
		latency:  make(map[string]float64, len(spec.Egresses)),
		class:    make(map[string]LinkClass, len(spec.Egresses)),
		demand:   make(map[string]float64, len(spec.Destinations)),
	}

	// Stage 1: identifier uniqueness.
	hostSet, err := uniqueIDs("host", m.hosts)
	if err != nil {
		return nil, err
	}
	egressSet, err := uniqueIDs("egress", m.egresses)
	if err != nil {
		return nil, err
	}
	destSet, err := uniqueIDs("destination", m.dests)
	if err != nil {
		return nil, err
	}

	// Stage 2: referential integrity, in declaration order.
	var (
		h, p, e, d string
		ok         bool
	)
	for _, h = range m.hosts {
		paths := spec.PathsByHost[h]
		ordered := make([]string, 0, len(paths))
		for _, p = range paths {
			if _, ok = m.ownerByPath[p]; ok {
				return nil, fmt.Errorf("%w: path %q", ErrDuplicateID, p)
			}
			e, ok = spec.EgressByPath[p]
			if !ok {
				return nil, fmt.Errorf("%w: path %q has no egress mapping", ErrMissingAttribute, p)
			}
			if !egressSet[e] {
				return nil, fmt.Errorf("%w: path %q → egress %q", ErrDanglingReference, p, e)
			}
			m.ownerByPath[p] = h
			m.egressByPath[p] = e
			ordered = append(ordered, p)
		}
		m.pathsByHost[h] = ordered
	}
	for h = range spec.PathsByHost {
		if !hostSet[h] {
			return nil, fmt.Errorf("%w: paths declared for host %q", ErrDanglingReference, h)
		}
	}
	for p = range spec.EgressByPath {
		if _, ok = m.ownerByPath[p]; !ok {
			return nil, fmt.Errorf("%w: egress mapping for path %q", ErrDanglingReference, p)
		}
	}
	for _, e = range m.egresses {
		set := make(map[string]bool, len(spec.Reachability[e]))
		for _, d = range spec.Reachability[e] {
			if !destSet[d] {
				return nil, fmt.Errorf("%w: egress %q → destination %q", ErrDanglingReference, e, d)
			}
			set[d] = true
		}
		m.reach[e] = set
	}
	for e = range spec.Reachability {
		if !egressSet[e] {
			return nil, fmt.Errorf("%w: reachability declared for egress %q", ErrDanglingReference, e)
		}
	}

	// Stage 3 + 4: attribute presence and numeric hygiene.
	var v float64
	for _, h = range m.hosts {
		if v, ok = spec.Uplinks[h]; !ok {
			return nil, fmt.Errorf("%w: uplink for host %q", ErrMissingAttribute, h)
		}
		if err = checkFinite("uplink", h, v); err != nil {
			return nil, err
		}
		m.uplink[h] = v
		m.totalUplink += v
	}
	for _, e = range m.egresses {
		if v, ok = spec.Capacities[e]; !ok {
			return nil, fmt.Errorf("%w: capacity for egress %q", ErrMissingAttribute, e)
		}
		if err = checkFinite("capacity", e, v); err != nil {
			return nil, err
		}
		m.capacity[e] = v

		if v, ok = spec.UnitCosts[e]; !ok {
			return nil, fmt.Errorf("%w: unit cost for egress %q", ErrMissingAttribute, e)
		}
		if err = checkFinite("unit cost", e, v); err != nil {
			return nil, err
		}
		m.unitCost[e] = v

		if v, ok = spec.BaseCosts[e]; ok {
			if err = checkFinite("base cost", e, v); err != nil {
				return nil, err
			}
			m.baseCost[e] = v
		}
		if v, ok = spec.Latencies[e]; ok {
			if err = checkFinite("latency", e, v); err != nil {
				return nil, err
			}
			m.latency[e] = v
		} else {
			m.latency[e] = 0
		}
		m.class[e] = spec.LinkClasses[e] // zero value is ClassTransit
	}
	for e = range spec.BaseCosts {
		if !egressSet[e] {
			return nil, fmt.Errorf("%w: base cost for egress %q", ErrDanglingReference, e)
		}
	}
	for e = range spec.Latencies {
		if !egressSet[e] {
			return nil, fmt.Errorf("%w: latency for egress %q", ErrDanglingReference, e)
		}
	}
	for e, c := range spec.LinkClasses {
		if !egressSet[e] {
			return nil, fmt.Errorf("%w: link class for egress %q", ErrDanglingReference, e)
		}
		if c > ClassPeering {
			return nil, fmt.Errorf("%w: egress %q", ErrBadLinkClass, e)
		}
	}
	for _, d = range m.dests {
		if v, ok = spec.Demands[d]; !ok {
			return nil, fmt.Errorf("%w: demand for destination %q", ErrMissingAttribute, d)
		}
		if err = checkFinite("demand", d, v); err != nil {
			return nil, err
		}
		m.demand[d] = v
		m.totalDemand += v
	}

	m.triples = enumerateTriples(m)

	return m, nil
}

// uniqueIDs builds a membership set over ids, rejecting duplicates and empty
// strings. kind only decorates the error text.
func uniqueIDs(kind string, ids []string) (map[string]bool, error) {
	set := make(map[string]bool, len(ids))
	var id string
	for _, id = range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: empty %s identifier", ErrMissingAttribute, kind)
		}
		if set[id] {
			return nil, fmt.Errorf("%w: %s %q", ErrDuplicateID, kind, id)
		}
		set[id] = true
	}

	return set, nil
}

// checkFinite rejects NaN/±Inf and negative attribute values.
func checkFinite(attr, id string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s of %q", ErrNotFinite, attr, id)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s of %q is %g", ErrNegativeValue, attr, id, v)
	}

	return nil
}

// enumerateTriples walks hosts → paths → destinations in declaration order
// and records every combination the reachability relation admits. The
// resulting order is the canonical variable order for every LP downstream.
func enumerateTriples(m *NetworkModel) []Triple {
	var (
		out     []Triple
		h, p, d string
	)
	for _, h = range m.hosts {
		for _, p = range m.pathsByHost[h] {
			e := m.egressByPath[p]
			reach := m.reach[e]
			for _, d = range m.dests {
				if reach[d] {
					out = append(out, Triple{Host: h, Path: p, Egress: e, Dest: d})
				}
			}
		}
	}

	return out
}
