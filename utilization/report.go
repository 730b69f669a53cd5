// SPDX-License-Identifier: MIT
//
// File: report.go
// Role: per-egress utilization accounting over a frozen allocation.

package utilization

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/netalloc/netmodel"
)

var (
	// ErrNilInput is returned when the model or the allocation is nil.
	ErrNilInput = errors.New("utilization: model and allocation must not be nil")

	// ErrOverCapacity is returned when an allocation loads an egress past
	// its declared capacity beyond tolerance. Producers guarantee they
	// never oversubscribe, so this is a broken invariant, not a report.
	ErrOverCapacity = errors.New("utilization: egress loaded past capacity")
)

// overTol is the slack, in percent points, granted before a load counts as
// oversubscription. It absorbs the 1e-9 rounding applied to solver flows.
const overTol = 1e-6

// EgressLoad is the load on a single egress.
type EgressLoad struct {
	Traffic  float64 // flow units currently routed through the egress
	Capacity float64 // declared capacity
	Percent  float64 // Traffic/Capacity in percent; 0 for zero capacity
}

// Report holds one EgressLoad per egress, ordered as declared by the model.
type Report struct {
	order []string
	loads map[string]EgressLoad
}

// Analyze sums al's flow per egress of m and returns the resulting report.
// Every egress appears, including idle ones. An egress loaded beyond its
// capacity (tolerance overTol, in percent points) yields ErrOverCapacity
// with the offending egress named.
func Analyze(m *netmodel.NetworkModel, al *netmodel.Allocation) (*Report, error) {
	if m == nil || al == nil {
		return nil, ErrNilInput
	}

	var (
		perEgress = al.PerEgress(m)
		r         = &Report{
			order: m.Egresses(),
			loads: make(map[string]EgressLoad, len(perEgress)),
		}
		e string
	)
	for _, e = range r.order {
		load := EgressLoad{
			Traffic:  perEgress[e],
			Capacity: m.Capacity(e),
		}
		switch {
		case load.Capacity > 0:
			load.Percent = load.Traffic / load.Capacity * 100
		case load.Traffic > 0:
			// Zero capacity cannot legally carry anything.
			return nil, fmt.Errorf("%w: %s has zero capacity but carries %g", ErrOverCapacity, e, load.Traffic)
		}
		if load.Percent > 100+overTol {
			return nil, fmt.Errorf("%w: %s at %.6f%%", ErrOverCapacity, e, load.Percent)
		}
		r.loads[e] = load
	}

	return r, nil
}

// Egresses returns the egress ids in model declaration order.
func (r *Report) Egresses() []string {
	return append([]string(nil), r.order...)
}

// Load returns the load of egress e and whether e is part of the report.
func (r *Report) Load(e string) (EgressLoad, bool) {
	l, ok := r.loads[e]
	return l, ok
}

// Congested returns, in declaration order, every egress whose utilization
// reaches threshold percent or more.
func (r *Report) Congested(threshold float64) []string {
	var (
		out []string
		e   string
	)
	for _, e = range r.order {
		if r.loads[e].Percent >= threshold {
			out = append(out, e)
		}
	}

	return out
}

// Worst returns the highest-loaded egress and its load. The second return
// is false for an empty report.
func (r *Report) Worst() (string, EgressLoad, bool) {
	var (
		bestID string
		best   EgressLoad
		found  bool
		e      string
	)
	for _, e = range r.order {
		if l := r.loads[e]; !found || l.Percent > best.Percent {
			bestID, best, found = e, l, true
		}
	}

	return bestID, best, found
}
