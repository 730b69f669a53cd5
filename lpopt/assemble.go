// assemble.go - translation of a NetworkModel into general-form linear
// programs. One variable per admissible triple in the model's canonical
// order, then activation indicators, then the optional rate multiplier.

package lpopt

import (
	"fmt"

	"github.com/katalvlaran/netalloc/netmodel"
)

// varIndex groups the model's canonical triples by destination, host and
// egress. A triple's position in trips is its LP variable index; the
// grouped slices hold those indices in ascending order.
type varIndex struct {
	trips    []netmodel.Triple
	byDest   map[string][]int
	byHost   map[string][]int
	byEgress map[string][]int
}

// indexModel builds the variable index for m.
func indexModel(m *netmodel.NetworkModel) *varIndex {
	ix := &varIndex{
		trips:    m.Triples(),
		byDest:   make(map[string][]int),
		byHost:   make(map[string][]int),
		byEgress: make(map[string][]int),
	}
	var (
		i int
		t netmodel.Triple
	)
	for i, t = range ix.trips {
		ix.byDest[t.Dest] = append(ix.byDest[t.Dest], i)
		ix.byHost[t.Host] = append(ix.byHost[t.Host], i)
		ix.byEgress[t.Egress] = append(ix.byEgress[t.Egress], i)
	}

	return ix
}

// servedCapacity sums the capacity of egresses that serve dest through at
// least one admissible triple. Tighter than reachability alone: an egress
// that reaches dest but is on no host's path list cannot carry flow.
func (ix *varIndex) servedCapacity(m *netmodel.NetworkModel, dest string) float64 {
	var (
		seen  = make(map[string]bool)
		total float64
		i     int
	)
	for _, i = range ix.byDest[dest] {
		e := ix.trips[i].Egress
		if seen[e] {
			continue
		}
		seen[e] = true
		total += m.Capacity(e)
	}

	return total
}

// precheck rejects models whose demands provably exceed what any flow
// assignment can carry. Returns a diagnostic and false on rejection. Under
// relaxed demand the zero assignment is always feasible, so callers skip
// this check.
func precheck(m *netmodel.NetworkModel, ix *varIndex) (string, bool) {
	var d string
	for _, d = range m.Destinations() {
		dem := m.Demand(d)
		if dem <= 0 {
			continue
		}
		if cap := ix.servedCapacity(m, d); dem > cap {
			return fmt.Sprintf("destination %s demands %g but admissible egress capacity is %g", d, dem, cap), false
		}
	}
	if m.TotalDemand() > m.TotalUplink() {
		return fmt.Sprintf("total demand %g exceeds total uplink %g", m.TotalDemand(), m.TotalUplink()), false
	}

	return "", true
}

// program is a general-form linear program
//
//	c·x   subject to   G·x ≤ h,  A·x = b
//
// with non-negativity of every variable encoded as explicit rows of G (the
// standard-form conversion splits variables into positive and negative
// parts, so x ≥ 0 is not implicit). Flow variables come first, then gate
// indicators, then the rate multiplier when present. Whether c·x is
// minimized or maximized is decided at solve time.
type program struct {
	ix    *varIndex
	nFlow int
	nGate int
	hasZ  bool

	// gated holds egress IDs with a defined base cost in declaration
	// order; indicator j is variable nFlow+j.
	gated []string

	c []float64
	g [][]float64
	h []float64
	a [][]float64
	b []float64
}

// nVar returns the number of general-form variables.
func (p *program) nVar() int {
	n := p.nFlow + p.nGate
	if p.hasZ {
		n++
	}

	return n
}

// zCol returns the column of the rate multiplier.
func (p *program) zCol() int { return p.nFlow + p.nGate }

// row allocates a zero coefficient row.
func (p *program) row() []float64 { return make([]float64, p.nVar()) }

// addIneq appends a G·x ≤ h row.
func (p *program) addIneq(row []float64, rhs float64) {
	p.g = append(p.g, row)
	p.h = append(p.h, rhs)
}

// addEq appends an A·x = b row.
func (p *program) addEq(row []float64, rhs float64) {
	p.a = append(p.a, row)
	p.b = append(p.b, rhs)
}

// sumRow returns a row with coefficient 1 at each of the given variables.
func (p *program) sumRow(vars []int) []float64 {
	row := p.row()
	var i int
	for _, i = range vars {
		row[i] = 1
	}

	return row
}

// addDemandRows appends one row per destination with at least one
// admissible triple: Σ flow = demand, or ≤ demand when relaxed. A
// destination nothing serves contributes no row; a zero coefficient row
// would poison the simplex, and the precheck already rejected it if its
// demand was positive.
func (p *program) addDemandRows(m *netmodel.NetworkModel, relaxed bool) {
	var d string
	for _, d = range m.Destinations() {
		vars := p.ix.byDest[d]
		if len(vars) == 0 {
			continue
		}
		if relaxed {
			p.addIneq(p.sumRow(vars), m.Demand(d))
		} else {
			p.addEq(p.sumRow(vars), m.Demand(d))
		}
	}
}

// addCapacityRows appends per-host uplink rows and per-egress capacity
// rows, skipping aggregates with no admissible triple. A gated egress gets
// Σ flow − capacity·y ≤ 0 instead of the plain capacity row (its own
// capacity is the tightening bound) plus y ≤ 1.
func (p *program) addCapacityRows(m *netmodel.NetworkModel) {
	var (
		id  string
		j   int
		row []float64
	)
	for _, id = range m.Hosts() {
		if vars := p.ix.byHost[id]; len(vars) > 0 {
			p.addIneq(p.sumRow(vars), m.Uplink(id))
		}
	}
	gateOf := make(map[string]int, len(p.gated))
	for j, id = range p.gated {
		gateOf[id] = j
	}
	for _, id = range m.Egresses() {
		vars := p.ix.byEgress[id]
		if len(vars) == 0 {
			continue
		}
		row = p.sumRow(vars)
		if j, ok := gateOf[id]; ok {
			row[p.nFlow+j] = -m.Capacity(id)
			p.addIneq(row, 0)
		} else {
			p.addIneq(row, m.Capacity(id))
		}
	}
	for j = range p.gated {
		row = p.row()
		row[p.nFlow+j] = 1
		p.addIneq(row, 1)
	}
}

// addNonNegRows appends −x ≤ 0 for every variable. Always the last block.
func (p *program) addNonNegRows() {
	var i int
	for i = 0; i < p.nVar(); i++ {
		row := p.row()
		row[i] = -1
		p.addIneq(row, 0)
	}
}

// assembleFlowLP builds the cost/latency program. coeff maps an egress to
// the objective weight of every flow variable routed through it. gate
// enables activation indicators for egresses with a defined base cost,
// each charged its base cost in the objective.
func assembleFlowLP(m *netmodel.NetworkModel, ix *varIndex, coeff func(string) float64, gate, relaxed bool) *program {
	p := &program{ix: ix, nFlow: len(ix.trips)}
	if gate {
		var e string
		for _, e = range m.Egresses() {
			if _, ok := m.BaseCost(e); ok {
				p.gated = append(p.gated, e)
			}
		}
		p.nGate = len(p.gated)
	}
	p.c = make([]float64, p.nVar())
	var (
		i int
		t netmodel.Triple
	)
	for i, t = range ix.trips {
		p.c[i] = coeff(t.Egress)
	}
	var e string
	for i, e = range p.gated {
		base, _ := m.BaseCost(e)
		p.c[p.nFlow+i] = base
	}
	p.addDemandRows(m, relaxed)
	p.addCapacityRows(m)
	p.addNonNegRows()

	return p
}

// assembleMakespanLP builds the rate-multiplier program. The objective is
// the multiplier Z itself; each destination with positive volume v gets a
// rate row −Σ flow + v·Z ≤ 0, so aggregate rate ≥ v·Z. A destination no
// admissible triple serves still emits its row, pinning Z to zero exactly
// as an unservable transfer never finishes.
func assembleMakespanLP(m *netmodel.NetworkModel, ix *varIndex) *program {
	p := &program{ix: ix, nFlow: len(ix.trips), hasZ: true}
	p.c = make([]float64, p.nVar())
	p.c[p.zCol()] = 1
	var (
		d   string
		i   int
		row []float64
	)
	for _, d = range m.Destinations() {
		vol := m.Demand(d)
		if vol <= 0 {
			continue
		}
		row = p.row()
		for _, i = range ix.byDest[d] {
			row[i] = -1
		}
		row[p.zCol()] = vol
		p.addIneq(row, 0)
	}
	p.addCapacityRows(m)
	p.addNonNegRows()

	return p
}
