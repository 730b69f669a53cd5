// simplex.go - bridge from the general-form program to gonum's simplex.
// Everything numeric-backend specific (form conversion, variable
// splitting, error taxonomy, noise rounding) stays in this file.

package lpopt

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/katalvlaran/netalloc/netmodel"
)

// solution carries the outcome of one simplex run. x is nil unless status
// is StatusOptimal; obj is reported in the caller's direction.
type solution struct {
	status Status
	obj    float64
	x      []float64
}

// denseFromRows packs coefficient rows into a dense matrix.
func denseFromRows(rows [][]float64, cols int) *mat.Dense {
	d := mat.NewDense(len(rows), cols, nil)
	var i int
	for i = range rows {
		d.SetRow(i, rows[i])
	}

	return d
}

// runSimplex solves p in the given direction, with optional extra equality
// rows (branch-and-bound fixings appended after the base equalities).
//
// The general form is converted to standard form by lp.Convert, which
// splits each variable into a positive and a negative part and adds one
// slack per inequality; the original value of variable i is recovered as
// xStd[i] − xStd[n+i]. Infeasible and unbounded outcomes are statuses, any
// other backend error wraps ErrSolverFailure.
func runSimplex(p *program, dir Direction, eps float64, extraEq [][]float64, extraB []float64) (*solution, error) {
	n := p.nVar()
	c := make([]float64, n)
	copy(c, p.c)
	if dir == Maximize {
		floats.Scale(-1, c)
	}

	var (
		gArg, aArg mat.Matrix
		b          []float64
	)
	if len(p.g) > 0 {
		gArg = denseFromRows(p.g, n)
	}
	if len(p.a)+len(extraEq) > 0 {
		rows := make([][]float64, 0, len(p.a)+len(extraEq))
		rows = append(rows, p.a...)
		rows = append(rows, extraEq...)
		aArg = denseFromRows(rows, n)
		b = make([]float64, 0, len(p.b)+len(extraB))
		b = append(b, p.b...)
		b = append(b, extraB...)
	}

	cStd, aStd, bStd := lp.Convert(c, gArg, p.h, aArg, b)
	opt, xStd, err := lp.Simplex(cStd, aStd, bStd, eps, nil)
	switch {
	case err == nil:
	case errors.Is(err, lp.ErrInfeasible):
		return &solution{status: StatusInfeasible}, nil
	case errors.Is(err, lp.ErrUnbounded):
		return &solution{status: StatusUnbounded}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrSolverFailure, err)
	}

	x := make([]float64, n)
	var i int
	for i = range x {
		v := xStd[i] - xStd[n+i]
		if math.Abs(v) < eps {
			v = 0
		}
		x[i] = v
	}
	if dir == Maximize {
		opt = -opt
	}

	return &solution{status: StatusOptimal, obj: opt, x: x}, nil
}

// round1e9 rounds to 9 decimal places, absorbing float noise accumulated
// across simplex pivots before values are compared or reported.
func round1e9(x float64) float64 { return math.Round(x*1e9) / 1e9 }

// buildAllocation converts the flow block of a solution vector into an
// Allocation, dropping entries at or below eps and rounding the rest.
func buildAllocation(ix *varIndex, x []float64, eps float64) *netmodel.Allocation {
	al := netmodel.NewAllocation()
	var (
		i int
		t netmodel.Triple
	)
	for i, t = range ix.trips {
		if x[i] <= eps {
			continue
		}
		al.Add(t.Host, t.Path, t.Dest, round1e9(x[i]))
	}

	return al
}

// checkConservation confirms the allocation reconciles with every
// positive demand (strict mode only). A mismatch is a solver defect and is
// reported via ErrConservation rather than silently repaired.
func checkConservation(m *netmodel.NetworkModel, al *netmodel.Allocation) error {
	perDest := al.PerDestination()
	var d string
	for _, d = range m.Destinations() {
		dem := m.Demand(d)
		if diff := math.Abs(perDest[d] - dem); diff > conservationTol*math.Max(1, dem) {
			return fmt.Errorf("%w: destination %s got %g of %g", ErrConservation, d, perDest[d], dem)
		}
	}

	return nil
}

// conservationTol bounds acceptable drift between solved flow sums and the
// demands they must meet. Wider than Epsilon: flows are rounded and
// filtered individually before summing.
const conservationTol = 1e-6
