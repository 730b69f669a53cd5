// bnb.go - exact branch-and-bound over simplex relaxations for the
// activation fixed-cost mode.
//
// Rationale (succinct):
//  1. Gate indicators are the only integer variables; flows stay
//     continuous. Each node solves the LP relaxation with y ∈ [0,1] plus
//     the 0/1 fixings accumulated on the path from the root, appended as
//     single-variable equality rows.
//  2. Branching: most fractional indicator (index tiebreak); the nearer
//     integer is explored first so incumbents arrive early and pruning
//     bites sooner. Fully deterministic.
//  3. Pruning: a node is cut when its relaxation is infeasible or its
//     bound cannot improve the incumbent by more than eps.
//  4. Governance: a hard node cap bounds the worst-case 2^gates
//     enumeration; exceeding it returns ErrNodeBudget, never a silent
//     approximation. The context is checked on every node entry.
//
// The search canonicalizes to minimization internally; a maximizing solve
// negates bounds on the way in and the objective on the way out.

package lpopt

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/netalloc/netmodel"
)

// bnbEngine holds all search data and policies for one activation solve.
// A dedicated engine struct (instead of anonymous closures) keeps
// dependencies explicit and the recursion state predictable.
type bnbEngine struct {
	// Problem / policy
	p   *program
	dir Direction
	eps float64

	// Governance
	maxNodes int
	ctx      context.Context
	nodes    int

	// Fixing rows along the current root-to-node path, one per fixed
	// indicator. Pushed before descending, popped after.
	fixRows [][]float64
	fixVals []float64

	// Incumbent, in canonical minimization terms.
	bestObj  float64
	bestX    []float64
	foundAny bool

	// Root relaxation outcome when not optimal; terminal for the solve.
	rootStatus Status
}

// canon maps an objective value into canonical minimization terms.
func (e *bnbEngine) canon(obj float64) float64 {
	if e.dir == Maximize {
		return -obj
	}

	return obj
}

// mostFractional returns the gate whose relaxed indicator is farthest from
// an integer, or -1 when every indicator is within eps of {0,1}. Ties keep
// the lowest index.
func (e *bnbEngine) mostFractional(x []float64) int {
	var (
		best     = -1
		bestDist = e.eps
		j        int
	)
	for j = 0; j < e.p.nGate; j++ {
		v := x[e.p.nFlow+j]
		if d := math.Abs(v - math.Round(v)); d > bestDist {
			best, bestDist = j, d
		}
	}

	return best
}

// push appends the equality row y[gate] = v for the next descent.
func (e *bnbEngine) push(gate int, v float64) {
	row := e.p.row()
	row[e.p.nFlow+gate] = 1
	e.fixRows = append(e.fixRows, row)
	e.fixVals = append(e.fixVals, v)
}

// pop removes the most recent fixing row.
func (e *bnbEngine) pop() {
	e.fixRows = e.fixRows[:len(e.fixRows)-1]
	e.fixVals = e.fixVals[:len(e.fixVals)-1]
}

// dfs solves the relaxation under the current fixings, records or prunes,
// and branches on the most fractional indicator.
func (e *bnbEngine) dfs(depth int) error {
	if err := e.ctx.Err(); err != nil {
		return err
	}
	e.nodes++
	if e.nodes > e.maxNodes {
		return ErrNodeBudget
	}

	sol, err := runSimplex(e.p, e.dir, e.eps, e.fixRows, e.fixVals)
	if err != nil {
		return err
	}
	if sol.status != StatusOptimal {
		// A child region is contained in the root's, so unbounded can
		// only surface at depth 0; deeper nodes are infeasible prunes.
		if depth == 0 {
			e.rootStatus = sol.status
		}

		return nil
	}

	// Prune by bound: the relaxation is a valid bound on every
	// completion below this node.
	bound := e.canon(sol.obj)
	if e.foundAny && bound >= e.bestObj-e.eps {
		return nil
	}

	g := e.mostFractional(sol.x)
	if g < 0 {
		// Integral relaxation: new incumbent.
		e.bestObj = bound
		e.bestX = append(e.bestX[:0], sol.x...)
		e.foundAny = true

		return nil
	}

	// Branch, nearer integer first.
	var first float64
	if sol.x[e.p.nFlow+g] >= 0.5 {
		first = 1
	}
	var v float64
	for _, v = range [2]float64{first, 1 - first} {
		e.push(g, v)
		err = e.dfs(depth + 1)
		e.pop()
		if err != nil {
			return err
		}
	}

	return nil
}

// runBnb solves the gated program exactly. On an optimal outcome it
// returns the winning solution together with the activated egress IDs (in
// gate order, which is model declaration order) and their summed base
// cost.
func runBnb(m *netmodel.NetworkModel, p *program, o Options) (*solution, []string, float64, error) {
	e := &bnbEngine{
		p:          p,
		dir:        o.Direction,
		eps:        o.Epsilon,
		maxNodes:   o.MaxNodes,
		ctx:        o.Ctx,
		bestObj:    math.Inf(1),
		rootStatus: StatusOptimal,
	}
	if err := e.dfs(0); err != nil {
		return nil, nil, 0, err
	}
	if e.rootStatus != StatusOptimal {
		return &solution{status: e.rootStatus}, nil, 0, nil
	}
	if !e.foundAny {
		// A feasible root guarantees the all-ones leaf is feasible, so a
		// finished search always carries an incumbent.
		return nil, nil, 0, fmt.Errorf("%w: branch-and-bound finished without an incumbent", ErrSolverFailure)
	}

	var (
		active = make([]string, 0, p.nGate)
		fixed  float64
		j      int
		eg     string
	)
	for j, eg = range p.gated {
		if e.bestX[p.nFlow+j] > 0.5 {
			active = append(active, eg)
			base, _ := m.BaseCost(eg)
			fixed += base
		}
	}
	obj := e.bestObj
	if o.Direction == Maximize {
		obj = -obj
	}

	return &solution{status: StatusOptimal, obj: obj, x: e.bestX}, active, fixed, nil
}
