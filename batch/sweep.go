// SPDX-License-Identifier: MIT
//
// File: sweep.go
// Role: demand-scaling sweep: one strategy, a ladder of demand factors,
// repeated runs per factor, aggregated into distribution statistics.
//
// Rationale (succinct):
//  1. Scaled models are built up front so a bad factor fails fast and the
//     pool only ever sees valid models.
//  2. Runs that could not serve the demand are counted, not averaged:
//     mixing an infeasible run's zeros into a mean would fake headroom.
//  3. The deterministic flag is a cheap regression tripwire: the solvers
//     and simulators are deterministic, so any spread across repeated
//     runs means something upstream changed between calls.

package batch

import (
	"context"
	"io"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/netalloc/lpopt"
	"github.com/katalvlaran/netalloc/netmodel"
	"github.com/katalvlaran/netalloc/scenario"
)

// Stats is the usual five-number description of one measured quantity
// across the successful runs of a sweep point.
type Stats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func newStats(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	var (
		d = stats.Float64Data(xs)
		s Stats
	)
	s.Mean, _ = d.Mean()
	s.Median, _ = d.Median()
	s.StdDev, _ = d.StandardDeviation()
	s.Min, _ = d.Min()
	s.Max, _ = d.Max()

	return s
}

// SweepPoint aggregates the repeated runs at one demand factor. A nil
// statistic means no successful run produced that quantity, not that the
// quantity was zero.
type SweepPoint struct {
	Factor         float64 `json:"factor"`
	Runs           int     `json:"runs"`
	InfeasibleRuns int     `json:"infeasible_runs"`

	Cost           *Stats `json:"cost,omitempty"`
	Unsent         *Stats `json:"unsent,omitempty"`
	MaxUtilization *Stats `json:"max_utilization,omitempty"`
}

// SweepReport is the full ladder for one scenario and strategy.
type SweepReport struct {
	Scenario      string       `json:"scenario,omitempty"`
	Strategy      string       `json:"strategy"`
	RunsPerFactor int          `json:"runs_per_factor"`
	Deterministic bool         `json:"deterministic_runs"`
	Points        []SweepPoint `json:"points"`
}

// Encode writes the report to w as indented JSON.
func (r *SweepReport) Encode(w io.Writer) error {
	return encodeJSON(w, r)
}

// Write stores the report at path as indented JSON.
func (r *SweepReport) Write(path string) error {
	return writeJSON(path, r)
}

// Sweep scales the document's demand by every requested factor, runs the
// configured strategy o.Runs times per factor and reduces the outcomes
// to per-factor statistics. The flattened factor×run grid shares one
// bounded pool, so wide ladders and high repeat counts parallelize the
// same way.
func Sweep(ctx context.Context, name string, doc *scenario.InputDoc, opts ...Option) (*SweepReport, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	o := buildOptions(opts...)

	base, err := doc.Model()
	if o.Strategy.usesVolumes() {
		base, err = doc.VolumeModel()
	}
	if err != nil {
		return nil, err
	}

	scaled := make([]*netmodel.NetworkModel, len(o.Factors))
	for i, f := range o.Factors {
		if scaled[i], err = base.WithDemandScale(f); err != nil {
			return nil, errors.Wrapf(err, "batch: scaling %s by %g", name, f)
		}
	}

	var (
		nF   = len(o.Factors)
		nR   = o.Runs
		docs = make([]*scenario.OutputDoc, nF*nR)
	)
	errs := forEachBounded(ctx, nF*nR, o.Workers, func(i int) error {
		var eerr error
		docs[i], eerr = evaluate(ctx, name, scaled[i/nR], o.Strategy, o)
		return eerr
	})
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}

	rep := &SweepReport{
		Scenario:      name,
		Strategy:      o.Strategy.String(),
		RunsPerFactor: nR,
		Deterministic: true,
		Points:        make([]SweepPoint, nF),
	}
	for i, f := range o.Factors {
		pt := reducePoint(f, docs[i*nR:(i+1)*nR])
		rep.Points[i] = pt
		if !pointDeterministic(pt) {
			rep.Deterministic = false
		}
		logrus.WithFields(logrus.Fields{
			"scenario":   name,
			"factor":     f,
			"infeasible": pt.InfeasibleRuns,
		}).Info("sweep point reduced")
	}

	return rep, nil
}

// reducePoint folds the repeated runs at one factor into a SweepPoint.
func reducePoint(factor float64, docs []*scenario.OutputDoc) SweepPoint {
	pt := SweepPoint{Factor: factor, Runs: len(docs)}

	var costs, unsents, utils []float64
	for _, d := range docs {
		if failed(d) {
			pt.InfeasibleRuns++
			continue
		}
		if v, ok := docCost(d); ok {
			costs = append(costs, v)
		}
		if v, ok := docUnsent(d); ok {
			unsents = append(unsents, v)
		}
		if v, ok := docMaxUtil(d); ok {
			utils = append(utils, v)
		}
	}
	if len(costs) > 0 {
		s := newStats(costs)
		pt.Cost = &s
	}
	if len(unsents) > 0 {
		s := newStats(unsents)
		pt.Unsent = &s
	}
	if len(utils) > 0 {
		s := newStats(utils)
		pt.MaxUtilization = &s
	}

	return pt
}

// failed reports whether the run produced no usable allocation.
func failed(d *scenario.OutputDoc) bool {
	return d.Status != lpopt.StatusOptimal.String() && d.Status != scenario.StatusCompleted
}

// docCost extracts the comparable cost of a run: the optimized total for
// solver documents, the realized cost for simulator documents.
func docCost(d *scenario.OutputDoc) (float64, bool) {
	switch {
	case d.Cost != nil:
		return d.Cost.TotalCost, true
	case d.Simulator != nil:
		return d.Simulator.RealizedCost, true
	default:
		return 0, false
	}
}

// docUnsent extracts dropped traffic. Solver documents admit no drop at
// all: an optimal solve serves every bit by constraint.
func docUnsent(d *scenario.OutputDoc) (float64, bool) {
	switch {
	case d.Simulator != nil:
		return d.Simulator.UnsentTotal, true
	case d.Cost != nil:
		return 0, true
	default:
		return 0, false
	}
}

// docMaxUtil extracts the hottest egress of the run.
func docMaxUtil(d *scenario.OutputDoc) (float64, bool) {
	if d.Performance == nil {
		return 0, false
	}
	var best float64
	for _, u := range d.Performance.EgressUtilization {
		if u.UtilizationPercent > best {
			best = u.UtilizationPercent
		}
	}

	return best, true
}

// pointDeterministic holds when repeated runs agreed exactly: zero spread
// on every measured quantity and a feasibility verdict that is unanimous.
func pointDeterministic(pt SweepPoint) bool {
	if pt.InfeasibleRuns != 0 && pt.InfeasibleRuns != pt.Runs {
		return false
	}
	for _, s := range []*Stats{pt.Cost, pt.Unsent, pt.MaxUtilization} {
		if s != nil && s.StdDev != 0 {
			return false
		}
	}

	return true
}
