// SPDX-License-Identifier: MIT
//
// File: runall.go
// Role: single-strategy evaluation and the bounded-parallel catalogue run.
//
// Rationale (succinct):
//  1. Every (model, strategy) evaluation owns run-scoped state only, so
//     the pool needs no locking; results land in pre-sized slices indexed
//     by strategy position and assembly stays deterministic.
//  2. The strategy fixes the objective direction and the herd mode after
//     the forwarded options, so a caller cannot accidentally invert a
//     recipe.
//  3. Documents that could not serve everything carry the max-flow
//     verdict, which tells an operator whether more capacity or different
//     routing would have helped.

package batch

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/netalloc/fairshare"
	"github.com/katalvlaran/netalloc/feasible"
	"github.com/katalvlaran/netalloc/herd"
	"github.com/katalvlaran/netalloc/lpopt"
	"github.com/katalvlaran/netalloc/netmodel"
	"github.com/katalvlaran/netalloc/scenario"
)

// Summary bundles one scenario's evaluation under every requested
// strategy, keyed by strategy name.
type Summary struct {
	Scenario string                         `json:"scenario,omitempty"`
	Results  map[string]*scenario.OutputDoc `json:"results"`
}

// Evaluate runs one strategy on m and renders the outcome document.
func Evaluate(ctx context.Context, name string, m *netmodel.NetworkModel, s Strategy, opts ...Option) (*scenario.OutputDoc, error) {
	return evaluate(ctx, name, m, s, buildOptions(opts...))
}

func evaluate(ctx context.Context, name string, m *netmodel.NetworkModel, s Strategy, o Options) (*scenario.OutputDoc, error) {
	solver := append(append([]lpopt.Option{}, o.SolverOpts...), lpopt.WithContext(ctx))

	var (
		doc *scenario.OutputDoc
		err error
	)
	switch s {
	case CostMinimize, CostMaximize:
		dir := lpopt.Minimize
		if s == CostMaximize {
			dir = lpopt.Maximize
		}
		var res *lpopt.CostResult
		if res, err = lpopt.SolveCost(m, append(solver, lpopt.WithDirection(dir))...); err == nil {
			doc, err = scenario.FromCost(name, m, res)
		}
	case LatencyMinimize:
		var res *lpopt.CostResult
		if res, err = lpopt.SolveLatency(m, append(solver, lpopt.WithDirection(lpopt.Minimize))...); err == nil {
			doc, err = scenario.FromCost(name, m, res)
		}
	case ThroughputMaximize, ThroughputMinimize:
		dir := lpopt.Maximize
		if s == ThroughputMinimize {
			dir = lpopt.Minimize
		}
		var res *lpopt.MakespanResult
		if res, err = lpopt.SolveMakespan(m, append(solver, lpopt.WithDirection(dir))...); err == nil {
			doc, err = scenario.FromMakespan(name, m, res)
		}
	case HerdNoSpillover, HerdSpillover:
		mode := herd.NoSpillover
		if s == HerdSpillover {
			mode = herd.Spillover
		}
		var res *herd.Result
		if res, err = herd.Run(m, append(append([]herd.Option{}, o.HerdOpts...), herd.WithMode(mode))...); err == nil {
			doc, err = scenario.FromHerd(name, m, res)
		}
	case FairShare:
		var res *fairshare.Result
		if res, err = fairshare.Run(m); err == nil {
			doc, err = scenario.FromFairShare(name, m, res)
		}
	default:
		return nil, errors.Wrapf(ErrUnknownStrategy, "%d", s)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "batch: %s on %s", s, name)
	}
	doc.Operation = s.String()

	if needsVerdict(doc) {
		v, verr := feasible.Check(m)
		if verr != nil {
			return nil, errors.Wrapf(verr, "batch: feasibility probe for %s", name)
		}
		doc.AttachFeasibility(v)
	}

	logrus.WithFields(logrus.Fields{
		"scenario": name,
		"strategy": s.String(),
		"status":   doc.Status,
	}).Debug("strategy evaluated")

	return doc, nil
}

// needsVerdict: infeasible solves and simulators that dropped traffic get
// the deliverability probe attached.
func needsVerdict(doc *scenario.OutputDoc) bool {
	if doc.Status == lpopt.StatusInfeasible.String() {
		return true
	}
	return doc.Simulator != nil && doc.Simulator.UnsentTotal > 0
}

// RunAll evaluates every requested strategy on the document's models:
// rate strategies on the traffic model, throughput strategies on the
// volume model. Evaluations run on a bounded worker pool; the first
// failure wins and cancellation is observed before each evaluation
// starts.
func RunAll(ctx context.Context, name string, doc *scenario.InputDoc, opts ...Option) (*Summary, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	o := buildOptions(opts...)

	rate, err := doc.Model()
	if err != nil {
		return nil, err
	}
	vol, err := doc.VolumeModel()
	if err != nil {
		return nil, err
	}

	docs := make([]*scenario.OutputDoc, len(o.Strategies))
	errs := forEachBounded(ctx, len(o.Strategies), o.Workers, func(i int) error {
		var (
			s    = o.Strategies[i]
			m    = rate
			eerr error
		)
		if s.usesVolumes() {
			m = vol
		}
		docs[i], eerr = evaluate(ctx, name, m, s, o)
		return eerr
	})

	sum := &Summary{Scenario: name, Results: make(map[string]*scenario.OutputDoc, len(o.Strategies))}
	for i, s := range o.Strategies {
		if errs[i] != nil {
			return nil, errs[i]
		}
		sum.Results[s.String()] = docs[i]
	}

	logrus.WithFields(logrus.Fields{
		"scenario":   name,
		"strategies": len(sum.Results),
	}).Info("catalogue evaluated")

	return sum, nil
}

// forEachBounded runs task(i) for every i in [0, n) on at most workers
// goroutines. A canceled context is recorded as that task's error; tasks
// already running are not interrupted beyond what they observe themselves.
func forEachBounded(ctx context.Context, n, workers int, task func(i int) error) []error {
	var (
		errs = make([]error, n)
		sem  = make(chan struct{}, workers)
		wg   sync.WaitGroup
		i    int
	)
	for i = 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			errs[i] = task(i)
		}(i)
	}
	wg.Wait()

	return errs
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(v), "batch: encoding report")
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "batch: creating report file")
	}
	if err = encodeJSON(f, v); err != nil {
		f.Close()
		return err
	}

	return errors.Wrap(f.Close(), "batch: closing report file")
}

// Encode writes the summary to w as indented JSON.
func (s *Summary) Encode(w io.Writer) error {
	return encodeJSON(w, s)
}

// Write stores the summary at path as indented JSON.
func (s *Summary) Write(path string) error {
	return writeJSON(path, s)
}
