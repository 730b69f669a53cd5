// SPDX-License-Identifier: MIT
//
// File: loop.go
// Role: the sequential round loop and its two pure building blocks.

package feedback

import (
	"fmt"

	"github.com/katalvlaran/netalloc/herd"
	"github.com/katalvlaran/netalloc/netmodel"
	"github.com/katalvlaran/netalloc/utilization"
)

// stopEps is the unsent-traffic level treated as fully drained; it absorbs
// apportioning dust well below any real demand.
const stopEps = 1e-9

// Run executes up to MaxRounds herd rounds on m, deriving a
// latency-penalized model between rounds. The base model is never mutated.
//
// Stop conditions, checked in order after every round: unsent traffic at
// zero (StopDrained), no egress at or above the threshold
// (StopNoCongestion), round cap reached (StopMaxRounds).
func Run(m *netmodel.NetworkModel, opts ...Option) (*Result, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o := buildOptions(opts...)

	var (
		res = &Result{Rounds: make([]Round, 0, o.MaxRounds)}
		cur = m
		i   int
	)
	for i = 0; i < o.MaxRounds; i++ {
		rd, err := step(cur, i, o)
		if err != nil {
			return nil, fmt.Errorf("feedback: round %d: %w", i, err)
		}
		res.Rounds = append(res.Rounds, rd)

		if rd.Herd.Unsent <= stopEps {
			res.Stop = StopDrained
			return res, nil
		}
		if len(rd.Congested) == 0 {
			res.Stop = StopNoCongestion
			return res, nil
		}
		if i == o.MaxRounds-1 {
			break
		}

		cur, err = adjust(cur, rd.Report, rd.Congested, o.Penalty)
		if err != nil {
			return nil, fmt.Errorf("feedback: deriving round %d model: %w", i+1, err)
		}
	}
	res.Stop = StopMaxRounds

	return res, nil
}

// step runs one herd pass on m and analyzes it. Pure: all state lives in
// the returned Round.
func step(m *netmodel.NetworkModel, index int, o Options) (Round, error) {
	hr, err := herd.Run(m, o.HerdOpts...)
	if err != nil {
		return Round{}, err
	}
	rep, err := utilization.Analyze(m, hr.Alloc)
	if err != nil {
		return Round{}, err
	}

	return Round{
		Index:     index,
		Model:     m,
		Herd:      hr,
		Report:    rep,
		Congested: rep.Congested(o.Threshold),
	}, nil
}

// adjust derives the next round's model: every congested egress gains
// penalty scaled by its utilization fraction on top of its current
// latency. Pure: m is read, never written.
func adjust(m *netmodel.NetworkModel, rep *utilization.Report, congested []string, penalty float64) (*netmodel.NetworkModel, error) {
	overrides := make(map[string]float64, len(congested))
	var e string
	for _, e = range congested {
		load, _ := rep.Load(e)
		overrides[e] = m.Latency(e) + penalty*load.Percent/100
	}

	return m.WithEgressLatencies(overrides)
}
