// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: options, stop reasons and the per-round record.

package feedback

import (
	"errors"

	"github.com/katalvlaran/netalloc/herd"
	"github.com/katalvlaran/netalloc/netmodel"
	"github.com/katalvlaran/netalloc/utilization"
)

// ErrNilModel is returned when Run receives a nil model.
var ErrNilModel = errors.New("feedback: model must not be nil")

// Default tuning values applied by DefaultOptions.
const (
	// DefaultThreshold is the utilization percentage at which an egress
	// counts as congested.
	DefaultThreshold = 95.0

	// DefaultPenalty is the latency added to a congested egress per unit
	// of utilization fraction; a fully loaded egress gains the whole
	// penalty.
	DefaultPenalty = 50.0

	// DefaultMaxRounds caps the loop.
	DefaultMaxRounds = 3
)

// StopReason says why the loop ended.
type StopReason uint8

const (
	// StopDrained: the last round placed everything; no unsent traffic
	// remains.
	StopDrained StopReason = iota

	// StopNoCongestion: traffic remains unsent but no egress reaches the
	// threshold, so another penalty round would change nothing.
	StopNoCongestion

	// StopMaxRounds: the round cap was reached with congestion still
	// present.
	StopMaxRounds
)

var stopNames = [...]string{"drained", "no-congestion", "max-rounds"}

func (r StopReason) String() string {
	if int(r) < len(stopNames) {
		return stopNames[r]
	}
	return "unknown"
}

// Options configures a Run.
type Options struct {
	// Threshold is the congestion cutoff in percent.
	Threshold float64

	// Penalty is the latency increment scale per utilization fraction.
	Penalty float64

	// MaxRounds caps the number of herd rounds.
	MaxRounds int

	// HerdOpts are forwarded to every round's herd.Run.
	HerdOpts []herd.Option
}

// Option mutates Options before a run.
type Option func(*Options)

// WithThreshold overrides the congestion cutoff. Must not be negative.
func WithThreshold(pct float64) Option {
	return func(o *Options) {
		if pct < 0 {
			panic("feedback: threshold must not be negative")
		}
		o.Threshold = pct
	}
}

// WithPenalty overrides the latency penalty scale. Must not be negative.
func WithPenalty(p float64) Option {
	return func(o *Options) {
		if p < 0 {
			panic("feedback: penalty must not be negative")
		}
		o.Penalty = p
	}
}

// WithMaxRounds overrides the round cap. Must be at least one.
func WithMaxRounds(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("feedback: at least one round is required")
		}
		o.MaxRounds = n
	}
}

// WithHerdOptions forwards options to every round's simulator, e.g. the
// spillover mode.
func WithHerdOptions(opts ...herd.Option) Option {
	return func(o *Options) {
		o.HerdOpts = append(o.HerdOpts, opts...)
	}
}

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		Penalty:   DefaultPenalty,
		MaxRounds: DefaultMaxRounds,
	}
}

func buildOptions(opts ...Option) Options {
	var o = DefaultOptions()
	var fn Option
	for _, fn = range opts {
		fn(&o)
	}
	if o.MaxRounds < 1 {
		o.MaxRounds = DefaultMaxRounds
	}
	return o
}

// Round records one herd pass and its analysis.
type Round struct {
	// Index counts from zero.
	Index int

	// Model is the model this round ran on; round zero holds the base
	// model, later rounds the derived ones.
	Model *netmodel.NetworkModel

	// Herd is the placement outcome.
	Herd *herd.Result

	// Report is the utilization analysis of Herd.Alloc.
	Report *utilization.Report

	// Congested lists the egresses at or above the threshold, in
	// declaration order.
	Congested []string
}

// Result is the full trace of a feedback run.
type Result struct {
	Rounds []Round
	Stop   StopReason
}

// Final returns the last executed round.
func (r *Result) Final() *Round {
	return &r.Rounds[len(r.Rounds)-1]
}
