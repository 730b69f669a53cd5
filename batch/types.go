// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: strategy catalogue, options and sentinel errors of the batch layer.

package batch

import (
	"github.com/pkg/errors"

	"github.com/katalvlaran/netalloc/herd"
	"github.com/katalvlaran/netalloc/lpopt"
)

var (
	// ErrNilDocument is returned when a runner receives a nil scenario
	// document.
	ErrNilDocument = errors.New("batch: document must not be nil")

	// ErrUnknownStrategy is returned for strategy names or values outside
	// the catalogue.
	ErrUnknownStrategy = errors.New("batch: unknown strategy")
)

// Strategy identifies one evaluation recipe over a model.
type Strategy uint8

const (
	// CostMinimize is the least-cost allocation serving all demand.
	CostMinimize Strategy = iota

	// CostMaximize is the adversarial worst-cost allocation, the upper
	// bracket of the spend corridor.
	CostMaximize

	// LatencyMinimize optimizes traffic-weighted latency exposure.
	LatencyMinimize

	// ThroughputMaximize solves for the best uniform rate multiplier over
	// data volumes, the least-makespan schedule.
	ThroughputMaximize

	// ThroughputMinimize is the adversarial rate multiplier, pinning the
	// worst schedule the constraints admit.
	ThroughputMinimize

	// HerdNoSpillover simulates selfish hosts that commit to their
	// favorite path only.
	HerdNoSpillover

	// HerdSpillover simulates selfish hosts that walk their path list by
	// ascending latency.
	HerdSpillover

	// FairShare simulates the equal-split baseline.
	FairShare

	numStrategies // sentinel, keep last
)

// strategyNames is indexed by Strategy and doubles as the wire and CLI
// vocabulary.
var strategyNames = [...]string{
	"cost-minimize",
	"cost-maximize",
	"latency-minimize",
	"throughput-maximize",
	"throughput-minimize",
	"herd-no-spillover",
	"herd-spillover",
	"fair-share",
}

// String returns the strategy's wire name.
func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "unknown"
}

// ParseStrategy maps a wire name back to its Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return 0, errors.Wrap(ErrUnknownStrategy, name)
}

// AllStrategies returns the full catalogue in its fixed order.
func AllStrategies() []Strategy {
	out := make([]Strategy, numStrategies)
	for i := range out {
		out[i] = Strategy(i)
	}
	return out
}

// usesVolumes reports whether the strategy reads demands as data volumes
// rather than traffic rates.
func (s Strategy) usesVolumes() bool {
	return s == ThroughputMaximize || s == ThroughputMinimize
}

// Defaults applied by DefaultOptions.
const (
	// DefaultWorkers bounds concurrent evaluations; strategy runs are
	// independent, so a small pool keeps wall time flat without swamping
	// the solver with allocations.
	DefaultWorkers = 4

	// DefaultRuns is the sweep's per-factor repetition count.
	DefaultRuns = 3
)

// defaultFactors returns the demand scales a sweep walks when none are
// configured.
func defaultFactors() []float64 {
	return []float64{1, 2, 3, 4, 5}
}

// Options configures RunAll, Sweep and Evaluate.
type Options struct {
	// Workers bounds the evaluation pool.
	Workers int

	// Strategies is the RunAll set; nil means the full catalogue.
	Strategies []Strategy

	// Strategy is the single recipe a sweep repeats.
	Strategy Strategy

	// Factors are the demand scales a sweep walks.
	Factors []float64

	// Runs is the sweep's repetition count per factor.
	Runs int

	// SolverOpts are forwarded to every LP solve, e.g. the fixed-cost
	// mode. The strategy itself overrides the objective direction.
	SolverOpts []lpopt.Option

	// HerdOpts are forwarded to every herd run. The strategy itself
	// overrides the mode.
	HerdOpts []herd.Option
}

// Option mutates Options before a run.
type Option func(*Options)

// WithWorkers bounds the evaluation pool. Must be at least one.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("batch: at least one worker is required")
		}
		o.Workers = n
	}
}

// WithStrategies restricts RunAll to the given recipes. Panics on an
// empty set or an out-of-range value.
func WithStrategies(ss ...Strategy) Option {
	return func(o *Options) {
		if len(ss) == 0 {
			panic("batch: at least one strategy is required")
		}
		for _, s := range ss {
			if s >= numStrategies {
				panic(ErrUnknownStrategy.Error())
			}
		}
		o.Strategies = append([]Strategy(nil), ss...)
	}
}

// WithStrategy selects the sweep recipe. Panics on an out-of-range value.
func WithStrategy(s Strategy) Option {
	return func(o *Options) {
		if s >= numStrategies {
			panic(ErrUnknownStrategy.Error())
		}
		o.Strategy = s
	}
}

// WithFactors sets the demand scales a sweep walks. Panics on an empty
// list or a factor that is not strictly positive.
func WithFactors(fs ...float64) Option {
	return func(o *Options) {
		if len(fs) == 0 {
			panic("batch: at least one factor is required")
		}
		for _, f := range fs {
			if f <= 0 {
				panic("batch: factors must be positive")
			}
		}
		o.Factors = append([]float64(nil), fs...)
	}
}

// WithRuns sets the sweep repetition count. Must be at least one.
func WithRuns(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("batch: at least one run per factor is required")
		}
		o.Runs = n
	}
}

// WithSolverOptions forwards options to every LP solve.
func WithSolverOptions(opts ...lpopt.Option) Option {
	return func(o *Options) {
		o.SolverOpts = append(o.SolverOpts, opts...)
	}
}

// WithHerdOptions forwards options to every herd run.
func WithHerdOptions(opts ...herd.Option) Option {
	return func(o *Options) {
		o.HerdOpts = append(o.HerdOpts, opts...)
	}
}

// DefaultOptions returns the baseline configuration: the full catalogue on
// DefaultWorkers workers; sweeps repeat CostMinimize DefaultRuns times over
// factors one through five.
func DefaultOptions() Options {
	return Options{
		Workers:    DefaultWorkers,
		Strategies: AllStrategies(),
		Strategy:   CostMinimize,
		Factors:    defaultFactors(),
		Runs:       DefaultRuns,
	}
}

func buildOptions(opts ...Option) Options {
	var o = DefaultOptions()
	var fn Option
	for _, fn = range opts {
		fn(&o)
	}
	if o.Workers < 1 {
		o.Workers = DefaultWorkers
	}
	if len(o.Strategies) == 0 {
		o.Strategies = AllStrategies()
	}
	if len(o.Factors) == 0 {
		o.Factors = defaultFactors()
	}
	if o.Runs < 1 {
		o.Runs = DefaultRuns
	}
	return o
}
