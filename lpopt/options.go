// options.go - functional options shared by SolveCost, SolveLatency and
// SolveMakespan.

package lpopt

import "context"

// Default tuning values applied by DefaultOptions.
const (
	// DefaultEpsilon is the numeric tolerance used for the simplex
	// backend, flow cleanup and branch-and-bound pruning.
	DefaultEpsilon = 1e-9

	// DefaultMaxNodes bounds the branch-and-bound tree under
	// FixedActivation. One indicator per gated egress gives a worst case
	// of 2^gates nodes; 4096 covers 11 gated egresses exhaustively.
	DefaultMaxNodes = 4096
)

// Options configures a solve.
//
// Direction     – objective sense (Minimize default).
// FixedMode     – base-cost handling for SolveCost (FixedNone default).
// RelaxedDemand – demand rows become ≤ instead of =; under-delivery is
// then admissible and a minimizing cost solve will legitimately send
// nothing.
// Epsilon       – numeric tolerance (> 0).
// MaxNodes      – branch-and-bound node budget (> 0).
// Ctx           – cancellation point between branch-and-bound nodes.
type Options struct {
	Direction     Direction
	FixedMode     FixedCostMode
	RelaxedDemand bool
	Epsilon       float64
	MaxNodes      int
	Ctx           context.Context
}

// Option mutates Options before a solve.
type Option func(*Options)

// WithDirection sets the objective sense. Panics on an out-of-range value.
func WithDirection(d Direction) Option {
	return func(o *Options) {
		if d > Maximize {
			panic(ErrBadDirection.Error())
		}
		o.Direction = d
	}
}

// WithFixedCostMode sets how base costs enter SolveCost. Panics on an
// out-of-range value. SolveLatency and SolveMakespan ignore it.
func WithFixedCostMode(m FixedCostMode) Option {
	return func(o *Options) {
		if m > FixedActivation {
			panic(ErrBadFixedMode.Error())
		}
		o.FixedMode = m
	}
}

// WithRelaxedDemand turns the per-destination demand equalities into ≤
// constraints. Useful for probing partial deliverability; note that a
// minimizing cost objective then prefers sending nothing.
func WithRelaxedDemand() Option {
	return func(o *Options) {
		o.RelaxedDemand = true
	}
}

// WithEpsilon overrides the numeric tolerance. Must be positive.
func WithEpsilon(eps float64) Option {
	return func(o *Options) {
		if eps <= 0 {
			panic("lpopt: epsilon must be positive")
		}
		o.Epsilon = eps
	}
}

// WithMaxNodes overrides the branch-and-bound node budget. Must be
// positive.
func WithMaxNodes(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			panic("lpopt: node budget must be positive")
		}
		o.MaxNodes = n
	}
}

// WithContext attaches a context checked between branch-and-bound nodes.
// Plain LP solves complete in one simplex call and are not interruptible.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Ctx = ctx
	}
}

// DefaultOptions returns the baseline configuration: minimize, no fixed
// costs, strict demand equalities, DefaultEpsilon, DefaultMaxNodes,
// context.Background.
func DefaultOptions() Options {
	return Options{
		Direction: Minimize,
		FixedMode: FixedNone,
		Epsilon:   DefaultEpsilon,
		MaxNodes:  DefaultMaxNodes,
		Ctx:       context.Background(),
	}
}

// buildOptions applies opts over DefaultOptions and backfills zero fields.
func buildOptions(opts ...Option) Options {
	var o = DefaultOptions()
	var fn Option
	for _, fn = range opts {
		fn(&o)
	}
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	return o
}
