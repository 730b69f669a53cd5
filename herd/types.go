// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: modes, options and the result shape of a herd run.

package herd

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/netalloc/netmodel"
)

var (
	// ErrNilModel is returned when Run receives a nil model.
	ErrNilModel = errors.New("herd: model must not be nil")

	// ErrBadMode reports a Mode value outside the declared constants.
	ErrBadMode = errors.New("herd: unknown simulation mode")
)

// Mode selects how a host reacts to a saturated favorite path.
type Mode uint8

const (
	// NoSpillover gives a host one shot at its lowest-latency path;
	// leftover demand is dropped as unsent.
	NoSpillover Mode = iota

	// Spillover lets the host walk its remaining paths in ascending
	// latency order until demand is met or everything is saturated.
	Spillover
)

var modeNames = [...]string{"no-spillover", "spillover"}

// String returns the mode name used in logs and output documents.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode maps a mode name onto its Mode value. Returns ErrBadMode
// (wrapped with the input) for anything else.
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return NoSpillover, fmt.Errorf("%w: %q", ErrBadMode, s)
}

// DefaultEpsilon is the residual demand below which a spillover walk stops
// rather than chase numeric dust.
const DefaultEpsilon = 1e-6

// Options configures a Run.
type Options struct {
	// Mode selects NoSpillover (default) or Spillover.
	Mode Mode

	// Epsilon is the residual-demand cutoff for spillover walks.
	Epsilon float64

	// PeeringOnly restricts the herd to peering paths; transit paths are
	// invisible for the whole run.
	PeeringOnly bool
}

// Option mutates Options before a run.
type Option func(*Options)

// WithMode selects the simulation mode. Panics on an out-of-range value.
func WithMode(m Mode) Option {
	return func(o *Options) {
		if m > Spillover {
			panic(ErrBadMode.Error())
		}
		o.Mode = m
	}
}

// WithEpsilon overrides the residual-demand cutoff. Must be positive.
func WithEpsilon(eps float64) Option {
	return func(o *Options) {
		if eps <= 0 {
			panic("herd: epsilon must be positive")
		}
		o.Epsilon = eps
	}
}

// WithPeeringOnly hides every transit path from the run, modelling hosts
// that refuse paid transit and ride peering links or drop the traffic.
func WithPeeringOnly() Option {
	return func(o *Options) { o.PeeringOnly = true }
}

// DefaultOptions returns the baseline configuration: NoSpillover with
// DefaultEpsilon.
func DefaultOptions() Options {
	return Options{Mode: NoSpillover, Epsilon: DefaultEpsilon}
}

func buildOptions(opts ...Option) Options {
	var o = DefaultOptions()
	var fn Option
	for _, fn = range opts {
		fn(&o)
	}
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}
	return o
}

// Result is the outcome of one herd run.
type Result struct {
	// Mode echoes the mode the run used.
	Mode Mode

	// Alloc holds every placed flow.
	Alloc *netmodel.Allocation

	// Unsent is the demand that found no room, summed over all hosts and
	// destinations. Capacity exhaustion is an expected outcome here, not
	// an error.
	Unsent float64

	// UnsentByDest splits Unsent per destination. Destinations that were
	// fully served do not appear.
	UnsentByDest map[string]float64

	// RealizedCost prices Alloc at the model's unit costs. Latency
	// perturbations applied by a feedback round never touch unit costs,
	// so this is always the cost at base rates.
	RealizedCost float64
}
