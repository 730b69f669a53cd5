// SPDX-License-Identifier: MIT
//
// types.go - statuses, objective directions, fixed-cost modes, sentinel
// errors and result shapes shared by every lpopt solver.

package lpopt

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/netalloc/netmodel"
)

// Sentinel errors. Programming mistakes (nil model, malformed options) and
// solver-level failures are kept distinct so callers can branch with
// errors.Is; infeasible and unbounded outcomes are NOT errors, they are
// statuses on the result.
var (
	// ErrNilModel is returned when the model argument is nil.
	ErrNilModel = errors.New("lpopt: model must not be nil")

	// ErrBadDirection is returned when a Direction is out of range.
	ErrBadDirection = errors.New("lpopt: unknown objective direction")

	// ErrBadFixedMode is returned when a FixedCostMode is out of range.
	ErrBadFixedMode = errors.New("lpopt: unknown fixed-cost mode")

	// ErrSolverFailure is returned when the simplex backend fails for a
	// reason other than infeasibility or unboundedness (singular basis,
	// numeric breakdown). It wraps the backend error.
	ErrSolverFailure = errors.New("lpopt: simplex backend failed")

	// ErrConservation is returned when a solved allocation does not
	// reconcile with the demands it was solved for. This indicates a
	// defect in the solver, not in the input; it is never silently
	// repaired.
	ErrConservation = errors.New("lpopt: allocation does not reconcile with demand")

	// ErrNodeBudget is returned when branch-and-bound exhausts its node
	// budget before proving optimality. Raise WithMaxNodes.
	ErrNodeBudget = errors.New("lpopt: branch-and-bound node budget exhausted")
)

// Status classifies a solve outcome.
type Status uint8

const (
	// StatusOptimal means an optimal solution was found and the result
	// carries an allocation.
	StatusOptimal Status = iota

	// StatusInfeasible means no flow assignment satisfies the
	// constraints. The result's Detail names the binding shortfall when
	// the precheck identified one.
	StatusInfeasible

	// StatusUnbounded means the objective can be improved without limit.
	StatusUnbounded
)

// statusNames is indexed by Status.
var statusNames = [...]string{"optimal", "infeasible", "unbounded"}

// String returns the wire name of the status ("optimal", "infeasible",
// "unbounded").
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Direction selects the sense of the objective.
type Direction uint8

const (
	// Minimize seeks the least objective value. Zero value.
	Minimize Direction = iota

	// Maximize seeks the greatest objective value.
	Maximize
)

// directionNames is indexed by Direction.
var directionNames = [...]string{"minimize", "maximize"}

// String returns "minimize" or "maximize".
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}

// FixedCostMode selects how per-egress base costs enter a cost solve.
type FixedCostMode uint8

const (
	// FixedNone ignores base costs entirely. Zero value.
	FixedNone FixedCostMode = iota

	// FixedSunk treats every defined base cost as unconditionally paid:
	// the optimizer sees only variable costs and the sum of base costs is
	// added to the reported total afterwards.
	FixedSunk

	// FixedActivation charges a base cost only when its egress carries
	// flow, via a binary indicator that also forces flow through an
	// unused egress to zero. Solved exactly by branch-and-bound.
	FixedActivation
)

// fixedModeNames is indexed by FixedCostMode.
var fixedModeNames = [...]string{"none", "sunk", "activation"}

// String returns "none", "sunk" or "activation".
func (m FixedCostMode) String() string {
	if int(m) < len(fixedModeNames) {
		return fixedModeNames[m]
	}
	return "unknown"
}

// ParseFixedCostMode maps a mode name onto its FixedCostMode value.
// Returns ErrBadFixedMode (wrapped with the input) for anything else.
func ParseFixedCostMode(s string) (FixedCostMode, error) {
	for i, n := range fixedModeNames {
		if n == s {
			return FixedCostMode(i), nil
		}
	}
	return FixedNone, fmt.Errorf("%w: %q", ErrBadFixedMode, s)
}

// CostResult is the outcome of SolveCost and SolveLatency.
//
// Alloc is nil unless Status is StatusOptimal. Objective, VariableCost and
// FixedCost are rounded to 1e-9 to absorb simplex noise; Objective equals
// VariableCost + FixedCost for cost solves and the latency-weighted sum for
// latency solves.
type CostResult struct {
	Status    Status
	Detail    string // human-readable cause for non-optimal statuses
	Objective float64
	// VariableCost is Σ flow × unit cost of the allocation.
	VariableCost float64
	// FixedCost is the base-cost contribution selected by the
	// FixedCostMode: 0 for FixedNone, the full sunk sum for FixedSunk,
	// the activated sum for FixedActivation.
	FixedCost float64
	// ActiveEgresses lists, in model declaration order, the gated
	// egresses whose indicator ended at 1. Nil outside FixedActivation.
	ActiveEgresses []string
	Alloc          *netmodel.Allocation
}

// MakespanResult is the outcome of SolveMakespan.
//
// Z is the optimal rate multiplier: every destination with volume v
// receives aggregate rate ≥ v×Z, so its transfer takes 1/Z seconds. Z at or
// below the solver epsilon means nothing transfers and completion times are
// +Inf.
type MakespanResult struct {
	Status Status
	Detail string
	Z      float64
	// Completion maps each destination to latency-adjusted completion
	// seconds: traffic-weighted mean egress latency (converted from
	// milliseconds) plus the transfer duration 1/Z. +Inf when Z is
	// effectively zero.
	Completion map[string]float64
	// Makespan is the largest Completion over destinations with positive
	// volume, 0 when there are none, +Inf when Z is effectively zero.
	Makespan float64
	Alloc    *netmodel.Allocation
}
