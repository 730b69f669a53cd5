// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Sentinel errors, enums and small value types shared across netmodel.
// Policy:
//   - Sentinels only; no fmt.Errorf at call sites except to wrap a sentinel
//     with the offending identifier (errors.Is must keep matching).
//   - No algorithmic logic here.

package netmodel

import (
	"errors"
	"fmt"
)

// DefaultEpsilon is the numeric tolerance used by invariant checks
// (capacity ceilings, non-negativity) unless a caller supplies its own.
const DefaultEpsilon = 1e-9

// Sentinel errors returned by model construction and allocation validation.
var (
	// ErrDuplicateID indicates that a host, egress, destination or path
	// identifier was declared more than once.
	ErrDuplicateID = errors.New("netmodel: duplicate identifier")

	// ErrDanglingReference indicates a reference to an identifier that was
	// never declared (path mapped to an unknown egress, reachability naming
	// an unknown destination, paths listed under an unknown host, ...).
	ErrDanglingReference = errors.New("netmodel: reference to undeclared identifier")

	// ErrMissingAttribute indicates that a required numeric attribute is
	// absent: every host needs an uplink, every egress a capacity and a unit
	// cost, every destination a demand.
	ErrMissingAttribute = errors.New("netmodel: required attribute missing")

	// ErrNegativeValue indicates a negative capacity, demand, cost or latency
	// in the model specification.
	ErrNegativeValue = errors.New("netmodel: negative attribute value")

	// ErrNotFinite indicates a NaN or infinite attribute value in the model
	// specification.
	ErrNotFinite = errors.New("netmodel: attribute value is not finite")

	// ErrBadLinkClass indicates an unknown link class name (valid: "transit",
	// "peering").
	ErrBadLinkClass = errors.New("netmodel: unknown link class")

	// ErrBadScale indicates a demand scale factor that is negative, NaN or
	// infinite.
	ErrBadScale = errors.New("netmodel: demand scale factor must be finite and non-negative")

	// ErrNilModel indicates that a nil *NetworkModel was passed where a model
	// is required.
	ErrNilModel = errors.New("netmodel: model is nil")

	// ErrNilAllocation indicates that a nil *Allocation was passed where an
	// allocation is required.
	ErrNilAllocation = errors.New("netmodel: allocation is nil")

	// ErrNegativeFlow indicates an allocation entry with a negative amount.
	// Always a producer defect, never valid input.
	ErrNegativeFlow = errors.New("netmodel: negative flow amount")

	// ErrInvalidTriple indicates flow assigned to a (host, path, destination)
	// combination the model does not admit (unknown ids, foreign path, or a
	// destination the path's egress cannot reach).
	ErrInvalidTriple = errors.New("netmodel: flow on invalid (host, path, destination) triple")

	// ErrUplinkExceeded indicates that a host's total allocated flow exceeds
	// its uplink capacity beyond tolerance.
	ErrUplinkExceeded = errors.New("netmodel: host uplink exceeded")

	// ErrCapacityExceeded indicates that an egress's total allocated flow
	// exceeds its capacity beyond tolerance.
	ErrCapacityExceeded = errors.New("netmodel: egress capacity exceeded")
)

// LinkClass classifies an egress interface by its commercial relation.
// The zero value is ClassTransit, matching documents that omit the field.
type LinkClass uint8

const (
	// ClassTransit marks a paid transit egress (the default).
	ClassTransit LinkClass = iota

	// ClassPeering marks a settlement-free peering egress.
	ClassPeering
)

// linkClassNames is the canonical wire spelling of each LinkClass.
var linkClassNames = [...]string{
	ClassTransit: "transit",
	ClassPeering: "peering",
}

// String returns the canonical name of the class ("transit", "peering").
func (c LinkClass) String() string {
	if int(c) < len(linkClassNames) {
		return linkClassNames[c]
	}

	return fmt.Sprintf("linkclass(%d)", uint8(c))
}

// ParseLinkClass maps a wire spelling onto a LinkClass.
// Returns ErrBadLinkClass (wrapped with the input) for anything else.
func ParseLinkClass(s string) (LinkClass, error) {
	switch s {
	case "transit":
		return ClassTransit, nil
	case "peering":
		return ClassPeering, nil
	default:
		return ClassTransit, fmt.Errorf("%w: %q", ErrBadLinkClass, s)
	}
}

// Triple is one admissible flow variable: a host pushing traffic over one of
// its paths (and therefore over that path's egress) toward a destination the
// egress reaches.
type Triple struct {
	Host   string
	Path   string
	Egress string
	Dest   string
}

// FlowKey addresses one Allocation entry. Egress is omitted on purpose: it is
// implied by Path and restored through the model when aggregating.
type FlowKey struct {
	Host string
	Path string
	Dest string
}
