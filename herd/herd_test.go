package herd_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/netalloc/herd"
	"github.com/katalvlaran/netalloc/netmodel"
)

// HerdSuite exercises both herd modes on small contested topologies.
type HerdSuite struct {
	suite.Suite
}

// contestedSpec returns two hosts of uplink 50 each, three shared egresses
// e1 (cap 100, 30ms), e2 (cap 50, 10ms), e3 (cap 100, 20ms) and a single
// destination with an aggregate demand of 100.
func contestedSpec() netmodel.ModelSpec {
	return netmodel.ModelSpec{
		Hosts:        []string{"h1", "h2"},
		Egresses:     []string{"e1", "e2", "e3"},
		Destinations: []string{"d1"},
		PathsByHost: map[string][]string{
			"h1": {"p11", "p12", "p13"},
			"h2": {"p21", "p22", "p23"},
		},
		EgressByPath: map[string]string{
			"p11": "e1", "p12": "e2", "p13": "e3",
			"p21": "e1", "p22": "e2", "p23": "e3",
		},
		Reachability: map[string][]string{
			"e1": {"d1"}, "e2": {"d1"}, "e3": {"d1"},
		},
		Uplinks:    map[string]float64{"h1": 50, "h2": 50},
		Capacities: map[string]float64{"e1": 100, "e2": 50, "e3": 100},
		UnitCosts:  map[string]float64{"e1": 10, "e2": 2, "e3": 3},
		Demands:    map[string]float64{"d1": 100},
		Latencies:  map[string]float64{"e1": 30, "e2": 10, "e3": 20},
	}
}

func (s *HerdSuite) build(spec netmodel.ModelSpec) *netmodel.NetworkModel {
	m, err := netmodel.New(spec)
	require.NoError(s.T(), err)
	return m
}

// TestNoSpilloverSaturatesFavorite: both hosts pick the 10ms egress, the
// first host fills it and the second one drops its entire share.
func (s *HerdSuite) TestNoSpilloverSaturatesFavorite() {
	m := s.build(contestedSpec())

	res, err := herd.Run(m)
	require.NoError(s.T(), err)
	require.Equal(s.T(), herd.NoSpillover, res.Mode)
	require.Equal(s.T(), "no-spillover", res.Mode.String())

	require.InDelta(s.T(), 50.0, res.Alloc.Flow("h1", "p12", "d1"), 1e-9)
	require.InDelta(s.T(), 0.0, res.Alloc.Flow("h2", "p22", "d1"), 1e-9)
	require.InDelta(s.T(), 50.0, res.Alloc.Total(), 1e-9)
	require.InDelta(s.T(), 50.0, res.Unsent, 1e-9)
	require.InDelta(s.T(), 100.0, res.RealizedCost, 1e-9) // 50 at unit cost 2

	perEgress := res.Alloc.PerEgress(m)
	require.InDelta(s.T(), 50.0, perEgress["e2"], 1e-9) // the favorite, full
	require.InDelta(s.T(), 0.0, perEgress["e1"], 1e-9)
	require.InDelta(s.T(), 0.0, perEgress["e3"], 1e-9)
}

// TestSpilloverDrainsToNextBest: the second host falls through to the 20ms
// egress and nothing is dropped.
func (s *HerdSuite) TestSpilloverDrainsToNextBest() {
	m := s.build(contestedSpec())

	res, err := herd.Run(m, herd.WithMode(herd.Spillover))
	require.NoError(s.T(), err)
	require.Equal(s.T(), herd.Spillover, res.Mode)

	require.InDelta(s.T(), 50.0, res.Alloc.Flow("h1", "p12", "d1"), 1e-9)
	require.InDelta(s.T(), 50.0, res.Alloc.Flow("h2", "p23", "d1"), 1e-9)
	require.InDelta(s.T(), 0.0, res.Unsent, 1e-9)
	require.InDelta(s.T(), 250.0, res.RealizedCost, 1e-9) // 50*2 + 50*3
}

// TestDeclarationOrderWinsContention: reversing the host list flips who
// gets the contested capacity.
func (s *HerdSuite) TestDeclarationOrderWinsContention() {
	spec := contestedSpec()
	spec.Hosts = []string{"h2", "h1"}
	m := s.build(spec)

	res, err := herd.Run(m)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 50.0, res.Alloc.Flow("h2", "p22", "d1"), 1e-9)
	require.InDelta(s.T(), 0.0, res.Alloc.Flow("h1", "p12", "d1"), 1e-9)
}

// TestLatencyTieKeepsDeclarationOrder: equal latencies resolve to the
// earlier declared path in both modes.
func (s *HerdSuite) TestLatencyTieKeepsDeclarationOrder() {
	spec := contestedSpec()
	spec.Latencies = map[string]float64{"e1": 10, "e2": 10, "e3": 10}
	m := s.build(spec)

	for _, mode := range []herd.Mode{herd.NoSpillover, herd.Spillover} {
		res, err := herd.Run(m, herd.WithMode(mode))
		require.NoError(s.T(), err)
		// h1 lands on e1 via its first declared path either way.
		require.InDelta(s.T(), 50.0, res.Alloc.Flow("h1", "p11", "d1"), 1e-9)
	}
}

// TestDestinationsServedInDeclarationOrder: a host spends uplink on d1
// before d2 sees anything.
func (s *HerdSuite) TestDestinationsServedInDeclarationOrder() {
	m := s.build(netmodel.ModelSpec{
		Hosts:        []string{"h1"},
		Egresses:     []string{"e1"},
		Destinations: []string{"d1", "d2"},
		PathsByHost:  map[string][]string{"h1": {"p1"}},
		EgressByPath: map[string]string{"p1": "e1"},
		Reachability: map[string][]string{"e1": {"d1", "d2"}},
		Uplinks:      map[string]float64{"h1": 60},
		Capacities:   map[string]float64{"e1": 50},
		UnitCosts:    map[string]float64{"e1": 1},
		Demands:      map[string]float64{"d1": 40, "d2": 40},
		Latencies:    map[string]float64{"e1": 5},
	})

	res, err := herd.Run(m)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 40.0, res.Alloc.Flow("h1", "p1", "d1"), 1e-9)
	// d2 is left with min(40, 20 uplink, 10 capacity).
	require.InDelta(s.T(), 10.0, res.Alloc.Flow("h1", "p1", "d2"), 1e-9)
	require.InDelta(s.T(), 30.0, res.Unsent, 1e-9)
	require.NotContains(s.T(), res.UnsentByDest, "d1")
	require.InDelta(s.T(), 30.0, res.UnsentByDest["d2"], 1e-9)
}

// TestApportioningFollowsUplinkShares: demand splits 75/25 across unequal
// hosts before placement begins.
func (s *HerdSuite) TestApportioningFollowsUplinkShares() {
	spec := contestedSpec()
	spec.Uplinks = map[string]float64{"h1": 75, "h2": 25}
	m := s.build(spec)

	res, err := herd.Run(m, herd.WithMode(herd.Spillover))
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 50.0, res.Alloc.Flow("h1", "p12", "d1"), 1e-9) // e2 fills
	require.InDelta(s.T(), 25.0, res.Alloc.Flow("h1", "p13", "d1"), 1e-9) // overflow to e3
	require.InDelta(s.T(), 25.0, res.Alloc.Flow("h2", "p23", "d1"), 1e-9)
	require.InDelta(s.T(), 0.0, res.Unsent, 1e-9)
}

// TestSpilloverStopsBelowEpsilon: residual demand under the cutoff is
// written off instead of opening another path.
func (s *HerdSuite) TestSpilloverStopsBelowEpsilon() {
	m := s.build(netmodel.ModelSpec{
		Hosts:        []string{"h1"},
		Egresses:     []string{"e1", "e2"},
		Destinations: []string{"d1"},
		PathsByHost:  map[string][]string{"h1": {"p1", "p2"}},
		EgressByPath: map[string]string{"p1": "e1", "p2": "e2"},
		Reachability: map[string][]string{"e1": {"d1"}, "e2": {"d1"}},
		Uplinks:      map[string]float64{"h1": 100},
		Capacities:   map[string]float64{"e1": 50, "e2": 100},
		UnitCosts:    map[string]float64{"e1": 1, "e2": 1},
		Demands:      map[string]float64{"d1": 50.0000005},
		Latencies:    map[string]float64{"e1": 10, "e2": 20},
	})

	res, err := herd.Run(m, herd.WithMode(herd.Spillover))
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 0.0, res.Alloc.Flow("h1", "p2", "d1"), 1e-12)
	require.InDelta(s.T(), 5e-7, res.Unsent, 1e-10)
}

// TestUnreachableDemandIsUnsent: demand toward a destination no egress
// reaches is dropped wholesale.
func (s *HerdSuite) TestUnreachableDemandIsUnsent() {
	m := s.build(netmodel.ModelSpec{
		Hosts:        []string{"h1"},
		Egresses:     []string{"e1"},
		Destinations: []string{"d1", "d2"},
		PathsByHost:  map[string][]string{"h1": {"p1"}},
		EgressByPath: map[string]string{"p1": "e1"},
		Reachability: map[string][]string{"e1": {"d1"}},
		Uplinks:      map[string]float64{"h1": 100},
		Capacities:   map[string]float64{"e1": 100},
		UnitCosts:    map[string]float64{"e1": 1},
		Demands:      map[string]float64{"d1": 0, "d2": 20},
	})

	res, err := herd.Run(m)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 0, res.Alloc.Len())
	require.InDelta(s.T(), 20.0, res.Unsent, 1e-9)
}

// TestZeroUplinkLeavesAllUnsent: hosts without any uplink get a zero share
// each, so the whole demand lands in the unsent column without an error.
func (s *HerdSuite) TestZeroUplinkLeavesAllUnsent() {
	spec := contestedSpec()
	spec.Uplinks = map[string]float64{"h1": 0, "h2": 0}
	m := s.build(spec)

	res, err := herd.Run(m)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 0, res.Alloc.Len())
	require.InDelta(s.T(), 100.0, res.Unsent, 1e-9)
	require.InDelta(s.T(), 100.0, res.UnsentByDest["d1"], 1e-9)
	require.InDelta(s.T(), 0.0, res.RealizedCost, 1e-9)
}

// TestPeeringOnlyIgnoresTransit: with the restriction on, the cheap transit
// egresses disappear and the peering egress carries what it can.
func (s *HerdSuite) TestPeeringOnlyIgnoresTransit() {
	spec := contestedSpec()
	spec.LinkClasses = map[string]netmodel.LinkClass{
		"e1": netmodel.ClassTransit,
		"e2": netmodel.ClassPeering,
		"e3": netmodel.ClassTransit,
	}
	m := s.build(spec)

	res, err := herd.Run(m, herd.WithMode(herd.Spillover), herd.WithPeeringOnly())
	require.NoError(s.T(), err)
	// Only e2 (cap 50) is visible, so half the demand has nowhere to go.
	require.InDelta(s.T(), 50.0, res.Alloc.Total(), 1e-9)
	require.InDelta(s.T(), 50.0, res.Unsent, 1e-9)
	perEgress := res.Alloc.PerEgress(m)
	require.InDelta(s.T(), 0.0, perEgress["e1"], 1e-9)
	require.InDelta(s.T(), 0.0, perEgress["e3"], 1e-9)
}

// TestNilModel rejects a nil model.
func (s *HerdSuite) TestNilModel() {
	_, err := herd.Run(nil)
	require.ErrorIs(s.T(), err, herd.ErrNilModel)
}

// TestParseModeRoundTrip maps every mode name back to its constant and
// rejects anything outside the pair.
func (s *HerdSuite) TestParseModeRoundTrip() {
	for _, mode := range []herd.Mode{herd.NoSpillover, herd.Spillover} {
		parsed, err := herd.ParseMode(mode.String())
		require.NoError(s.T(), err)
		require.Equal(s.T(), mode, parsed)
	}

	_, err := herd.ParseMode("stampede")
	require.ErrorIs(s.T(), err, herd.ErrBadMode)
}

// TestOptionPanics rejects out-of-range option values at apply time.
func (s *HerdSuite) TestOptionPanics() {
	m := s.build(contestedSpec())

	require.PanicsWithValue(s.T(), herd.ErrBadMode.Error(), func() {
		_, _ = herd.Run(m, herd.WithMode(herd.Mode(7)))
	})
	require.Panics(s.T(), func() {
		_, _ = herd.Run(m, herd.WithEpsilon(-1))
	})
}

func TestHerdSuite(t *testing.T) {
	suite.Run(t, new(HerdSuite))
}
