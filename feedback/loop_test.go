package feedback_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/netalloc/feedback"
	"github.com/katalvlaran/netalloc/herd"
	"github.com/katalvlaran/netalloc/netmodel"
)

// contestedSpec is the canonical steering scenario: both hosts prefer the
// small 10ms egress, leaving half the demand unsent until the loop
// penalizes it.
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

func build(t *testing.T, spec netmodel.ModelSpec) *netmodel.NetworkModel {
	t.Helper()
	m, err := netmodel.New(spec)
	require.NoError(t, err)
	return m
}

// TestRun_ShiftsHerdOffCongestedEgress walks the full steering story: the
// saturated 10ms egress gets a 50ms penalty, the rerun drains everything
// through the next-lowest-latency egress.
func TestRun_ShiftsHerdOffCongestedEgress(t *testing.T) {
	m := build(t, contestedSpec())

	res, err := feedback.Run(m)
	require.NoError(t, err)
	require.Len(t, res.Rounds, 2)
	assert.Equal(t, feedback.StopDrained, res.Stop)
	assert.Equal(t, "drained", res.Stop.String())

	r0 := res.Rounds[0]
	assert.Equal(t, 0, r0.Index)
	assert.InDelta(t, 50.0, r0.Herd.Unsent, 1e-9)
	assert.Equal(t, []string{"e2"}, r0.Congested)

	r1 := res.Rounds[1]
	// Full utilization earns the whole penalty: 10 + 50*1.0.
	assert.InDelta(t, 60.0, r1.Model.Latency("e2"), 1e-9)
	assert.InDelta(t, 50.0, r1.Herd.Alloc.Flow("h1", "p13", "d1"), 1e-9)
	assert.InDelta(t, 50.0, r1.Herd.Alloc.Flow("h2", "p23", "d1"), 1e-9)
	assert.InDelta(t, 0.0, r1.Herd.Unsent, 1e-9)
	assert.Equal(t, 1, res.Final().Index)

	// The base model is untouched.
	assert.InDelta(t, 10.0, m.Latency("e2"), 1e-12)
}

// TestRun_PenaltyProportionalToUtilization: an 80%-loaded egress gains
// 80% of the penalty, compounding round over round until the cap.
func TestRun_PenaltyProportionalToUtilization(t *testing.T) {
	m := build(t, netmodel.ModelSpec{
		Hosts:        []string{"h1"},
		Egresses:     []string{"e1"},
		Destinations: []string{"d1", "d2"},
		PathsByHost:  map[string][]string{"h1": {"p1"}},
		EgressByPath: map[string]string{"p1": "e1"},
		Reachability: map[string][]string{"e1": {"d1"}}, // d2 unreachable
		Uplinks:      map[string]float64{"h1": 80},
		Capacities:   map[string]float64{"e1": 100},
		UnitCosts:    map[string]float64{"e1": 1},
		Demands:      map[string]float64{"d1": 80, "d2": 5},
		Latencies:    map[string]float64{"e1": 10},
	})

	res, err := feedback.Run(m, feedback.WithThreshold(75))
	require.NoError(t, err)
	require.Len(t, res.Rounds, feedback.DefaultMaxRounds)
	assert.Equal(t, feedback.StopMaxRounds, res.Stop)
	assert.Equal(t, "max-rounds", res.Stop.String())

	assert.InDelta(t, 10.0, res.Rounds[0].Model.Latency("e1"), 1e-9)
	assert.InDelta(t, 50.0, res.Rounds[1].Model.Latency("e1"), 1e-9) // +50*0.8
	assert.InDelta(t, 90.0, res.Rounds[2].Model.Latency("e1"), 1e-9) // again
}

// TestRun_StopsWhenNoCongestion: unsent traffic alone does not keep the
// loop alive; without a congested egress there is nothing to penalize.
func TestRun_StopsWhenNoCongestion(t *testing.T) {
	m := build(t, netmodel.ModelSpec{
		Hosts:        []string{"h1"},
		Egresses:     []string{"e1"},
		Destinations: []string{"d1", "d2"},
		PathsByHost:  map[string][]string{"h1": {"p1"}},
		EgressByPath: map[string]string{"p1": "e1"},
		Reachability: map[string][]string{"e1": {"d1"}},
		Uplinks:      map[string]float64{"h1": 100},
		Capacities:   map[string]float64{"e1": 200},
		UnitCosts:    map[string]float64{"e1": 1},
		Demands:      map[string]float64{"d1": 50, "d2": 20},
	})

	res, err := feedback.Run(m)
	require.NoError(t, err)
	require.Len(t, res.Rounds, 1)
	assert.Equal(t, feedback.StopNoCongestion, res.Stop)
	assert.InDelta(t, 20.0, res.Final().Herd.Unsent, 1e-9)
}

// TestRun_DrainedWinsOverCongestion: a saturated egress with nothing
// unsent is success, not a reason for another round.
func TestRun_DrainedWinsOverCongestion(t *testing.T) {
	m := build(t, netmodel.ModelSpec{
		Hosts:        []string{"h1"},
		Egresses:     []string{"e1"},
		Destinations: []string{"d1"},
		PathsByHost:  map[string][]string{"h1": {"p1"}},
		EgressByPath: map[string]string{"p1": "e1"},
		Reachability: map[string][]string{"e1": {"d1"}},
		Uplinks:      map[string]float64{"h1": 50},
		Capacities:   map[string]float64{"e1": 50},
		UnitCosts:    map[string]float64{"e1": 1},
		Demands:      map[string]float64{"d1": 50},
		Latencies:    map[string]float64{"e1": 10},
	})

	res, err := feedback.Run(m)
	require.NoError(t, err)
	require.Len(t, res.Rounds, 1)
	assert.Equal(t, feedback.StopDrained, res.Stop)
	assert.Equal(t, []string{"e1"}, res.Final().Congested, "recorded but not acted on")
}

// TestRun_RoundCapOfOne never derives a second model.
func TestRun_RoundCapOfOne(t *testing.T) {
	m := build(t, contestedSpec())

	res, err := feedback.Run(m, feedback.WithMaxRounds(1))
	require.NoError(t, err)
	require.Len(t, res.Rounds, 1)
	assert.Equal(t, feedback.StopMaxRounds, res.Stop)
}

// TestRun_ForwardsHerdOptions: spillover drains in round zero, so the loop
// never needs a penalty.
func TestRun_ForwardsHerdOptions(t *testing.T) {
	m := build(t, contestedSpec())

	res, err := feedback.Run(m, feedback.WithHerdOptions(herd.WithMode(herd.Spillover)))
	require.NoError(t, err)
	require.Len(t, res.Rounds, 1)
	assert.Equal(t, feedback.StopDrained, res.Stop)
	assert.Equal(t, herd.Spillover, res.Final().Herd.Mode)
}

// TestRun_InputGuards covers the nil model and option validation.
func TestRun_InputGuards(t *testing.T) {
	_, err := feedback.Run(nil)
	require.ErrorIs(t, err, feedback.ErrNilModel)

	m := build(t, contestedSpec())
	require.Panics(t, func() { _, _ = feedback.Run(m, feedback.WithThreshold(-1)) })
	require.Panics(t, func() { _, _ = feedback.Run(m, feedback.WithPenalty(-1)) })
	require.Panics(t, func() { _, _ = feedback.Run(m, feedback.WithMaxRounds(0)) })
}
