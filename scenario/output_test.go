package scenario_test

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/netalloc/fairshare"
	"github.com/katalvlaran/netalloc/feasible"
	"github.com/katalvlaran/netalloc/feedback"
	"github.com/katalvlaran/netalloc/herd"
	"github.com/katalvlaran/netalloc/lpopt"
	"github.com/katalvlaran/netalloc/netmodel"
	"github.com/katalvlaran/netalloc/scenario"
	"github.com/katalvlaran/netalloc/utilization"
)

// renderSpec: one host, two egresses (e1 cap 100 cost 2, e2 cap 50 cost
// 5), one destination demanding 80.
func renderSpec() netmodel.ModelSpec {
	return netmodel.ModelSpec{
		Hosts:        []string{"h1"},
		Egresses:     []string{"e1", "e2"},
		Destinations: []string{"D1"},
		PathsByHost:  map[string][]string{"h1": {"p1", "p2"}},
		EgressByPath: map[string]string{"p1": "e1", "p2": "e2"},
		Reachability: map[string][]string{"e1": {"D1"}, "e2": {"D1"}},
		Uplinks:      map[string]float64{"h1": 100},
		Capacities:   map[string]float64{"e1": 100, "e2": 50},
		UnitCosts:    map[string]float64{"e1": 2, "e2": 5},
		Demands:      map[string]float64{"D1": 80},
		Latencies:    map[string]float64{"e1": 10, "e2": 30},
	}
}

func renderModel(t *testing.T) *netmodel.NetworkModel {
	t.Helper()
	m, err := netmodel.New(renderSpec())
	require.NoError(t, err)
	return m
}

// splitAlloc places 50 on e1 and 30 on e2.
func splitAlloc() *netmodel.Allocation {
	al := netmodel.NewAllocation()
	al.Add("h1", "p1", "D1", 50)
	al.Add("h1", "p2", "D1", 30)
	return al
}

// TestFromCost_OptimalDocument renders the cost block, the nested
// allocation and the utilization table.
func TestFromCost_OptimalDocument(t *testing.T) {
	m := renderModel(t)
	res := &lpopt.CostResult{
		Status:       lpopt.StatusOptimal,
		Objective:    250,
		VariableCost: 250,
		Alloc:        splitAlloc(),
	}

	doc, err := scenario.FromCost("demo", m, res)
	require.NoError(t, err)

	assert.Equal(t, "demo", doc.Scenario)
	assert.Equal(t, "optimal", doc.Status)
	require.NotNil(t, doc.Objective)
	assert.InDelta(t, 250.0, *doc.Objective, 1e-9)
	require.NotNil(t, doc.Cost)
	assert.InDelta(t, 250.0, doc.Cost.VariableCost, 1e-9)
	assert.InDelta(t, 0.0, doc.Cost.FixedCost, 1e-9)
	assert.InDelta(t, 250.0, doc.Cost.TotalCost, 1e-9)

	assert.InDelta(t, 50.0, doc.Allocation["h1"]["p1"]["D1"], 1e-9)
	assert.InDelta(t, 30.0, doc.Allocation["h1"]["p2"]["D1"], 1e-9)

	require.NotNil(t, doc.Performance)
	e2 := doc.Performance.EgressUtilization["e2"]
	assert.InDelta(t, 30.0, e2.Traffic, 1e-9)
	assert.InDelta(t, 50.0, e2.Capacity, 1e-9)
	assert.InDelta(t, 60.0, e2.UtilizationPercent, 1e-9)
}

// TestFromCost_InfeasibleStaysSmall: a non-optimal solve renders only
// status and detail.
func TestFromCost_InfeasibleStaysSmall(t *testing.T) {
	m := renderModel(t)
	res := &lpopt.CostResult{Status: lpopt.StatusInfeasible, Detail: "demand 300 exceeds capacity"}

	doc, err := scenario.FromCost("demo", m, res)
	require.NoError(t, err)

	assert.Equal(t, "infeasible", doc.Status)
	assert.Equal(t, "demand 300 exceeds capacity", doc.Detail)
	assert.Nil(t, doc.Objective)
	assert.Nil(t, doc.Cost)
	assert.Nil(t, doc.Allocation)
	assert.Nil(t, doc.Performance)
}

// TestFromCost_RoundsAtBoundary: document numbers carry six decimals.
func TestFromCost_RoundsAtBoundary(t *testing.T) {
	m := renderModel(t)
	al := netmodel.NewAllocation()
	al.Add("h1", "p1", "D1", 10.1234567)
	res := &lpopt.CostResult{Status: lpopt.StatusOptimal, Objective: 20.2469134, VariableCost: 20.2469134, Alloc: al}

	doc, err := scenario.FromCost("demo", m, res)
	require.NoError(t, err)
	assert.Equal(t, 10.123457, doc.Allocation["h1"]["p1"]["D1"])
	assert.Equal(t, 20.246913, doc.Cost.TotalCost)
}

// TestFromMakespan_InfinityBecomesNull: unfinishable transfers encode
// completion as JSON null instead of failing to marshal.
func TestFromMakespan_InfinityBecomesNull(t *testing.T) {
	m := renderModel(t)
	res := &lpopt.MakespanResult{
		Status:     lpopt.StatusOptimal,
		Z:          0,
		Completion: map[string]float64{"D1": math.Inf(1)},
		Makespan:   math.Inf(1),
		Alloc:      netmodel.NewAllocation(),
	}

	doc, err := scenario.FromMakespan("demo", m, res)
	require.NoError(t, err)
	require.NotNil(t, doc.Makespan)
	assert.Nil(t, doc.Makespan.MakespanSeconds)
	assert.Nil(t, doc.Makespan.CompletionTimes["D1"])

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	assert.Contains(t, buf.String(), `"makespan_seconds": null`)
}

// TestFromMakespan_FiniteTimes renders z and the per-destination seconds.
func TestFromMakespan_FiniteTimes(t *testing.T) {
	m := renderModel(t)
	res := &lpopt.MakespanResult{
		Status:     lpopt.StatusOptimal,
		Z:          0.02,
		Completion: map[string]float64{"D1": 50.0125},
		Makespan:   50.0125,
		Alloc:      splitAlloc(),
	}

	doc, err := scenario.FromMakespan("demo", m, res)
	require.NoError(t, err)
	assert.InDelta(t, 0.02, doc.Makespan.Z, 1e-9)
	require.NotNil(t, doc.Makespan.MakespanSeconds)
	assert.InDelta(t, 50.0125, *doc.Makespan.MakespanSeconds, 1e-9)
	require.NotNil(t, doc.Makespan.CompletionTimes["D1"])
	assert.InDelta(t, 50.0125, *doc.Makespan.CompletionTimes["D1"], 1e-9)
}

// TestFromHerd_SimulatorBlock renders mode, unsent split and realized
// cost under the "completed" status.
func TestFromHerd_SimulatorBlock(t *testing.T) {
	m := renderModel(t)
	res := &herd.Result{
		Mode:         herd.Spillover,
		Alloc:        splitAlloc(),
		Unsent:       20.0000004,
		UnsentByDest: map[string]float64{"D1": 20.0000004},
		RealizedCost: 160.123456789,
	}

	doc, err := scenario.FromHerd("demo", m, res)
	require.NoError(t, err)
	assert.Equal(t, scenario.StatusCompleted, doc.Status)
	require.NotNil(t, doc.Simulator)
	assert.Equal(t, "spillover", doc.Simulator.Mode)
	assert.Equal(t, 20.0, doc.Simulator.UnsentTotal)
	assert.Equal(t, 20.0, doc.Simulator.UnsentPerDestination["D1"])
	assert.Equal(t, 160.123457, doc.Simulator.RealizedCost)
}

// TestFromHerd_RejectsOversubscription: a result loading an egress past
// capacity aborts the rendering instead of emitting a bogus document.
func TestFromHerd_RejectsOversubscription(t *testing.T) {
	m := renderModel(t)
	al := netmodel.NewAllocation()
	al.Add("h1", "p2", "D1", 70) // e2 holds 50
	res := &herd.Result{Alloc: al}

	_, err := scenario.FromHerd("demo", m, res)
	require.ErrorIs(t, err, utilization.ErrOverCapacity)
}

// TestFromFairShare_NoMode: fair-share documents carry no mode string.
func TestFromFairShare_NoMode(t *testing.T) {
	m := renderModel(t)
	res := &fairshare.Result{Alloc: splitAlloc(), Unsent: 0, RealizedCost: 250}

	doc, err := scenario.FromFairShare("demo", m, res)
	require.NoError(t, err)
	assert.Empty(t, doc.Simulator.Mode)
	assert.InDelta(t, 250.0, doc.Simulator.RealizedCost, 1e-9)
	assert.Empty(t, doc.Simulator.UnsentPerDestination)
}

// TestFromFeedback_TrailAndStop renders the final round plus the
// per-round history and the stop reason.
func TestFromFeedback_TrailAndStop(t *testing.T) {
	spec := renderSpec()
	spec.Capacities = map[string]float64{"e1": 40, "e2": 100}
	m, err := netmodel.New(spec)
	require.NoError(t, err)

	// Spillover drains everything in round one: e1 fills to 100%, the
	// rest rides e2.
	res, err := feedback.Run(m, feedback.WithHerdOptions(herd.WithMode(herd.Spillover)))
	require.NoError(t, err)
	require.Equal(t, feedback.StopDrained, res.Stop)

	doc, err := scenario.FromFeedback("demo", res)
	require.NoError(t, err)
	assert.Equal(t, "drained", doc.StopReason)
	require.Len(t, doc.FeedbackRounds, 1)
	assert.Equal(t, 0, doc.FeedbackRounds[0].Round)
	assert.Equal(t, []string{"e1"}, doc.FeedbackRounds[0].Congested)
	assert.InDelta(t, 100.0, doc.FeedbackRounds[0].MaxUtilizationPercent, 1e-9)
	assert.InDelta(t, 0.0, doc.Simulator.UnsentTotal, 1e-9)
}

// TestAttachFeasibility adds the verdict block; nil verdicts are ignored.
func TestAttachFeasibility(t *testing.T) {
	doc := &scenario.OutputDoc{Status: "infeasible"}
	doc.AttachFeasibility(nil)
	assert.Nil(t, doc.Feasibility)

	doc.AttachFeasibility(&feasible.Verdict{
		MaxDeliverable: 120.4999999,
		TotalDemand:    150,
		Delivered:      map[string]float64{"D1": 120.4999999},
	})
	require.NotNil(t, doc.Feasibility)
	assert.Equal(t, 120.5, doc.Feasibility.MaxDeliverable)
	assert.InDelta(t, 150.0, doc.Feasibility.TotalDemand, 1e-9)
	assert.Equal(t, 120.5, doc.Feasibility.PerDestination["D1"])
}

// TestWrite_ProducesReadableJSON: the written file decodes back into the
// documented shape.
func TestWrite_ProducesReadableJSON(t *testing.T) {
	m := renderModel(t)
	hres, err := herd.Run(m, herd.WithMode(herd.Spillover))
	require.NoError(t, err)
	doc, err := scenario.FromHerd("demo", m, hres)
	require.NoError(t, err)
	doc.Operation = "herd"

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, doc.Write(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "completed", decoded["status"])
	assert.Equal(t, "herd", decoded["operation"])
	assert.Contains(t, decoded, "performance_analysis")
}

// TestBuilders_NilGuards: every builder rejects nil arguments.
func TestBuilders_NilGuards(t *testing.T) {
	m := renderModel(t)

	_, err := scenario.FromCost("x", nil, &lpopt.CostResult{})
	require.ErrorIs(t, err, scenario.ErrNilResult)
	_, err = scenario.FromHerd("x", m, nil)
	require.ErrorIs(t, err, scenario.ErrNilResult)
	_, err = scenario.FromFeedback("x", &feedback.Result{})
	require.ErrorIs(t, err, scenario.ErrNilResult)
}
