package utilization_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/netalloc/netmodel"
	"github.com/katalvlaran/netalloc/utilization"
)

func testModel(t *testing.T) *netmodel.NetworkModel {
	t.Helper()
	m, err := netmodel.New(netmodel.ModelSpec{
		Hosts:        []string{"h1"},
		Egresses:     []string{"e1", "e2", "e3"},
		Destinations: []string{"d1"},
		PathsByHost:  map[string][]string{"h1": {"p1", "p2", "p3"}},
		EgressByPath: map[string]string{"p1": "e1", "p2": "e2", "p3": "e3"},
		Reachability: map[string][]string{
			"e1": {"d1"}, "e2": {"d1"}, "e3": {"d1"},
		},
		Uplinks:    map[string]float64{"h1": 100},
		Capacities: map[string]float64{"e1": 100, "e2": 50, "e3": 100},
		UnitCosts:  map[string]float64{"e1": 10, "e2": 2, "e3": 3},
		Demands:    map[string]float64{"d1": 100},
	})
	require.NoError(t, err)
	return m
}

// TestAnalyze_Basic checks traffic sums, percentages and declaration order,
// with a saturated egress reporting exactly 100%.
func TestAnalyze_Basic(t *testing.T) {
	m := testModel(t)
	al := netmodel.NewAllocation()
	al.Add("h1", "p2", "d1", 50) // e2 full
	al.Add("h1", "p3", "d1", 25) // e3 quarter

	r, err := utilization.Analyze(m, al)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2", "e3"}, r.Egresses())

	l, ok := r.Load("e1")
	require.True(t, ok)
	assert.Equal(t, utilization.EgressLoad{Traffic: 0, Capacity: 100, Percent: 0}, l)

	l, _ = r.Load("e2")
	assert.Equal(t, 50.0, l.Traffic)
	assert.Equal(t, 100.0, l.Percent)

	l, _ = r.Load("e3")
	assert.Equal(t, 25.0, l.Percent)

	_, ok = r.Load("nope")
	assert.False(t, ok)
}

// TestAnalyze_ZeroCapacity covers the 0/0 convention: an idle zero-capacity
// egress reports 0%, a loaded one is an invariant violation.
func TestAnalyze_ZeroCapacity(t *testing.T) {
	m, err := netmodel.New(netmodel.ModelSpec{
		Hosts:        []string{"h1"},
		Egresses:     []string{"e1"},
		Destinations: []string{"d1"},
		PathsByHost:  map[string][]string{"h1": {"p1"}},
		EgressByPath: map[string]string{"p1": "e1"},
		Reachability: map[string][]string{"e1": {"d1"}},
		Uplinks:      map[string]float64{"h1": 10},
		Capacities:   map[string]float64{"e1": 0},
		UnitCosts:    map[string]float64{"e1": 1},
		Demands:      map[string]float64{"d1": 0},
	})
	require.NoError(t, err)

	r, err := utilization.Analyze(m, netmodel.NewAllocation())
	require.NoError(t, err)
	l, _ := r.Load("e1")
	assert.Equal(t, 0.0, l.Percent)

	al := netmodel.NewAllocation()
	al.Add("h1", "p1", "d1", 1)
	_, err = utilization.Analyze(m, al)
	require.ErrorIs(t, err, utilization.ErrOverCapacity)
}

// TestAnalyze_OverCapacity verifies oversubscription is refused and names
// the egress.
func TestAnalyze_OverCapacity(t *testing.T) {
	m := testModel(t)
	al := netmodel.NewAllocation()
	al.Add("h1", "p2", "d1", 60) // e2 holds 50

	_, err := utilization.Analyze(m, al)
	require.ErrorIs(t, err, utilization.ErrOverCapacity)
	assert.Contains(t, err.Error(), "e2")
}

// TestAnalyze_NilInputs rejects nil model or allocation.
func TestAnalyze_NilInputs(t *testing.T) {
	m := testModel(t)
	_, err := utilization.Analyze(nil, netmodel.NewAllocation())
	require.ErrorIs(t, err, utilization.ErrNilInput)
	_, err = utilization.Analyze(m, nil)
	require.ErrorIs(t, err, utilization.ErrNilInput)
}

// TestCongested checks threshold filtering keeps declaration order.
func TestCongested(t *testing.T) {
	m := testModel(t)
	al := netmodel.NewAllocation()
	al.Add("h1", "p2", "d1", 50)
	al.Add("h1", "p3", "d1", 25)

	r, err := utilization.Analyze(m, al)
	require.NoError(t, err)

	assert.Equal(t, []string{"e2"}, r.Congested(95))
	assert.Equal(t, []string{"e2", "e3"}, r.Congested(25))
	assert.Empty(t, r.Congested(101))
}

// TestWorst returns the hottest egress.
func TestWorst(t *testing.T) {
	m := testModel(t)
	al := netmodel.NewAllocation()
	al.Add("h1", "p2", "d1", 40) // e2 at 80%
	al.Add("h1", "p1", "d1", 30) // e1 at 30%

	r, err := utilization.Analyze(m, al)
	require.NoError(t, err)

	id, load, ok := r.Worst()
	require.True(t, ok)
	assert.Equal(t, "e2", id)
	assert.Equal(t, 80.0, load.Percent)
}
