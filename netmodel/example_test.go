package netmodel_test

import (
	"fmt"

	"github.com/katalvlaran/netalloc/netmodel"
)

// ExampleNew builds a minimal two-egress model and inspects its canonical
// triple enumeration.
func ExampleNew() {
	m, err := netmodel.New(netmodel.ModelSpec{
		Hosts:        []string{"h1"},
		Egresses:     []string{"cheap", "fast"},
		Destinations: []string{"eu"},
		PathsByHost:  map[string][]string{"h1": {"p-cheap", "p-fast"}},
		EgressByPath: map[string]string{"p-cheap": "cheap", "p-fast": "fast"},
		Reachability: map[string][]string{"cheap": {"eu"}, "fast": {"eu"}},
		Uplinks:      map[string]float64{"h1": 10},
		Capacities:   map[string]float64{"cheap": 8, "fast": 8},
		UnitCosts:    map[string]float64{"cheap": 1, "fast": 4},
		Demands:      map[string]float64{"eu": 10},
		Latencies:    map[string]float64{"cheap": 40, "fast": 5},
	})
	if err != nil {
		fmt.Println("build failed:", err)
		return
	}
	for _, tr := range m.Triples() {
		fmt.Printf("%s %s %s %s\n", tr.Host, tr.Path, tr.Egress, tr.Dest)
	}
	// Output:
	// h1 p-cheap cheap eu
	// h1 p-fast fast eu
}

// ExampleAllocation_Validate shows the invariant re-check catching an
// over-capacity allocation produced by a (hypothetically) buggy component.
func ExampleAllocation_Validate() {
	m, _ := netmodel.New(netmodel.ModelSpec{
		Hosts:        []string{"h1"},
		Egresses:     []string{"e1"},
		Destinations: []string{"d1"},
		PathsByHost:  map[string][]string{"h1": {"p1"}},
		EgressByPath: map[string]string{"p1": "e1"},
		Reachability: map[string][]string{"e1": {"d1"}},
		Uplinks:      map[string]float64{"h1": 100},
		Capacities:   map[string]float64{"e1": 30},
		UnitCosts:    map[string]float64{"e1": 1},
		Demands:      map[string]float64{"d1": 100},
	})

	a := netmodel.NewAllocation()
	a.Add("h1", "p1", "d1", 31) // one unit over e1's capacity

	err := a.Validate(m, netmodel.DefaultEpsilon)
	fmt.Println(err)
	// Output:
	// netmodel: egress capacity exceeded: egress e1 carries 31 over capacity 30
}
