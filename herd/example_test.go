package herd_test

import (
	"fmt"

	"github.com/katalvlaran/netalloc/herd"
	"github.com/katalvlaran/netalloc/netmodel"
)

// ExampleRun contrasts the two modes on a contested egress: two hosts of
// uplink 50 both prefer a 10ms egress that only fits one of them.
func ExampleRun() {
	m, _ := netmodel.New(netmodel.ModelSpec{
		Hosts:        []string{"h1", "h2"},
		Egresses:     []string{"fast", "slow"},
		Destinations: []string{"d1"},
		PathsByHost: map[string][]string{
			"h1": {"h1-fast", "h1-slow"},
			"h2": {"h2-fast", "h2-slow"},
		},
		EgressByPath: map[string]string{
			"h1-fast": "fast", "h1-slow": "slow",
			"h2-fast": "fast", "h2-slow": "slow",
		},
		Reachability: map[string][]string{"fast": {"d1"}, "slow": {"d1"}},
		Uplinks:      map[string]float64{"h1": 50, "h2": 50},
		Capacities:   map[string]float64{"fast": 50, "slow": 100},
		UnitCosts:    map[string]float64{"fast": 2, "slow": 3},
		Demands:      map[string]float64{"d1": 100},
		Latencies:    map[string]float64{"fast": 10, "slow": 20},
	})

	greedy, _ := herd.Run(m)
	polite, _ := herd.Run(m, herd.WithMode(herd.Spillover))

	fmt.Printf("%s unsent: %.0f\n", greedy.Mode, greedy.Unsent)
	fmt.Printf("%s unsent: %.0f\n", polite.Mode, polite.Unsent)

	// Output:
	// no-spillover unsent: 50
	// spillover unsent: 0
}
