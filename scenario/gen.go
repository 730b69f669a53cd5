// SPDX-License-Identifier: MIT
//
// File: gen.go
// Role: seeded synthetic scenario generation.
//
// Rationale (succinct):
//  1. One seed, one document: every draw comes from a single PCG source,
//     so regenerating with the same GenSpec reproduces the file bit for
//     bit.
//  2. Transit links are far and expensive, peering links close and cheap;
//     the draw ranges mirror measured topologies.
//  3. Demand is stated as a percentage of aggregate egress capacity, which
//     keeps scenarios comparable across topology sizes.

package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/netalloc/netmodel"
)

// ErrBadGenSpec marks a generator parameter outside its legal range.
var ErrBadGenSpec = errors.New("scenario: generator parameter out of range")

// Generator defaults, applied by NewGenSpec.
const (
	DefaultGenHosts        = 3
	DefaultGenEgresses     = 4
	DefaultGenDestinations = 4
	DefaultGenSeed         = 1
	DefaultGenTransitRatio = 0.5
	DefaultGenPeeringShare = 0.5
	DefaultGenTrafficPct   = 30.0
)

// Draw ranges and fixed values. Uplinks are uniform 100G ports; transit
// base costs match a 100G commit, peering base costs a port fee.
const (
	genUplink         = 100.0
	genCapacityMin    = 100.0
	genCapacityMax    = 400.0
	genTransitLatMin  = 50.0
	genTransitLatMax  = 100.0
	genTransitCostMin = 8.0
	genTransitCostMax = 15.0
	genPeeringLatMin  = 5.0
	genPeeringLatMax  = 20.0
	genPeeringCostMin = 1.0
	genPeeringCostMax = 5.0
	genTransitBase    = 10000.0
	genPeeringBase    = 500.0
)

// GenSpec parameterizes Generate. Start from NewGenSpec and override; the
// zero value is rejected, not defaulted, because zero is a meaningful
// setting for the ratios.
type GenSpec struct {
	// Hosts, Egresses and Destinations are the topology sizes. All three
	// must be at least one.
	Hosts        int
	Egresses     int
	Destinations int

	// Seed drives every random draw.
	Seed uint64

	// TransitRatio is the share of destinations reachable only over
	// transit, and simultaneously the share of total traffic pointed at
	// them. In [0, 1].
	TransitRatio float64

	// PeeringShare is the share of egresses classed as peering. In [0, 1].
	PeeringShare float64

	// TrafficPercent sizes the aggregate demand as a percentage of the
	// total egress capacity. Must be positive.
	TrafficPercent float64

	// BaseCosts adds per-egress base costs to the document, enabling
	// fixed-cost solves on the generated scenario.
	BaseCosts bool
}

// NewGenSpec returns the generator defaults: a small mixed topology whose
// demand fills thirty percent of the egress capacity.
func NewGenSpec() GenSpec {
	return GenSpec{
		Hosts:          DefaultGenHosts,
		Egresses:       DefaultGenEgresses,
		Destinations:   DefaultGenDestinations,
		Seed:           DefaultGenSeed,
		TransitRatio:   DefaultGenTransitRatio,
		PeeringShare:   DefaultGenPeeringShare,
		TrafficPercent: DefaultGenTrafficPct,
	}
}

func (g GenSpec) validate() error {
	switch {
	case g.Hosts < 1 || g.Egresses < 1 || g.Destinations < 1:
		return errors.Wrapf(ErrBadGenSpec, "counts %d/%d/%d must be at least one",
			g.Hosts, g.Egresses, g.Destinations)
	case g.TransitRatio < 0 || g.TransitRatio > 1:
		return errors.Wrapf(ErrBadGenSpec, "transit ratio %.3f outside [0,1]", g.TransitRatio)
	case g.PeeringShare < 0 || g.PeeringShare > 1:
		return errors.Wrapf(ErrBadGenSpec, "peering share %.3f outside [0,1]", g.PeeringShare)
	case g.TrafficPercent <= 0:
		return errors.Wrapf(ErrBadGenSpec, "traffic percent %.3f must be positive", g.TrafficPercent)
	}

	return nil
}

// Generate builds a synthetic scenario document from g. Hosts are h1..hN
// with every path p_<host>_<egress> in the mesh; transit egresses reach
// every destination, peering egresses only the universal ones. The
// document is validated against the model builder before it is returned,
// so a generated file always loads.
//
// A GenSpec can deliberately describe an unservable scenario, e.g. transit
// ratio 1 with peering share 1; that is the caller's experiment to run,
// not an error here.
func Generate(g GenSpec) (*InputDoc, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	var (
		src = rand.NewSource(g.Seed)

		capDraw         = distuv.Uniform{Min: genCapacityMin, Max: genCapacityMax, Src: src}
		transitLatDraw  = distuv.Uniform{Min: genTransitLatMin, Max: genTransitLatMax, Src: src}
		transitCostDraw = distuv.Uniform{Min: genTransitCostMin, Max: genTransitCostMax, Src: src}
		peeringLatDraw  = distuv.Uniform{Min: genPeeringLatMin, Max: genPeeringLatMax, Src: src}
		peeringCostDraw = distuv.Uniform{Min: genPeeringCostMin, Max: genPeeringCostMax, Src: src}

		nPeering = int(math.Round(float64(g.Egresses) * g.PeeringShare))
		nTransit = g.Egresses - nPeering

		d = &InputDoc{
			PathsPerEndhost:  make(map[string][]string, g.Hosts),
			PathToEgress:     make(map[string]string, g.Hosts*g.Egresses),
			Reachability:     make(map[string][]string, g.Egresses),
			EndhostUplinks:   make(map[string]float64, g.Hosts),
			EgressCapacities: make(map[string]float64, g.Egresses),
			EgressCosts:      make(map[string]float64, g.Egresses),
			EgressLatencies:  make(map[string]float64, g.Egresses),
			EgressTypes:      make(map[string]string, g.Egresses),
			TrafficPerDest:   make(map[string]float64, g.Destinations),
		}
	)
	if g.BaseCosts {
		d.EgressBaseCosts = make(map[string]float64, g.Egresses)
	}

	// Destinations: the transit-only block first, then the universal one.
	nTransitOnly := int(math.Round(float64(g.Destinations) * g.TransitRatio))
	var transitOnly, universal []string
	for i := 1; i <= nTransitOnly; i++ {
		transitOnly = append(transitOnly, fmt.Sprintf("D_Transit_Only_%d", i))
	}
	for i := 1; i <= g.Destinations-nTransitOnly; i++ {
		universal = append(universal, fmt.Sprintf("D_Universal_%d", i))
	}
	d.Destinations = append(append([]string{}, transitOnly...), universal...)

	// Egresses: the transit block first, then the peering one; capacity,
	// latency and cost drawn per egress in declaration order.
	var totalCap float64
	for i := 1; i <= g.Egresses; i++ {
		e := fmt.Sprintf("e%d", i)
		d.EgressInterfaces = append(d.EgressInterfaces, e)

		capGbps := math.Round(capDraw.Rand())
		d.EgressCapacities[e] = capGbps
		totalCap += capGbps

		if i <= nTransit {
			d.EgressTypes[e] = netmodel.ClassTransit.String()
			d.EgressLatencies[e] = transitLatDraw.Rand()
			d.EgressCosts[e] = transitCostDraw.Rand()
			d.Reachability[e] = append([]string{}, d.Destinations...)
			if g.BaseCosts {
				d.EgressBaseCosts[e] = genTransitBase
			}
			continue
		}
		d.EgressTypes[e] = netmodel.ClassPeering.String()
		d.EgressLatencies[e] = peeringLatDraw.Rand()
		d.EgressCosts[e] = peeringCostDraw.Rand()
		d.Reachability[e] = append([]string{}, universal...)
		if g.BaseCosts {
			d.EgressBaseCosts[e] = genPeeringBase
		}
	}

	// Hosts and the full path mesh.
	for i := 1; i <= g.Hosts; i++ {
		h := fmt.Sprintf("h%d", i)
		d.Endhosts = append(d.Endhosts, h)
		d.EndhostUplinks[h] = genUplink
		for _, e := range d.EgressInterfaces {
			p := fmt.Sprintf("p_%s_%s", h, e)
			d.PathsPerEndhost[h] = append(d.PathsPerEndhost[h], p)
			d.PathToEgress[p] = e
		}
	}

	// Demand: the transit share spread evenly over the transit-only block,
	// the rest over the universal block. A block that rounded away keeps
	// its share out of the document entirely.
	totalTraffic := totalCap * g.TrafficPercent / 100
	if len(transitOnly) > 0 {
		per := totalTraffic * g.TransitRatio / float64(len(transitOnly))
		for _, dest := range transitOnly {
			d.TrafficPerDest[dest] = per
		}
	}
	if len(universal) > 0 {
		per := totalTraffic * (1 - g.TransitRatio) / float64(len(universal))
		for _, dest := range universal {
			d.TrafficPerDest[dest] = per
		}
	}

	if _, err := d.Model(); err != nil {
		return nil, errors.Wrap(err, "scenario: generated document failed validation")
	}

	return d, nil
}

// Encode writes the document to w, four-space indented like the upstream
// tooling emits.
func (d *InputDoc) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")

	return errors.Wrap(enc.Encode(d), "scenario: encoding scenario")
}

// Write encodes the document into the file at path.
func (d *InputDoc) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "scenario: creating scenario file")
	}
	if err = d.Encode(f); err != nil {
		f.Close()
		return err
	}

	return errors.Wrap(f.Close(), "scenario: closing scenario file")
}
