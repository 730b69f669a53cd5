// SPDX-License-Identifier: MIT
//
// File: input.go
// Role: raw document → validated InputDoc → NetworkModel.

package scenario

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/katalvlaran/netalloc/netmodel"
)

var (
	// ErrMissingSection marks a document lacking one of the core sections.
	ErrMissingSection = errors.New("scenario: required section missing or empty")

	// ErrNoDemand marks a document declaring destinations but neither
	// traffic_per_destination nor data_volumes_per_destination.
	ErrNoDemand = errors.New("scenario: no demand section present")

	// ErrDuplicateID marks repeated identifiers inside one section.
	ErrDuplicateID = errors.New("scenario: duplicate identifier")

	// ErrUndeclaredID marks attribute entries keyed by identifiers the
	// document never declares.
	ErrUndeclaredID = errors.New("scenario: attribute for undeclared identifier")
)

// InputDoc mirrors the scenario JSON field for field. Fill it from Parse
// or Load, or literally in tests.
type InputDoc struct {
	Endhosts         []string            `json:"endhosts"`
	EgressInterfaces []string            `json:"egress_interfaces"`
	Destinations     []string            `json:"destinations"`
	PathsPerEndhost  map[string][]string `json:"paths_per_endhost"`
	PathToEgress     map[string]string   `json:"path_to_egress_mapping"`
	Reachability     map[string][]string `json:"egress_to_destination_reachability"`

	EndhostUplinks   map[string]float64 `json:"endhost_uplinks"`
	EgressCapacities map[string]float64 `json:"egress_capacities"`
	EgressCosts      map[string]float64 `json:"egress_costs"`
	EgressBaseCosts  map[string]float64 `json:"egress_base_costs,omitempty"`
	EgressLatencies  map[string]float64 `json:"egress_latencies,omitempty"`
	EgressTypes      map[string]string  `json:"egress_types,omitempty"`

	TrafficPerDest map[string]float64 `json:"traffic_per_destination,omitempty"`
	DataVolumes    map[string]float64 `json:"data_volumes_per_destination,omitempty"`
}

// Parse decodes one scenario document from r.
func Parse(r io.Reader) (*InputDoc, error) {
	var d InputDoc
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(err, "scenario: decoding document")
	}

	return &d, nil
}

// Load reads and decodes the scenario document at path.
func Load(path string) (*InputDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "scenario: opening document")
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	return d, nil
}

// NameFromPath derives the scenario name shown in output documents from
// the input filename, without directory or extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Validate checks document shape: core sections present, identifiers
// unique, demand keyed only by declared destinations, egress types
// recognized. Structural integrity beyond that (dangling paths, missing
// attributes) is the model's job.
func (d *InputDoc) Validate() error {
	switch {
	case len(d.Endhosts) == 0:
		return errors.Wrap(ErrMissingSection, "endhosts")
	case len(d.EgressInterfaces) == 0:
		return errors.Wrap(ErrMissingSection, "egress_interfaces")
	case len(d.Destinations) == 0:
		return errors.Wrap(ErrMissingSection, "destinations")
	}

	for _, sec := range []struct {
		name string
		ids  []string
	}{
		{"endhosts", d.Endhosts},
		{"egress_interfaces", d.EgressInterfaces},
		{"destinations", d.Destinations},
	} {
		if len(lo.Uniq(sec.ids)) != len(sec.ids) {
			return errors.Wrap(ErrDuplicateID, sec.name)
		}
	}

	if d.TrafficPerDest == nil && d.DataVolumes == nil {
		return ErrNoDemand
	}
	for _, sec := range []struct {
		name string
		m    map[string]float64
	}{
		{"traffic_per_destination", d.TrafficPerDest},
		{"data_volumes_per_destination", d.DataVolumes},
	} {
		if extra := lo.Without(lo.Keys(sec.m), d.Destinations...); len(extra) > 0 {
			sort.Strings(extra)
			return errors.Wrapf(ErrUndeclaredID, "%s: %s", sec.name, strings.Join(extra, ", "))
		}
	}

	var badTypes []string
	for e, t := range d.EgressTypes {
		if _, err := netmodel.ParseLinkClass(t); err != nil {
			badTypes = append(badTypes, e)
		}
	}
	if len(badTypes) > 0 {
		sort.Strings(badTypes)
		return errors.Wrapf(netmodel.ErrBadLinkClass, "egress_types of %s", strings.Join(badTypes, ", "))
	}

	return nil
}

// Model validates the document and freezes it into a NetworkModel, with
// traffic_per_destination as demand. Documents carrying only volumes fall
// back to those.
func (d *InputDoc) Model() (*netmodel.NetworkModel, error) {
	demands := d.TrafficPerDest
	if demands == nil {
		demands = d.DataVolumes
	}

	return d.build(demands)
}

// VolumeModel is Model with data_volumes_per_destination as demand, the
// shape the transfer-time solver expects. Documents carrying only traffic
// fall back to that.
func (d *InputDoc) VolumeModel() (*netmodel.NetworkModel, error) {
	demands := d.DataVolumes
	if demands == nil {
		demands = d.TrafficPerDest
	}

	return d.build(demands)
}

func (d *InputDoc) build(demands map[string]float64) (*netmodel.NetworkModel, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	classes := make(map[string]netmodel.LinkClass, len(d.EgressTypes))
	for e, t := range d.EgressTypes {
		c, err := netmodel.ParseLinkClass(t)
		if err != nil {
			return nil, err
		}
		classes[e] = c
	}

	m, err := netmodel.New(netmodel.ModelSpec{
		Hosts:        d.Endhosts,
		Egresses:     d.EgressInterfaces,
		Destinations: d.Destinations,
		PathsByHost:  d.PathsPerEndhost,
		EgressByPath: d.PathToEgress,
		Reachability: d.Reachability,
		Uplinks:      d.EndhostUplinks,
		Capacities:   d.EgressCapacities,
		UnitCosts:    d.EgressCosts,
		BaseCosts:    d.EgressBaseCosts,
		Demands:      demands,
		Latencies:    d.EgressLatencies,
		LinkClasses:  classes,
	})

	return m, errors.Wrap(err, "scenario: building model")
}
