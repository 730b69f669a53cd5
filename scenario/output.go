// SPDX-License-Identifier: MIT
//
// File: output.go
// Role: run results → output documents.
//
// Rationale (succinct):
//  1. Every number is rounded here, at the boundary, and nowhere else;
//     solver and simulator results stay exact so chained analysis never
//     accumulates display rounding.
//  2. The allocation is nested host → path → destination, which keeps the
//     triple keying lossless without string-splitting conventions.
//  3. encoding/json rejects ±Inf, so unfinishable transfers encode their
//     completion time as null.

package scenario

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/katalvlaran/netalloc/fairshare"
	"github.com/katalvlaran/netalloc/feasible"
	"github.com/katalvlaran/netalloc/feedback"
	"github.com/katalvlaran/netalloc/herd"
	"github.com/katalvlaran/netalloc/lpopt"
	"github.com/katalvlaran/netalloc/netmodel"
	"github.com/katalvlaran/netalloc/utilization"
)

// ErrNilResult marks a document builder invoked without a model or result.
var ErrNilResult = errors.New("scenario: model and result must not be nil")

// StatusCompleted is the status of simulator documents. Solver documents
// carry the solver's own status string instead ("optimal", "infeasible",
// "unbounded").
const StatusCompleted = "completed"

// outputScale fixes the boundary rounding at six decimal places.
const outputScale = 1e6

func round6(x float64) float64 {
	return math.Round(x*outputScale) / outputScale
}

// finite rounds x for output; ±Inf and NaN become nil, rendered as null.
func finite(x float64) *float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil
	}
	v := round6(x)
	return &v
}

func roundMap(in map[string]float64) map[string]float64 {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = round6(v)
	}
	return out
}

// CostDoc is the objective block of a cost or latency solve.
type CostDoc struct {
	VariableCost float64 `json:"variable_cost"`
	FixedCost    float64 `json:"fixed_cost"`
	TotalCost    float64 `json:"total_cost"`

	// ActiveEgresses lists the gated egresses that ended up carrying
	// flow; present only for activation-mode solves.
	ActiveEgresses []string `json:"active_egresses,omitempty"`
}

// MakespanDoc is the objective block of a transfer-time solve. A null
// makespan or completion time means the transfer never finishes.
type MakespanDoc struct {
	Z               float64             `json:"z"`
	MakespanSeconds *float64            `json:"makespan_seconds"`
	CompletionTimes map[string]*float64 `json:"completion_times"`
}

// SimulatorDoc is the outcome block of a herd or fair-share run.
type SimulatorDoc struct {
	// Mode names the herd mode; empty for fair-share documents.
	Mode                 string             `json:"mode,omitempty"`
	UnsentTotal          float64            `json:"unsent_total"`
	UnsentPerDestination map[string]float64 `json:"unsent_per_destination,omitempty"`
	RealizedCost         float64            `json:"realized_cost"`
}

// UtilizationDoc is the load on one egress.
type UtilizationDoc struct {
	Traffic            float64 `json:"traffic"`
	Capacity           float64 `json:"capacity"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

// PerformanceDoc wraps the per-egress utilization table.
type PerformanceDoc struct {
	EgressUtilization map[string]UtilizationDoc `json:"egress_utilization"`
}

// FeasibilityDoc is the deliverability verdict attached to documents whose
// run could not serve the full demand.
type FeasibilityDoc struct {
	MaxDeliverable float64            `json:"max_deliverable"`
	TotalDemand    float64            `json:"total_demand"`
	PerDestination map[string]float64 `json:"per_destination,omitempty"`
}

// RoundDoc summarizes one feedback round.
type RoundDoc struct {
	Round                 int      `json:"round"`
	Congested             []string `json:"congested,omitempty"`
	UnsentTotal           float64  `json:"unsent_total"`
	MaxUtilizationPercent float64  `json:"max_utilization_percent"`
}

// OutputDoc is one run rendered for downstream consumers. Exactly one of
// Cost, Makespan or Simulator is set on a successful run; all three stay
// nil on a non-optimal solve, which keeps failed documents small.
type OutputDoc struct {
	Scenario  string `json:"scenario,omitempty"`
	Operation string `json:"operation,omitempty"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`

	// Objective is the raw solver objective: total cost for cost solves,
	// the latency-weighted sum for latency solves. Absent elsewhere.
	Objective *float64 `json:"objective,omitempty"`

	Cost      *CostDoc      `json:"cost,omitempty"`
	Makespan  *MakespanDoc  `json:"makespan,omitempty"`
	Simulator *SimulatorDoc `json:"simulator,omitempty"`

	Allocation  map[string]map[string]map[string]float64 `json:"allocation,omitempty"`
	Performance *PerformanceDoc                          `json:"performance_analysis,omitempty"`
	Feasibility *FeasibilityDoc                          `json:"feasibility,omitempty"`

	StopReason     string     `json:"stop_reason,omitempty"`
	FeedbackRounds []RoundDoc `json:"feedback_rounds,omitempty"`
}

// FromCost renders a SolveCost or SolveLatency outcome. Non-optimal
// statuses yield a document with only status and detail filled.
func FromCost(name string, m *netmodel.NetworkModel, res *lpopt.CostResult) (*OutputDoc, error) {
	if m == nil || res == nil {
		return nil, ErrNilResult
	}
	doc := &OutputDoc{Scenario: name, Status: res.Status.String(), Detail: res.Detail}
	if res.Status != lpopt.StatusOptimal {
		return doc, nil
	}

	obj := round6(res.Objective)
	doc.Objective = &obj
	doc.Cost = &CostDoc{
		VariableCost:   round6(res.VariableCost),
		FixedCost:      round6(res.FixedCost),
		TotalCost:      round6(res.VariableCost + res.FixedCost),
		ActiveEgresses: res.ActiveEgresses,
	}

	return doc, doc.attach(m, res.Alloc)
}

// FromMakespan renders a SolveMakespan outcome.
func FromMakespan(name string, m *netmodel.NetworkModel, res *lpopt.MakespanResult) (*OutputDoc, error) {
	if m == nil || res == nil {
		return nil, ErrNilResult
	}
	doc := &OutputDoc{Scenario: name, Status: res.Status.String(), Detail: res.Detail}
	if res.Status != lpopt.StatusOptimal {
		return doc, nil
	}

	times := make(map[string]*float64, len(res.Completion))
	for d, t := range res.Completion {
		times[d] = finite(t)
	}
	doc.Makespan = &MakespanDoc{
		Z:               round6(res.Z),
		MakespanSeconds: finite(res.Makespan),
		CompletionTimes: times,
	}

	return doc, doc.attach(m, res.Alloc)
}

// FromHerd renders a herd run. Unsent demand is an outcome here, so the
// status is always "completed".
func FromHerd(name string, m *netmodel.NetworkModel, res *herd.Result) (*OutputDoc, error) {
	if m == nil || res == nil {
		return nil, ErrNilResult
	}
	doc := &OutputDoc{Scenario: name, Status: StatusCompleted}
	doc.Simulator = &SimulatorDoc{
		Mode:                 res.Mode.String(),
		UnsentTotal:          round6(res.Unsent),
		UnsentPerDestination: roundMap(res.UnsentByDest),
		RealizedCost:         round6(res.RealizedCost),
	}

	return doc, doc.attach(m, res.Alloc)
}

// FromFairShare renders a fair-share run.
func FromFairShare(name string, m *netmodel.NetworkModel, res *fairshare.Result) (*OutputDoc, error) {
	if m == nil || res == nil {
		return nil, ErrNilResult
	}
	doc := &OutputDoc{Scenario: name, Status: StatusCompleted}
	doc.Simulator = &SimulatorDoc{
		UnsentTotal:          round6(res.Unsent),
		UnsentPerDestination: roundMap(res.UnsentByDest),
		RealizedCost:         round6(res.RealizedCost),
	}

	return doc, doc.attach(m, res.Alloc)
}

// FromFeedback renders the final round of a feedback run plus the
// per-round trail and the stop reason. The final round's placement is
// analyzed against that round's derived model, which shares capacities
// and costs with the base model.
func FromFeedback(name string, res *feedback.Result) (*OutputDoc, error) {
	if res == nil || len(res.Rounds) == 0 {
		return nil, ErrNilResult
	}

	fin := res.Final()
	doc, err := FromHerd(name, fin.Model, fin.Herd)
	if err != nil {
		return nil, err
	}

	doc.StopReason = res.Stop.String()
	doc.FeedbackRounds = make([]RoundDoc, 0, len(res.Rounds))
	var r feedback.Round
	for _, r = range res.Rounds {
		rd := RoundDoc{
			Round:       r.Index,
			Congested:   r.Congested,
			UnsentTotal: round6(r.Herd.Unsent),
		}
		if _, worst, ok := r.Report.Worst(); ok {
			rd.MaxUtilizationPercent = round6(worst.Percent)
		}
		doc.FeedbackRounds = append(doc.FeedbackRounds, rd)
	}

	return doc, nil
}

// AttachFeasibility adds the deliverability verdict, typically to an
// infeasible or exhausted document. A nil verdict is a no-op.
func (doc *OutputDoc) AttachFeasibility(v *feasible.Verdict) {
	if v == nil {
		return
	}
	doc.Feasibility = &FeasibilityDoc{
		MaxDeliverable: round6(v.MaxDeliverable),
		TotalDemand:    round6(v.TotalDemand),
		PerDestination: roundMap(v.Delivered),
	}
}

// attach fills the allocation and performance blocks from al. Analysis
// failure means a producer broke the capacity invariant; that aborts the
// rendering rather than emit a misleading document.
func (doc *OutputDoc) attach(m *netmodel.NetworkModel, al *netmodel.Allocation) error {
	rep, err := utilization.Analyze(m, al)
	if err != nil {
		return errors.Wrap(err, "scenario: analyzing allocation")
	}
	doc.Allocation = allocationDoc(al)
	doc.Performance = performanceDoc(rep)

	return nil
}

func allocationDoc(al *netmodel.Allocation) map[string]map[string]map[string]float64 {
	if al.Len() == 0 {
		return nil
	}
	out := make(map[string]map[string]map[string]float64)
	var k netmodel.FlowKey
	for _, k = range al.Keys() {
		byPath := out[k.Host]
		if byPath == nil {
			byPath = make(map[string]map[string]float64)
			out[k.Host] = byPath
		}
		byDest := byPath[k.Path]
		if byDest == nil {
			byDest = make(map[string]float64)
			byPath[k.Path] = byDest
		}
		byDest[k.Dest] = round6(al.Flow(k.Host, k.Path, k.Dest))
	}

	return out
}

func performanceDoc(rep *utilization.Report) *PerformanceDoc {
	table := make(map[string]UtilizationDoc)
	var e string
	for _, e = range rep.Egresses() {
		l, _ := rep.Load(e)
		table[e] = UtilizationDoc{
			Traffic:            round6(l.Traffic),
			Capacity:           round6(l.Capacity),
			UtilizationPercent: round6(l.Percent),
		}
	}

	return &PerformanceDoc{EgressUtilization: table}
}

// Encode writes the document to w, two-space indented.
func (doc *OutputDoc) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(doc), "scenario: encoding document")
}

// Write encodes the document into the file at path, replacing any previous
// content.
func (doc *OutputDoc) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "scenario: creating output file")
	}
	if err = doc.Encode(f); err != nil {
		f.Close()
		return err
	}

	return errors.Wrap(f.Close(), "scenario: closing output file")
}
