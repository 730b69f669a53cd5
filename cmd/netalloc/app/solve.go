// solve.go - the single-strategy operations: LP solves, herd, fair share.

package app

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/netalloc/batch"
	"github.com/katalvlaran/netalloc/herd"
	"github.com/katalvlaran/netalloc/lpopt"
	"github.com/katalvlaran/netalloc/scenario"
)

// newSolveCommand builds one LP operation. volumes selects the demand
// shape: transfer-time strategies read data volumes, the rest read traffic
// rates.
func newSolveCommand(use, short string, strat batch.Strategy, volumes bool) *cobra.Command {
	var (
		io ioOptions
		so solveOptions
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			so.applyConfig(cmd.Flags(), &cfg)
			solver, err := so.solverOptions()
			if err != nil {
				return err
			}
			return runStrategy(cmd, &io, strat, volumes,
				batch.WithSolverOptions(solver...))
		},
	}
	io.AddFlags(cmd.Flags())
	so.AddFlags(cmd.Flags())

	return cmd
}

// newHerdCommand builds the selfish-herd operation.
func newHerdCommand() *cobra.Command {
	var (
		io          ioOptions
		modeName    string
		peeringOnly bool
	)
	cmd := &cobra.Command{
		Use:   "herd",
		Short: "Simulate selfish hosts racing for their lowest-latency paths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := herd.ParseMode(modeName)
			if err != nil {
				return err
			}
			strat := batch.HerdNoSpillover
			if mode == herd.Spillover {
				strat = batch.HerdSpillover
			}
			var hopts []herd.Option
			if peeringOnly {
				hopts = append(hopts, herd.WithPeeringOnly())
			}
			return runStrategy(cmd, &io, strat, false,
				batch.WithHerdOptions(hopts...))
		},
	}
	io.AddFlags(cmd.Flags())
	cmd.Flags().StringVar(&modeName, "mode", herd.NoSpillover.String(), "herd reaction to saturation: no-spillover or spillover")
	cmd.Flags().BoolVar(&peeringOnly, "peering-only", false, "hide transit paths from the herd")

	return cmd
}

// newFairShareCommand builds the cooperative equal-split operation.
func newFairShareCommand() *cobra.Command {
	var io ioOptions
	cmd := &cobra.Command{
		Use:   "fair-share",
		Short: "Simulate cooperative hosts splitting demand equally over their paths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStrategy(cmd, &io, batch.FairShare, false)
		},
	}
	io.AddFlags(cmd.Flags())

	return cmd
}

// runStrategy is the shared body of every single-strategy operation: load,
// build the right model, evaluate, emit, decide the exit.
func runStrategy(cmd *cobra.Command, io *ioOptions, strat batch.Strategy, volumes bool, opts ...batch.Option) error {
	doc, name, err := io.load()
	if err != nil {
		return err
	}

	m, err := doc.Model()
	if volumes {
		m, err = doc.VolumeModel()
	}
	if err != nil {
		return err
	}

	out, err := batch.Evaluate(cmd.Context(), name, m, strat, opts...)
	if err != nil {
		return err
	}
	if err = io.emit(out); err != nil {
		return err
	}

	fields := logrus.Fields{
		"op":       strat.String(),
		"scenario": name,
		"status":   out.Status,
	}
	if out.Objective != nil {
		fields["objective"] = *out.Objective
	}
	logrus.WithFields(fields).Info("operation finished")

	return exitStatus(out)
}

// exitStatus turns a terminal solver status into a process failure. The
// decision is made after the document is emitted, so the caller always gets
// the diagnostic file; simulator capacity exhaustion stays a success.
func exitStatus(doc *scenario.OutputDoc) error {
	switch doc.Status {
	case lpopt.StatusInfeasible.String(), lpopt.StatusUnbounded.String():
		return errors.Errorf("solve ended %s: %s", doc.Status, doc.Detail)
	}

	return nil
}
