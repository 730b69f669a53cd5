// feedback.go - the feedback-loop operation.

package app

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/netalloc/feasible"
	"github.com/katalvlaran/netalloc/feedback"
	"github.com/katalvlaran/netalloc/herd"
	"github.com/katalvlaran/netalloc/scenario"
)

// newFeedbackCommand builds the congestion feedback operation: repeated
// herd rounds with latency penalties on congested egresses between them.
func newFeedbackCommand() *cobra.Command {
	var (
		io          ioOptions
		lo          loopOptions
		modeName    string
		peeringOnly bool
	)
	cmd := &cobra.Command{
		Use:   "feedback-loop",
		Short: "Steer the selfish herd away from congestion over repeated rounds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lo.applyConfig(cmd.Flags(), &cfg)
			if err := lo.validate(); err != nil {
				return err
			}
			mode, err := herd.ParseMode(modeName)
			if err != nil {
				return err
			}

			doc, name, err := io.load()
			if err != nil {
				return err
			}
			m, err := doc.Model()
			if err != nil {
				return err
			}

			hopts := []herd.Option{herd.WithMode(mode)}
			if peeringOnly {
				hopts = append(hopts, herd.WithPeeringOnly())
			}
			res, err := feedback.Run(m,
				feedback.WithMaxRounds(lo.Rounds),
				feedback.WithThreshold(lo.Threshold),
				feedback.WithPenalty(lo.Penalty),
				feedback.WithHerdOptions(hopts...))
			if err != nil {
				return err
			}

			out, err := scenario.FromFeedback(name, res)
			if err != nil {
				return err
			}
			out.Operation = "feedback-loop"
			if out.Simulator != nil && out.Simulator.UnsentTotal > 0 {
				v, verr := feasible.Check(m)
				if verr != nil {
					return verr
				}
				out.AttachFeasibility(v)
			}
			if err = io.emit(out); err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{
				"op":       "feedback-loop",
				"scenario": name,
				"rounds":   len(res.Rounds),
				"stop":     res.Stop.String(),
			}).Info("operation finished")

			return nil
		},
	}
	io.AddFlags(cmd.Flags())
	lo.AddFlags(cmd.Flags())
	cmd.Flags().StringVar(&modeName, "mode", herd.NoSpillover.String(), "herd reaction to saturation: no-spillover or spillover")
	cmd.Flags().BoolVar(&peeringOnly, "peering-only", false, "hide transit paths from the herd")

	return cmd
}
