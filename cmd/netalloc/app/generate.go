// generate.go - the synthetic scenario generator operation.

package app

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/netalloc/scenario"
)

// newGenerateCommand builds the scenario generator. The same seed always
// produces the same document.
func newGenerateCommand() *cobra.Command {
	var (
		g      = scenario.NewGenSpec()
		output string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic scenario document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := scenario.Generate(g)
			if err != nil {
				return err
			}

			if output == "" {
				err = doc.Encode(os.Stdout)
			} else {
				err = doc.Write(output)
			}
			if err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{
				"op":           "generate",
				"hosts":        g.Hosts,
				"egresses":     g.Egresses,
				"destinations": g.Destinations,
				"seed":         g.Seed,
			}).Info("operation finished")

			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&output, "output", "o", "", "path for the scenario document; stdout when empty")
	fs.IntVar(&g.Hosts, "hosts", g.Hosts, "number of endhosts")
	fs.IntVar(&g.Egresses, "egresses", g.Egresses, "number of egress interfaces")
	fs.IntVar(&g.Destinations, "destinations", g.Destinations, "number of destinations")
	fs.Uint64Var(&g.Seed, "seed", g.Seed, "random seed")
	fs.Float64Var(&g.TransitRatio, "transit-ratio", g.TransitRatio, "share of destinations (and traffic) locked to transit")
	fs.Float64Var(&g.PeeringShare, "peering-share", g.PeeringShare, "share of egresses classed as peering")
	fs.Float64Var(&g.TrafficPercent, "traffic-percent", g.TrafficPercent, "aggregate demand as a percentage of total egress capacity")
	fs.BoolVar(&g.BaseCosts, "base-costs", false, "add per-egress base costs for fixed-cost solves")

	return cmd
}
