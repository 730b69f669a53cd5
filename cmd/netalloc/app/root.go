// root.go - root command, global flags and process exit policy.

package app

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/netalloc/batch"
)

var (
	logLevel   string
	configPath string
	cfg        Config
)

var rootCmd = &cobra.Command{
	Use:   "netalloc",
	Short: "Traffic allocation modeling for multi-homed edge networks",
	Long: `netalloc evaluates how traffic from a set of endhosts should be spread
over their egress interfaces toward external destinations.

Every operation reads one scenario document (JSON), runs one allocation
strategy against it and writes one result document: exact LP solves for
cost, latency and throughput, greedy and cooperative simulators for
selfish-host behavior, a feedback loop that steers the selfish herd away
from congestion, and batch harnesses that compare strategies or sweep
demand levels. The generate operation produces synthetic scenarios.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return errors.Wrapf(err, "parsing log level %q", logLevel)
		}
		logrus.SetLevel(level)

		if configPath == "" {
			return nil
		}
		return cfg.load(configPath)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "info", "log verbosity: trace, debug, info, warn or error")
	pf.StringVar(&configPath, "config", "", "YAML bundle of tuning defaults; explicit flags win over it")

	rootCmd.AddCommand(
		newSolveCommand("cost-minimize", "Serve every demand at the least total cost", batch.CostMinimize, false),
		newSolveCommand("cost-maximize", "Serve every demand at the greatest total cost (adversarial bound)", batch.CostMaximize, false),
		newSolveCommand("latency-minimize", "Serve every demand over the least aggregate latency", batch.LatencyMinimize, false),
		newSolveCommand("throughput-maximize", "Finish all transfers as early as possible", batch.ThroughputMaximize, true),
		newSolveCommand("throughput-minimize", "Adversarial transfer schedule (rates driven to zero)", batch.ThroughputMinimize, true),
		newHerdCommand(),
		newFairShareCommand(),
		newFeedbackCommand(),
		newRunAllCommand(),
		newSweepCommand(),
		newGenerateCommand(),
	)
}

// Execute runs the CLI. Infeasible and unbounded solves exit non-zero like
// input errors do; simulator capacity exhaustion does not.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
