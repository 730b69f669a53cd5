// batch.go - the catalogue and demand-sweep harness operations.

package app

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/netalloc/batch"
)

// newRunAllCommand builds the strategy-catalogue operation.
func newRunAllCommand() *cobra.Command {
	var (
		io      ioOptions
		so      solveOptions
		workers int
		names   []string
	)
	cmd := &cobra.Command{
		Use:   "run-all",
		Short: "Evaluate every strategy on one scenario and compare side by side",
		RunE: func(cmd *cobra.Command, _ []string) error {
			so.applyConfig(cmd.Flags(), &cfg)
			if cfg.Workers != nil && !cmd.Flags().Changed("workers") {
				workers = *cfg.Workers
			}
			if workers < 1 {
				return errors.New("workers must be at least one")
			}
			solver, err := so.solverOptions()
			if err != nil {
				return err
			}
			strategies, err := parseStrategies(names)
			if err != nil {
				return err
			}

			doc, name, err := io.load()
			if err != nil {
				return err
			}

			opts := []batch.Option{
				batch.WithWorkers(workers),
				batch.WithSolverOptions(solver...),
			}
			if len(strategies) > 0 {
				opts = append(opts, batch.WithStrategies(strategies...))
			}
			sum, err := batch.RunAll(cmd.Context(), name, doc, opts...)
			if err != nil {
				return err
			}

			if io.Output == "" {
				err = sum.Encode(os.Stdout)
			} else {
				err = sum.Write(io.Output)
			}
			if err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{
				"op":         "run-all",
				"scenario":   name,
				"strategies": len(sum.Results),
			}).Info("operation finished")

			return nil
		},
	}
	io.AddFlags(cmd.Flags())
	so.AddFlags(cmd.Flags())
	cmd.Flags().IntVar(&workers, "workers", batch.DefaultWorkers, "parallel evaluations")
	cmd.Flags().StringSliceVar(&names, "strategies", nil, "strategy subset to run; the full catalogue when empty")

	return cmd
}

// newSweepCommand builds the demand-scaling operation.
func newSweepCommand() *cobra.Command {
	var (
		io        ioOptions
		so        solveOptions
		workers   int
		stratName string
		factors   []float64
		runs      int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Scale one scenario's demand through a factor ladder under one strategy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			so.applyConfig(cmd.Flags(), &cfg)
			if cfg.Workers != nil && !cmd.Flags().Changed("workers") {
				workers = *cfg.Workers
			}
			switch {
			case workers < 1:
				return errors.New("workers must be at least one")
			case runs < 1:
				return errors.New("runs must be at least one")
			}
			for _, f := range factors {
				if f <= 0 {
					return errors.Errorf("factor %g must be positive", f)
				}
			}
			strat, err := batch.ParseStrategy(stratName)
			if err != nil {
				return err
			}
			solver, err := so.solverOptions()
			if err != nil {
				return err
			}

			doc, name, err := io.load()
			if err != nil {
				return err
			}

			opts := []batch.Option{
				batch.WithStrategy(strat),
				batch.WithRuns(runs),
				batch.WithWorkers(workers),
				batch.WithSolverOptions(solver...),
			}
			if len(factors) > 0 {
				opts = append(opts, batch.WithFactors(factors...))
			}
			rep, err := batch.Sweep(cmd.Context(), name, doc, opts...)
			if err != nil {
				return err
			}

			if io.Output == "" {
				err = rep.Encode(os.Stdout)
			} else {
				err = rep.Write(io.Output)
			}
			if err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{
				"op":       "sweep",
				"scenario": name,
				"strategy": strat.String(),
				"factors":  len(rep.Points),
			}).Info("operation finished")

			return nil
		},
	}
	io.AddFlags(cmd.Flags())
	so.AddFlags(cmd.Flags())
	cmd.Flags().StringVar(&stratName, "strategy", batch.CostMinimize.String(), "strategy to sweep")
	cmd.Flags().Float64SliceVar(&factors, "factors", nil, "demand multipliers; 1 through 5 when empty")
	cmd.Flags().IntVar(&runs, "runs", batch.DefaultRuns, "repeated runs per factor")
	cmd.Flags().IntVar(&workers, "workers", batch.DefaultWorkers, "parallel evaluations")

	return cmd
}

func parseStrategies(names []string) ([]batch.Strategy, error) {
	out := make([]batch.Strategy, 0, len(names))
	for _, n := range names {
		s, err := batch.ParseStrategy(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, nil
}
