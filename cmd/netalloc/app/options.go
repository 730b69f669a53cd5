// options.go - flag option structs and the YAML tuning bundle.

package app

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/netalloc/feedback"
	"github.com/katalvlaran/netalloc/lpopt"
	"github.com/katalvlaran/netalloc/scenario"
)

// Config is the optional YAML bundle behind --config. Every field is a
// pointer so an absent key changes nothing; a flag set explicitly on the
// command line always wins over the bundle.
type Config struct {
	Epsilon       *float64 `yaml:"epsilon"`
	FixedCostMode *string  `yaml:"fixed_cost_mode"`
	RelaxedDemand *bool    `yaml:"relaxed_demand"`
	Threshold     *float64 `yaml:"congestion_threshold"`
	Penalty       *float64 `yaml:"latency_penalty"`
	Rounds        *int     `yaml:"max_rounds"`
	Workers       *int     `yaml:"workers"`
}

func (c *Config) load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config bundle")
	}
	if err = yaml.Unmarshal(raw, c); err != nil {
		return errors.Wrapf(err, "parsing config bundle %s", path)
	}

	return nil
}

// ioOptions is the document plumbing every scenario operation shares.
type ioOptions struct {
	Input  string
	Output string
}

// AddFlags adds the flags to the specified FlagSet.
func (o *ioOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Input, "input", "i", "", "path to the scenario document (required)")
	fs.StringVarP(&o.Output, "output", "o", "", "path for the result document; stdout when empty")
}

// load reads and names the input scenario.
func (o *ioOptions) load() (*scenario.InputDoc, string, error) {
	if o.Input == "" {
		return nil, "", errors.New("an input scenario is required (-i)")
	}
	doc, err := scenario.Load(o.Input)
	if err != nil {
		return nil, "", err
	}

	return doc, scenario.NameFromPath(o.Input), nil
}

// emit writes the result document to the output path, or to stdout when no
// path was given.
func (o *ioOptions) emit(doc *scenario.OutputDoc) error {
	if o.Output == "" {
		return doc.Encode(os.Stdout)
	}
	return doc.Write(o.Output)
}

// solveOptions is the tuning surface shared by the LP operations.
type solveOptions struct {
	Epsilon       float64
	FixedCostMode string
	RelaxedDemand bool
	MaxNodes      int
}

// AddFlags adds the flags to the specified FlagSet.
func (o *solveOptions) AddFlags(fs *pflag.FlagSet) {
	fs.Float64Var(&o.Epsilon, "epsilon", lpopt.DefaultEpsilon, "numeric tolerance of the solver")
	fs.StringVar(&o.FixedCostMode, "fixed-cost-mode", lpopt.FixedNone.String(), "base-cost handling: none, sunk or activation")
	fs.BoolVar(&o.RelaxedDemand, "relaxed-demand", false, "allow under-delivery instead of reporting infeasible")
	fs.IntVar(&o.MaxNodes, "max-nodes", lpopt.DefaultMaxNodes, "branch-and-bound node budget under activation mode")
}

// applyConfig adopts bundle values for flags the user did not set.
func (o *solveOptions) applyConfig(fs *pflag.FlagSet, c *Config) {
	if c.Epsilon != nil && !fs.Changed("epsilon") {
		o.Epsilon = *c.Epsilon
	}
	if c.FixedCostMode != nil && !fs.Changed("fixed-cost-mode") {
		o.FixedCostMode = *c.FixedCostMode
	}
	if c.RelaxedDemand != nil && !fs.Changed("relaxed-demand") {
		o.RelaxedDemand = *c.RelaxedDemand
	}
}

// solverOptions validates the surface and converts it to lpopt options.
func (o *solveOptions) solverOptions() ([]lpopt.Option, error) {
	if o.Epsilon <= 0 {
		return nil, errors.New("epsilon must be positive")
	}
	if o.MaxNodes < 1 {
		return nil, errors.New("max-nodes must be at least one")
	}
	mode, err := lpopt.ParseFixedCostMode(o.FixedCostMode)
	if err != nil {
		return nil, err
	}

	opts := []lpopt.Option{
		lpopt.WithEpsilon(o.Epsilon),
		lpopt.WithFixedCostMode(mode),
		lpopt.WithMaxNodes(o.MaxNodes),
	}
	if o.RelaxedDemand {
		opts = append(opts, lpopt.WithRelaxedDemand())
	}

	return opts, nil
}

// loopOptions is the feedback-loop tuning surface.
type loopOptions struct {
	Rounds    int
	Threshold float64
	Penalty   float64
}

// AddFlags adds the flags to the specified FlagSet.
func (o *loopOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.Rounds, "rounds", feedback.DefaultMaxRounds, "maximum number of herd rounds")
	fs.Float64Var(&o.Threshold, "threshold", feedback.DefaultThreshold, "utilization percentage at which an egress counts as congested")
	fs.Float64Var(&o.Penalty, "penalty", feedback.DefaultPenalty, "latency added to a congested egress per unit of utilization")
}

// applyConfig adopts bundle values for flags the user did not set.
func (o *loopOptions) applyConfig(fs *pflag.FlagSet, c *Config) {
	if c.Rounds != nil && !fs.Changed("rounds") {
		o.Rounds = *c.Rounds
	}
	if c.Threshold != nil && !fs.Changed("threshold") {
		o.Threshold = *c.Threshold
	}
	if c.Penalty != nil && !fs.Changed("penalty") {
		o.Penalty = *c.Penalty
	}
}

func (o *loopOptions) validate() error {
	switch {
	case o.Rounds < 1:
		return errors.New("rounds must be at least one")
	case o.Threshold < 0:
		return errors.New("threshold must not be negative")
	case o.Penalty < 0:
		return errors.New("penalty must not be negative")
	}

	return nil
}
