package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/netalloc/batch"
	"github.com/katalvlaran/netalloc/lpopt"
	"github.com/katalvlaran/netalloc/scenario"
)

// TestConfig_Load reads a partial bundle: named keys land, absent keys stay
// nil.
func TestConfig_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netalloc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("epsilon: 1e-6\nmax_rounds: 7\n"), 0o644))

	var c Config
	require.NoError(t, c.load(path))
	require.NotNil(t, c.Epsilon)
	assert.InDelta(t, 1e-6, *c.Epsilon, 1e-12)
	require.NotNil(t, c.Rounds)
	assert.Equal(t, 7, *c.Rounds)
	assert.Nil(t, c.Threshold)
	assert.Nil(t, c.Workers)
}

// TestConfig_FlagsWinOverBundle: a flag set on the command line keeps its
// value, everything else adopts the bundle.
func TestConfig_FlagsWinOverBundle(t *testing.T) {
	var (
		so solveOptions
		fs = pflag.NewFlagSet("test", pflag.ContinueOnError)
	)
	so.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--epsilon=1e-3"}))

	var (
		eps  = 1e-6
		mode = "sunk"
	)
	so.applyConfig(fs, &Config{Epsilon: &eps, FixedCostMode: &mode})

	assert.InDelta(t, 1e-3, so.Epsilon, 1e-12) // flag wins
	assert.Equal(t, "sunk", so.FixedCostMode)  // bundle fills the rest
}

// TestSolveOptions_Validation rejects non-positive tolerances and unknown
// fixed-cost modes before any option constructor can panic.
func TestSolveOptions_Validation(t *testing.T) {
	so := solveOptions{Epsilon: -1, FixedCostMode: "none", MaxNodes: 1}
	_, err := so.solverOptions()
	require.Error(t, err)

	so = solveOptions{Epsilon: 1e-9, FixedCostMode: "bogus", MaxNodes: 1}
	_, err = so.solverOptions()
	require.ErrorIs(t, err, lpopt.ErrBadFixedMode)

	so = solveOptions{Epsilon: 1e-9, FixedCostMode: "activation", MaxNodes: 64}
	opts, err := so.solverOptions()
	require.NoError(t, err)
	assert.NotEmpty(t, opts)
}

// TestLoopOptions_Validation rejects zero rounds and negative tuning.
func TestLoopOptions_Validation(t *testing.T) {
	lo := loopOptions{Rounds: 0, Threshold: 90, Penalty: 50}
	require.Error(t, lo.validate())

	lo = loopOptions{Rounds: 3, Threshold: -1, Penalty: 50}
	require.Error(t, lo.validate())

	lo = loopOptions{Rounds: 3, Threshold: 90, Penalty: 50}
	require.NoError(t, lo.validate())
}

// TestParseStrategies maps names and rejects unknown ones.
func TestParseStrategies(t *testing.T) {
	ss, err := parseStrategies([]string{"cost-minimize", "fair-share"})
	require.NoError(t, err)
	assert.Equal(t, []batch.Strategy{batch.CostMinimize, batch.FairShare}, ss)

	_, err = parseStrategies([]string{"cost-minimize", "nonsense"})
	require.ErrorIs(t, err, batch.ErrUnknownStrategy)
}

// TestExitStatus: terminal solver statuses fail the process, simulator
// documents never do.
func TestExitStatus(t *testing.T) {
	require.Error(t, exitStatus(&scenario.OutputDoc{Status: "infeasible"}))
	require.Error(t, exitStatus(&scenario.OutputDoc{Status: "unbounded"}))
	require.NoError(t, exitStatus(&scenario.OutputDoc{Status: "optimal"}))
	require.NoError(t, exitStatus(&scenario.OutputDoc{Status: scenario.StatusCompleted}))
}
