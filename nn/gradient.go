package nn

import (
	"fmt"
	"io"
	"math"
	"os"
)

// Tolerance-driven training caps out at this many rounds; hitting the cap is
// a normal terminal state, not an error.
const maxToleranceIterations = 1000

// defaultTolerance replaces non-positive tolerance arguments.
const defaultTolerance = 0.1

// TrainerConfig holds the gradient trainer's hyperparameters.
type TrainerConfig struct {
	MaxIter   int
	LearnRate float64
	Verbose   bool
	Out       io.Writer // progress destination, defaults to stdout
}

// DefaultTrainerConfig returns the stock hyperparameters.
func DefaultTrainerConfig() *TrainerConfig {
	return &TrainerConfig{
		MaxIter:   10,
		LearnRate: 0.1,
		Verbose:   true,
	}
}

// TrainingResult reports where a tolerance-driven run ended up.
type TrainingResult struct {
	FinalValue float64
	Iterations int
	Deviation  float64 // percent of goal
	Converged  bool
}

// GradientNetwork drives repeated forward evaluation of a Network and
// repeated gradient updates of its first layer toward a scalar goal. Later
// layers are never updated; training the first layer against a goal spread
// over the whole declared node count is the extent of this trainer.
type GradientNetwork struct {
	*Network

	MaxIter   int
	LearnRate float64

	// size spreads the goal across every declared node of the network,
	// not just the trained layer.
	size int

	verbose bool
	out     io.Writer
}

// NewGradientNetwork wraps a network with a gradient trainer. A nil config
// gets DefaultTrainerConfig.
func NewGradientNetwork(net *Network, config *TrainerConfig) *GradientNetwork {
	if config == nil {
		config = DefaultTrainerConfig()
	}

	out := config.Out
	if out == nil {
		out = os.Stdout
	}

	return &GradientNetwork{
		Network:   net,
		MaxIter:   config.MaxIter,
		LearnRate: config.LearnRate,
		size:      net.NodesInLayer() * net.NumLayers(),
		verbose:   config.Verbose,
		out:       out,
	}
}

// Evolve runs exactly MaxIter rounds of forward pass plus one training step.
// No early exit.
func (g *GradientNetwork) Evolve(inputs []float64, goal float64) {
	for i := 0; i < g.MaxIter; i++ {
		g.Forward(inputs)
		if g.verbose {
			fmt.Fprintln(g.out, "Current iteration value:", g.Value)
		}
		g.StepGeneration(inputs, goal)
	}
}

// EvolveTillTolerance trains until the network value is within
// |tolerance*goal| of the goal, or until the iteration cap. Non-positive
// tolerance is forced to the default. The goal must be nonzero: both the
// stopping criterion and the final deviation report divide by it.
func (g *GradientNetwork) EvolveTillTolerance(inputs []float64, goal, tolerance float64) (*TrainingResult, error) {
	if goal == 0 {
		return nil, fmt.Errorf("goal must be nonzero: tolerance is relative to the goal")
	}

	if tolerance <= 0 {
		tolerance = defaultTolerance
	}

	iteration := 0
	converged := false
	for iteration < maxToleranceIterations {
		if math.Abs(g.Value-goal) < math.Abs(tolerance*goal) {
			if g.verbose {
				fmt.Fprintf(g.out, "Value at iteration %d: %v\n", iteration, g.Value)
			}
			converged = true
			break
		}

		g.Forward(inputs)
		if g.verbose && iteration%5 == 0 {
			fmt.Fprintf(g.out, "Value at iteration %d: %v\n", iteration, g.Value)
		}

		g.StepGeneration(inputs, goal)
		iteration++
	}

	deviation := math.Abs((g.Value - goal) * 100 / goal)
	if g.verbose {
		fmt.Fprintf(g.out, "Reached %v percent of goal after %d iterations\n", deviation, iteration)
	}

	return &TrainingResult{
		FinalValue: g.Value,
		Iterations: iteration,
		Deviation:  deviation,
		Converged:  converged,
	}, nil
}

// StepGeneration applies one gradient step to every first-layer node. Each
// node sees the same raw input vector and a goal of goal/size, spreading the
// target evenly across the network's declared node count.
func (g *GradientNetwork) StepGeneration(inputs []float64, goal float64) {
	for _, node := range g.Nodes[0] {
		node.Gradient(inputs, goal/float64(g.size), g.LearnRate)
	}
}
