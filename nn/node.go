package nn

import (
	"fmt"
	"math"
	"math/rand"
)

// Initialization ranges for randomly constructed nodes, and the bound on a
// single mutation step.
const (
	MinWeight = -3.0
	MaxWeight = 3.0

	MinBias = -1.0
	MaxBias = 1.0

	DefaultSigmoidValue = 0.1

	MaxMutation = 0.5
)

// Node is a feed-forward unit holding one weight/bias pair per input.
// Each input is pushed through a fan-in-normalized sigmoid independently and
// the results are summed; there is no cross-input coupling in either the
// forward pass or the gradient step.
type Node struct {
	Weights []float64
	Biases  []float64

	// Children are graph edges to downstream nodes. They are consulted by
	// connectivity queries only, never by forward evaluation or the
	// gradient step. A node does not own its children.
	Children []*Node

	// Value is the output of the most recent Call.
	Value float64

	sigmoidValue float64
	numInputs    int
}

// NewNode builds a node from explicit parameters. The weight and bias slices
// must have equal length; that length becomes the node's input count and is
// fixed for its lifetime. Lengths are not re-validated after construction, so
// callers mutating the slices directly must preserve parity.
func NewNode(weights, biases []float64, children []*Node, sigmoidValue float64) (*Node, error) {
	if len(weights) != len(biases) {
		return nil, fmt.Errorf("different amount of weights (%d) and biases (%d)", len(weights), len(biases))
	}

	return &Node{
		Weights:      weights,
		Biases:       biases,
		Children:     children,
		sigmoidValue: sigmoidValue,
		numInputs:    len(weights),
	}, nil
}

// RandomNode builds a node with numInputs weights drawn uniformly from
// [MinWeight, MaxWeight], biases from [MinBias, MaxBias], the default sigmoid
// coefficient and no children. Callers wire children afterward.
func RandomNode(numInputs int, rng *rand.Rand) *Node {
	weights := make([]float64, numInputs)
	for i := range weights {
		weights[i] = MinWeight + rng.Float64()*(MaxWeight-MinWeight)
	}

	biases := make([]float64, numInputs)
	for i := range biases {
		biases[i] = MinBias + rng.Float64()*(MaxBias-MinBias)
	}

	node, _ := NewNode(weights, biases, nil, DefaultSigmoidValue)
	return node
}

// NumInputs returns the number of weight/bias pairs.
func (n *Node) NumInputs() int {
	return n.numInputs
}

// SigmoidValue returns the activation coefficient fixed at construction.
func (n *Node) SigmoidValue() float64 {
	return n.sigmoidValue
}

// Sigmoid applies the node's activation: 1 / (1 + e^(-x*coeff)) / numInputs.
// The division by the input count is fan-in normalization baked into the
// activation itself, so each per-input term tops out near 1/numInputs rather
// than 1. The gradient step below depends on this exact placement.
func (n *Node) Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x*n.sigmoidValue)) / float64(n.numInputs)
}

// Call evaluates the node on an input vector of length NumInputs. The result
// is the plain sum of the per-input sigmoid terms (not softmax-normalized),
// stored in Value and returned.
func (n *Node) Call(inputs []float64) float64 {
	sum := 0.0
	for i, w := range n.Weights {
		sum += n.Sigmoid(w*inputs[i] + n.Biases[i])
	}
	n.Value = sum
	return sum
}

// Gradient applies one gradient-descent step to every weight/bias pair. The
// goal is split evenly across inputs, each pair is updated from a closed-form
// partial of its own squared-error term, and indices are treated
// independently: this is not the multivariate gradient of the summed output,
// and keeping it per-input is part of the contract. Partials are evaluated at
// the pre-update parameter values.
func (n *Node) Gradient(inputs []float64, goal, learnRate float64) {
	perExampleGoal := goal / float64(len(inputs))

	for i := range n.Weights {
		dWeight, dBias := n.gradientStep(n.Weights[i], n.Biases[i], inputs[i], perExampleGoal)
		n.Weights[i] -= learnRate * dWeight
		n.Biases[i] -= learnRate * dBias
	}
}

// gradientStep computes the hand-derived partial derivatives of
// (sigmoid(weight*x + bias) - goal)^2 with respect to bias and weight.
func (n *Node) gradientStep(weight, bias, x, goal float64) (dWeight, dBias float64) {
	a := weight*x + bias
	b := math.Exp(-a*n.sigmoidValue) + 1
	c := 1 / (b * float64(n.numInputs))

	dBias = 2 * n.sigmoidValue * b * (c - goal) / (b * b * float64(n.numInputs))
	dWeight = dBias * x
	return dWeight, dBias
}

// Loss is the squared error of the raw affine output, without the
// activation. Inspection helper only; the gradient step does not use it.
func Loss(weight, bias, x, goal float64) float64 {
	d := weight*x + bias - goal
	return d * d
}

// Mutate rescales every weight and bias by (1 - u) with u drawn uniformly
// from [-MaxMutation, MaxMutation], independently per parameter. Returns the
// receiver so calls can chain.
func (n *Node) Mutate(rng *rand.Rand) *Node {
	for i := range n.Weights {
		change := -MaxMutation + rng.Float64()*2*MaxMutation
		n.Weights[i] *= 1 - change
	}

	for i := range n.Biases {
		change := -MaxMutation + rng.Float64()*2*MaxMutation
		n.Biases[i] *= 1 - change
	}

	return n
}

// SetChildren replaces the node's children list.
func (n *Node) SetChildren(children []*Node) {
	n.Children = children
}

// IsInChildren reports whether other is a direct child, by identity.
func (n *Node) IsInChildren(other *Node) bool {
	for _, child := range n.Children {
		if child == other {
			return true
		}
	}
	return false
}

// IsConnectedTo reports whether other is reachable through the children
// graph, at any depth. Traversal tracks visited nodes by identity, so cyclic
// graphs terminate.
func (n *Node) IsConnectedTo(other *Node) bool {
	visited := map[*Node]struct{}{n: {}}
	stack := []*Node{n}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, child := range current.Children {
			if child == other {
				return true
			}
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			stack = append(stack, child)
		}
	}
	return false
}

// Copy returns a new node with freshly allocated weight and bias slices but
// the same children references as the original. Sharing the graph edges is
// intentional: the copy owns its parameters, not its neighbors. Value starts
// at zero.
func (n *Node) Copy() *Node {
	weights := make([]float64, len(n.Weights))
	copy(weights, n.Weights)

	biases := make([]float64, len(n.Biases))
	copy(biases, n.Biases)

	node, _ := NewNode(weights, biases, n.Children, n.sigmoidValue)
	return node
}
