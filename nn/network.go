package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Network arranges nodes into layers and evaluates them in order. Layer 0
// consumes the raw input vector; each later layer consumes the vector of the
// previous layer's node values. The network's Value is the sum of the last
// layer's outputs.
type Network struct {
	// Nodes is the layer table: Nodes[0] is the input-facing layer.
	Nodes [][]*Node

	// Value is the scalar output of the most recent Forward.
	Value float64

	numInputs    int
	nodesInLayer int
	numLayers    int
}

// NewNetwork builds numLayers layers of nodesInLayer random nodes. Layer-0
// nodes take numInputs inputs; later layers take nodesInLayer inputs, one per
// upstream node. Each node's children are wired to the whole next layer.
func NewNetwork(numInputs, nodesInLayer, numLayers int, rng *rand.Rand) *Network {
	nodes := make([][]*Node, numLayers)
	for layer := range nodes {
		fanIn := nodesInLayer
		if layer == 0 {
			fanIn = numInputs
		}

		nodes[layer] = make([]*Node, nodesInLayer)
		for i := range nodes[layer] {
			nodes[layer][i] = RandomNode(fanIn, rng)
		}
	}

	wireLayers(nodes)

	return &Network{
		Nodes:        nodes,
		numInputs:    numInputs,
		nodesInLayer: nodesInLayer,
		numLayers:    numLayers,
	}
}

// NewNetworkWithNodes builds a network from an explicit layer table. All
// layers must have the same width, layer-0 nodes must take numInputs inputs,
// and later layers must take one input per upstream node. Children wiring is
// left exactly as supplied.
func NewNetworkWithNodes(numInputs int, nodes [][]*Node) (*Network, error) {
	if len(nodes) == 0 || len(nodes[0]) == 0 {
		return nil, fmt.Errorf("network needs at least one non-empty layer")
	}

	width := len(nodes[0])
	for layer, row := range nodes {
		if len(row) != width {
			return nil, fmt.Errorf("layer %d has %d nodes, want %d", layer, len(row), width)
		}

		fanIn := width
		if layer == 0 {
			fanIn = numInputs
		}
		for i, node := range row {
			if node.NumInputs() != fanIn {
				return nil, fmt.Errorf("layer %d node %d takes %d inputs, want %d", layer, i, node.NumInputs(), fanIn)
			}
		}
	}

	return &Network{
		Nodes:        nodes,
		numInputs:    numInputs,
		nodesInLayer: width,
		numLayers:    len(nodes),
	}, nil
}

// wireLayers points every node's children at the whole next layer. The last
// layer keeps no children.
func wireLayers(nodes [][]*Node) {
	for layer := 0; layer+1 < len(nodes); layer++ {
		for _, node := range nodes[layer] {
			node.SetChildren(nodes[layer+1])
		}
	}
}

// Forward evaluates every layer in order on the given input vector, updates
// Value with the sum of the last layer's outputs and returns it.
func (n *Network) Forward(inputs []float64) float64 {
	current := inputs
	for _, layer := range n.Nodes {
		outputs := make([]float64, len(layer))
		for i, node := range layer {
			outputs[i] = node.Call(current)
		}
		current = outputs
	}

	n.Value = floats.Sum(current)
	return n.Value
}

// NumInputs returns the input vector length layer 0 expects.
func (n *Network) NumInputs() int {
	return n.numInputs
}

// NodesInLayer returns the number of nodes per layer.
func (n *Network) NodesInLayer() int {
	return n.nodesInLayer
}

// NumLayers returns the number of layers.
func (n *Network) NumLayers() int {
	return n.numLayers
}
