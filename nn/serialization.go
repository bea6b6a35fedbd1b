package nn

import (
	"encoding/json"
	"fmt"
	"os"
)

// NodeSnapshot is the structured dump of a node's trainable parameters.
// Children and the sigmoid coefficient are intentionally excluded: the
// snapshot carries parameter data only, not graph structure.
type NodeSnapshot struct {
	Weights []float64 `json:"Weights"`
	Biases  []float64 `json:"Biases"`
}

// NetworkSnapshot is the on-disk form of a whole network's parameters.
type NetworkSnapshot struct {
	Type         string           `json:"type"`
	Version      int              `json:"version"`
	NumInputs    int              `json:"num_inputs"`
	NodesInLayer int              `json:"nodes_in_layer"`
	NumLayers    int              `json:"num_layers"`
	Layers       [][]NodeSnapshot `json:"layers"`
}

const snapshotType = "gradnet/snapshot"

// Snapshot returns the node's {Weights, Biases} view. The slices are copies;
// mutating them does not touch the node.
func (n *Node) Snapshot() NodeSnapshot {
	weights := make([]float64, len(n.Weights))
	copy(weights, n.Weights)

	biases := make([]float64, len(n.Biases))
	copy(biases, n.Biases)

	return NodeSnapshot{Weights: weights, Biases: biases}
}

// Snapshot captures every node's parameters, layer by layer.
func (n *Network) Snapshot() *NetworkSnapshot {
	layers := make([][]NodeSnapshot, len(n.Nodes))
	for i, layer := range n.Nodes {
		layers[i] = make([]NodeSnapshot, len(layer))
		for j, node := range layer {
			layers[i][j] = node.Snapshot()
		}
	}

	return &NetworkSnapshot{
		Type:         snapshotType,
		Version:      1,
		NumInputs:    n.numInputs,
		NodesInLayer: n.nodesInLayer,
		NumLayers:    n.numLayers,
		Layers:       layers,
	}
}

// SaveSnapshot writes the network's parameters to a JSON file.
func (n *Network) SaveSnapshot(filename string) error {
	data, err := json.MarshalIndent(n.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}

// LoadSnapshot reads a snapshot file and rebuilds the network from it. The
// snapshot carries no graph structure, so children are rewired layer-to-layer
// and every node gets the default sigmoid coefficient.
func LoadSnapshot(filename string) (*Network, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot NetworkSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return snapshot.Restore()
}

// Restore rebuilds a network from an in-memory snapshot.
func (s *NetworkSnapshot) Restore() (*Network, error) {
	if s.Type != snapshotType {
		return nil, fmt.Errorf("unknown snapshot type %q", s.Type)
	}
	if len(s.Layers) != s.NumLayers {
		return nil, fmt.Errorf("snapshot declares %d layers but carries %d", s.NumLayers, len(s.Layers))
	}

	nodes := make([][]*Node, len(s.Layers))
	for i, layer := range s.Layers {
		if len(layer) != s.NodesInLayer {
			return nil, fmt.Errorf("layer %d carries %d nodes, want %d", i, len(layer), s.NodesInLayer)
		}

		nodes[i] = make([]*Node, len(layer))
		for j, saved := range layer {
			node, err := NewNode(saved.Weights, saved.Biases, nil, DefaultSigmoidValue)
			if err != nil {
				return nil, fmt.Errorf("layer %d node %d: %w", i, j, err)
			}
			nodes[i][j] = node
		}
	}

	wireLayers(nodes)
	return NewNetworkWithNodes(s.NumInputs, nodes)
}
