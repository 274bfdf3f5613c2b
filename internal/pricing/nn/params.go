package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LayerParams is the serializable form of a Dense layer. Weights are
// row-major with shape In x Out.
type LayerParams struct {
	In         int        `json:"in"`
	Out        int        `json:"out"`
	Activation Activation `json:"activation"`
	Weights    []float64  `json:"weights"`
	Biases     []float64  `json:"biases"`
}

// Export copies the network parameters.
func (n *Network) Export() []LayerParams {
	out := make([]LayerParams, len(n.Layers))
	for i, l := range n.Layers {
		w := l.W.RawMatrix().Data
		out[i] = LayerParams{
			In:         l.In(),
			Out:        l.Out(),
			Activation: l.Activation,
			Weights:    append([]float64(nil), w...),
			Biases:     append([]float64(nil), l.B...),
		}
	}
	return out
}

// FromParams rebuilds a network, checking that the layers chain and that
// every parameter is finite.
func FromParams(layers []LayerParams) (*Network, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("network has no layers")
	}
	if last := layers[len(layers)-1]; last.Out != 1 {
		return nil, fmt.Errorf("output layer must have 1 unit, has %d", last.Out)
	}

	n := &Network{Layers: make([]*Dense, len(layers))}
	for i, p := range layers {
		if p.In <= 0 || p.Out <= 0 {
			return nil, fmt.Errorf("layer %d: invalid shape %dx%d", i, p.In, p.Out)
		}
		if i > 0 && layers[i-1].Out != p.In {
			return nil, fmt.Errorf("layer %d: input %d does not match previous output %d", i, p.In, layers[i-1].Out)
		}
		if len(p.Weights) != p.In*p.Out || len(p.Biases) != p.Out {
			return nil, fmt.Errorf("layer %d: parameter count does not match shape %dx%d", i, p.In, p.Out)
		}
		if err := p.Activation.valid(); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if !allFinite(p.Weights) || !allFinite(p.Biases) {
			return nil, fmt.Errorf("layer %d: non-finite parameter", i)
		}

		n.Layers[i] = &Dense{
			W:          mat.NewDense(p.In, p.Out, append([]float64(nil), p.Weights...)),
			B:          append([]float64(nil), p.Biases...),
			Activation: p.Activation,
		}
	}
	return n, nil
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
