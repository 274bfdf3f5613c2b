// Package nn implements the fixed feed-forward regressor used to predict
// project cost: Dense(64, relu) -> Dense(32, relu) -> Dense(1, linear).
package nn

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Hidden layer widths of the regressor.
const (
	Hidden1 = 64
	Hidden2 = 32
)

var ErrInputDim = errors.New("input dimension mismatch")

// Dense is a fully connected layer computing act(x·W + b).
type Dense struct {
	W          *mat.Dense // in x out
	B          []float64  // out
	Activation Activation
}

func (d *Dense) In() int  { r, _ := d.W.Dims(); return r }
func (d *Dense) Out() int { _, c := d.W.Dims(); return c }

type Network struct {
	Layers []*Dense
}

// Build constructs the regressor for inputDim features with Glorot-uniform
// weights and zero biases.
func Build(inputDim int, rng *rand.Rand) *Network {
	sizes := []int{inputDim, Hidden1, Hidden2, 1}
	acts := []Activation{ReLU, ReLU, Linear}

	n := &Network{Layers: make([]*Dense, len(acts))}
	for i, act := range acts {
		in, out := sizes[i], sizes[i+1]
		limit := math.Sqrt(6 / float64(in+out))
		w := make([]float64, in*out)
		for j := range w {
			w[j] = (rng.Float64()*2 - 1) * limit
		}
		n.Layers[i] = &Dense{
			W:          mat.NewDense(in, out, w),
			B:          make([]float64, out),
			Activation: act,
		}
	}
	return n
}

func (n *Network) InputDim() int { return n.Layers[0].In() }

// forward runs a batch through the network and keeps every layer's
// pre-activation (zs) and activation (as). as[0] is the input.
func (n *Network) forward(X *mat.Dense) (zs, as []*mat.Dense) {
	as = make([]*mat.Dense, 0, len(n.Layers)+1)
	zs = make([]*mat.Dense, 0, len(n.Layers))
	as = append(as, X)

	a := X
	for _, l := range n.Layers {
		z := new(mat.Dense)
		z.Mul(a, l.W)
		addBias(z, l.B)

		next := new(mat.Dense)
		act := l.Activation
		next.Apply(func(_, _ int, v float64) float64 { return act.apply(v) }, z)

		zs = append(zs, z)
		as = append(as, next)
		a = next
	}
	return zs, as
}

// Predict returns one output per row of X.
func (n *Network) Predict(X [][]float64) ([]float64, error) {
	if len(X) == 0 {
		return nil, nil
	}
	m, err := toMatrix(X, n.InputDim())
	if err != nil {
		return nil, err
	}
	_, as := n.forward(m)
	return mat.Col(nil, 0, as[len(as)-1]), nil
}

// PredictOne runs inference on a single feature vector.
func (n *Network) PredictOne(x []float64) (float64, error) {
	out, err := n.Predict([][]float64{x})
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("expected a single output, got %d", len(out))
	}
	return out[0], nil
}

type layerGrad struct {
	dW *mat.Dense
	dB []float64
}

// gradients returns the MSE loss of the batch and the gradient of that loss
// with respect to every layer's parameters.
func (n *Network) gradients(X *mat.Dense, y []float64) (float64, []layerGrad) {
	zs, as := n.forward(X)
	yhat := as[len(as)-1]
	rows, _ := yhat.Dims()

	loss := 0.0
	delta := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		e := yhat.At(i, 0) - y[i]
		loss += e * e
		delta.Set(i, 0, 2*e/float64(rows))
	}
	loss /= float64(rows)

	grads := make([]layerGrad, len(n.Layers))
	dA := delta
	for li := len(n.Layers) - 1; li >= 0; li-- {
		l := n.Layers[li]
		z := zs[li]

		dZ := new(mat.Dense)
		act := l.Activation
		dZ.Apply(func(i, j int, v float64) float64 { return v * act.derivative(z.At(i, j)) }, dA)

		dW := new(mat.Dense)
		dW.Mul(as[li].T(), dZ)

		r, c := dZ.Dims()
		dB := make([]float64, c)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				dB[j] += dZ.At(i, j)
			}
		}
		grads[li] = layerGrad{dW: dW, dB: dB}

		if li > 0 {
			prev := new(mat.Dense)
			prev.Mul(dZ, l.W.T())
			dA = prev
		}
	}
	return loss, grads
}

func addBias(z *mat.Dense, b []float64) {
	r, c := z.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			z.Set(i, j, z.At(i, j)+b[j])
		}
	}
}

func toMatrix(X [][]float64, cols int) (*mat.Dense, error) {
	data := make([]float64, 0, len(X)*cols)
	for i, row := range X {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d features, network expects %d", ErrInputDim, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(X), cols, data), nil
}
