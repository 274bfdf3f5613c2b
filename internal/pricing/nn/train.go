package nn

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrDiverged      = errors.New("training diverged")
	ErrEmptyTrainSet = errors.New("empty training set")
)

type TrainOptions struct {
	Epochs       int
	BatchSize    int
	LearningRate float64

	// OnEpoch, when set, is called after every epoch.
	OnEpoch func(EpochMetrics)
}

func DefaultTrainOptions() TrainOptions {
	return TrainOptions{Epochs: 50, BatchSize: 32, LearningRate: 0.001}
}

// EpochMetrics reports MSE loss and MAE on both splits. Validation values are
// zero when there is no validation set.
type EpochMetrics struct {
	Epoch   int     `json:"epoch"`
	Loss    float64 `json:"loss"`
	MAE     float64 `json:"mae"`
	ValLoss float64 `json:"val_loss,omitempty"`
	ValMAE  float64 `json:"val_mae,omitempty"`
}

type History []EpochMetrics

// Last returns the metrics of the final epoch.
func (h History) Last() EpochMetrics {
	if len(h) == 0 {
		return EpochMetrics{}
	}
	return h[len(h)-1]
}

// Train fits net in place with mini-batch Adam on MSE. Batches are taken in
// dataset order. There is no early stopping: the run either completes every
// epoch or returns an error, and the caller must discard net on error.
func Train(ctx context.Context, net *Network, train, validation Dataset, opts TrainOptions) (History, error) {
	if train.Len() == 0 {
		return nil, ErrEmptyTrainSet
	}
	if opts.Epochs <= 0 {
		opts.Epochs = 1
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 32
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = 0.001
	}

	X, err := toMatrix(train.X, net.InputDim())
	if err != nil {
		return nil, err
	}
	if validation.Len() > 0 {
		if _, err := toMatrix(validation.X, net.InputDim()); err != nil {
			return nil, err
		}
	}

	opt := NewAdam(opts.LearningRate)
	params := net.params()
	windows := batches(train.Len(), opts.BatchSize)
	history := make(History, 0, opts.Epochs)

	for epoch := 1; epoch <= opts.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return history, err
		}

		sumLoss := 0.0
		for _, w := range windows {
			xb := X.Slice(w[0], w[1], 0, net.InputDim()).(*mat.Dense)
			loss, grads := net.gradients(xb, train.Y[w[0]:w[1]])
			if math.IsNaN(loss) || math.IsInf(loss, 0) {
				return history, fmt.Errorf("%w at epoch %d", ErrDiverged, epoch)
			}
			sumLoss += loss * float64(w[1]-w[0])
			opt.step(params, flattenGrads(grads))
		}

		m := EpochMetrics{Epoch: epoch, Loss: sumLoss / float64(train.Len())}
		m.MAE, _ = Evaluate(net, train)
		if validation.Len() > 0 {
			m.ValMAE, m.ValLoss = Evaluate(net, validation)
		}
		if math.IsNaN(m.MAE) || math.IsInf(m.MAE, 0) {
			return history, fmt.Errorf("%w at epoch %d", ErrDiverged, epoch)
		}

		history = append(history, m)
		if opts.OnEpoch != nil {
			opts.OnEpoch(m)
		}
	}
	return history, nil
}

// Evaluate returns MAE and MSE of net over d.
func Evaluate(net *Network, d Dataset) (mae, mse float64) {
	if d.Len() == 0 {
		return 0, 0
	}
	pred, err := net.Predict(d.X)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	for i, p := range pred {
		e := p - d.Y[i]
		mae += math.Abs(e)
		mse += e * e
	}
	n := float64(d.Len())
	return mae / n, mse / n
}

func (n *Network) params() [][]float64 {
	out := make([][]float64, 0, 2*len(n.Layers))
	for _, l := range n.Layers {
		out = append(out, l.W.RawMatrix().Data, l.B)
	}
	return out
}

func flattenGrads(grads []layerGrad) [][]float64 {
	out := make([][]float64, 0, 2*len(grads))
	for _, g := range grads {
		out = append(out, g.dW.RawMatrix().Data, g.dB)
	}
	return out
}
