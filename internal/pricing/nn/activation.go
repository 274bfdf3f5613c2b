package nn

import "fmt"

type Activation string

const (
	ReLU   Activation = "relu"
	Linear Activation = "linear"
)

func (a Activation) apply(x float64) float64 {
	if a == ReLU && x < 0 {
		return 0
	}
	return x
}

// derivative evaluated at the pre-activation value x.
func (a Activation) derivative(x float64) float64 {
	if a == ReLU {
		if x > 0 {
			return 1
		}
		return 0
	}
	return 1
}

func (a Activation) valid() error {
	switch a {
	case ReLU, Linear:
		return nil
	}
	return fmt.Errorf("unknown activation %q", a)
}
