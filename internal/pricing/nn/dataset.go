package nn

import (
	"math"
	"math/rand"
)

// Dataset pairs feature rows with regression targets.
type Dataset struct {
	X [][]float64
	Y []float64
}

func (d Dataset) Len() int { return len(d.X) }

// SplitTrainTest shuffles with a seeded source and holds out
// ceil(testRatio*n) rows for validation.
func SplitTrainTest(X [][]float64, y []float64, testRatio float64, seed int64) (train, test Dataset) {
	n := len(X)
	nTest := int(math.Ceil(testRatio * float64(n)))
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	for i, idx := range perm {
		if i < nTest {
			test.X = append(test.X, X[idx])
			test.Y = append(test.Y, y[idx])
		} else {
			train.X = append(train.X, X[idx])
			train.Y = append(train.Y, y[idx])
		}
	}
	return train, test
}

// batches yields [start, end) windows of at most size rows, in order.
func batches(n, size int) [][2]int {
	out := make([][2]int, 0, (n+size-1)/size)
	for s := 0; s < n; s += size {
		e := s + size
		if e > n {
			e = n
		}
		out = append(out, [2]int{s, e})
	}
	return out
}
