package noise

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Zero is noise which is always zero.
// It stands in for the noise of a system that is known exactly,
// such as the true target in a simulation.
type Zero struct {
	n int
}

// NewZero creates zero noise of dimension n.
// It returns error if n is not positive.
func NewZero(n int) (*Zero, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid noise dimension: %d", n)
	}

	return &Zero{n: n}, nil
}

// Sample returns zero vector.
func (z *Zero) Sample() mat.Vector {
	return mat.NewVecDense(z.n, nil)
}

// Cov returns zero covariance.
func (z *Zero) Cov() mat.Symmetric {
	return mat.NewSymDense(z.n, nil)
}

// Mean returns zero mean.
func (z *Zero) Mean() []float64 {
	return make([]float64, z.n)
}

// Reset is a no-op.
func (z *Zero) Reset() error { return nil }

func (z *Zero) String() string {
	return fmt.Sprintf("Zero{n=%d}", z.n)
}
