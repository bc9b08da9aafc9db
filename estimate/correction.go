package estimate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Correction is an estimate produced by a measurement update.
// Apart from the corrected value and covariance it carries the
// innovation, innovation covariance and gain used to compute them.
type Correction struct {
	*Base
	// inn is innovation vector
	inn *mat.VecDense
	// s is innovation covariance
	s *mat.SymDense
	// k is the gain
	k *mat.Dense
}

// NewCorrection creates new Correction and returns it.
// It returns error if the dimensions of the supplied values are not consistent:
// val and cov must be of size n, inn and s of size m and gain must be n x m.
func NewCorrection(val mat.Vector, cov mat.Symmetric, inn mat.Vector, s mat.Symmetric, gain mat.Matrix) (*Correction, error) {
	base, err := NewBaseWithCov(val, cov)
	if err != nil {
		return nil, err
	}

	if inn == nil || s == nil || gain == nil {
		return nil, fmt.Errorf("invalid correction: inn %v, s %v, gain %v", inn, s, gain)
	}

	n, m := val.Len(), inn.Len()
	if s.SymmetricDim() != m {
		return nil, fmt.Errorf("invalid innovation covariance dimensions: %d x %d", s.SymmetricDim(), s.SymmetricDim())
	}

	if r, c := gain.Dims(); r != n || c != m {
		return nil, fmt.Errorf("invalid gain dimensions: %d x %d", r, c)
	}

	i := &mat.VecDense{}
	i.CloneFromVec(inn)

	sc := mat.NewSymDense(m, nil)
	sc.CopySym(s)

	return &Correction{
		Base: base,
		inn:  i,
		s:    sc,
		k:    mat.DenseCopyOf(gain),
	}, nil
}

// Innovation returns innovation vector z - H*x
func (c *Correction) Innovation() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(c.inn)

	return v
}

// InnovationCov returns innovation covariance H*P*H' + R
func (c *Correction) InnovationCov() mat.Symmetric {
	s := mat.NewSymDense(c.s.SymmetricDim(), nil)
	s.CopySym(c.s)

	return s
}

// Gain returns the gain
func (c *Correction) Gain() mat.Matrix {
	return mat.DenseCopyOf(c.k)
}

// NIS returns the normalized innovation squared inn' * S^-1 * inn.
// For a consistent filter it is chi-square distributed with m degrees of freedom.
// It returns error if the innovation covariance is not positive definite.
func (c *Correction) NIS() (float64, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(c.s); !ok {
		return 0, fmt.Errorf("innovation covariance is not positive definite")
	}

	v := mat.NewVecDense(c.inn.Len(), nil)
	if err := chol.SolveVecTo(v, c.inn); err != nil {
		return 0, err
	}

	return mat.Dot(c.inn, v), nil
}
