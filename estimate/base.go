// Package estimate provides the state estimates returned by filters.
package estimate

import (
	"fmt"

	filter "github.com/milosgajdos/go-track"
	"gonum.org/v1/gonum/mat"
)

// Base is state estimate: mean value and its covariance.
type Base struct {
	val *mat.VecDense
	cov *mat.SymDense
}

// NewBase returns estimate of val with zero covariance.
func NewBase(val mat.Vector) (*Base, error) {
	if val == nil {
		return nil, fmt.Errorf("invalid estimate value: %v", val)
	}

	return &Base{
		val: mat.VecDenseCopyOf(val),
		cov: mat.NewSymDense(val.Len(), nil),
	}, nil
}

// NewBaseWithCov returns estimate of val with covariance cov.
// It returns filter.DimError if cov is not val.Len() x val.Len().
func NewBaseWithCov(val mat.Vector, cov mat.Symmetric) (*Base, error) {
	if val == nil || cov == nil {
		return nil, fmt.Errorf("invalid estimate: val %v, cov %v", val, cov)
	}

	n := val.Len()
	if err := filter.CheckDims("estimate", "P", cov, n, n); err != nil {
		return nil, err
	}

	b := &Base{
		val: mat.VecDenseCopyOf(val),
		cov: mat.NewSymDense(n, nil),
	}
	b.cov.CopySym(cov)

	return b, nil
}

// Val returns a copy of the estimated value.
func (b *Base) Val() mat.Vector {
	return mat.VecDenseCopyOf(b.val)
}

// Cov returns a copy of the estimate covariance.
func (b *Base) Cov() mat.Symmetric {
	cov := mat.NewSymDense(b.cov.SymmetricDim(), nil)
	cov.CopySym(b.cov)

	return cov
}

func (b *Base) String() string {
	return fmt.Sprintf("Estimate{\nVal=%v\nCov=%v\n}",
		mat.Formatted(b.val.T(), mat.Squeeze()),
		mat.Formatted(b.cov, mat.Prefix("    "), mat.Squeeze()))
}
