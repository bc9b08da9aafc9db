package sim

import (
	"fmt"

	filter "github.com/milosgajdos/go-track"
	"gonum.org/v1/gonum/mat"
)

// InitCond is the filter starting point: prior state mean and its covariance.
type InitCond struct {
	x *mat.VecDense
	p *mat.SymDense
}

// NewInitCond copies prior state x and covariance p into a new InitCond.
// It returns filter.DimError if p is not x.Len() x x.Len().
func NewInitCond(x mat.Vector, p mat.Symmetric) (*InitCond, error) {
	if x == nil || p == nil {
		return nil, fmt.Errorf("invalid initial condition: state %v, covariance %v", x, p)
	}

	n := x.Len()
	if err := filter.CheckDims("init", "P", p, n, n); err != nil {
		return nil, err
	}

	ic := &InitCond{
		x: mat.VecDenseCopyOf(x),
		p: mat.NewSymDense(n, nil),
	}
	ic.p.CopySym(p)

	return ic, nil
}

// State returns a copy of the prior state.
func (c *InitCond) State() mat.Vector {
	return mat.VecDenseCopyOf(c.x)
}

// Cov returns a copy of the prior covariance.
func (c *InitCond) Cov() mat.Symmetric {
	p := mat.NewSymDense(c.p.SymmetricDim(), nil)
	p.CopySym(c.p)

	return p
}

func (c *InitCond) String() string {
	return fmt.Sprintf("InitCond{\nx=%v\nP=%v\n}",
		mat.Formatted(c.x.T(), mat.Prefix("  ")),
		mat.Formatted(c.p, mat.Prefix("  ")))
}
