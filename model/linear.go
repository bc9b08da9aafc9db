package model

import (
	"fmt"

	filter "github.com/milosgajdos/go-track"
	"gonum.org/v1/gonum/mat"
)

// Linear is a model of a linear, discrete-time, dynamical system:
//
//	x[k+1] = F*x[k] + w[k], w ~ N(0, Q)
//	z[k]   = H*x[k] + v[k]
//
// Its matrices are fixed when the model is created.
type Linear struct {
	// f is state transition matrix
	f *mat.Dense
	// q is process noise covariance
	q *mat.SymDense
	// h is measurement matrix
	h *mat.Dense
}

// NewLinear creates new Linear model and returns it.
// It accepts the following parameters:
//   - F: n x n state transition matrix
//   - Q: n x n process noise covariance; nil means no process noise
//   - H: m x n measurement matrix
//
// F and H are copied so the model is not affected by later changes to them.
// It returns error if any of the matrices is nil or has inconsistent dimensions.
func NewLinear(F mat.Matrix, Q mat.Symmetric, H mat.Matrix) (*Linear, error) {
	if F == nil || H == nil {
		return nil, fmt.Errorf("state transition and measurement matrices must be defined")
	}

	n, c := F.Dims()
	if n == 0 || n != c {
		return nil, filter.NewDimError("model", "F", n, c, n, n)
	}

	m, c := H.Dims()
	if m == 0 || c != n {
		return nil, filter.NewDimError("model", "H", m, c, max(m, 1), n)
	}

	q := mat.NewSymDense(n, nil)
	if Q != nil {
		if err := filter.CheckDims("model", "Q", Q, n, n); err != nil {
			return nil, err
		}
		q.CopySym(Q)
	}

	return &Linear{
		f: mat.DenseCopyOf(F),
		q: q,
		h: mat.DenseCopyOf(H),
	}, nil
}

// Propagate propagates state x to the next step: F*x.
// It returns error if x has invalid dimension.
func (l *Linear) Propagate(x mat.Vector) (mat.Vector, error) {
	n, _ := l.Dims()
	if x == nil {
		return nil, fmt.Errorf("invalid state vector")
	}

	if err := filter.CheckDims("propagate", "x", x, n, 1); err != nil {
		return nil, err
	}

	out := mat.NewVecDense(n, nil)
	out.MulVec(l.f, x)

	return out, nil
}

// Observe returns measurement predicted from state x: H*x.
// It returns error if x has invalid dimension.
func (l *Linear) Observe(x mat.Vector) (mat.Vector, error) {
	n, m := l.Dims()
	if x == nil {
		return nil, fmt.Errorf("invalid state vector")
	}

	if err := filter.CheckDims("observe", "x", x, n, 1); err != nil {
		return nil, err
	}

	out := mat.NewVecDense(m, nil)
	out.MulVec(l.h, x)

	return out, nil
}

// Dims returns state dimension n and measurement dimension m.
func (l *Linear) Dims() (n, m int) {
	n, _ = l.f.Dims()
	m, _ = l.h.Dims()

	return n, m
}

// StateMatrix returns a copy of state transition matrix F
func (l *Linear) StateMatrix() mat.Matrix {
	return mat.DenseCopyOf(l.f)
}

// StateNoise returns a copy of process noise covariance Q
func (l *Linear) StateNoise() mat.Symmetric {
	q := mat.NewSymDense(l.q.SymmetricDim(), nil)
	q.CopySym(l.q)

	return q
}

// OutputMatrix returns a copy of measurement matrix H
func (l *Linear) OutputMatrix() mat.Matrix {
	return mat.DenseCopyOf(l.h)
}

// String implements the Stringer interface.
func (l *Linear) String() string {
	return fmt.Sprintf("Linear{\nF=%v\nQ=%v\nH=%v\n}",
		mat.Formatted(l.f, mat.Prefix("  "), mat.Squeeze()),
		mat.Formatted(l.q, mat.Prefix("  "), mat.Squeeze()),
		mat.Formatted(l.h, mat.Prefix("  "), mat.Squeeze()))
}
