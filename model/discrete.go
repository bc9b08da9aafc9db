package model

import (
	"fmt"

	filter "github.com/milosgajdos/go-track"
	"gonum.org/v1/gonum/mat"
)

// Discretize converts continuous-time dynamics dx/dt = A*x + w, w ~ N(0, Qc)
// sampled with period dt into the discrete-time transition matrix F and
// process noise covariance Q using Van Loan's method:
//
//	M = [ -A  Qc ] * dt     exp(M) = [ . F^-1*Q ]
//	    [  0  A' ]                   [ 0   F'   ]
//
// Qc may be nil in which case the returned Q is zero.
// It returns error if A is not square, Qc does not match A or dt is not positive.
func Discretize(A mat.Matrix, Qc mat.Symmetric, dt float64) (*mat.Dense, *mat.SymDense, error) {
	if A == nil {
		return nil, nil, fmt.Errorf("system matrix must be defined")
	}

	if dt <= 0 {
		return nil, nil, fmt.Errorf("invalid sampling period: %v", dt)
	}

	n, c := A.Dims()
	if n == 0 || n != c {
		return nil, nil, filter.NewDimError("discretize", "A", n, c, n, n)
	}

	if Qc != nil {
		if err := filter.CheckDims("discretize", "Qc", Qc, n, n); err != nil {
			return nil, nil, err
		}
	}

	m := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, -A.At(i, j)*dt)
			m.Set(n+i, n+j, A.At(j, i)*dt)
			if Qc != nil {
				m.Set(i, n+j, Qc.At(i, j)*dt)
			}
		}
	}

	e := &mat.Dense{}
	e.Exp(m)

	// F = (exp(M)[n:,n:])'
	F := mat.DenseCopyOf(e.Slice(n, 2*n, n, 2*n).T())

	// Q = F * exp(M)[:n,n:]
	q := &mat.Dense{}
	q.Mul(F, e.Slice(0, n, n, 2*n))

	Q := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			Q.SetSym(i, j, 0.5*(q.At(i, j)+q.At(j, i)))
		}
	}

	return F, Q, nil
}

// NewConstantVelocity creates a 1-D constant velocity model with state [position, velocity]
// sampled with period dt and measuring the position only.
// q is the spectral density of the white acceleration noise; zero q means the motion model is exact.
// The matrices are the closed form of Discretize applied to A = [0 1; 0 0]:
//
//	F = [1 dt]  Q = q * [dt^3/3 dt^2/2]  H = [1 0]
//	    [0  1]          [dt^2/2     dt]
//
// It returns error if dt is not positive or q is negative.
func NewConstantVelocity(dt, q float64) (*Linear, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("invalid sampling period: %v", dt)
	}

	if q < 0 {
		return nil, fmt.Errorf("invalid process noise intensity: %v", q)
	}

	F := mat.NewDense(2, 2, []float64{1.0, dt, 0.0, 1.0})
	Q := mat.NewSymDense(2, []float64{
		q * dt * dt * dt / 3, q * dt * dt / 2,
		q * dt * dt / 2, q * dt,
	})
	H := mat.NewDense(1, 2, []float64{1.0, 0.0})

	return NewLinear(F, Q, H)
}
