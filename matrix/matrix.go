package matrix

import (
	"fmt"

	gm "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Eye returns n x n identity matrix.
// It panics if n is not positive.
func Eye(n int) *mat.Dense {
	eye, err := gm.NewDenseValIdentity(n, 1.0)
	if err != nil {
		panic(err)
	}

	return eye
}

// DiagSym returns a symmetric matrix with vals on its diagonal.
// It panics if vals is empty.
func DiagSym(vals []float64) *mat.SymDense {
	s := mat.NewSymDense(len(vals), nil)
	for i, v := range vals {
		s.SetSym(i, i, v)
	}

	return s
}

// Symmetrize returns a symmetric matrix (m + m')/2.
// It returns error if m is not square.
func Symmetrize(m mat.Matrix) (*mat.SymDense, error) {
	r, c := m.Dims()
	if r != c {
		return nil, fmt.Errorf("invalid matrix dimensions: [%d x %d]", r, c)
	}

	s := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			s.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}

	return s, nil
}

// IsPosSemiDef checks if no eigenvalue of s is smaller than -tol.
func IsPosSemiDef(s mat.Symmetric, tol float64) bool {
	var eig mat.EigenSym
	if ok := eig.Factorize(s, false); !ok {
		return false
	}

	return floats.Min(eig.Values(nil)) >= -tol
}

// Diag returns a slice containing the diagonal of m.
// It panics if m is nil.
func Diag(m mat.Matrix) []float64 {
	r, c := m.Dims()
	n := min(r, c)

	diag := make([]float64, n)
	for i := range diag {
		diag[i] = m.At(i, i)
	}

	return diag
}
